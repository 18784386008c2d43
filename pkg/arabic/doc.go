/*
Package arabic prepares mixed Latin/Arabic strings for drawing primitives that
only know how to place glyphs from left to right.

Shaping happens in two steps. First every Arabic letter is replaced by the
presentation form (isolated, initial, medial or final) its neighbours call
for, with the mandatory Lam-Alef ligatures applied. Then the bidirectional
algorithm resolves embedding levels and reorders the runs into visual order.
The result can be handed to font.Drawer as is.

Text without Arabic codepoints is returned untouched.

Shaping is a pure function. The presentation-form table is derived once from
the Unicode character names shipped with golang.org/x/text and is read-only
afterwards.
*/
package arabic

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'laylacards.arabic'.
func tracer() tracing.Trace {
	return tracing.Select("laylacards.arabic")
}
