// shaper.go — Public entry points: Shape and Visual.
package arabic

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// Script is a hint for the base direction of a string.
type Script int

const (
	// Auto takes the direction of the first strong character, LTR if none.
	Auto Script = iota
	// Latin forces a left-to-right paragraph.
	Latin
	// Arabic forces a right-to-left paragraph.
	Arabic
)

func (s Script) String() string {
	switch s {
	case Latin:
		return "latin"
	case Arabic:
		return "arabic"
	}
	return "auto"
}

// Run is a piece of display text in visual order. Text is already reversed
// for right-to-left runs, so it is drawn left to right as is.
type Run struct {
	Text      string
	Direction bidi.Direction
}

// ContainsArabic reports whether text holds any codepoint of the Arabic script.
func ContainsArabic(text string) bool {
	for _, r := range text {
		if isArabic(r) {
			return true
		}
	}
	return false
}

// Shape converts logical text into display runs ordered left to right.
// Text without Arabic codepoints comes back unchanged as a single LTR run.
// Shape never fails; characters it does not know are passed through.
func Shape(text string, hint Script) []Run {
	if !ContainsArabic(text) {
		return []Run{{Text: text, Direction: bidi.LeftToRight}}
	}
	runs := visualRuns(join(text), hint)
	tracer().Debugf("shaped %q into %d run(s)", text, len(runs))
	return runs
}

// Visual concatenates the runs of Shape into one drawable string.
func Visual(text string, hint Script) string {
	runs := Shape(text, hint)
	if len(runs) == 1 {
		return runs[0].Text
	}
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
