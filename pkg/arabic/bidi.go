// bidi.go — Embedding-level resolution and visual reordering.
package arabic

import (
	"golang.org/x/text/unicode/bidi"
)

// level is a bidi embedding level. Even levels run left to right.
type level int8

func (l level) odd() bool { return l%2 == 1 }

func (l level) direction() bidi.Direction {
	if l.odd() {
		return bidi.RightToLeft
	}
	return bidi.LeftToRight
}

// classOf returns the bidi class of r as published by x/text.
func classOf(r rune) bidi.Class {
	p, _ := bidi.LookupRune(r)
	return p.Class()
}

// isRemovedByX9 reports classes that take no part in level resolution.
// Explicit embeddings and isolates are not supported; their controls are
// dropped like boundary neutrals.
func isRemovedByX9(c bidi.Class) bool {
	switch c {
	case bidi.BN, bidi.LRE, bidi.RLE, bidi.LRO, bidi.RLO, bidi.PDF,
		bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
		return true
	}
	return false
}

// paragraphLevel chooses the base level from the script hint, or from the
// first strong character when the hint is Auto.
func paragraphLevel(classes []bidi.Class, hint Script) level {
	switch hint {
	case Arabic:
		return 1
	case Latin:
		return 0
	}
	for _, c := range classes {
		switch c {
		case bidi.L:
			return 0
		case bidi.R, bidi.AL:
			return 1
		}
	}
	return 0
}

func isNeutral(c bidi.Class) bool {
	return c == bidi.B || c == bidi.S || c == bidi.WS || c == bidi.ON
}

// strongDirection maps resolved classes onto L or R for the neutral rules.
// Numbers count as R.
func strongDirection(c bidi.Class) bidi.Class {
	if c == bidi.L {
		return bidi.L
	}
	return bidi.R
}

// resolveLevels runs the weak, neutral and implicit rules over a single
// line at the given base level and returns one level per character.
func resolveLevels(classes []bidi.Class, base level) []level {
	n := len(classes)
	types := make([]bidi.Class, n)
	copy(types, classes)
	sos := bidi.L
	if base.odd() {
		sos = bidi.R
	}
	eos := sos

	// W1: non-spacing marks take the type of what precedes them.
	for i := range types {
		if types[i] == bidi.NSM {
			if i == 0 {
				types[i] = sos
			} else {
				types[i] = types[i-1]
			}
		}
	}
	// W2: European numbers in Arabic context become Arabic numbers.
	lastStrong := sos
	for i, t := range types {
		switch t {
		case bidi.L, bidi.R, bidi.AL:
			lastStrong = t
		case bidi.EN:
			if lastStrong == bidi.AL {
				types[i] = bidi.AN
			}
		}
	}
	// W3
	for i, t := range types {
		if t == bidi.AL {
			types[i] = bidi.R
		}
	}
	// W4: single separators between numbers of the same kind.
	for i := 1; i < n-1; i++ {
		prev, next := types[i-1], types[i+1]
		switch types[i] {
		case bidi.ES:
			if prev == bidi.EN && next == bidi.EN {
				types[i] = bidi.EN
			}
		case bidi.CS:
			if prev == next && (prev == bidi.EN || prev == bidi.AN) {
				types[i] = prev
			}
		}
	}
	// W5: terminators next to European numbers.
	for i := 0; i < n; {
		if types[i] != bidi.ET {
			i++
			continue
		}
		j := i
		for j < n && types[j] == bidi.ET {
			j++
		}
		if (i > 0 && types[i-1] == bidi.EN) || (j < n && types[j] == bidi.EN) {
			for k := i; k < j; k++ {
				types[k] = bidi.EN
			}
		}
		i = j
	}
	// W6
	for i, t := range types {
		if t == bidi.ES || t == bidi.ET || t == bidi.CS {
			types[i] = bidi.ON
		}
	}
	// W7: European numbers in Latin context become L.
	lastStrong = sos
	for i, t := range types {
		switch t {
		case bidi.L, bidi.R:
			lastStrong = t
		case bidi.EN:
			if lastStrong == bidi.L {
				types[i] = bidi.L
			}
		}
	}
	// N1, N2: neutral runs take the surrounding direction if both sides
	// agree, the embedding direction otherwise.
	for i := 0; i < n; {
		if !isNeutral(types[i]) {
			i++
			continue
		}
		j := i
		for j < n && isNeutral(types[j]) {
			j++
		}
		leading := sos
		if i > 0 {
			leading = strongDirection(types[i-1])
		}
		trailing := eos
		if j < n {
			trailing = strongDirection(types[j])
		}
		dir := leading
		if leading != trailing {
			dir = sos
		}
		for k := i; k < j; k++ {
			types[k] = dir
		}
		i = j
	}
	// I1, I2
	levels := make([]level, n)
	for i, t := range types {
		l := base
		if !base.odd() {
			switch t {
			case bidi.R:
				l++
			case bidi.AN, bidi.EN:
				l += 2
			}
		} else {
			switch t {
			case bidi.L, bidi.EN, bidi.AN:
				l++
			}
		}
		levels[i] = l
	}
	// L1: separators and trailing whitespace fall back to the base level.
	trailing := true
	for i := n - 1; i >= 0; i-- {
		switch classes[i] {
		case bidi.S, bidi.B:
			levels[i] = base
			trailing = true
		case bidi.WS:
			if trailing {
				levels[i] = base
			}
		default:
			trailing = false
		}
	}
	return levels
}

// levelRun is a maximal stretch of characters sharing one level.
type levelRun struct {
	text  []rune
	level level
}

func splitRuns(runes []rune, levels []level) []levelRun {
	var runs []levelRun
	for i := 0; i < len(runes); {
		j := i + 1
		for j < len(runes) && levels[j] == levels[i] {
			j++
		}
		runs = append(runs, levelRun{text: runes[i:j], level: levels[i]})
		i = j
	}
	return runs
}

// reorderRuns applies L2: from the highest level down to the lowest odd
// level, every maximal sequence of runs at that level or above is reversed.
func reorderRuns(runs []levelRun) {
	if len(runs) == 0 {
		return
	}
	lo, hi := runs[0].level, runs[0].level
	for _, r := range runs[1:] {
		if r.level < lo {
			lo = r.level
		}
		if r.level > hi {
			hi = r.level
		}
	}
	if !lo.odd() {
		lo++
	}
	for l := hi; l >= lo; l-- {
		for i := 0; i < len(runs); {
			if runs[i].level < l {
				i++
				continue
			}
			j := i
			for j < len(runs) && runs[j].level >= l {
				j++
			}
			for a, b := i, j-1; a < b; a, b = a+1, b-1 {
				runs[a], runs[b] = runs[b], runs[a]
			}
			i = j
		}
	}
}

// visualRuns resolves levels for a shaped line and returns its runs in
// display order. Right-to-left runs are reversed with mirrored brackets.
func visualRuns(shaped string, hint Script) []Run {
	var runes []rune
	var classes []bidi.Class
	for _, r := range shaped {
		c := classOf(r)
		if isRemovedByX9(c) {
			continue
		}
		runes = append(runes, r)
		classes = append(classes, c)
	}
	base := paragraphLevel(classes, hint)
	if len(runes) == 0 {
		return []Run{{Text: "", Direction: base.direction()}}
	}
	runs := splitRuns(runes, resolveLevels(classes, base))
	reorderRuns(runs)
	out := make([]Run, len(runs))
	for i, r := range runs {
		text := string(r.text)
		if r.level.odd() {
			text = bidi.ReverseString(text)
		}
		out[i] = Run{Text: text, Direction: r.level.direction()}
	}
	return out
}
