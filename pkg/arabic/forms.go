// forms.go — Presentation-form table derived from Unicode character data.
package arabic

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/runenames"
)

// form indexes the positional variants of a letter.
type form int

const (
	formNone form = -1
	formIsol form = 0
	formFina form = 1
	formInit form = 2
	formMedi form = 3

	formCount = 4
)

func (f form) String() string {
	switch f {
	case formIsol:
		return "isol"
	case formFina:
		return "fina"
	case formInit:
		return "init"
	case formMedi:
		return "medi"
	}
	return "none"
}

// forms holds the presentation codepoint of each positional variant, 0 if absent.
type forms [formCount]rune

var (
	formsOnce sync.Once
	formTable map[rune]forms
)

// presentationForms returns the table keyed by nominal letter.
func presentationForms() map[rune]forms {
	formsOnce.Do(func() {
		formTable = buildFormTable()
		tracer().Debugf("presentation-form table holds %d letters", len(formTable))
	})
	return formTable
}

// buildFormTable scans the presentation-form blocks. A codepoint counts when
// its name ends in "<position> FORM" and its compatibility composition is a
// single letter; ligatures and spacing harakat drop out on the second test.
// Forms-B goes first so the basic alphabet keeps its canonical forms.
func buildFormTable() map[rune]forms {
	table := make(map[rune]forms, 160)
	scan := func(from, to rune) {
		for u := from; u <= to; u++ {
			f, ok := formFromName(runenames.Name(u))
			if !ok {
				continue
			}
			base := []rune(norm.NFKC.String(string(u)))
			if len(base) != 1 || !isArabicLetter(base[0]) {
				continue
			}
			entry := table[base[0]]
			if entry[f] == 0 {
				entry[f] = u
				table[base[0]] = entry
			}
		}
	}
	scan(0xFE70, 0xFEFF) // Arabic Presentation Forms-B
	scan(0xFB50, 0xFDFF) // Arabic Presentation Forms-A
	return table
}

func formFromName(name string) (form, bool) {
	if !strings.HasPrefix(name, "ARABIC ") {
		return formNone, false
	}
	switch {
	case strings.HasSuffix(name, " ISOLATED FORM"):
		return formIsol, true
	case strings.HasSuffix(name, " FINAL FORM"):
		return formFina, true
	case strings.HasSuffix(name, " INITIAL FORM"):
		return formInit, true
	case strings.HasSuffix(name, " MEDIAL FORM"):
		return formMedi, true
	}
	return formNone, false
}

// lamAlef maps an alef variant to its ligature with a preceding lam,
// isolated and final.
var lamAlef = map[rune][2]rune{
	'\u0622': {'\uFEF5', '\uFEF6'}, // alef with madda above
	'\u0623': {'\uFEF7', '\uFEF8'}, // alef with hamza above
	'\u0625': {'\uFEF9', '\uFEFA'}, // alef with hamza below
	'\u0627': {'\uFEFB', '\uFEFC'}, // alef
}

const (
	lam     = '\u0644'
	tatweel = '\u0640'
	zwnj    = '\u200C'
	zwj     = '\u200D'
)
