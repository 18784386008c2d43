// joining.go — Contextual joining of Arabic letters.
package arabic

import (
	"unicode"
)

// joiningType classifies how a character connects to its neighbours.
type joiningType uint8

const (
	joinNone        joiningType = iota // U: does not join
	joinRight                          // R: joins the preceding letter only
	joinDual                           // D: joins on both sides
	joinCausing                        // C: forces neighbours to join (tatweel, ZWJ)
	joinTransparent                    // T: skipped when looking for neighbours
)

// isArabicLetter reports whether r is a letter of the Arabic blocks that has
// positional forms.
func isArabicLetter(r rune) bool {
	return unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r)
}

// isArabic reports whether r falls in one of the Arabic script ranges,
// presentation forms included.
func isArabic(r rune) bool {
	return unicode.Is(unicode.Arabic, r)
}

// isHaraka reports whether r is an Arabic vowel mark. Vowel marks are
// dropped from shaped output.
func isHaraka(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670
}

func joiningTypeOf(r rune) joiningType {
	switch {
	case r == zwnj:
		return joinNone
	case r == zwj || r == tatweel:
		return joinCausing
	case unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r):
		return joinTransparent
	}
	f, ok := presentationForms()[r]
	if !ok {
		return joinNone
	}
	if f[formInit] != 0 && f[formMedi] != 0 {
		return joinDual
	}
	if f[formFina] != 0 {
		return joinRight
	}
	return joinNone
}

// joinsForward reports whether a character of type t connects to the letter after it.
func (t joiningType) joinsForward() bool {
	return t == joinDual || t == joinCausing
}

// joinsBackward reports whether a character of type t connects to the letter before it.
func (t joiningType) joinsBackward() bool {
	return t == joinDual || t == joinRight || t == joinCausing
}

// resolveForms picks the positional form of every character in logical order.
// Positions that take no form are set to formNone.
func resolveForms(runes []rune) []form {
	types := make([]joiningType, len(runes))
	for i, r := range runes {
		types[i] = joiningTypeOf(r)
	}
	neighbour := func(i, step int) joiningType {
		for j := i + step; j >= 0 && j < len(runes); j += step {
			if types[j] != joinTransparent {
				return types[j]
			}
		}
		return joinNone
	}
	forms := make([]form, len(runes))
	for i, t := range types {
		if t != joinDual && t != joinRight {
			forms[i] = formNone
			continue
		}
		prev := t.joinsBackward() && neighbour(i, -1).joinsForward()
		next := t.joinsForward() && neighbour(i, +1).joinsBackward()
		switch {
		case prev && next:
			forms[i] = formMedi
		case prev:
			forms[i] = formFina
		case next:
			forms[i] = formInit
		default:
			forms[i] = formIsol
		}
	}
	return forms
}

// join replaces the Arabic letters of text by their presentation forms,
// keeping logical order. Lam followed by an alef variant becomes a single
// ligature. Vowel marks and joiner controls are removed.
func join(text string) string {
	runes := []rune(text)
	forms := resolveForms(runes)
	table := presentationForms()
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if isHaraka(r) || r == zwj || r == zwnj {
			continue
		}
		if r == lam && (forms[i] == formInit || forms[i] == formMedi) {
			if j, lig, ok := ligatureAt(runes, i); ok {
				if forms[i] == formMedi {
					out = append(out, lig[1])
				} else {
					out = append(out, lig[0])
				}
				out = appendMarks(out, runes[i+1:j])
				i = j
				continue
			}
		}
		out = append(out, present(table, r, forms[i]))
	}
	return string(out)
}

// ligatureAt looks past transparent marks for an alef following the lam at i.
func ligatureAt(runes []rune, i int) (int, [2]rune, bool) {
	for j := i + 1; j < len(runes); j++ {
		if joiningTypeOf(runes[j]) == joinTransparent {
			continue
		}
		lig, ok := lamAlef[runes[j]]
		return j, lig, ok
	}
	return 0, [2]rune{}, false
}

// appendMarks keeps the non-vowel marks that sat between lam and alef.
func appendMarks(out []rune, marks []rune) []rune {
	for _, m := range marks {
		if !isHaraka(m) {
			out = append(out, m)
		}
	}
	return out
}

// present returns the presentation codepoint for r in form f, falling back
// to the isolated form and then to r itself.
func present(table map[rune]forms, r rune, f form) rune {
	if f == formNone {
		return r
	}
	entry, ok := table[r]
	if !ok {
		return r
	}
	if entry[f] != 0 {
		return entry[f]
	}
	if entry[formIsol] != 0 {
		return entry[formIsol]
	}
	return r
}
