// Package simplify maps free-text names to the slugs used as the readable
// half of generated entry ids.
package simplify

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Simplify returns a lowercase slug for name: diacritics on Latin letters
// are removed, "&" reads as "and", apostrophes vanish and every other run
// of non letter/digit characters collapses to a single "-". Letters from
// other scripts are kept as they are. The result is deterministic and may
// be empty when name has no letters or digits.
func Simplify(name string) string {
	s := strings.ReplaceAll(name, "&", " and ")
	s = cases.Lower(language.Und).String(s)
	s = stripLatinMarks(s)

	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		switch {
		case isApostrophe(r):
			continue
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r):
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}

// stripLatinMarks drops combining marks that follow a Latin base letter.
// Marks on other scripts carry meaning (vowel signs, viramas, dakuten) and
// are kept.
func stripLatinMarks(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	latinBase := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			if latinBase {
				continue
			}
		} else {
			latinBase = unicode.Is(unicode.Latin, r)
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

func isApostrophe(r rune) bool {
	switch r {
	case '\'', '’', 'ʼ', '`':
		return true
	}
	return false
}
