package dedup

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a free-text title into a comparable form:
// Unicode compatibility normalization, lowercase, full-width space
// folded to a plain space, everything that is not a letter, digit or
// whitespace stripped, filler tokens and season/part markers removed,
// whitespace collapsed. Equal titles (modulo these transforms) always
// normalize identically, which is the basis for exact-match comparison.
//
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func (e *Engine) Normalize(title string) string {
	if title == "" {
		return ""
	}

	s := norm.NFKC.String(title)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "　", " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s = b.String()

	s = e.fillerRe.ReplaceAllString(s, " ")
	s = e.markerRe.ReplaceAllString(s, " ")

	return strings.Join(strings.Fields(s), " ")
}
