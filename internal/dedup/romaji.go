package dedup

import "strings"

// IsRomanizedJapanese reports whether a title reads like romanized
// Japanese rather than a localized title. It matches either an exact
// grammatical particle / honorific token (no, wa, ga, ...) or one of a
// fixed set of patterns for common romanized pronouns and suffixes.
// Used to relax similarity thresholds, since transliteration variance
// is expected between romanized forms.
func (e *Engine) IsRomanizedJapanese(title string) bool {
	if title == "" {
		return false
	}
	lower := strings.ToLower(title)

	for _, tok := range strings.Fields(lower) {
		if _, ok := e.particles[tok]; ok {
			return true
		}
	}

	for _, re := range e.romajiRes {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}
