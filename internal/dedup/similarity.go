package dedup

import (
	"regexp"
	"strings"
)

var seasonShorthandRe = regexp.MustCompile(`^s\d+$`)

// StringSimilarity computes a normalized edit-distance similarity
// between two titles in [0, 1]. Both inputs are normalized first; a
// blank normalized title never matches anything, including another
// blank title, so two records that both lack titles are not merged on
// that basis alone.
func (e *Engine) StringSimilarity(a, b string) float64 {
	na := e.Normalize(a)
	nb := e.Normalize(b)

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	ra := []rune(na)
	rb := []rune(nb)
	dist := levenshtein(ra, rb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1 - float64(dist)/float64(maxLen)
}

// levenshtein is the full dynamic-programming edit distance with unit
// cost for insertions, deletions and substitutions. No approximations:
// the thresholds in the duplicate cascade assume exact distances.
func levenshtein(a, b []rune) int {
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}
	return matrix[len(a)][len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// CoreTokens normalizes a title and returns its significant tokens:
// pure digits, season shorthand (s2) and stop words are dropped. The
// resulting sets feed Jaccard overlap, which tolerates word-order and
// translation differences ("Boku no Hero" vs "My Hero").
func (e *Engine) CoreTokens(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(e.Normalize(s)) {
		if isDigits(tok) {
			continue
		}
		if seasonShorthandRe.MatchString(tok) {
			continue
		}
		if _, stop := e.stopWords[tok]; stop {
			continue
		}
		tokens[tok] = struct{}{}
	}
	return tokens
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
