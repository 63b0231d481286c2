package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSimilarityIdentity(t *testing.T) {
	e := New(DefaultConfig())

	for _, s := range []string{"Naruto", "Attack on Titan", "Boku no Hero Academia"} {
		assert.Equal(t, 1.0, e.StringSimilarity(s, s))
	}
}

func TestStringSimilaritySymmetry(t *testing.T) {
	e := New(DefaultConfig())

	pairs := [][2]string{
		{"Naruto", "Naruto Shippuden"},
		{"Attack on Titan", "Attack on Titans"},
		{"Fullmetal Alchemist", "Full Metal Alchemist"},
		{"Death Note", "One Piece"},
	}
	for _, p := range pairs {
		assert.Equal(t, e.StringSimilarity(p[0], p[1]), e.StringSimilarity(p[1], p[0]))
	}
}

func TestStringSimilarityCaseInsensitive(t *testing.T) {
	e := New(DefaultConfig())

	assert.Equal(t, 1.0, e.StringSimilarity("Naruto", "naruto"))
	assert.Equal(t, 1.0, e.StringSimilarity("ATTACK ON TITAN", "attack on titan"))
}

func TestStringSimilarityBlankNeverMatches(t *testing.T) {
	e := New(DefaultConfig())

	assert.Equal(t, 0.0, e.StringSimilarity("", ""))
	assert.Equal(t, 0.0, e.StringSimilarity("", "Naruto"))
	assert.Equal(t, 0.0, e.StringSimilarity("Naruto", ""))
	// normalizes to empty on both sides: still not a match
	assert.Equal(t, 0.0, e.StringSimilarity("!!!", "???"))
}

func TestStringSimilarityEditDistance(t *testing.T) {
	e := New(DefaultConfig())

	// one substitution across 10 runes
	assert.InDelta(t, 0.9, e.StringSimilarity("death note", "depth note"), 1e-9)
	// unrelated titles score low
	assert.Less(t, e.StringSimilarity("Death Note", "One Piece"), 0.5)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein([]rune("abc"), []rune("abc")))
	assert.Equal(t, 3, levenshtein([]rune(""), []rune("abc")))
	assert.Equal(t, 1, levenshtein([]rune("kitten"), []rune("sitten")))
	assert.Equal(t, 3, levenshtein([]rune("kitten"), []rune("sitting")))
}

func TestCoreTokens(t *testing.T) {
	e := New(DefaultConfig())

	toks := e.CoreTokens("The Rising of the Shield Hero")
	assert.Equal(t, map[string]struct{}{
		"rising": {}, "shield": {}, "hero": {},
	}, toks)

	// digits and season shorthand are dropped
	toks = e.CoreTokens("Mob Psycho 100 S2")
	assert.Equal(t, map[string]struct{}{
		"mob": {}, "psycho": {},
	}, toks)

	// Japanese particles are stop words too
	toks = e.CoreTokens("Boku no Hero")
	assert.Equal(t, map[string]struct{}{
		"boku": {}, "hero": {},
	}, toks)
}

func TestJaccard(t *testing.T) {
	e := New(DefaultConfig())

	a := e.CoreTokens("Boku no Hero Academia")
	b := e.CoreTokens("My Hero Academia")
	// {boku, hero, academia} vs {hero, academia}: 2 shared of 3
	assert.InDelta(t, 2.0/3.0, jaccard(a, b), 1e-9)

	assert.Equal(t, 0.0, jaccard(nil, a))
	assert.Equal(t, 0.0, jaccard(a, map[string]struct{}{}))
}
