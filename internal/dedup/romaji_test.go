package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRomanizedJapaneseParticles(t *testing.T) {
	e := New(DefaultConfig())

	assert.True(t, e.IsRomanizedJapanese("Boku no Hero Academia"))
	assert.True(t, e.IsRomanizedJapanese("Kimi ni Todoke"))
	assert.True(t, e.IsRomanizedJapanese("Kaguya-sama wa Kokurasetai"))
	assert.True(t, e.IsRomanizedJapanese("Koe no Katachi"))
}

func TestIsRomanizedJapanesePatterns(t *testing.T) {
	e := New(DefaultConfig())

	assert.True(t, e.IsRomanizedJapanese("Sakamoto-kun Strikes Back"))
	assert.True(t, e.IsRomanizedJapanese("Karin-chan Diaries"))
	assert.True(t, e.IsRomanizedJapanese("Mahou Shoujo Madoka Magica"))
	assert.True(t, e.IsRomanizedJapanese("Ore Monogatari"))
}

func TestIsRomanizedJapaneseNegatives(t *testing.T) {
	e := New(DefaultConfig())

	assert.False(t, e.IsRomanizedJapanese(""))
	assert.False(t, e.IsRomanizedJapanese("Attack on Titan"))
	assert.False(t, e.IsRomanizedJapanese("My Hero Academia"))
	assert.False(t, e.IsRomanizedJapanese("Death Note"))
	// short vowel-heavy English titles must not be flagged
	assert.False(t, e.IsRomanizedJapanese("Akira"))
	assert.False(t, e.IsRomanizedJapanese("Area 88"))
}
