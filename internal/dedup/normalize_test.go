package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBasics(t *testing.T) {
	e := New(DefaultConfig())

	assert.Equal(t, "", e.Normalize(""))
	assert.Equal(t, "naruto", e.Normalize("Naruto"))
	assert.Equal(t, "attack on titan", e.Normalize("Attack on Titan!"))
	assert.Equal(t, "fullmetal alchemist", e.Normalize("  Fullmetal   Alchemist  "))
}

func TestNormalizeFullWidthSpace(t *testing.T) {
	e := New(DefaultConfig())

	assert.Equal(t, "kimi no na wa", e.Normalize("Kimi　no　Na wa"))
}

func TestNormalizeStripsPunctuation(t *testing.T) {
	e := New(DefaultConfig())

	assert.Equal(t, "rezero", e.Normalize("Re:Zero"))
	assert.Equal(t, "steinsgate", e.Normalize("Steins;Gate"))
}

func TestNormalizeRemovesFillerTokens(t *testing.T) {
	e := New(DefaultConfig())

	assert.Equal(t, "hellsing", e.Normalize("Hellsing OVA"))
	assert.Equal(t, "your name", e.Normalize("Your Name (Movie)"))
	// filler tokens only go as standalone words
	assert.Equal(t, "movies of madness", e.Normalize("Movies of Madness"))
}

func TestNormalizeRemovesSeasonMarkers(t *testing.T) {
	e := New(DefaultConfig())

	assert.Equal(t, "attack on titan", e.Normalize("Attack on Titan Season 3"))
	assert.Equal(t, "attack on titan", e.Normalize("Attack on Titan S2"))
	assert.Equal(t, "overlord", e.Normalize("Overlord Part 2"))
	assert.Equal(t, "attack on titan", e.Normalize("Attack on Titan Final Season"))
	assert.Equal(t, "spy x family", e.Normalize("Spy x Family Cour 2"))
}

func TestNormalizeIdempotent(t *testing.T) {
	e := New(DefaultConfig())

	inputs := []string{
		"",
		"Naruto",
		"Attack on Titan Season 2",
		"Re:Zero − Starting Life in Another World",
		"Boku no Hero Academia (TV)",
		"ソードアート・オンライン",
		"Kimi　no　Na wa",
		"STEINS;GATE 0",
	}
	for _, in := range inputs {
		once := e.Normalize(in)
		assert.Equal(t, once, e.Normalize(once), "input %q", in)
	}
}
