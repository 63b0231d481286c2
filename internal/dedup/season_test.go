package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSeasonNumbers(t *testing.T) {
	e := New(DefaultConfig())

	info := e.ExtractSeason("Attack on Titan Season 2")
	assert.Equal(t, "attack on titan", info.BaseTitle)
	assert.Equal(t, 2, info.Season)
	assert.Empty(t, info.Label)

	info = e.ExtractSeason("My Hero Academia S4")
	assert.Equal(t, "my hero academia", info.BaseTitle)
	assert.Equal(t, 4, info.Season)
}

func TestExtractSeasonPart(t *testing.T) {
	e := New(DefaultConfig())

	info := e.ExtractSeason("Overlord Part 2")
	assert.Equal(t, "overlord", info.BaseTitle)
	assert.Equal(t, 0, info.Season)
	assert.Equal(t, "Part 2", info.Label)
}

func TestExtractSeasonFinalSeason(t *testing.T) {
	e := New(DefaultConfig())

	info := e.ExtractSeason("Attack on Titan Final Season")
	assert.Equal(t, "attack on titan", info.BaseTitle)
	assert.Equal(t, 0, info.Season)
	assert.Equal(t, "Final Season", info.Label)
}

func TestExtractSeasonShippuden(t *testing.T) {
	e := New(DefaultConfig())

	info := e.ExtractSeason("Naruto Shippuden")
	assert.Equal(t, "naruto", info.BaseTitle)
	assert.Equal(t, 2, info.Season)
	assert.Equal(t, "Shippuden", info.Label)
}

func TestExtractSeasonNoMarkers(t *testing.T) {
	e := New(DefaultConfig())

	info := e.ExtractSeason("Cowboy Bebop")
	assert.Equal(t, "cowboy bebop", info.BaseTitle)
	assert.Equal(t, 0, info.Season)
	assert.Empty(t, info.Label)
}

// Rules apply in order against the cumulatively stripped residual, so a
// title carrying several marker fragments keeps the first rule's season
// and picks up later labels from what is left.
func TestExtractSeasonMultipleMarkers(t *testing.T) {
	e := New(DefaultConfig())

	info := e.ExtractSeason("Attack on Titan Season 3 Part 2")
	assert.Equal(t, "attack on titan", info.BaseTitle)
	assert.Equal(t, 3, info.Season)
	assert.Equal(t, "Part 2", info.Label)
}
