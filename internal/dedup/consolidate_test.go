package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/pkg/models"
)

func TestConsolidateMultiSeasonSeries(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "aot-1", Title: "Attack on Titan", Episodes: 25, Year: 2013},
		{ID: "aot-2", Title: "Attack on Titan Season 2", Episodes: 12, Year: 2017},
		{ID: "aot-3", Title: "Attack on Titan Season 3", Episodes: 22, Year: 2018},
	}

	out := e.Consolidate(records)
	require.Len(t, out, 1)

	series := out[0]
	assert.True(t, series.Consolidated)
	require.Len(t, series.Seasons, 3)
	assert.Equal(t, 1, series.Seasons[0].Season)
	assert.Equal(t, 2, series.Seasons[1].Season)
	assert.Equal(t, 3, series.Seasons[2].Season)
	assert.Equal(t, 25, series.Seasons[0].Episodes)
	assert.Equal(t, 2017, series.Seasons[1].Year)
}

func TestConsolidateSingletonPassThrough(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "cb", Title: "Cowboy Bebop", Episodes: 26, Year: 1998},
	}

	out := e.Consolidate(records)
	require.Len(t, out, 1)
	assert.Equal(t, "cb", out[0].ID)
	assert.False(t, out[0].Consolidated)
	assert.Empty(t, out[0].Seasons)
}

func TestConsolidateUnnumberedSeasonsSortLast(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "s2", Title: "Attack on Titan Season 2", Year: 2017},
		{ID: "fin", Title: "Attack on Titan Final Season", Year: 2020},
		{ID: "s3", Title: "Attack on Titan Season 3", Year: 2018},
	}

	out := e.Consolidate(records)
	require.Len(t, out, 1)
	require.Len(t, out[0].Seasons, 3)
	assert.Equal(t, 2, out[0].Seasons[0].Season)
	assert.Equal(t, 3, out[0].Seasons[1].Season)
	assert.Equal(t, "Final Season", out[0].Seasons[2].Label)
	assert.Equal(t, 0, out[0].Seasons[2].Season)
}

func TestConsolidateKeepsExternalIDsPerSeason(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{Title: "Naruto", Year: 2002, ExternalIDs: map[string]int64{models.SourceMAL: 20}},
		{Title: "Naruto Shippuden", Year: 2007, ExternalIDs: map[string]int64{models.SourceMAL: 1735}},
	}

	out := e.Consolidate(records)
	require.Len(t, out, 1)
	require.Len(t, out[0].Seasons, 2)
	assert.Equal(t, int64(20), out[0].Seasons[0].ExternalIDs[models.SourceMAL])
	assert.Equal(t, int64(1735), out[0].Seasons[1].ExternalIDs[models.SourceMAL])
	assert.Equal(t, "Shippuden", out[0].Seasons[1].Label)
}

func TestConsolidateLosesNoMember(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "a1", Title: "Overlord", Year: 2015},
		{ID: "a2", Title: "Overlord Season 2", Year: 2018},
		{ID: "b1", Title: "Cowboy Bebop", Year: 1998},
		{ID: "c1", Title: "Monogatari Season 2", Year: 2013},
	}

	out := e.Consolidate(records)
	// overlord folds into one, the others pass through
	require.Len(t, out, 3)

	total := 0
	for _, rec := range out {
		if rec.Consolidated {
			total += len(rec.Seasons)
		} else {
			total++
		}
	}
	assert.Equal(t, len(records), total)
}

func TestConsolidateDoesNotMutateInputs(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "a1", Title: "Overlord", Year: 2015},
		{ID: "a2", Title: "Overlord Season 2", Year: 2018},
	}

	_ = e.Consolidate(records)
	assert.False(t, records[0].Consolidated)
	assert.Empty(t, records[0].Seasons)
	assert.False(t, records[1].Consolidated)
}
