package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/pkg/models"
)

func TestDeduplicateBatchMergesPreservingAlternates(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "n1", Title: "Naruto"},
		{ID: "n2", Title: "naruto", AlternateTitles: []string{"Naruto Shippuden"}},
	}

	out, err := e.DeduplicateBatch(records)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "Naruto", out[0].Title)
	assert.Contains(t, out[0].AlternateTitles, "naruto")
	assert.Contains(t, out[0].AlternateTitles, "Naruto Shippuden")
}

func TestDeduplicateBatchKeepsHigherQualityRecord(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "poor", Title: "ATTACK ON TITAN"},
		{
			ID:           "rich",
			Title:        "Shingeki no Kyojin",
			TitleEnglish: "Attack on Titan",
			Episodes:     25,
			Year:         2013,
		},
	}

	// same title key: the richer record wins and absorbs the loser
	out, err := e.DeduplicateBatch(records)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "rich", out[0].ID)
	assert.Contains(t, out[0].AlternateTitles, "ATTACK ON TITAN")
	// the kept record's own title fields are never duplicated as alternates
	assert.NotContains(t, out[0].AlternateTitles, "Attack on Titan")
}

func TestDeduplicateBatchExternalIDCollision(t *testing.T) {
	e := New(DefaultConfig())

	// wildly different titles, same MAL id: one record out
	records := []models.AnimeRecord{
		{ID: "a", Title: "Naruto", ExternalIDs: map[string]int64{models.SourceMAL: 20}},
		{ID: "b", Title: "NARUTO ナルト", ExternalIDs: map[string]int64{models.SourceMAL: 20}},
	}

	out, err := e.DeduplicateBatch(records)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestDeduplicateBatchConsolidatesSeasons(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "s1", Title: "Attack on Titan", Year: 2013},
		{ID: "s2", Title: "Attack on Titan Season 2", Year: 2017},
	}

	// the two records share the season-stripped title key, so the keyed
	// pass merges them first and consolidation sees a single record
	out, err := e.DeduplicateBatch(records)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestDeduplicateBatchInvalidRecord(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "ok", Title: "Naruto"},
		{ID: "broken"},
	}

	_, err := e.DeduplicateBatch(records)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestDeduplicateBatchEmptyInput(t *testing.T) {
	e := New(DefaultConfig())

	out, err := e.DeduplicateBatch(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
