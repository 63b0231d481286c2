package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/internal/dedup"
	"animehub/pkg/models"
)

type stubSource struct {
	name    string
	records []models.AnimeRecord
	err     error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchAll(ctx context.Context) ([]models.AnimeRecord, error) {
	return s.records, s.err
}

func TestFetchAndMergeAcrossSources(t *testing.T) {
	catalog := &stubSource{
		name: "catalog",
		records: []models.AnimeRecord{
			{
				ID:          "mal-20",
				Title:       "Naruto",
				Episodes:    220,
				ExternalIDs: map[string]int64{models.SourceMAL: 20},
			},
		},
	}
	mirror := &stubSource{
		name: "mirror",
		records: []models.AnimeRecord{
			{
				ID:          "mirror-naruto",
				Title:       "NARUTO ナルト",
				ExternalIDs: map[string]int64{models.SourceMAL: 20},
			},
		},
	}

	agg := NewAggregator(dedup.New(dedup.DefaultConfig()), catalog, mirror)

	out, err := agg.FetchAndMerge(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	// the richer catalog record wins; the mirror title survives as alternate
	assert.Equal(t, "mal-20", out[0].ID)
	assert.Contains(t, out[0].AlternateTitles, "NARUTO ナルト")
}

func TestFetchAndMergeToleratesBrokenSource(t *testing.T) {
	broken := &stubSource{name: "broken", err: errors.New("boom")}
	ok := &stubSource{
		name:    "ok",
		records: []models.AnimeRecord{{ID: "a", Title: "Cowboy Bebop"}},
	}

	agg := NewAggregator(dedup.New(dedup.DefaultConfig()), broken, ok)

	out, err := agg.FetchAndMerge(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestFetchAndMergeSkipsUnkeyableRecords(t *testing.T) {
	src := &stubSource{
		name: "mixed",
		records: []models.AnimeRecord{
			{ID: "good", Title: "Cowboy Bebop"},
			{ID: "bad"}, // no title, no external ids
		},
	}

	agg := NewAggregator(dedup.New(dedup.DefaultConfig()), src)

	out, err := agg.FetchAndMerge(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "good", out[0].ID)
}
