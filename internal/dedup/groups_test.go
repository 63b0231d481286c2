package dedup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/pkg/models"
)

func TestFindGroups(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "a1", Title: "Naruto"},
		{ID: "b1", Title: "One Piece"},
		{ID: "a2", Title: "naruto"},
		{ID: "c1", Title: "Cowboy Bebop"},
		{ID: "b2", Title: "ONE PIECE"},
	}

	groups, err := e.FindGroups(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "a1", groups[0][0].ID)
	assert.Equal(t, "a2", groups[0][1].ID)
	assert.Equal(t, "b1", groups[1][0].ID)
	assert.Equal(t, "b2", groups[1][1].ID)
}

// Every record lands in at most one group and no singleton groups are
// emitted.
func TestFindGroupsExclusivity(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "a1", Title: "Naruto"},
		{ID: "a2", Title: "naruto"},
		{ID: "a3", Title: "NARUTO"},
		{ID: "x", Title: "Cowboy Bebop"},
	}

	groups, err := e.FindGroups(context.Background(), records)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, group := range groups {
		assert.GreaterOrEqual(t, len(group), 2)
		for _, rec := range group {
			seen[rec.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %s in %d groups", id, n)
	}
	assert.NotContains(t, seen, "x")
}

// Batch dedup keys on external ids first, so near-identical titles with
// different ids slip through; the group finder is the audit net that
// catches them.
func TestFindGroupsCatchesWhatBatchMisses(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{ID: "a", Title: "Attack on Titan", ExternalIDs: map[string]int64{models.SourceMAL: 16498}},
		{ID: "b", Title: "Attack on Titans", ExternalIDs: map[string]int64{models.SourceAniList: 53390}},
	}

	out, err := e.DeduplicateBatch(records)
	require.NoError(t, err)
	require.Len(t, out, 2)

	groups, err := e.FindGroups(context.Background(), out)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 2)
}

func TestFindGroupsCancellation(t *testing.T) {
	e := New(DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.FindGroups(ctx, []models.AnimeRecord{{Title: "Naruto"}, {Title: "naruto"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindGroupsNoDuplicates(t *testing.T) {
	e := New(DefaultConfig())

	records := []models.AnimeRecord{
		{Title: "Naruto"},
		{Title: "One Piece"},
		{Title: "Cowboy Bebop"},
	}

	groups, err := e.FindGroups(context.Background(), records)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
