package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/pkg/models"
)

func TestGenerateKeyPrefersMAL(t *testing.T) {
	e := New(DefaultConfig())

	key, err := e.GenerateKey(models.AnimeRecord{
		Title:       "Naruto",
		ExternalIDs: map[string]int64{models.SourceMAL: 20, models.SourceAniList: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, "mal:20", key)
}

func TestGenerateKeyAniListFallback(t *testing.T) {
	e := New(DefaultConfig())

	key, err := e.GenerateKey(models.AnimeRecord{
		Title:       "Naruto",
		ExternalIDs: map[string]int64{models.SourceAniList: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, "al:20", key)
}

func TestGenerateKeyTitleFallback(t *testing.T) {
	e := New(DefaultConfig())

	key, err := e.GenerateKey(models.AnimeRecord{Title: "Attack on Titan Season 2"})
	require.NoError(t, err)
	assert.Equal(t, "t:attack on titan", key)

	// English wins over primary and romaji
	key, err = e.GenerateKey(models.AnimeRecord{
		Title:        "Shingeki no Kyojin",
		TitleEnglish: "Attack on Titan",
	})
	require.NoError(t, err)
	assert.Equal(t, "t:attack on titan", key)
}

func TestGenerateKeyInvalidRecord(t *testing.T) {
	e := New(DefaultConfig())

	_, err := e.GenerateKey(models.AnimeRecord{ID: "x1"})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	// a title that normalizes to nothing is just as unkeyable
	_, err = e.GenerateKey(models.AnimeRecord{Title: "!!!"})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestGenerateKeySameIDCollidesAcrossTitles(t *testing.T) {
	e := New(DefaultConfig())

	a := models.AnimeRecord{Title: "Naruto", ExternalIDs: map[string]int64{models.SourceMAL: 20}}
	b := models.AnimeRecord{Title: "xyz123", ExternalIDs: map[string]int64{models.SourceMAL: 20}}

	ka, err := e.GenerateKey(a)
	require.NoError(t, err)
	kb, err := e.GenerateKey(b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)
}
