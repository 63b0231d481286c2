package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/pkg/models"
)

func TestAreDuplicateExternalIDShortCircuit(t *testing.T) {
	e := New(DefaultConfig())

	// completely dissimilar titles, same MAL id: still the same anime
	a := models.AnimeRecord{Title: "Naruto", ExternalIDs: map[string]int64{models.SourceMAL: 20}}
	b := models.AnimeRecord{Title: "xyz123", ExternalIDs: map[string]int64{models.SourceMAL: 20}}
	assert.True(t, e.AreDuplicate(a, b))

	// same source, different ids: no short-circuit
	c := models.AnimeRecord{Title: "xyz123", ExternalIDs: map[string]int64{models.SourceMAL: 21}}
	assert.False(t, e.AreDuplicate(a, c))
}

func TestAreDuplicateCaseInsensitiveTitles(t *testing.T) {
	e := New(DefaultConfig())

	a := models.AnimeRecord{Title: "Naruto"}
	b := models.AnimeRecord{Title: "naruto"}
	assert.True(t, e.AreDuplicate(a, b))
}

// Titles engineered to a similarity just under the strict threshold:
// three substitutions across 25 runes is 0.88, which passes only when
// one side is classified as romanized Japanese.
func TestAreDuplicateRomanizedThreshold(t *testing.T) {
	e := New(DefaultConfig())

	// neither title romanized: 0.88 < 0.92, not a duplicate
	a := models.AnimeRecord{Title: "silver empires chronicles"}
	b := models.AnimeRecord{Title: "silvar empides chroniclas"}
	sim := e.StringSimilarity(a.Title, b.Title)
	require.InDelta(t, 0.88, sim, 1e-9)
	assert.False(t, e.AreDuplicate(a, b))

	// the particle "sa" flags both titles romanized; 0.8846 >= 0.86
	c := models.AnimeRecord{Title: "kokoro senjou hana miya sa"}
	d := models.AnimeRecord{Title: "kokora senjoa hana mija sa"}
	sim = e.StringSimilarity(c.Title, d.Title)
	require.GreaterOrEqual(t, sim, 0.86)
	require.Less(t, sim, 0.92)
	assert.True(t, e.AreDuplicate(c, d))
}

func TestAreDuplicateTokenOverlap(t *testing.T) {
	e := New(DefaultConfig())

	// word-order and translation differences: core tokens overlap 2/3
	a := models.AnimeRecord{Title: "Boku no Hero Academia"}
	b := models.AnimeRecord{Title: "My Hero Academia"}
	assert.True(t, e.AreDuplicate(a, b))

	// one-word titles cannot match on full token overlap alone
	c := models.AnimeRecord{Title: "Monster"}
	d := models.AnimeRecord{Title: "The Monster"}
	assert.False(t, e.AreDuplicate(c, d))
}

func TestAreDuplicateAlternateTitlesConsidered(t *testing.T) {
	e := New(DefaultConfig())

	a := models.AnimeRecord{Title: "Shingeki no Kyojin", AlternateTitles: []string{"Attack on Titan"}}
	b := models.AnimeRecord{Title: "Attack on Titan"}
	assert.True(t, e.AreDuplicate(a, b))
}

func TestAreDuplicateMetadataCorroboration(t *testing.T) {
	e := New(DefaultConfig())

	// four substitutions across 25 runes: 0.84, below every title
	// threshold, zero token overlap
	a := models.AnimeRecord{Title: "silver empires chronicles", Episodes: 24, Year: 2015, Type: "TV"}
	b := models.AnimeRecord{Title: "salvar empides chroniclas", Episodes: 25, Year: 2015, Type: "TV"}
	sim := e.StringSimilarity(a.Title, b.Title)
	require.GreaterOrEqual(t, sim, 0.8)
	require.Less(t, sim, 0.86)
	assert.True(t, e.AreDuplicate(a, b))

	// without episode counts the fallback never fires
	c := models.AnimeRecord{Title: "silver empires chronicles", Year: 2015, Type: "TV"}
	d := models.AnimeRecord{Title: "salvar empides chroniclas", Year: 2015, Type: "TV"}
	assert.False(t, e.AreDuplicate(c, d))

	// episode counts too far apart
	far := models.AnimeRecord{Title: "salvar empides chroniclas", Episodes: 50, Year: 2015, Type: "TV"}
	assert.False(t, e.AreDuplicate(a, far))

	// neither year nor type agreement
	off := models.AnimeRecord{Title: "salvar empides chroniclas", Episodes: 24, Year: 2002, Type: "OVA"}
	assert.False(t, e.AreDuplicate(a, off))
}

func TestAreDuplicateEmptyTitles(t *testing.T) {
	e := New(DefaultConfig())

	// two records that both lack titles must not merge
	assert.False(t, e.AreDuplicate(models.AnimeRecord{}, models.AnimeRecord{}))
}
