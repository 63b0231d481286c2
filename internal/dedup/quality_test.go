package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"animehub/pkg/models"
)

func TestScoreRewardsRicherMetadata(t *testing.T) {
	e := New(DefaultConfig())

	bare := models.AnimeRecord{Title: "Shingeki no Kyojin"}
	rich := models.AnimeRecord{
		Title:        "Shingeki no Kyojin",
		TitleEnglish: "Attack on Titan",
		Episodes:     25,
		Year:         2013,
		Genres:       []string{"Action"},
		ExternalIDs:  map[string]int64{models.SourceMAL: 16498},
	}
	assert.Greater(t, e.Score(rich), e.Score(bare))

	// english + episodes + year + genres + external ids
	assert.Equal(t, 70.0, e.Score(rich))
}

func TestScorePenalizesRomanizedOnly(t *testing.T) {
	e := New(DefaultConfig())

	// romanized primary, no English title: -5 plus the short-title bonus
	rec := models.AnimeRecord{Title: "Boku no Hero"}
	// -5 + (10 - 12/10)
	assert.InDelta(t, 3.8, e.Score(rec), 1e-9)

	// a long romanized title loses the bonus entirely
	long := models.AnimeRecord{
		Title: "Kono Subarashii Sekai ni Shukufuku wo Kurenai Darou ka Aggretsuko Monogatari Chronicle no Subete Kanzenban",
	}
	assert.Equal(t, -5.0, e.Score(long))
}

func TestSelectPrimaryHighestScoreFirstOccurrenceWins(t *testing.T) {
	e := New(DefaultConfig())

	a := models.AnimeRecord{ID: "a", Title: "Naruto"}
	b := models.AnimeRecord{ID: "b", Title: "Naruto", TitleEnglish: "Naruto", Episodes: 220}
	c := models.AnimeRecord{ID: "c", Title: "Naruto"}

	assert.Equal(t, "b", e.SelectPrimary([]models.AnimeRecord{a, b, c}).ID)

	// tie between a and c: first occurrence wins
	assert.Equal(t, "a", e.SelectPrimary([]models.AnimeRecord{a, c}).ID)
}

func TestPickPreferredTitle(t *testing.T) {
	e := New(DefaultConfig())

	// non-romanized English title wins outright
	rec := models.AnimeRecord{Title: "Shingeki no Kyojin", TitleEnglish: "Attack on Titan"}
	assert.Equal(t, "Attack on Titan", e.PickPreferredTitle(rec))

	// no English: shortest non-romanized Latin candidate
	rec = models.AnimeRecord{
		Title:           "Hagane no Renkinjutsushi",
		AlternateTitles: []string{"Fullmetal Alchemist", "Fullmetal Alchemist Brotherhood"},
	}
	assert.Equal(t, "Fullmetal Alchemist", e.PickPreferredTitle(rec))

	// only romanized candidates: shortest by normalized length
	rec = models.AnimeRecord{
		Title:           "Kaguya-sama wa Kokurasetai Tensai-tachi no Renai Zunousen",
		AlternateTitles: []string{"Kaguya-sama wa Kokurasetai"},
	}
	assert.Equal(t, "Kaguya-sama wa Kokurasetai", e.PickPreferredTitle(rec))

	// no candidates at all: raw primary title
	rec = models.AnimeRecord{Title: "ソードアート・オンライン"}
	assert.Equal(t, "ソードアート・オンライン", e.PickPreferredTitle(rec))
}
