package dedup

import (
	"unicode"

	"animehub/pkg/models"
)

// Score ranks a record's metadata quality relative to other members of
// a duplicate group. The value is unbounded and only meaningful for
// comparison inside one group; it is never persisted.
func (e *Engine) Score(rec models.AnimeRecord) float64 {
	var score float64

	englishRomaji := rec.TitleEnglish != "" && e.IsRomanizedJapanese(rec.TitleEnglish)
	if rec.TitleEnglish != "" && !englishRomaji {
		score += 30
	}
	if rec.EpisodeCount() > 0 {
		score += 10
	}
	if rec.Year > 0 {
		score += 5
	}
	if len(rec.Genres) > 0 {
		score += 5
	}
	if len(rec.ExternalIDs) > 0 {
		score += 20
	}

	primaryRomaji := e.IsRomanizedJapanese(rec.Title)
	if primaryRomaji && (rec.TitleEnglish == "" || len(rec.TitleEnglish) > len(rec.Title)) {
		// penalize redundant romanized-only entries
		score -= 5
	}
	if rec.TitleEnglish == "" && primaryRomaji {
		// mild preference for shorter clean romanized titles
		if bonus := 10 - float64(len(rec.Title))/10; bonus > 0 {
			score += bonus
		}
	}

	return score
}

// SelectPrimary returns the group member with the highest score. Ties
// keep the earliest occurrence, so input order is a stable tie break.
func (e *Engine) SelectPrimary(group []models.AnimeRecord) models.AnimeRecord {
	best := group[0]
	bestScore := e.Score(best)
	for _, rec := range group[1:] {
		if s := e.Score(rec); s > bestScore {
			best = rec
			bestScore = s
		}
	}
	return best
}

// PickPreferredTitle chooses the display title for a record: a
// non-romanized English title if there is one, else the shortest
// non-romanized candidate containing a Latin letter, else the shortest
// romanized candidate by normalized length, else the raw primary title.
// Candidates are the primary title, the romaji title and all alternates.
func (e *Engine) PickPreferredTitle(rec models.AnimeRecord) string {
	if rec.TitleEnglish != "" && !e.IsRomanizedJapanese(rec.TitleEnglish) {
		return rec.TitleEnglish
	}

	candidates := make([]string, 0, 2+len(rec.AlternateTitles))
	for _, t := range []string{rec.Title, rec.TitleRomaji} {
		if t != "" {
			candidates = append(candidates, t)
		}
	}
	for _, t := range rec.AlternateTitles {
		if t != "" {
			candidates = append(candidates, t)
		}
	}

	var plain string
	for _, c := range candidates {
		if !containsLatin(c) || e.IsRomanizedJapanese(c) {
			continue
		}
		if plain == "" || len(c) < len(plain) {
			plain = c
		}
	}
	if plain != "" {
		return plain
	}

	var romaji string
	var romajiLen int
	for _, c := range candidates {
		if !e.IsRomanizedJapanese(c) {
			continue
		}
		n := len(e.Normalize(c))
		if romaji == "" || n < romajiLen {
			romaji = c
			romajiLen = n
		}
	}
	if romaji != "" {
		return romaji
	}

	return rec.Title
}

func containsLatin(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}
