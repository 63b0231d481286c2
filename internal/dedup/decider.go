package dedup

import "animehub/pkg/models"

// duplicateRule is one tier of the duplicate cascade. Rules run in
// order with short-circuit return, which keeps each tie-break
// individually testable instead of folding everything into one boolean
// expression.
type duplicateRule struct {
	name  string
	match func(e *Engine, a, b models.AnimeRecord) bool
}

// The cascade: external ids are unambiguous when present; exact-ish
// title matches need no corroboration; weaker title matches need
// independent metadata agreement to avoid merging different shows with
// generic titles.
var duplicateRules = []duplicateRule{
	{name: "external-id", match: (*Engine).matchExternalID},
	{name: "title-similarity", match: (*Engine).matchTitles},
	{name: "metadata-corroboration", match: (*Engine).matchMetadata},
}

// AreDuplicate decides whether two records describe the same anime.
func (e *Engine) AreDuplicate(a, b models.AnimeRecord) bool {
	for _, rule := range duplicateRules {
		if rule.match(e, a, b) {
			return true
		}
	}
	return false
}

// matchExternalID: a shared source with an equal id is the strongest
// signal and overrides any title mismatch.
func (e *Engine) matchExternalID(a, b models.AnimeRecord) bool {
	for source, id := range a.ExternalIDs {
		if other, ok := b.ExternalIDs[source]; ok && other == id {
			return true
		}
	}
	return false
}

// matchTitles compares every pair of non-empty titles drawn from the
// two records' title fields and alternates. Romanized forms tolerate
// more edit distance; the Jaccard path requires at least MinCoreTokens
// on one side so one-word titles cannot produce spurious full overlap.
func (e *Engine) matchTitles(a, b models.AnimeRecord) bool {
	for _, ta := range a.AllTitles() {
		for _, tb := range b.AllTitles() {
			sim := e.StringSimilarity(ta, tb)
			if sim >= e.cfg.StrictTitleThreshold {
				return true
			}
			if sim >= e.cfg.RomajiTitleThreshold &&
				(e.IsRomanizedJapanese(ta) || e.IsRomanizedJapanese(tb)) {
				return true
			}

			at := e.CoreTokens(ta)
			bt := e.CoreTokens(tb)
			if len(at) < e.cfg.MinCoreTokens && len(bt) < e.cfg.MinCoreTokens {
				continue
			}
			if jaccard(at, bt) >= e.cfg.TokenJaccardThreshold {
				return true
			}
		}
	}
	return false
}

// matchMetadata is the fallback for title pairs below every similarity
// threshold: close episode counts plus an agreeing year or type, on top
// of a reasonably similar primary title. Missing episode counts or
// years disable their comparison rather than failing.
func (e *Engine) matchMetadata(a, b models.AnimeRecord) bool {
	ae, be := a.EpisodeCount(), b.EpisodeCount()
	if ae == 0 || be == 0 || absDiff(ae, be) > e.cfg.EpisodeTolerance {
		return false
	}

	yearsAgree := a.Year > 0 && b.Year > 0 && absDiff(a.Year, b.Year) <= e.cfg.YearTolerance
	typesAgree := a.Type != "" && a.Type == b.Type
	if !yearsAgree && !typesAgree {
		return false
	}

	return e.StringSimilarity(a.Title, b.Title) >= e.cfg.MetadataTitleThreshold
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
