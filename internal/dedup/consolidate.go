package dedup

import (
	"sort"

	"animehub/pkg/models"
)

// unset season indices sort after every numbered season
const seasonSortSentinel = 99

// Consolidate groups records by base-series title and folds each
// multi-member group into one canonical record carrying an ordered
// seasons list. Singleton groups pass through unchanged. No member is
// lost: every input record contributes exactly one seasons entry even
// when it does not become the output's top-level identity.
func (e *Engine) Consolidate(records []models.AnimeRecord) []models.AnimeRecord {
	groups := make(map[string][]models.AnimeRecord)
	var order []string

	for _, rec := range records {
		key := e.seriesKey(rec)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	out := make([]models.AnimeRecord, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if len(group) == 1 || key == "series:" {
			// untitled records cannot be grouped; pass each through
			for _, rec := range group {
				out = append(out, rec.Clone())
			}
			continue
		}
		out = append(out, e.consolidateGroup(group))
	}
	return out
}

func (e *Engine) seriesKey(rec models.AnimeRecord) string {
	return "series:" + e.ExtractSeason(rec.BestTitle()).BaseTitle
}

func (e *Engine) consolidateGroup(group []models.AnimeRecord) models.AnimeRecord {
	sorted := append([]models.AnimeRecord(nil), group...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Year < sorted[j].Year
	})

	primary := e.SelectPrimary(sorted)

	seasons := make([]models.Season, 0, len(sorted))
	for _, member := range sorted {
		info := e.ExtractSeason(member.BestTitle())
		if info.Season == 0 && info.Label == "" {
			// a bare base-series title is the first season
			info.Season = 1
		}
		entry := models.Season{
			Season:   info.Season,
			Label:    info.Label,
			Episodes: member.EpisodeCount(),
			Year:     member.Year,
		}
		if len(member.ExternalIDs) > 0 {
			entry.ExternalIDs = make(map[string]int64, len(member.ExternalIDs))
			for k, v := range member.ExternalIDs {
				entry.ExternalIDs[k] = v
			}
		}
		seasons = append(seasons, entry)
	}

	sort.SliceStable(seasons, func(i, j int) bool {
		return seasonSortIndex(seasons[i]) < seasonSortIndex(seasons[j])
	})

	merged := primary.Clone()
	merged.Consolidated = true
	merged.Seasons = seasons
	return merged
}

func seasonSortIndex(s models.Season) int {
	if s.Season == 0 {
		return seasonSortSentinel
	}
	return s.Season
}
