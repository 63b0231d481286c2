package dedup

import (
	"fmt"

	"animehub/pkg/models"
)

// DeduplicateBatch merges a newly ingested batch in a single
// left-to-right pass keyed by GenerateKey: on a key collision the
// higher-scoring record is kept and the loser's titles are folded into
// the winner's alternates, then the surviving records run through
// season consolidation.
//
// Because the key is purely external ids or base title, two records
// with different external ids but strongly similar titles are NOT
// merged here; FindGroups over the output catches that case as an
// auditing step.
//
// An unkeyable record fails the whole batch with ErrInvalidRecord
// rather than being silently defaulted into a bogus group.
func (e *Engine) DeduplicateBatch(records []models.AnimeRecord) ([]models.AnimeRecord, error) {
	byKey := make(map[string]models.AnimeRecord, len(records))
	var order []string

	for i, rec := range records {
		key, err := e.GenerateKey(rec)
		if err != nil {
			return nil, fmt.Errorf("batch record %d: %w", i, err)
		}

		existing, seen := byKey[key]
		if !seen {
			order = append(order, key)
			byKey[key] = rec
			continue
		}

		byKey[key] = e.Merge(existing, rec)
	}

	merged := make([]models.AnimeRecord, 0, len(order))
	for _, key := range order {
		merged = append(merged, byKey[key])
	}

	return e.Consolidate(merged), nil
}

// Merge keeps the higher-quality of two duplicate records, folding the
// other's titles into its alternates. Ties keep a.
func (e *Engine) Merge(a, b models.AnimeRecord) models.AnimeRecord {
	keep, lose := a, b
	if e.Score(b) > e.Score(a) {
		keep, lose = b, a
	}
	return e.foldTitles(keep, lose)
}

// foldTitles unions the loser's title fields and alternates into the
// kept record's alternates. Dedup is by case-sensitive string equality
// against the kept record's own title fields and existing alternates.
func (e *Engine) foldTitles(keep, lose models.AnimeRecord) models.AnimeRecord {
	out := keep.Clone()

	seen := map[string]struct{}{
		out.Title:        {},
		out.TitleEnglish: {},
		out.TitleRomaji:  {},
		"":               {},
	}
	for _, t := range out.AlternateTitles {
		seen[t] = struct{}{}
	}

	incoming := append([]string{lose.Title, lose.TitleEnglish, lose.TitleRomaji}, lose.AlternateTitles...)
	for _, t := range incoming {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out.AlternateTitles = append(out.AlternateTitles, t)
	}
	return out
}
