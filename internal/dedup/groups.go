package dedup

import (
	"context"

	"animehub/pkg/models"
)

// FindGroups scans an existing canonical set for groups of duplicate
// records. It is an O(n²) pairwise pass meant for offline auditing and
// backfill, not the request hot path; the context is checked between
// anchor iterations so a caller can bound the cost.
//
// Grouping is anchor-based: each unvisited record anchors a group and
// collects every later unvisited record that duplicates the anchor.
// Members are therefore each a duplicate of the anchor but not
// necessarily of each other; this is a known approximation, not a
// transitive closure.
//
// Every record appears in at most one returned group and every
// returned group has at least two members.
func (e *Engine) FindGroups(ctx context.Context, records []models.AnimeRecord) ([][]models.AnimeRecord, error) {
	visited := make([]bool, len(records))
	var groups [][]models.AnimeRecord

	for i := range records {
		if visited[i] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		group := []models.AnimeRecord{records[i]}
		for j := i + 1; j < len(records); j++ {
			if visited[j] {
				continue
			}
			if e.AreDuplicate(records[i], records[j]) {
				group = append(group, records[j])
				visited[j] = true
			}
		}
		visited[i] = true

		if len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}
