package scraper

import (
	"context"
	"log"

	"animehub/internal/dedup"
	"animehub/pkg/models"
)

// Source is implemented by each external data source (API / local mirror).
// Each source is responsible for fetching its own data format and mapping it
// into AnimeRecord, including reconciling source-specific id and title
// synonyms onto the canonical field names.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]models.AnimeRecord, error)
}

// Aggregator coordinates calls to multiple sources and merges their output
// into a single canonical set through the dedup engine.
type Aggregator struct {
	Sources []Source
	Engine  *dedup.Engine
}

// NewAggregator creates a new Aggregator with the given sources.
func NewAggregator(engine *dedup.Engine, sources ...Source) *Aggregator {
	return &Aggregator{Sources: sources, Engine: engine}
}

// FetchAndMerge fetches all anime from all sources, drops records the
// engine cannot key, runs batch deduplication plus season consolidation,
// and logs any remaining duplicate groups for auditing.
func (a *Aggregator) FetchAndMerge(ctx context.Context) ([]models.AnimeRecord, error) {
	var batch []models.AnimeRecord

	for _, src := range a.Sources {
		log.Printf("[scraper] fetching from %s", src.Name())
		records, err := src.FetchAll(ctx)
		if err != nil {
			log.Printf("[scraper] source %s error: %v", src.Name(), err)
			// keep going: one broken source should not kill all scraping
			continue
		}

		for _, rec := range records {
			if _, err := a.Engine.GenerateKey(rec); err != nil {
				log.Printf("[scraper] source %s: skipping unkeyable record %q: %v", src.Name(), rec.ID, err)
				continue
			}
			batch = append(batch, rec)
		}
	}

	merged, err := a.Engine.DeduplicateBatch(batch)
	if err != nil {
		return nil, err
	}

	// batch dedup keys on external ids or base title; pairs with
	// different ids but near-identical titles only show up here
	groups, err := a.Engine.FindGroups(ctx, merged)
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		titles := make([]string, 0, len(group))
		for _, rec := range group {
			titles = append(titles, rec.Title)
		}
		log.Printf("[scraper] audit: probable duplicate group %q", titles)
	}

	return merged, nil
}
