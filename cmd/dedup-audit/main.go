package main

import (
	"context"
	"flag"
	"log"
	"time"

	"animehub/internal/anime"
	"animehub/internal/dedup"
	"animehub/pkg/database"
)

// dedup-audit sweeps the stored catalog for records that slipped past keyed
// batch deduplication, for example two rows with different external ids whose
// titles still match. By default it only reports; -apply merges each group
// into its highest-quality member.
func main() {
	apply := flag.Bool("apply", false, "merge detected groups instead of just reporting them")
	timeout := flag.Duration("timeout", 5*time.Minute, "audit timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	engine := dedup.New(dedup.DefaultConfig())
	repo := anime.NewRepo(db)

	records, err := repo.ListAll(ctx)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	log.Printf("auditing %d records", len(records))

	groups, err := engine.FindGroups(ctx, records)
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	if len(groups) == 0 {
		log.Println("no duplicate groups found")
		return
	}

	for i, group := range groups {
		log.Printf("group %d (%d records):", i+1, len(group))
		for _, rec := range group {
			log.Printf("  %s  %q  (score %.1f)", rec.ID, rec.Title, engine.Score(rec))
		}

		if !*apply {
			continue
		}

		keep := group[0]
		removeIDs := make([]string, 0, len(group)-1)
		for _, rec := range group[1:] {
			merged := engine.Merge(keep, rec)
			merged.ID = keep.ID
			for source, id := range rec.ExternalIDs {
				if merged.ExternalIDs == nil {
					merged.ExternalIDs = map[string]int64{}
				}
				if _, ok := merged.ExternalIDs[source]; !ok {
					merged.ExternalIDs[source] = id
				}
			}
			keep = merged
			removeIDs = append(removeIDs, rec.ID)
		}

		if err := repo.Replace(ctx, keep, removeIDs); err != nil {
			log.Fatalf("merge group %d: %v", i+1, err)
		}
		log.Printf("  merged into %s", keep.ID)
	}

	if *apply {
		log.Printf("merged %d groups", len(groups))
	} else {
		log.Printf("found %d groups (re-run with -apply to merge)", len(groups))
	}
}
