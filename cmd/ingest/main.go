package main

import (
	"context"
	"flag"
	"log"
	"time"

	"animehub/internal/dedup"
	"animehub/internal/scraper"
	"animehub/pkg/database"
)

func main() {
	mirrorURL := flag.String("mirror", "http://localhost:9000", "base URL of the local mirror server")
	skipMirror := flag.Bool("skip-mirror", false, "skip the local mirror source")
	timeout := flag.Duration("timeout", 120*time.Second, "overall ingest timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	// Ensure schema exists
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	engine := dedup.New(dedup.DefaultConfig())

	sources := []scraper.Source{
		scraper.NewSourceJikan(),
		scraper.NewSourceAniList(),
	}
	if !*skipMirror {
		sources = append(sources, scraper.NewSourceMirror(*mirrorURL))
	}

	agg := scraper.NewAggregator(engine, sources...)

	records, err := agg.FetchAndMerge(ctx)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	log.Printf("merged records: %d", len(records))

	if err := scraper.SaveToDatabase(ctx, db, records); err != nil {
		log.Fatalf("save failed: %v", err)
	}

	log.Println("✅ catalog populated at ~/.animehub/data.db")
}
