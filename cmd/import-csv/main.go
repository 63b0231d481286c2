package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"animehub/internal/anime"
	"animehub/internal/dedup"
	"animehub/pkg/database"
	"animehub/pkg/models"
)

func main() {
	var (
		animeIn   = flag.String("anime", "data/anime.csv", "input CSV path for anime")
		libraryIn = flag.String("library", "data/user_library.csv", "input CSV path for user libraries")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := importAnime(ctx, db, *animeIn); err != nil {
		log.Fatalf("import anime failed: %v", err)
	}
	if err := importUserLibrary(ctx, db, *libraryIn); err != nil {
		log.Fatalf("import user library failed: %v", err)
	}

	log.Printf("✅ imported anime from %s and user libraries from %s", *animeIn, *libraryIn)
}

// importAnime parses the CSV into records, deduplicates the batch, and
// upserts the survivors.
func importAnime(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	var records []models.AnimeRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		id := valueAt(header, row, "id")
		title := valueAt(header, row, "title")
		if id == "" || title == "" {
			continue
		}

		episodes, err := parseOptionalInt(valueAt(header, row, "episodes"))
		if err != nil {
			return fmt.Errorf("parse episodes for %s: %w", id, err)
		}
		year, err := parseOptionalInt(valueAt(header, row, "year"))
		if err != nil {
			return fmt.Errorf("parse year for %s: %w", id, err)
		}

		rec := models.AnimeRecord{
			ID:              id,
			Title:           title,
			TitleEnglish:    valueAt(header, row, "title_english"),
			TitleRomaji:     valueAt(header, row, "title_romaji"),
			AlternateTitles: splitList(valueAt(header, row, "alternate_titles")),
			Episodes:        episodes,
			Year:            year,
			Type:            valueAt(header, row, "type"),
			Genres:          splitList(valueAt(header, row, "genres")),
			Synopsis:        valueAt(header, row, "synopsis"),
			CoverURL:        valueAt(header, row, "cover_url"),
		}

		ids := make(map[string]int64)
		if malID, err := parseOptionalInt64(valueAt(header, row, "mal_id")); err != nil {
			return fmt.Errorf("parse mal_id for %s: %w", id, err)
		} else if malID > 0 {
			ids[models.SourceMAL] = malID
		}
		if alID, err := parseOptionalInt64(valueAt(header, row, "anilist_id")); err != nil {
			return fmt.Errorf("parse anilist_id for %s: %w", id, err)
		} else if alID > 0 {
			ids[models.SourceAniList] = alID
		}
		if len(ids) > 0 {
			rec.ExternalIDs = ids
		}

		records = append(records, rec)
	}

	engine := dedup.New(dedup.DefaultConfig())
	merged, err := engine.DeduplicateBatch(records)
	if err != nil {
		return fmt.Errorf("deduplicate batch: %w", err)
	}
	if len(merged) < len(records) {
		log.Printf("deduplicated %d rows into %d records", len(records), len(merged))
	}

	repo := anime.NewRepo(db)
	for _, rec := range merged {
		if err := repo.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("upsert %s: %w", rec.ID, err)
		}
	}
	return nil
}

func importUserLibrary(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO user_library (user_id, anime_id, current_episode, status, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, anime_id) DO UPDATE SET
			current_episode = excluded.current_episode,
			status = excluded.status,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		userID := valueAt(header, row, "user_id")
		animeID := valueAt(header, row, "anime_id")
		if userID == "" || animeID == "" {
			continue
		}

		currentEpisode, err := parseNullInt(valueAt(header, row, "current_episode"))
		if err != nil {
			return fmt.Errorf("parse current_episode for %s/%s: %w", userID, animeID, err)
		}

		updatedAt, err := parseTime(valueAt(header, row, "updated_at"))
		if err != nil {
			return fmt.Errorf("parse updated_at for %s/%s: %w", userID, animeID, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			userID,
			animeID,
			currentEpisode,
			nullString(valueAt(header, row, "status")),
			updatedAt,
		); err != nil {
			return err
		}
	}

	return nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// splitList parses "Action|Adventure" style cells.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseOptionalInt64(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parseNullInt(raw string) (sql.NullInt64, error) {
	if raw == "" {
		return sql.NullInt64{}, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

func parseTime(raw string) (sql.NullTime, error) {
	if raw == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

func nullString(raw string) sql.NullString {
	if raw == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}
