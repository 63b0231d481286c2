package scraper

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"animehub/pkg/models"
)

// SaveToDatabase upserts the given slice of AnimeRecord into the
// `anime` table using the schema in docs/schema.sql. Slice and map
// fields are stored as JSON text columns.
func SaveToDatabase(ctx context.Context, db *sql.DB, records []models.AnimeRecord) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO anime (
		  id, title, title_english, title_romaji, alternate_titles,
		  episodes, year, type, external_ids, genres, synopsis, cover_url,
		  consolidated, seasons
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  title_english = excluded.title_english,
		  title_romaji = excluded.title_romaji,
		  alternate_titles = excluded.alternate_titles,
		  episodes = excluded.episodes,
		  year = excluded.year,
		  type = excluded.type,
		  external_ids = excluded.external_ids,
		  genres = excluded.genres,
		  synopsis = excluded.synopsis,
		  cover_url = excluded.cover_url,
		  consolidated = excluded.consolidated,
		  seasons = excluded.seasons
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		alternates, err := json.Marshal(rec.AlternateTitles)
		if err != nil {
			return fmt.Errorf("marshal alternate titles for %s: %w", rec.ID, err)
		}
		externalIDs, err := json.Marshal(rec.ExternalIDs)
		if err != nil {
			return fmt.Errorf("marshal external ids for %s: %w", rec.ID, err)
		}
		genres, err := json.Marshal(rec.Genres)
		if err != nil {
			return fmt.Errorf("marshal genres for %s: %w", rec.ID, err)
		}
		seasons, err := json.Marshal(rec.Seasons)
		if err != nil {
			return fmt.Errorf("marshal seasons for %s: %w", rec.ID, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			rec.ID,
			rec.Title,
			rec.TitleEnglish,
			rec.TitleRomaji,
			string(alternates),
			rec.Episodes,
			rec.Year,
			rec.Type,
			string(externalIDs),
			string(genres),
			rec.Synopsis,
			rec.CoverURL,
			rec.Consolidated,
			string(seasons),
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
