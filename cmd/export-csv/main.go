package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"animehub/pkg/database"
	"animehub/pkg/models"
)

func main() {
	var (
		animeOut   = flag.String("anime", "data/anime.csv", "output CSV path for anime")
		libraryOut = flag.String("library", "data/user_library.csv", "output CSV path for user libraries")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportAnime(ctx, db, *animeOut); err != nil {
		log.Fatalf("export anime failed: %v", err)
	}
	if err := exportUserLibrary(ctx, db, *libraryOut); err != nil {
		log.Fatalf("export user library failed: %v", err)
	}

	log.Printf("✅ exported anime to %s and user libraries to %s", *animeOut, *libraryOut)
}

func exportAnime(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"id", "title", "title_english", "title_romaji", "alternate_titles",
		"episodes", "year", "type", "genres", "mal_id", "anilist_id",
		"synopsis", "cover_url",
	}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, title, title_english, title_romaji, alternate_titles,
               episodes, year, type, genres, external_ids, synopsis, cover_url
        FROM anime
        ORDER BY title
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id           string
			title        string
			titleEnglish sql.NullString
			titleRomaji  sql.NullString
			altJSON      sql.NullString
			episodes     sql.NullInt64
			year         sql.NullInt64
			kind         sql.NullString
			genresJSON   sql.NullString
			idsJSON      sql.NullString
			synopsis     sql.NullString
			coverURL     sql.NullString
		)

		if err := rows.Scan(&id, &title, &titleEnglish, &titleRomaji, &altJSON,
			&episodes, &year, &kind, &genresJSON, &idsJSON, &synopsis, &coverURL); err != nil {
			return err
		}

		var externalIDs map[string]int64
		if idsJSON.Valid {
			_ = json.Unmarshal([]byte(idsJSON.String), &externalIDs)
		}

		if err := w.Write([]string{
			id,
			title,
			titleEnglish.String,
			titleRomaji.String,
			joinJSONList(altJSON),
			formatInt(episodes),
			formatInt(year),
			kind.String,
			joinJSONList(genresJSON),
			formatExternalID(externalIDs, models.SourceMAL),
			formatExternalID(externalIDs, models.SourceAniList),
			synopsis.String,
			coverURL.String,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportUserLibrary(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "anime_id", "current_episode", "status", "updated_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT user_id, anime_id, current_episode, status, updated_at
        FROM user_library
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID         string
			animeID        string
			currentEpisode sql.NullInt64
			status         sql.NullString
			updatedAt      sql.NullTime
		)

		if err := rows.Scan(&userID, &animeID, &currentEpisode, &status, &updatedAt); err != nil {
			return err
		}

		episode := ""
		if currentEpisode.Valid {
			episode = strconv.FormatInt(currentEpisode.Int64, 10)
		}

		updated := ""
		if updatedAt.Valid {
			updated = updatedAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			userID,
			animeID,
			episode,
			status.String,
			updated,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

// joinJSONList turns a stored JSON array into the "a|b" CSV cell format.
func joinJSONList(raw sql.NullString) string {
	if !raw.Valid || raw.String == "" {
		return ""
	}
	var items []string
	if err := json.Unmarshal([]byte(raw.String), &items); err != nil {
		return ""
	}
	return strings.Join(items, "|")
}

func formatInt(n sql.NullInt64) string {
	if !n.Valid || n.Int64 <= 0 {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

func formatExternalID(ids map[string]int64, source string) string {
	if ids == nil || ids[source] <= 0 {
		return ""
	}
	return strconv.FormatInt(ids[source], 10)
}
