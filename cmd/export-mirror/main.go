package main

import (
	"context"
	"database/sql"
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

type MirrorTitle struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	EnglishName string   `json:"english_name"`
	AltNames    []string `json:"alt_names"`
	Episodes    string   `json:"episodes"`
	Year        string   `json:"year"`
	Kind        string   `json:"kind"`
	Tags        []string `json:"tags"`
	MalID       string   `json:"mal_id"`
	AnilistID   string   `json:"anilist_id"`
	Summary     string   `json:"summary"`
	ImageURL    string   `json:"image_url"`
}

func main() {
	var (
		outPath = flag.String("out", "data/mirror.json", "output JSON path")
		limit   = flag.Int("limit", 200, "how many titles to export")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, title_english, alternate_titles, episodes, year, type, genres, external_ids, synopsis, cover_url
		FROM anime
		ORDER BY title
		LIMIT ?
	`, *limit)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	defer rows.Close()

	var out []MirrorTitle
	for rows.Next() {
		var (
			id           string
			title        string
			titleEnglish sql.NullString
			altJSON      sql.NullString
			episodes     sql.NullInt64
			year         sql.NullInt64
			kind         sql.NullString
			genresJSON   sql.NullString
			idsJSON      sql.NullString
			synopsis     sql.NullString
			coverURL     sql.NullString
		)

		if err := rows.Scan(&id, &title, &titleEnglish, &altJSON, &episodes, &year, &kind, &genresJSON, &idsJSON, &synopsis, &coverURL); err != nil {
			log.Fatalf("scan failed: %v", err)
		}

		var altNames []string
		if altJSON.Valid {
			_ = json.Unmarshal([]byte(altJSON.String), &altNames)
		}
		if altNames == nil {
			altNames = []string{}
		}

		var genres []string
		if genresJSON.Valid {
			_ = json.Unmarshal([]byte(genresJSON.String), &genres)
		}

		var externalIDs map[string]int64
		if idsJSON.Valid {
			_ = json.Unmarshal([]byte(idsJSON.String), &externalIDs)
		}

		out = append(out, MirrorTitle{
			Slug:        toSlug(id, title),
			Name:        title,
			EnglishName: titleEnglish.String,
			AltNames:    altNames,
			Episodes:    itoaOrEmpty(episodes),
			Year:        itoaOrEmpty(year),
			Kind:        kind.String,
			Tags:        genres,
			MalID:       idOrEmpty(externalIDs, models.SourceMAL),
			AnilistID:   idOrEmpty(externalIDs, models.SourceAniList),
			Summary:     synopsis.String,
			ImageURL:    coverURL.String,
		})
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("rows error: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("mkdir failed: %v", err)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("marshal failed: %v", err)
	}

	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		log.Fatalf("write failed: %v", err)
	}

	log.Printf("✅ exported %d titles to %s", len(out), *outPath)
}

func toSlug(id, title string) string {
	// Prefer the DB id if it already looks slug-like; ids minted from
	// UUIDs get a title-based slug instead.
	if looksLikeUUID(id) {
		return slugify(title)
	}
	return slugify(id)
}

func looksLikeUUID(s string) bool {
	// quick heuristic; good enough for this tool
	return len(s) >= 32 && strings.Count(s, "-") >= 3
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else {
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "untitled"
	}
	return out
}

func itoaOrEmpty(n sql.NullInt64) string {
	if !n.Valid || n.Int64 <= 0 {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

func idOrEmpty(ids map[string]int64, source string) string {
	if ids == nil || ids[source] <= 0 {
		return ""
	}
	return strconv.FormatInt(ids[source], 10)
}
