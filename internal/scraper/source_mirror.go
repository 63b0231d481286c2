package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"animehub/pkg/models"
)

// SourceMirror reads a locally hosted mirror with its own JSON shape,
// useful for demos and for user-submitted records exported to a file.
type SourceMirror struct {
	BaseURL string
	Client  *http.Client
}

// NewSourceMirror creates a new SourceMirror.
func NewSourceMirror(baseURL string) *SourceMirror {
	return &SourceMirror{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *SourceMirror) Name() string {
	return "mirror"
}

// mirrorEntry is the mirror's row shape:
//
//	GET {BaseURL}/titles
//	[
//	  {
//	    "slug": "naruto",
//	    "name": "Naruto",
//	    "english_name": "Naruto",
//	    "alt_names": ["ナルト"],
//	    "episodes": "220",
//	    "year": "2002",
//	    "kind": "TV",
//	    "tags": ["Action", "Adventure"],
//	    "mal_id": "20",
//	    "summary": "...",
//	    "image_url": "..."
//	  },
//	  ...
//	]
type mirrorEntry struct {
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

func (s *SourceMirror) FetchAll(ctx context.Context) ([]models.AnimeRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/titles", nil)
	if err != nil {
		return nil, fmt.Errorf("mirror: build request: %w", err)
	}

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror: request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("mirror: unexpected status %d: %s", res.StatusCode, body)
	}

	var entries []mirrorEntry
	if err := json.NewDecoder(res.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("mirror: decode response: %w", err)
	}

	out := make([]models.AnimeRecord, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Name) == "" {
			continue
		}

		rec := models.AnimeRecord{
			ID:              "mirror-" + entry.Slug,
			Title:           entry.Name,
			TitleEnglish:    entry.EnglishName,
			AlternateTitles: entry.AltNames,
			Year:            parseOptionalInt(entry.Year),
			Episodes:        parseOptionalInt(entry.Episodes),
			Type:            entry.Kind,
			Genres:          entry.Tags,
			Synopsis:        entry.Summary,
			CoverURL:        entry.ImageURL,
		}
		if rec.TitleEnglish == rec.Title {
			rec.TitleEnglish = ""
		}

		ids := make(map[string]int64)
		if id := parseOptionalInt64(entry.MalID); id > 0 {
			ids[models.SourceMAL] = id
		}
		if id := parseOptionalInt64(entry.AnilistID); id > 0 {
			ids[models.SourceAniList] = id
		}
		if len(ids) > 0 {
			rec.ExternalIDs = ids
		}

		out = append(out, rec)
	}
	return out, nil
}

func parseOptionalInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func parseOptionalInt64(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
