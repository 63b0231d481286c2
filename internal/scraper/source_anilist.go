package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"animehub/pkg/models"
)

const anilistEndpoint = "https://graphql.anilist.co"

// SourceAniList fetches the anime catalog from the AniList GraphQL API.
type SourceAniList struct {
	Client  *http.Client
	PerPage int
	Max     int
}

func NewSourceAniList() *SourceAniList {
	return &SourceAniList{
		Client:  &http.Client{Timeout: 12 * time.Second},
		PerPage: 50,
		Max:     200,
	}
}

func (s *SourceAniList) Name() string { return "anilist" }

const anilistQuery = `
query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    pageInfo { hasNextPage }
    media(type: ANIME, sort: ID) {
      id
      idMal
      title { romaji english native }
      synonyms
      episodes
      seasonYear
      format
      genres
      description(asHtml: false)
      coverImage { large }
    }
  }
}`

type anilistResponse struct {
	Data struct {
		Page struct {
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
			Media []struct {
				ID    int64  `json:"id"`
				IDMal *int64 `json:"idMal"`
				Title struct {
					Romaji  string `json:"romaji"`
					English string `json:"english"`
					Native  string `json:"native"`
				} `json:"title"`
				Synonyms    []string `json:"synonyms"`
				Episodes    int      `json:"episodes"`
				SeasonYear  int      `json:"seasonYear"`
				Format      string   `json:"format"`
				Genres      []string `json:"genres"`
				Description string   `json:"description"`
				CoverImage  struct {
					Large string `json:"large"`
				} `json:"coverImage"`
			} `json:"media"`
		} `json:"Page"`
	} `json:"data"`
}

func (s *SourceAniList) FetchAll(ctx context.Context) ([]models.AnimeRecord, error) {
	var all []models.AnimeRecord

	page := 1
	for len(all) < s.Max {
		resp, err := s.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, m := range resp.Data.Page.Media {
			rec := models.AnimeRecord{
				ID:           fmt.Sprintf("anilist-%d", m.ID),
				Title:        m.Title.Romaji,
				TitleEnglish: m.Title.English,
				TitleRomaji:  m.Title.Romaji,
				Episodes:     m.Episodes,
				Year:         m.SeasonYear,
				Type:         mapAniListFormat(m.Format),
				Genres:       m.Genres,
				Synopsis:     m.Description,
				CoverURL:     m.CoverImage.Large,
				ExternalIDs:  map[string]int64{models.SourceAniList: m.ID},
			}
			// idMal present means the entry maps onto the same MAL record,
			// which lets the dedup key collide with Jikan's output
			if m.IDMal != nil && *m.IDMal > 0 {
				rec.ExternalIDs[models.SourceMAL] = *m.IDMal
			}
			if m.Title.Native != "" {
				rec.AlternateTitles = append(rec.AlternateTitles, m.Title.Native)
			}
			rec.AlternateTitles = append(rec.AlternateTitles, m.Synonyms...)

			all = append(all, rec)
		}

		if !resp.Data.Page.PageInfo.HasNextPage {
			break
		}
		page++
	}

	return all, nil
}

func (s *SourceAniList) fetchPage(ctx context.Context, page int) (*anilistResponse, error) {
	payload, err := json.Marshal(map[string]any{
		"query": anilistQuery,
		"variables": map[string]int{
			"page":    page,
			"perPage": s.PerPage,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anilist: marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anilistEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("anilist: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anilist: request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("anilist: unexpected status %d: %s", res.StatusCode, body)
	}

	var out anilistResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("anilist: decode response: %w", err)
	}
	return &out, nil
}

// mapAniListFormat folds AniList's format enum onto the coarse type
// vocabulary shared with MAL ("TV", "Movie", "OVA", ...).
func mapAniListFormat(format string) string {
	switch format {
	case "TV", "TV_SHORT":
		return "TV"
	case "MOVIE":
		return "Movie"
	case "OVA":
		return "OVA"
	case "ONA":
		return "ONA"
	case "SPECIAL":
		return "Special"
	case "MUSIC":
		return "Music"
	default:
		return format
	}
}
