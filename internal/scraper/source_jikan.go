package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"animehub/pkg/models"
)

// Jikan REST API base (public MAL mirror)
const jikanBase = "https://api.jikan.moe/v4"

// SourceJikan fetches the anime catalog from MyAnimeList via Jikan.
type SourceJikan struct {
	Client *http.Client
	Limit  int // items per request
	Max    int // maximum items to fetch total (safety)
}

func NewSourceJikan() *SourceJikan {
	return &SourceJikan{
		Client: &http.Client{Timeout: 12 * time.Second},
		Limit:  25,
		Max:    200, // keep demo-safe; bump later if you want
	}
}

func (s *SourceJikan) Name() string { return "jikan" }

type jikanResponse struct {
	Pagination struct {
		HasNextPage bool `json:"has_next_page"`
	} `json:"pagination"`
	Data []struct {
		MalID        int64  `json:"mal_id"`
		Title        string `json:"title"`
		TitleEnglish string `json:"title_english"`
		TitleJapan   string `json:"title_japanese"`
		Titles       []struct {
			Type  string `json:"type"`
			Title string `json:"title"`
		} `json:"titles"`
		Type     string `json:"type"`
		Episodes int    `json:"episodes"`
		Year     int    `json:"year"`
		Synopsis string `json:"synopsis"`
		Genres   []struct {
			Name string `json:"name"`
		} `json:"genres"`
		Images struct {
			JPG struct {
				ImageURL string `json:"image_url"`
			} `json:"jpg"`
		} `json:"images"`
	} `json:"data"`
}

func (s *SourceJikan) FetchAll(ctx context.Context) ([]models.AnimeRecord, error) {
	var all []models.AnimeRecord

	page := 1
	for len(all) < s.Max {
		u, _ := url.Parse(jikanBase + "/anime")
		q := u.Query()
		q.Set("limit", fmt.Sprintf("%d", s.Limit))
		q.Set("page", fmt.Sprintf("%d", page))
		q.Set("order_by", "mal_id")
		u.RawQuery = q.Encode()

		resp, err := s.fetchPage(ctx, u.String())
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Data {
			if item.MalID == 0 {
				continue
			}

			rec := models.AnimeRecord{
				ID:           fmt.Sprintf("mal-%d", item.MalID),
				Title:        item.Title,
				TitleEnglish: item.TitleEnglish,
				Episodes:     item.Episodes,
				Year:         item.Year,
				Type:         item.Type,
				Synopsis:     item.Synopsis,
				CoverURL:     item.Images.JPG.ImageURL,
				ExternalIDs:  map[string]int64{models.SourceMAL: item.MalID},
			}

			// MAL's "Default" title is usually the romanized one; the
			// titles list carries synonyms worth keeping as alternates
			for _, t := range item.Titles {
				switch t.Type {
				case "Default":
					rec.TitleRomaji = t.Title
				case "Synonym":
					rec.AlternateTitles = append(rec.AlternateTitles, t.Title)
				}
			}
			if rec.TitleRomaji == rec.Title {
				rec.TitleRomaji = ""
			}
			if item.TitleJapan != "" && item.TitleJapan != rec.Title {
				rec.AlternateTitles = append(rec.AlternateTitles, item.TitleJapan)
			}

			for _, g := range item.Genres {
				rec.Genres = append(rec.Genres, g.Name)
			}

			all = append(all, rec)
		}

		if !resp.Pagination.HasNextPage {
			break
		}
		page++
	}

	return all, nil
}

func (s *SourceJikan) fetchPage(ctx context.Context, rawURL string) (*jikanResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jikan: build request: %w", err)
	}

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jikan: request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("jikan: unexpected status %d: %s", res.StatusCode, body)
	}

	var out jikanResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("jikan: decode response: %w", err)
	}
	return &out, nil
}
