package models

// AnimeDB is the flattened row form served by the HTTP list endpoints.
type AnimeDB struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	TitleEnglish  string   `json:"title_english,omitempty"`
	TitleRomaji   string   `json:"title_romaji,omitempty"`
	Episodes      int      `json:"episodes,omitempty"`
	Year          int      `json:"year,omitempty"`
	Type          string   `json:"type,omitempty"`
	Genres        []string `json:"genres"`
	Synopsis      string   `json:"synopsis,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Consolidated  bool     `json:"consolidated"`
	SeasonCount   int      `json:"season_count,omitempty"`
}
