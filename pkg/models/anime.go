package models

// AnimeRecord is the normalized, internal form of an anime entry.
// One record represents one metadata observation of an anime, either
// from a single source (user submission, external catalog API) or
// from the canonical store.
//
// All external sources are mapped into this structure first, then the
// dedup engine merges observations into canonical entries.
type AnimeRecord struct {
	ID              string           `json:"id"`                         // our canonical ID (slug)
	Title           string           `json:"title"`                      // primary title
	TitleEnglish    string           `json:"title_english,omitempty"`    // localized English title
	TitleRomaji     string           `json:"title_romaji,omitempty"`     // romanized Japanese title
	AlternateTitles []string         `json:"alternate_titles,omitempty"` // additional known titles
	Episodes        int              `json:"episodes,omitempty"`         // episode count (primary source)
	TotalEpisodes   int              `json:"total_episodes,omitempty"`   // episode count from another source
	Year            int              `json:"year,omitempty"`             // release year
	Type            string           `json:"type,omitempty"`             // "TV", "Movie", "OVA", ...
	ExternalIDs     map[string]int64 `json:"external_ids,omitempty"`     // e.g. {"mal": 20, "anilist": 21}
	Genres          []string         `json:"genres,omitempty"`           // normalized genre list
	Synopsis        string           `json:"synopsis,omitempty"`         // longest known description
	CoverURL        string           `json:"cover_url,omitempty"`        // cover image URL (if any)
	Consolidated    bool             `json:"consolidated,omitempty"`     // true once seasons are folded in
	Seasons         []Season         `json:"seasons,omitempty"`          // only on consolidated records
}

// Season describes one member of a consolidated multi-season series.
// Season 0 means the index is unknown; such entries sort last.
type Season struct {
	Season      int              `json:"season,omitempty"`
	Label       string           `json:"label,omitempty"`
	Episodes    int              `json:"episodes,omitempty"`
	Year        int              `json:"year,omitempty"`
	ExternalIDs map[string]int64 `json:"external_ids,omitempty"`
}

// Canonical external-ID source names. Adapters at the ingestion boundary
// must map source-specific synonyms (mal_id, idMal, ...) onto these.
const (
	SourceMAL     = "mal"
	SourceAniList = "anilist"
)

// EpisodeCount returns the best known episode count, 0 if unknown.
func (a AnimeRecord) EpisodeCount() int {
	if a.Episodes > 0 {
		return a.Episodes
	}
	return a.TotalEpisodes
}

// BestTitle returns the preferred title field for key generation:
// English first, then the primary title, then romaji.
func (a AnimeRecord) BestTitle() string {
	if a.TitleEnglish != "" {
		return a.TitleEnglish
	}
	if a.Title != "" {
		return a.Title
	}
	return a.TitleRomaji
}

// AllTitles returns every non-empty title variant on the record.
func (a AnimeRecord) AllTitles() []string {
	out := make([]string, 0, 3+len(a.AlternateTitles))
	for _, t := range []string{a.Title, a.TitleEnglish, a.TitleRomaji} {
		if t != "" {
			out = append(out, t)
		}
	}
	for _, t := range a.AlternateTitles {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a deep copy. The dedup engine never mutates its inputs;
// merged outputs are built from clones.
func (a AnimeRecord) Clone() AnimeRecord {
	out := a
	if a.AlternateTitles != nil {
		out.AlternateTitles = append([]string(nil), a.AlternateTitles...)
	}
	if a.Genres != nil {
		out.Genres = append([]string(nil), a.Genres...)
	}
	if a.ExternalIDs != nil {
		out.ExternalIDs = make(map[string]int64, len(a.ExternalIDs))
		for k, v := range a.ExternalIDs {
			out.ExternalIDs[k] = v
		}
	}
	if a.Seasons != nil {
		out.Seasons = make([]Season, len(a.Seasons))
		for i, s := range a.Seasons {
			out.Seasons[i] = s.clone()
		}
	}
	return out
}

func (s Season) clone() Season {
	out := s
	if s.ExternalIDs != nil {
		out.ExternalIDs = make(map[string]int64, len(s.ExternalIDs))
		for k, v := range s.ExternalIDs {
			out.ExternalIDs[k] = v
		}
	}
	return out
}
