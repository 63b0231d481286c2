package dedup

import (
	"errors"
	"fmt"
	"strconv"

	"animehub/pkg/models"
)

// ErrInvalidRecord marks a record that carries neither an external id
// nor a usable title. Such a record cannot be keyed and would corrupt
// batch grouping, so the condition is surfaced instead of defaulted.
var ErrInvalidRecord = errors.New("record has no external id or usable title")

// GenerateKey derives the stable grouping key for a record. External
// ids win over titles: two records sharing a MAL or AniList id always
// collide no matter how different their titles are. Without ids the
// key falls back to the season-stripped base title of the best
// available title field (English, then primary, then romaji).
func (e *Engine) GenerateKey(rec models.AnimeRecord) (string, error) {
	if id, ok := rec.ExternalIDs[models.SourceMAL]; ok {
		return "mal:" + strconv.FormatInt(id, 10), nil
	}
	if id, ok := rec.ExternalIDs[models.SourceAniList]; ok {
		return "al:" + strconv.FormatInt(id, 10), nil
	}

	base := e.ExtractSeason(rec.BestTitle()).BaseTitle
	if base == "" {
		return "", fmt.Errorf("generate key for %q: %w", rec.ID, ErrInvalidRecord)
	}
	return "t:" + base, nil
}
