package anime

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"animehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q      string   // keyword search in titles
	Genres []string // any-match
	Type   string
	Year   int
	Limit  int
	Offset int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const animeColumns = `
	id, title, title_english, title_romaji, alternate_titles,
	episodes, year, type, external_ids, genres, synopsis, cover_url,
	consolidated, seasons
`

func (r *Repo) GetByID(ctx context.Context, id string) (*models.AnimeRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+animeColumns+`
		FROM anime
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return rec, nil
}

// ListAll loads the entire canonical set, used by dedup audit passes
// and by the submission insert-or-link check.
func (r *Repo) ListAll(ctx context.Context) ([]models.AnimeRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+animeColumns+`
		FROM anime
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listAll query: %w", err)
	}
	defer rows.Close()

	var out []models.AnimeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("listAll scan: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.AnimeDB, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.AnimeDB, 0, q.Limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, toListRow(*rec))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Replace writes the merged canonical record and removes the absorbed
// ones in one transaction, for audit-merge passes.
func (r *Repo) Replace(ctx context.Context, keep models.AnimeRecord, removeIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	for _, id := range removeIDs {
		if id == keep.ID {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM anime WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
	}

	if err := upsertTx(ctx, tx, keep); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// Upsert writes a single record.
func (r *Repo) Upsert(ctx context.Context, rec models.AnimeRecord) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	if err := upsertTx(ctx, tx, rec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

func upsertTx(ctx context.Context, tx *sql.Tx, rec models.AnimeRecord) error {
	alternates, _ := json.Marshal(rec.AlternateTitles)
	externalIDs, _ := json.Marshal(rec.ExternalIDs)
	genres, _ := json.Marshal(rec.Genres)
	seasons, _ := json.Marshal(rec.Seasons)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO anime (`+animeColumns+`)
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
	`,
		rec.ID, rec.Title, rec.TitleEnglish, rec.TitleRomaji, string(alternates),
		rec.Episodes, rec.Year, rec.Type, string(externalIDs), string(genres),
		rec.Synopsis, rec.CoverURL, rec.Consolidated, string(seasons),
	)
	if err != nil {
		return fmt.Errorf("exec upsert for %s: %w", rec.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.AnimeRecord, error) {
	var (
		rec          models.AnimeRecord
		titleEnglish sql.NullString
		titleRomaji  sql.NullString
		alternates   sql.NullString
		episodes     sql.NullInt64
		year         sql.NullInt64
		typ          sql.NullString
		externalIDs  sql.NullString
		genres       sql.NullString
		synopsis     sql.NullString
		coverURL     sql.NullString
		seasons      sql.NullString
	)

	if err := row.Scan(
		&rec.ID, &rec.Title, &titleEnglish, &titleRomaji, &alternates,
		&episodes, &year, &typ, &externalIDs, &genres, &synopsis, &coverURL,
		&rec.Consolidated, &seasons,
	); err != nil {
		return nil, err
	}

	rec.TitleEnglish = titleEnglish.String
	rec.TitleRomaji = titleRomaji.String
	rec.Episodes = int(episodes.Int64)
	rec.Year = int(year.Int64)
	rec.Type = typ.String
	rec.Synopsis = synopsis.String
	rec.CoverURL = coverURL.String

	if alternates.Valid {
		_ = json.Unmarshal([]byte(alternates.String), &rec.AlternateTitles)
	}
	if externalIDs.Valid {
		_ = json.Unmarshal([]byte(externalIDs.String), &rec.ExternalIDs)
	}
	if genres.Valid {
		_ = json.Unmarshal([]byte(genres.String), &rec.Genres)
	}
	if seasons.Valid {
		_ = json.Unmarshal([]byte(seasons.String), &rec.Seasons)
	}

	return &rec, nil
}

func toListRow(rec models.AnimeRecord) models.AnimeDB {
	return models.AnimeDB{
		ID:           rec.ID,
		Title:        rec.Title,
		TitleEnglish: rec.TitleEnglish,
		TitleRomaji:  rec.TitleRomaji,
		Episodes:     rec.EpisodeCount(),
		Year:         rec.Year,
		Type:         rec.Type,
		Genres:       rec.Genres,
		Synopsis:     rec.Synopsis,
		CoverURL:     rec.CoverURL,
		Consolidated: rec.Consolidated,
		SeasonCount:  len(rec.Seasons),
	}
}

// buildListSQL builds either COUNT(*) or SELECT list.
// genres filter is "any-match" by doing LIKE searches inside stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + animeColumns + ` FROM anime`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM anime`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, `(
			LOWER(title) LIKE ? OR LOWER(title_english) LIKE ?
			OR LOWER(title_romaji) LIKE ? OR LOWER(alternate_titles) LIKE ?
		)`)
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw, kw, kw)
	}

	if strings.TrimSpace(q.Type) != "" {
		where = append(where, "LOWER(type) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(q.Type)))
	}

	if q.Year > 0 {
		where = append(where, "year = ?")
		args = append(args, q.Year)
	}

	// any-match genre filter against JSON string
	if len(q.Genres) > 0 {
		var genreOr []string
		for _, g := range q.Genres {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			genreOr = append(genreOr, "LOWER(genres) LIKE ?")
			args = append(args, `%`+strings.ToLower(g)+`%`)
		}
		if len(genreOr) > 0 {
			where = append(where, "("+strings.Join(genreOr, " OR ")+")")
		}
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY title ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
