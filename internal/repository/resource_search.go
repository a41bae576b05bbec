package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// ResourceSearchQuery defines filters and pagination for searching one
// resource type. Kind selects the table ("book" or "video"); the other
// filters are optional.
type ResourceSearchQuery struct {
	Kind     string
	Title    string
	Category string
	Tag      string
	Page     int
	PageSize int
}

// ResourceRow is the flattened listing shape returned by Search. It is
// shared by books and videos; Payload carries the file path or the
// external URL depending on Kind.
type ResourceRow struct {
	Kind       string    `json:"kind"`
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Summary    *string   `json:"summary,omitempty"`
	Category   string    `json:"category"`
	Payload    string    `json:"payload"`
	DatePosted time.Time `json:"date_posted"`
}

// SearchRepo runs filtered listing queries across either resource table.
type SearchRepo struct {
	db *sql.DB
}

func NewSearchRepo(db *sql.DB) *SearchRepo { return &SearchRepo{db: db} }

// Search returns one page of matching resources newest-first together
// with the total match count, using the same count-then-data two-query
// pattern as the plain listings.
func (r *SearchRepo) Search(ctx context.Context, q ResourceSearchQuery) ([]ResourceRow, int64, error) {
	table, joinTable, fkCol, payloadCol := "books", "book_tags", "book_id", "file_upload"
	if strings.EqualFold(q.Kind, "video") {
		table, joinTable, fkCol, payloadCol = "videos", "video_tags", "video_id", "url"
	}

	where := []string{}
	args := []any{}
	if q.Title != "" {
		where = append(where, "LOWER(x.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Category != "" {
		where = append(where, "c.slug = ?")
		args = append(args, q.Category)
	}
	if q.Tag != "" {
		where = append(where,
			`EXISTS (SELECT 1 FROM `+joinTable+` j JOIN tags t ON t.id = j.tag_id
			 WHERE j.`+fkCol+` = x.id AND t.slug = ?)`)
		args = append(args, q.Tag)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM ` + table + ` x
		JOIN categories c ON c.id = x.category_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT x.id, x.title, x.slug, x.summary, c.name, x.` + payloadCol + `, x.date_posted
		FROM ` + table + ` x
		JOIN categories c ON c.id = x.category_id
		WHERE ` + cond + `
		ORDER BY x.date_posted DESC, x.id DESC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	kind := "book"
	if table == "videos" {
		kind = "video"
	}
	out := make([]ResourceRow, 0, limit)
	for rows.Next() {
		var d ResourceRow
		var summary sql.NullString
		if err := rows.Scan(&d.ID, &d.Title, &d.Slug, &summary, &d.Category, &d.Payload, &d.DatePosted); err != nil {
			return nil, 0, err
		}
		if summary.Valid {
			d.Summary = &summary.String
		}
		d.Kind = kind
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
