// Shared relation-loading helpers for the book and video repositories.
// Both resource types attach tags and authors through identically shaped
// join tables (book_tags/video_tags, book_authors/video_authors), so the
// batched loaders are parameterized by table name. Table names are
// compile-time constants here, never request input.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/wavesrc/resource-center/internal/model"
)

// placeholders returns "?,?,...,?" for n arguments.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []uint64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// loadTagsFor returns the tags of each resource id in one query, keyed
// by resource id. Tags come back in alphabetical order.
func loadTagsFor(ctx context.Context, db *sql.DB, joinTable, fkCol string, ids []uint64) (map[uint64][]model.Tag, error) {
	out := make(map[uint64][]model.Tag, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := `SELECT j.` + fkCol + `, t.id, t.name, t.slug, t.created_at, t.updated_at
	      FROM ` + joinTable + ` j
	      JOIN tags t ON t.id = j.tag_id
	      WHERE j.` + fkCol + ` IN (` + placeholders(len(ids)) + `)
	      ORDER BY t.name`
	rows, err := db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rid uint64
		var t model.Tag
		if err := rows.Scan(&rid, &t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out[rid] = append(out[rid], t)
	}
	return out, rows.Err()
}

// loadAuthorsFor returns the authors of each resource id in one query,
// keyed by resource id.
func loadAuthorsFor(ctx context.Context, db *sql.DB, joinTable, fkCol string, ids []uint64) (map[uint64][]model.Author, error) {
	out := make(map[uint64][]model.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := `SELECT j.` + fkCol + `, u.id, u.first_name, u.last_name, u.email
	      FROM ` + joinTable + ` j
	      JOIN users u ON u.id = j.user_id
	      WHERE j.` + fkCol + ` IN (` + placeholders(len(ids)) + `)
	      ORDER BY u.last_name, u.first_name`
	rows, err := db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rid uint64
		var a model.Author
		if err := rows.Scan(&rid, &a.ID, &a.FirstName, &a.LastName, &a.Email); err != nil {
			return nil, err
		}
		out[rid] = append(out[rid], a)
	}
	return out, rows.Err()
}

// replaceLinks rewrites the join rows of one resource inside an open
// transaction: old rows are removed, then one row per target id is
// inserted. Used for both tag and author links on create and update so
// the parent row and its relations always commit together.
func replaceLinks(ctx context.Context, tx *sql.Tx, joinTable, fkCol, targetCol string, resourceID uint64, targetIDs []uint64) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM "+joinTable+" WHERE "+fkCol+"=?", resourceID); err != nil {
		return err
	}
	for _, tid := range targetIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+joinTable+" ("+fkCol+", "+targetCol+") VALUES (?,?)",
			resourceID, tid); err != nil {
			return err
		}
	}
	return nil
}
