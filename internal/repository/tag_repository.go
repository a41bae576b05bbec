package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wavesrc/resource-center/internal/model"
)

// TagRepo encapsulates all database queries related to tags. Tags are
// created by staff independently of resources; deleting one detaches it
// from every resource in the same transaction.
type TagRepo struct {
	db *sql.DB
}

func NewTagRepo(db *sql.DB) *TagRepo {
	return &TagRepo{db: db}
}

const tagColumns = "id, name, slug, created_at, updated_at"

// Create inserts a new tag and populates the generated fields.
func (r *TagRepo) Create(ctx context.Context, t *model.Tag) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tags (name, slug) VALUES (?,?)", t.Name, t.Slug)
	if err != nil {
		return mapTaxonomyDup(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE id=?", t.ID).
		Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt)
}

// GetBySlug fetches a tag by its slug.
func (r *TagRepo) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var t model.Tag
	err := r.db.QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE slug=? LIMIT 1", slug).
		Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAll returns every tag in alphabetical order.
func (r *TagRepo) ListAll(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+tagColumns+" FROM tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update renames a tag and/or replaces its slug.
func (r *TagRepo) Update(ctx context.Context, t *model.Tag) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tags SET name=?, slug=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		t.Name, t.Slug, t.ID)
	if err != nil {
		return mapTaxonomyDup(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// A no-op update also reports 0; confirm the row exists.
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM tags WHERE id=?", t.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTagNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a tag together with its book_tags and video_tags join
// rows in a single transaction.
func (r *TagRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM book_tags WHERE tag_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM video_tags WHERE tag_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTagNotFound
	}
	return tx.Commit()
}
