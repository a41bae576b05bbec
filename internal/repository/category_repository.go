// This file defines repository methods for resource categories. Every
// book and video belongs to exactly one category, and the relation is
// protective: MySQL rejects deleting a referenced category and the
// failure surfaces as ErrConflict rather than a cascade.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wavesrc/resource-center/internal/model"
)

// CategoryRepo encapsulates all database queries related to categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

const categoryColumns = "id, name, slug, description, created_at, updated_at"

// Create inserts a new category. On success the ID and timestamp fields
// are populated from the stored row so callers receive a complete
// record. Duplicate names and slugs map to ErrNameExists/ErrSlugExists
// based on which unique index fired.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (name, slug, description) VALUES (?,?,?)",
		c.Name, c.Slug, c.Description)
	if err != nil {
		return mapTaxonomyDup(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id=?", c.ID).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
}

// GetBySlug fetches a category by its slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE slug=? LIMIT 1", slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListAll returns every category in alphabetical order.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update renames a category and/or replaces its description and slug.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name=?, slug=?, description=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		c.Name, c.Slug, c.Description, c.ID)
	if err != nil {
		return mapTaxonomyDup(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// A no-op update also reports 0; confirm the row exists.
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM categories WHERE id=?", c.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCategoryNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a category. The FK from books and videos is RESTRICT,
// so deleting a category that still owns resources fails inside MySQL
// and is reported as ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	if err != nil {
		if isReferencedErr(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// mapTaxonomyDup distinguishes which unique index a 1062 hit: slugs
// contain no spaces or uppercase while names may, so the index name in
// the driver message is the reliable signal.
func mapTaxonomyDup(err error) error {
	if !isDuplicateErr(err) {
		return err
	}
	if errContainsIndex(err, "slug") {
		return ErrSlugExists
	}
	return ErrNameExists
}
