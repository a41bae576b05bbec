// This file defines repository methods for books: creation and update
// with transactional author/tag links, newest-first paginated listing
// and slug lookup with joined relations.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wavesrc/resource-center/internal/model"
)

// BookRepo encapsulates all database queries related to books.
type BookRepo struct {
	db *sql.DB
}

func NewBookRepo(db *sql.DB) *BookRepo {
	return &BookRepo{db: db}
}

const bookColumns = `b.id, b.title, b.slug, b.summary, b.category_id, b.cover_image,
	b.file_upload, b.date_posted, b.last_edit,
	c.id, c.name, c.slug, c.description, c.created_at, c.updated_at`

// Create inserts a book and its author/tag link rows in a single
// transaction, so a failure between the parent insert and the link
// writes can never leave a half-linked resource behind. An unset
// DatePosted defaults to now (in the database); an empty cover falls
// back to the placeholder.
func (r *BookRepo) Create(ctx context.Context, b *model.Book, authorIDs, tagIDs []uint64) error {
	if b.CoverImage == "" {
		b.CoverImage = model.DefaultBookCover
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var res sql.Result
	if b.DatePosted.IsZero() {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO books (title, slug, summary, category_id, cover_image, file_upload)
			 VALUES (?,?,?,?,?,?)`,
			b.Title, b.Slug, b.Summary, b.CategoryID, b.CoverImage, b.FileUpload)
	} else {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO books (title, slug, summary, category_id, cover_image, file_upload, date_posted)
			 VALUES (?,?,?,?,?,?,?)`,
			b.Title, b.Slug, b.Summary, b.CategoryID, b.CoverImage, b.FileUpload, b.DatePosted)
	}
	if err != nil {
		return mapResourceWriteErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if err := replaceLinks(ctx, tx, "book_authors", "book_id", "user_id", b.ID, authorIDs); err != nil {
		return err
	}
	if err := replaceLinks(ctx, tx, "book_tags", "book_id", "tag_id", b.ID, tagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the mutable columns and replaces the link rows, all
// in one transaction. last_edit auto-advances on every call.
func (r *BookRepo) Update(ctx context.Context, b *model.Book, authorIDs, tagIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE books
		 SET title=?, slug=?, summary=?, category_id=?, cover_image=?, file_upload=?, last_edit=CURRENT_TIMESTAMP
		 WHERE id=?`,
		b.Title, b.Slug, b.Summary, b.CategoryID, b.CoverImage, b.FileUpload, b.ID)
	if err != nil {
		return mapResourceWriteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// A no-op update also reports 0; confirm the row exists.
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM books WHERE id=?", b.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookNotFound
			}
			return err
		}
	}
	if err := replaceLinks(ctx, tx, "book_authors", "book_id", "user_id", b.ID, authorIDs); err != nil {
		return err
	}
	if err := replaceLinks(ctx, tx, "book_tags", "book_id", "tag_id", b.ID, tagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns one page of books ordered newest-posted-first, plus the
// total row count for pagination metadata. Empty pages are empty
// slices, never errors.
func (r *BookRepo) List(ctx context.Context, page, pageSize int) ([]model.Book, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookColumns+`
		 FROM books b
		 JOIN categories c ON c.id = b.category_id
		 ORDER BY b.date_posted DESC, b.id DESC
		 LIMIT ? OFFSET ?`, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Book, 0, pageSize)
	ids := make([]uint64, 0, pageSize)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachLinks(ctx, out, ids); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetBySlug returns a single book with its category, alphabetically
// ordered tags and authors.
func (r *BookRepo) GetBySlug(ctx context.Context, slug string) (*model.Book, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+`
		 FROM books b
		 JOIN categories c ON c.id = b.category_id
		 WHERE b.slug=? LIMIT 1`, slug)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	books := []model.Book{*b}
	if err := r.attachLinks(ctx, books, []uint64{b.ID}); err != nil {
		return nil, err
	}
	return &books[0], nil
}

func (r *BookRepo) attachLinks(ctx context.Context, books []model.Book, ids []uint64) error {
	tags, err := loadTagsFor(ctx, r.db, "book_tags", "book_id", ids)
	if err != nil {
		return err
	}
	authors, err := loadAuthorsFor(ctx, r.db, "book_authors", "book_id", ids)
	if err != nil {
		return err
	}
	for i := range books {
		books[i].Tags = tags[books[i].ID]
		books[i].Authors = authors[books[i].ID]
	}
	return nil
}

func scanBook(s rowScanner) (*model.Book, error) {
	var b model.Book
	var summary, catDesc sql.NullString
	err := s.Scan(&b.ID, &b.Title, &b.Slug, &summary, &b.CategoryID, &b.CoverImage,
		&b.FileUpload, &b.DatePosted, &b.LastEdit,
		&b.Category.ID, &b.Category.Name, &b.Category.Slug, &catDesc,
		&b.Category.CreatedAt, &b.Category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if summary.Valid {
		b.Summary = &summary.String
	}
	if catDesc.Valid {
		b.Category.Description = &catDesc.String
	}
	return &b, nil
}

// mapResourceWriteErr converts MySQL constraint failures on resource
// writes into the repository sentinels: 1062 on the slug index means a
// duplicate slug, 1452 means the referenced category does not exist.
func mapResourceWriteErr(err error) error {
	if isDuplicateErr(err) {
		return ErrSlugExists
	}
	if isMissingParentErr(err) {
		return ErrCategoryNotFound
	}
	return err
}
