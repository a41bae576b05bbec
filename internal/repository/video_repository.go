package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wavesrc/resource-center/internal/model"
)

// VideoRepo encapsulates all database queries related to videos. The
// shape mirrors BookRepo; the payload column is an external URL instead
// of an uploaded file and cover image.
type VideoRepo struct {
	db *sql.DB
}

func NewVideoRepo(db *sql.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

const videoColumns = `v.id, v.title, v.slug, v.summary, v.category_id, v.url,
	v.date_posted, v.last_edit,
	c.id, c.name, c.slug, c.description, c.created_at, c.updated_at`

// Create inserts a video and its author/tag link rows in a single
// transaction.
func (r *VideoRepo) Create(ctx context.Context, v *model.Video, authorIDs, tagIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var res sql.Result
	if v.DatePosted.IsZero() {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO videos (title, slug, summary, category_id, url) VALUES (?,?,?,?,?)`,
			v.Title, v.Slug, v.Summary, v.CategoryID, v.URL)
	} else {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO videos (title, slug, summary, category_id, url, date_posted) VALUES (?,?,?,?,?,?)`,
			v.Title, v.Slug, v.Summary, v.CategoryID, v.URL, v.DatePosted)
	}
	if err != nil {
		return mapVideoWriteErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)

	if err := replaceLinks(ctx, tx, "video_authors", "video_id", "user_id", v.ID, authorIDs); err != nil {
		return err
	}
	if err := replaceLinks(ctx, tx, "video_tags", "video_id", "tag_id", v.ID, tagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the mutable columns and replaces the link rows in one
// transaction. last_edit auto-advances on every call.
func (r *VideoRepo) Update(ctx context.Context, v *model.Video, authorIDs, tagIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE videos
		 SET title=?, slug=?, summary=?, category_id=?, url=?, last_edit=CURRENT_TIMESTAMP
		 WHERE id=?`,
		v.Title, v.Slug, v.Summary, v.CategoryID, v.URL, v.ID)
	if err != nil {
		return mapVideoWriteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM videos WHERE id=?", v.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrVideoNotFound
			}
			return err
		}
	}
	if err := replaceLinks(ctx, tx, "video_authors", "video_id", "user_id", v.ID, authorIDs); err != nil {
		return err
	}
	if err := replaceLinks(ctx, tx, "video_tags", "video_id", "tag_id", v.ID, tagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns one page of videos ordered newest-posted-first plus the
// total row count.
func (r *VideoRepo) List(ctx context.Context, page, pageSize int) ([]model.Video, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos").Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+videoColumns+`
		 FROM videos v
		 JOIN categories c ON c.id = v.category_id
		 ORDER BY v.date_posted DESC, v.id DESC
		 LIMIT ? OFFSET ?`, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Video, 0, pageSize)
	ids := make([]uint64, 0, pageSize)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *v)
		ids = append(ids, v.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachLinks(ctx, out, ids); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetBySlug returns a single video with its category, alphabetically
// ordered tags and authors.
func (r *VideoRepo) GetBySlug(ctx context.Context, slug string) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+videoColumns+`
		 FROM videos v
		 JOIN categories c ON c.id = v.category_id
		 WHERE v.slug=? LIMIT 1`, slug)
	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	videos := []model.Video{*v}
	if err := r.attachLinks(ctx, videos, []uint64{v.ID}); err != nil {
		return nil, err
	}
	return &videos[0], nil
}

func (r *VideoRepo) attachLinks(ctx context.Context, videos []model.Video, ids []uint64) error {
	tags, err := loadTagsFor(ctx, r.db, "video_tags", "video_id", ids)
	if err != nil {
		return err
	}
	authors, err := loadAuthorsFor(ctx, r.db, "video_authors", "video_id", ids)
	if err != nil {
		return err
	}
	for i := range videos {
		videos[i].Tags = tags[videos[i].ID]
		videos[i].Authors = authors[videos[i].ID]
	}
	return nil
}

func scanVideo(s rowScanner) (*model.Video, error) {
	var v model.Video
	var summary, catDesc sql.NullString
	err := s.Scan(&v.ID, &v.Title, &v.Slug, &summary, &v.CategoryID, &v.URL,
		&v.DatePosted, &v.LastEdit,
		&v.Category.ID, &v.Category.Name, &v.Category.Slug, &catDesc,
		&v.Category.CreatedAt, &v.Category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if summary.Valid {
		v.Summary = &summary.String
	}
	if catDesc.Valid {
		v.Category.Description = &catDesc.String
	}
	return &v, nil
}

func mapVideoWriteErr(err error) error {
	if isDuplicateErr(err) {
		return ErrSlugExists
	}
	if isMissingParentErr(err) {
		return ErrCategoryNotFound
	}
	return err
}
