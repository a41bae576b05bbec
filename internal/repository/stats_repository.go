package repository

import (
	"context"
	"database/sql"
)

// SiteStats is the aggregate count payload rendered on the homepage.
type SiteStats struct {
	Books  int64 `json:"num_books"`
	Videos int64 `json:"num_videos"`
	Users  int64 `json:"num_users"`
}

// StatsRepo answers the homepage count queries.
type StatsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Counts returns the number of books, videos and users.
func (r *StatsRepo) Counts(ctx context.Context) (SiteStats, error) {
	var s SiteStats
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&s.Books); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos").Scan(&s.Videos); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&s.Users); err != nil {
		return s, err
	}
	return s, nil
}
