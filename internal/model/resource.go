package model

import (
	"strings"
	"time"
)

// Shared field limits for books and videos.
const (
	MaxResourceTitleLen   = 50
	MaxResourceSummaryLen = 200
)

// Listing page sizes are fixed per resource type.
const (
	BookPageSize  = 6
	VideoPageSize = 9
)

// DefaultBookCover is the placeholder cover assigned to books uploaded
// without artwork.
const DefaultBookCover = "book_covers/book-cover.png"

// Author is the slice of user fields attached to a resource through the
// book_authors / video_authors join tables.
type Author struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Book represents a row in the `books` table together with its joined
// relations. Tags are loaded in alphabetical order.
//
// Fields:
//  ID         – primary key identifier.
//  Title      – display title, at most 50 characters.
//  Slug       – unique URL-safe identifier (unique per resource type).
//  Summary    – optional abstract, at most 200 characters.
//  CategoryID – owning category (protect-on-delete).
//  CoverImage – storage path of the cover artwork.
//  FileUpload – storage path of the book payload, required.
//  DatePosted – publication timestamp, defaults to creation time.
//  LastEdit   – auto-advanced on every mutation.
type Book struct {
	ID         uint64    // books.id
	Title      string    // books.title
	Slug       string    // books.slug
	Summary    *string   // books.summary (nullable)
	CategoryID uint64    // books.category_id
	CoverImage string    // books.cover_image
	FileUpload string    // books.file_upload
	DatePosted time.Time // books.date_posted
	LastEdit   time.Time // books.last_edit

	Category Category // joined categories row
	Tags     []Tag    // joined via book_tags, ordered by name
	Authors  []Author // joined via book_authors
}

// Video represents a row in the `videos` table together with its joined
// relations. The payload is an external streaming URL instead of an
// uploaded file.
type Video struct {
	ID         uint64    // videos.id
	Title      string    // videos.title
	Slug       string    // videos.slug
	Summary    *string   // videos.summary (nullable)
	CategoryID uint64    // videos.category_id
	URL        string    // videos.url
	DatePosted time.Time // videos.date_posted
	LastEdit   time.Time // videos.last_edit

	Category Category
	Tags     []Tag
	Authors  []Author
}

// DisplayTags renders a tag set for compact listings: fewer than three
// tags are comma-joined in full, otherwise the first three names are
// joined and an ellipsis marker is appended.
func DisplayTags(tags []Tag) string {
	names := make([]string, 0, 3)
	for i, t := range tags {
		if i == 3 {
			break
		}
		names = append(names, t.Name)
	}
	if len(tags) < 3 {
		return strings.Join(names, ", ")
	}
	return strings.Join(names, ", ") + " ..."
}

// Pagination describes the position of one page inside a full listing.
// TotalPages is at least 1 so that an empty listing still renders as a
// single empty page.
type Pagination struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPagination computes page metadata from a total row count.
func NewPagination(page, pageSize int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	return Pagination{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  pages,
		HasNext:     page < pages,
		HasPrevious: page > 1,
	}
}
