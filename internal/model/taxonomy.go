package model

import "time"

// Category represents a row in the `categories` table. Every resource
// belongs to exactly one category and the relation is protected: a
// category referenced by any book or video cannot be deleted.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique human name, at most 30 characters.
//  Slug        – unique URL-safe identifier.
//  Description – optional summary, at most 100 characters.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Category struct {
	ID          uint64    // categories.id
	Name        string    // categories.name
	Slug        string    // categories.slug
	Description *string   // categories.description (nullable)
	CreatedAt   time.Time // categories.created_at
	UpdatedAt   time.Time // categories.updated_at
}

// Tag represents a row in the `tags` table. Tags are optional,
// multi-valued classifications; resources reference them through the
// book_tags and video_tags join tables. Unlike categories, tags carry
// no description.
type Tag struct {
	ID        uint64    // tags.id
	Name      string    // tags.name
	Slug      string    // tags.slug
	CreatedAt time.Time // tags.created_at
	UpdatedAt time.Time // tags.updated_at
}

// Maximum field lengths enforced on taxonomy writes.
const (
	MaxTaxonomyNameLen        = 30
	MaxCategoryDescriptionLen = 100
)
