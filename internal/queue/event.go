// Package queue defines message payloads exchanged over the message broker.
package queue

// ResourcePublishedEvent is published when staff create a new book or
// video. It carries enough information for downstream consumers to log,
// notify members or feed analytics without querying the primary
// database.
type ResourcePublishedEvent struct {
	Kind       string   `json:"kind"` // "book" or "video"
	ResourceID uint64   `json:"resource_id"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Authors    []string `json:"authors"`
	PostedAt   string   `json:"posted_at"`
}
