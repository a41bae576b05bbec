package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wavesrc/resource-center/internal/model"
	"github.com/wavesrc/resource-center/internal/repository"
)

// BrowseHandler serves the member-facing read side: the landing page
// counters and the paginated book and video listings.
type BrowseHandler struct {
	Books  *repository.BookRepo
	Videos *repository.VideoRepo
	Stats  *repository.StatsRepo
}

func NewBrowseHandler(b *repository.BookRepo, v *repository.VideoRepo, s *repository.StatsRepo) *BrowseHandler {
	return &BrowseHandler{Books: b, Videos: v, Stats: s}
}

// bookItem is the listing/detail shape for a book. DisplayTags carries
// the truncated tag line that listings render next to each entry.
type bookItem struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Summary     *string        `json:"summary,omitempty"`
	Category    categoryItem   `json:"category"`
	CoverImage  string         `json:"cover_image"`
	FileUpload  string         `json:"file_upload"`
	DatePosted  time.Time      `json:"date_posted"`
	LastEdit    time.Time      `json:"last_edit"`
	Authors     []model.Author `json:"authors"`
	Tags        []tagItem      `json:"tags"`
	DisplayTags string         `json:"display_tags"`
}

type videoItem struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Summary     *string        `json:"summary,omitempty"`
	Category    categoryItem   `json:"category"`
	URL         string         `json:"url"`
	DatePosted  time.Time      `json:"date_posted"`
	LastEdit    time.Time      `json:"last_edit"`
	Authors     []model.Author `json:"authors"`
	Tags        []tagItem      `json:"tags"`
	DisplayTags string         `json:"display_tags"`
}

type categoryItem struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}

type tagItem struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func toCategoryItem(c model.Category) categoryItem {
	return categoryItem{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

func toTagItems(tags []model.Tag) []tagItem {
	out := make([]tagItem, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagItem{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return out
}

func toBookItem(b model.Book) bookItem {
	return bookItem{
		ID:          b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Summary:     b.Summary,
		Category:    toCategoryItem(b.Category),
		CoverImage:  b.CoverImage,
		FileUpload:  b.FileUpload,
		DatePosted:  b.DatePosted,
		LastEdit:    b.LastEdit,
		Authors:     b.Authors,
		Tags:        toTagItems(b.Tags),
		DisplayTags: model.DisplayTags(b.Tags),
	}
}

func toVideoItem(v model.Video) videoItem {
	return videoItem{
		ID:          v.ID,
		Title:       v.Title,
		Slug:        v.Slug,
		Summary:     v.Summary,
		Category:    toCategoryItem(v.Category),
		URL:         v.URL,
		DatePosted:  v.DatePosted,
		LastEdit:    v.LastEdit,
		Authors:     v.Authors,
		Tags:        toTagItems(v.Tags),
		DisplayTags: model.DisplayTags(v.Tags),
	}
}

// Home returns the landing-page counters: how many books, videos and
// registered users the site holds.
func (h *BrowseHandler) Home(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Stats.Counts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
	}
	return c.JSON(http.StatusOK, stats)
}

// ListBooks returns one page of books, newest first, six per page.
func (h *BrowseHandler) ListBooks(c echo.Context) error {
	page := parsePage(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	books, total, err := h.Books.List(ctx, page, model.BookPageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list books failed"})
	}
	items := make([]bookItem, 0, len(books))
	for _, b := range books {
		items = append(items, toBookItem(b))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"books":      items,
		"pagination": model.NewPagination(page, model.BookPageSize, total),
	})
}

// GetBook returns one book by slug.
func (h *BrowseHandler) GetBook(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Books.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load book failed"})
	}
	return c.JSON(http.StatusOK, toBookItem(*b))
}

// ListVideos returns one page of videos, newest first, nine per page.
func (h *BrowseHandler) ListVideos(c echo.Context) error {
	page := parsePage(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	videos, total, err := h.Videos.List(ctx, page, model.VideoPageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list videos failed"})
	}
	items := make([]videoItem, 0, len(videos))
	for _, v := range videos {
		items = append(items, toVideoItem(v))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"videos":     items,
		"pagination": model.NewPagination(page, model.VideoPageSize, total),
	})
}

// GetVideo returns one video by slug.
func (h *BrowseHandler) GetVideo(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Videos.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "video not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load video failed"})
	}
	return c.JSON(http.StatusOK, toVideoItem(*v))
}
