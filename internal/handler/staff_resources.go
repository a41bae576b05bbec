package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wavesrc/resource-center/internal/model"
	"github.com/wavesrc/resource-center/internal/queue"
	"github.com/wavesrc/resource-center/internal/repository"
	queue_publisher "github.com/wavesrc/resource-center/internal/service"
)

// StaffResourceHandler serves the staff-only book and video write
// endpoints. Successful creates announce the resource on the message
// queue so downstream consumers (digest mails, activity feeds) can
// react; publish failures never fail the request.
type StaffResourceHandler struct {
	Books  *repository.BookRepo
	Videos *repository.VideoRepo
	Log    zerolog.Logger
}

func NewStaffResourceHandler(b *repository.BookRepo, v *repository.VideoRepo, log zerolog.Logger) *StaffResourceHandler {
	return &StaffResourceHandler{Books: b, Videos: v, Log: log}
}

type bookReq struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Summary    *string  `json:"summary"`
	CategoryID uint64   `json:"category_id"`
	CoverImage string   `json:"cover_image"`
	FileUpload string   `json:"file_upload"`
	AuthorIDs  []uint64 `json:"author_ids"`
	TagIDs     []uint64 `json:"tag_ids"`
}

type videoReq struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Summary    *string  `json:"summary"`
	CategoryID uint64   `json:"category_id"`
	URL        string   `json:"url"`
	AuthorIDs  []uint64 `json:"author_ids"`
	TagIDs     []uint64 `json:"tag_ids"`
}

func validateResourceFields(title string, summary *string, categoryID, payloadLen int) string {
	if strings.TrimSpace(title) == "" {
		return "title is required"
	}
	if len([]rune(title)) > model.MaxResourceTitleLen {
		return "title is too long"
	}
	if summary != nil && len([]rune(*summary)) > model.MaxResourceSummaryLen {
		return "summary is too long"
	}
	if categoryID == 0 {
		return "category_id is required"
	}
	if payloadLen == 0 {
		return "payload is required"
	}
	return ""
}

func resourceWriteStatus(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, repository.ErrSlugExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
	case errors.Is(err, repository.ErrCategoryNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category does not exist"})
	case errors.Is(err, repository.ErrBookNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
	case errors.Is(err, repository.ErrVideoNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "video not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
	}
}

// announce publishes a resource.published event in the background.
func (h *StaffResourceHandler) announce(ev queue.ResourcePublishedEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := queue_publisher.PublishResourcePublished(ctx, ev); err != nil {
			h.Log.Warn().Err(err).Str("kind", ev.Kind).Str("slug", ev.Slug).Msg("publish event failed")
		}
	}()
}

func bookEvent(b *model.Book) queue.ResourcePublishedEvent {
	ev := queue.ResourcePublishedEvent{
		Kind:       "book",
		ResourceID: b.ID,
		Title:      b.Title,
		Slug:       b.Slug,
		Category:   b.Category.Name,
		PostedAt:   b.DatePosted.UTC().Format(time.RFC3339),
	}
	for _, t := range b.Tags {
		ev.Tags = append(ev.Tags, t.Name)
	}
	for _, a := range b.Authors {
		ev.Authors = append(ev.Authors, strings.TrimSpace(a.FirstName+" "+a.LastName))
	}
	return ev
}

func videoEvent(v *model.Video) queue.ResourcePublishedEvent {
	ev := queue.ResourcePublishedEvent{
		Kind:       "video",
		ResourceID: v.ID,
		Title:      v.Title,
		Slug:       v.Slug,
		Category:   v.Category.Name,
		PostedAt:   v.DatePosted.UTC().Format(time.RFC3339),
	}
	for _, t := range v.Tags {
		ev.Tags = append(ev.Tags, t.Name)
	}
	for _, a := range v.Authors {
		ev.Authors = append(ev.Authors, strings.TrimSpace(a.FirstName+" "+a.LastName))
	}
	return ev
}

// CreateBook inserts a book and its author/tag links in one
// transaction.
func (h *StaffResourceHandler) CreateBook(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if msg := validateResourceFields(req.Title, req.Summary, int(req.CategoryID), len(req.FileUpload)); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	slug, err := resolveSlug(req.Title, req.Slug)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b := &model.Book{
		Title:      req.Title,
		Slug:       slug,
		Summary:    req.Summary,
		CategoryID: req.CategoryID,
		CoverImage: req.CoverImage,
		FileUpload: req.FileUpload,
	}
	if err := h.Books.Create(ctx, b, req.AuthorIDs, req.TagIDs); err != nil {
		return resourceWriteStatus(c, err, "create book failed")
	}
	created, err := h.Books.GetBySlug(ctx, slug)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load book failed"})
	}
	h.announce(bookEvent(created))
	return c.JSON(http.StatusCreated, toBookItem(*created))
}

// UpdateBook rewrites a book row and replaces its links.
func (h *StaffResourceHandler) UpdateBook(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Books.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load book failed"})
	}

	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if msg := validateResourceFields(req.Title, req.Summary, int(req.CategoryID), len(req.FileUpload)); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	slug, err := resolveSlug(req.Title, req.Slug)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	existing.Title = req.Title
	existing.Slug = slug
	existing.Summary = req.Summary
	existing.CategoryID = req.CategoryID
	existing.CoverImage = req.CoverImage
	existing.FileUpload = req.FileUpload
	if err := h.Books.Update(ctx, existing, req.AuthorIDs, req.TagIDs); err != nil {
		return resourceWriteStatus(c, err, "update book failed")
	}
	updated, err := h.Books.GetBySlug(ctx, slug)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load book failed"})
	}
	return c.JSON(http.StatusOK, toBookItem(*updated))
}

// CreateVideo inserts a video and its author/tag links in one
// transaction.
func (h *StaffResourceHandler) CreateVideo(c echo.Context) error {
	var req videoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if msg := validateResourceFields(req.Title, req.Summary, int(req.CategoryID), len(req.URL)); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	slug, err := resolveSlug(req.Title, req.Slug)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v := &model.Video{
		Title:      req.Title,
		Slug:       slug,
		Summary:    req.Summary,
		CategoryID: req.CategoryID,
		URL:        req.URL,
	}
	if err := h.Videos.Create(ctx, v, req.AuthorIDs, req.TagIDs); err != nil {
		return resourceWriteStatus(c, err, "create video failed")
	}
	created, err := h.Videos.GetBySlug(ctx, slug)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load video failed"})
	}
	h.announce(videoEvent(created))
	return c.JSON(http.StatusCreated, toVideoItem(*created))
}

// UpdateVideo rewrites a video row and replaces its links.
func (h *StaffResourceHandler) UpdateVideo(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Videos.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "video not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load video failed"})
	}

	var req videoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if msg := validateResourceFields(req.Title, req.Summary, int(req.CategoryID), len(req.URL)); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	slug, err := resolveSlug(req.Title, req.Slug)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	existing.Title = req.Title
	existing.Slug = slug
	existing.Summary = req.Summary
	existing.CategoryID = req.CategoryID
	existing.URL = req.URL
	if err := h.Videos.Update(ctx, existing, req.AuthorIDs, req.TagIDs); err != nil {
		return resourceWriteStatus(c, err, "update video failed")
	}
	updated, err := h.Videos.GetBySlug(ctx, slug)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load video failed"})
	}
	return c.JSON(http.StatusOK, toVideoItem(*updated))
}
