package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wavesrc/resource-center/internal/model"
	"github.com/wavesrc/resource-center/internal/repository"
)

// SearchHandler serves the filtered resource listing shared by books
// and videos.
type SearchHandler struct {
	Search *repository.SearchRepo
}

func NewSearchHandler(s *repository.SearchRepo) *SearchHandler {
	return &SearchHandler{Search: s}
}

// Resources filters either resource table by title substring, category
// slug and tag slug. The kind parameter selects the table and defaults
// to books; results come back newest first with that kind's page size.
func (h *SearchHandler) Resources(c echo.Context) error {
	kind := strings.ToLower(strings.TrimSpace(c.QueryParam("kind")))
	if kind == "" {
		kind = "book"
	}
	if kind != "book" && kind != "video" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be book or video"})
	}
	pageSize := model.BookPageSize
	if kind == "video" {
		pageSize = model.VideoPageSize
	}

	q := repository.ResourceSearchQuery{
		Kind:     kind,
		Title:    strings.TrimSpace(c.QueryParam("title")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Tag:      strings.TrimSpace(c.QueryParam("tag")),
		Page:     parsePage(c),
		PageSize: pageSize,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Search.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"results":    rows,
		"pagination": model.NewPagination(q.Page, pageSize, total),
	})
}
