package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wavesrc/resource-center/internal/model"
	"github.com/wavesrc/resource-center/internal/repository"
	"github.com/wavesrc/resource-center/internal/utils"
)

// TaxonomyHandler covers the staff-only category and tag management
// endpoints plus the public read listings.
type TaxonomyHandler struct {
	Categories *repository.CategoryRepo
	Tags       *repository.TagRepo
}

func NewTaxonomyHandler(cat *repository.CategoryRepo, tag *repository.TagRepo) *TaxonomyHandler {
	return &TaxonomyHandler{Categories: cat, Tags: tag}
}

type taxonomyReq struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// resolveSlug validates an explicit slug or derives one from the name.
func resolveSlug(name, slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = utils.Slugify(name)
	}
	if !utils.IsValidSlug(slug) {
		return "", errors.New("invalid slug")
	}
	return slug, nil
}

func validateTaxonomyName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}
	if len([]rune(name)) > model.MaxTaxonomyNameLen {
		return "name is too long"
	}
	return ""
}

// ----- categories -----

func (h *TaxonomyHandler) ListCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.Categories.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list categories failed"})
	}
	items := make([]categoryItem, 0, len(cats))
	for _, cat := range cats {
		items = append(items, toCategoryItem(cat))
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": items})
}

func (h *TaxonomyHandler) CreateCategory(c echo.Context) error {
	var req taxonomyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if msg := validateTaxonomyName(req.Name); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if req.Description != nil && len([]rune(*req.Description)) > model.MaxCategoryDescriptionLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is too long"})
	}
	slug, err := resolveSlug(req.Name, req.Slug)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat := &model.Category{Name: req.Name, Slug: slug, Description: req.Description}
	if err := h.Categories.Create(ctx, cat); err != nil {
		return taxonomyWriteStatus(c, err, "create category failed")
	}
	return c.JSON(http.StatusCreated, toCategoryItem(*cat))
}

func (h *TaxonomyHandler) UpdateCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Categories.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load category failed"})
	}

	var req taxonomyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if msg := validateTaxonomyName(req.Name); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if req.Description != nil && len([]rune(*req.Description)) > model.MaxCategoryDescriptionLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is too long"})
	}
	slug, err := resolveSlug(req.Name, req.Slug)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	existing.Name = req.Name
	existing.Slug = slug
	existing.Description = req.Description
	if err := h.Categories.Update(ctx, existing); err != nil {
		return taxonomyWriteStatus(c, err, "update category failed")
	}
	return c.JSON(http.StatusOK, toCategoryItem(*existing))
}

// DeleteCategory removes an unused category. Categories still holding
// books or videos answer 409 and stay in place.
func (h *TaxonomyHandler) DeleteCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.Categories.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load category failed"})
	}
	if err := h.Categories.Delete(ctx, cat.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "category still has resources"})
		case errors.Is(err, repository.ErrCategoryNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete category failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- tags -----

func (h *TaxonomyHandler) ListTags(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tags, err := h.Tags.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tags failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tags": toTagItems(tags)})
}

func (h *TaxonomyHandler) CreateTag(c echo.Context) error {
	var req taxonomyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if msg := validateTaxonomyName(req.Name); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	slug, err := resolveSlug(req.Name, req.Slug)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tag := &model.Tag{Name: req.Name, Slug: slug}
	if err := h.Tags.Create(ctx, tag); err != nil {
		return taxonomyWriteStatus(c, err, "create tag failed")
	}
	return c.JSON(http.StatusCreated, tagItem{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
}

func (h *TaxonomyHandler) UpdateTag(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Tags.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tag failed"})
	}

	var req taxonomyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if msg := validateTaxonomyName(req.Name); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	slug, err := resolveSlug(req.Name, req.Slug)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	existing.Name = req.Name
	existing.Slug = slug
	if err := h.Tags.Update(ctx, existing); err != nil {
		return taxonomyWriteStatus(c, err, "update tag failed")
	}
	return c.JSON(http.StatusOK, tagItem{ID: existing.ID, Name: existing.Name, Slug: existing.Slug})
}

// DeleteTag removes a tag and detaches it from every resource.
func (h *TaxonomyHandler) DeleteTag(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tag, err := h.Tags.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tag failed"})
	}
	if err := h.Tags.Delete(ctx, tag.ID); err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete tag failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func taxonomyWriteStatus(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, repository.ErrNameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "name already exists"})
	case errors.Is(err, repository.ErrSlugExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
	case errors.Is(err, repository.ErrCategoryNotFound), errors.Is(err, repository.ErrTagNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
	}
}
