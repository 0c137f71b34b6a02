package handlers

import (
	"errors"
	"log"
	"net/http"

	"pressroom/internal/common"
	"pressroom/internal/middleware"
	"pressroom/internal/models"
	"pressroom/internal/services"

	"github.com/labstack/echo/v4"
)

// PageHandlers handles page HTTP requests
type PageHandlers struct {
	pageService services.PageService
}

// NewPageHandlers creates a new page handlers instance
func NewPageHandlers(pageService services.PageService) *PageHandlers {
	return &PageHandlers{pageService: pageService}
}

func handlePageError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrPageNotFound):
		return common.SendNotFoundError(c, "Page")
	default:
		log.Printf("ERROR: page operation failed: %v", err)
		return common.SendServerError(c, "Page operation failed")
	}
}

// ListPagesRequest represents query parameters for listing pages
type ListPagesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListPages handles getting a list of pages
func (h *PageHandlers) ListPages(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListPagesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	pages, err := h.pageService.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return handlePageError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"pages":  pages,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// CreatePageRequest represents the page creation payload
type CreatePageRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	IsActive *bool  `json:"is_active"`
}

// CreatePage handles creating a new page
func (h *PageHandlers) CreatePage(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreatePageRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	page := &models.Page{
		Title:    req.Title,
		Body:     req.Body,
		IsActive: true,
	}
	if req.IsActive != nil {
		page.IsActive = *req.IsActive
	}

	if err := h.pageService.Create(ctx, userID, page); err != nil {
		return handlePageError(c, err)
	}
	return c.JSON(http.StatusCreated, page)
}

// GetPage handles getting page details by ID
func (h *PageHandlers) GetPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "page id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	page, err := h.pageService.GetByID(ctx, id)
	if err != nil {
		return handlePageError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// UpdatePageRequest represents the page update payload
type UpdatePageRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	IsActive *bool  `json:"is_active"`
}

// UpdatePage handles updating a page
func (h *PageHandlers) UpdatePage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "page id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdatePageRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	page := &models.Page{
		ID:       id,
		Title:    req.Title,
		Body:     req.Body,
		IsActive: true,
	}
	if req.IsActive != nil {
		page.IsActive = *req.IsActive
	}

	if err := h.pageService.Update(ctx, userID, page); err != nil {
		return handlePageError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// DeletePage handles deleting a page
func (h *PageHandlers) DeletePage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "page id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.pageService.Delete(ctx, id); err != nil {
		return handlePageError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
