package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"pressroom/internal/common"
	"pressroom/internal/middleware"
	"pressroom/internal/models"
	"pressroom/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PostHandlers handles blog-post HTTP requests
type PostHandlers struct {
	postService services.PostService
}

// NewPostHandlers creates a new post handlers instance
func NewPostHandlers(postService services.PostService) *PostHandlers {
	return &PostHandlers{postService: postService}
}

func handlePostError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		return common.SendNotFoundError(c, "Post")
	default:
		log.Printf("ERROR: post operation failed: %v", err)
		return common.SendServerError(c, "Post operation failed")
	}
}

// ListPostsRequest represents query parameters for listing posts
type ListPostsRequest struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListPosts handles getting a list of posts, optionally by status
func (h *PostHandlers) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListPostsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	if req.Status != "" && !models.ValidPostStatus(req.Status) {
		return common.SendValidationError(c, "status", "status must be one of: draft, scheduled, published")
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

	posts, err := h.postService.List(ctx, req.Status, req.Limit, req.Offset)
	if err != nil {
		return handlePostError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"posts":  posts,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// CreatePostRequest represents the post creation payload
type CreatePostRequest struct {
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	Status    string      `json:"status"`
	PublishAt *time.Time  `json:"publish_at"`
	TermIDs   []uuid.UUID `json:"term_ids"`
}

// CreatePost handles creating a new post
func (h *PostHandlers) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreatePostRequest
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

	post := &models.Post{
		Title:     req.Title,
		Body:      req.Body,
		Status:    req.Status,
		PublishAt: req.PublishAt,
		TermIDs:   req.TermIDs,
	}

	if err := h.postService.Create(ctx, userID, post); err != nil {
		return handlePostError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost handles getting post details by ID
func (h *PostHandlers) GetPost(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "post id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	post, err := h.postService.GetByID(ctx, id)
	if err != nil {
		return handlePostError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePostRequest represents the post update payload
type UpdatePostRequest struct {
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	Status    string      `json:"status"`
	PublishAt *time.Time  `json:"publish_at"`
	TermIDs   []uuid.UUID `json:"term_ids"`
}

// UpdatePost handles updating a post
func (h *PostHandlers) UpdatePost(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "post id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}
	if !models.ValidPostStatus(req.Status) {
		return common.SendValidationError(c, "status", "status must be one of: draft, scheduled, published")
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	post := &models.Post{
		ID:        id,
		Title:     req.Title,
		Body:      req.Body,
		Status:    req.Status,
		PublishAt: req.PublishAt,
		TermIDs:   req.TermIDs,
	}

	if err := h.postService.Update(ctx, userID, post); err != nil {
		return handlePostError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// PublishPost handles publishing a post immediately
func (h *PostHandlers) PublishPost(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "post id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	post, err := h.postService.Publish(ctx, userID, id)
	if err != nil {
		return handlePostError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost handles deleting a post
func (h *PostHandlers) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "post id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.postService.Delete(ctx, id); err != nil {
		return handlePostError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
