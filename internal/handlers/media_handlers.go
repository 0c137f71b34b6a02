package handlers

import (
	"errors"
	"log"
	"net/http"

	"pressroom/internal/common"
	"pressroom/internal/middleware"
	"pressroom/internal/services"

	"github.com/labstack/echo/v4"
)

// MediaHandlers handles media file HTTP requests
type MediaHandlers struct {
	mediaService services.MediaService
}

// NewMediaHandlers creates a new media handlers instance
func NewMediaHandlers(mediaService services.MediaService) *MediaHandlers {
	return &MediaHandlers{mediaService: mediaService}
}

func handleMediaError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrFileNotFound):
		return common.SendNotFoundError(c, "File")
	default:
		log.Printf("ERROR: media operation failed: %v", err)
		return common.SendServerError(c, "Media operation failed")
	}
}

// ListFilesRequest represents query parameters for listing files
type ListFilesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListFiles handles getting a list of uploaded files
func (h *MediaHandlers) ListFiles(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListFilesRequest
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

	files, err := h.mediaService.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return handleMediaError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"files":  files,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// UploadFile handles a multipart file upload
func (h *MediaHandlers) UploadFile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendValidationError(c, "file", "file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return handleMediaError(c, err)
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	record, err := h.mediaService.Upload(ctx, userID, fileHeader.Filename, contentType, src, fileHeader.Size)
	if err != nil {
		return handleMediaError(c, err)
	}
	return c.JSON(http.StatusCreated, record)
}

// GetFileURL handles issuing a presigned download URL for a file
func (h *MediaHandlers) GetFileURL(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "file id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	url, err := h.mediaService.GetDownloadURL(ctx, id)
	if err != nil {
		return handleMediaError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// DeleteFile handles deleting a file and its stored object
func (h *MediaHandlers) DeleteFile(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "file id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.mediaService.Delete(ctx, id); err != nil {
		return handleMediaError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
