package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"pressroom/internal/common"
	"pressroom/internal/middleware"
	"pressroom/internal/models"
	"pressroom/internal/services"
	"pressroom/internal/tree"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TaxonomyHandlers handles vocabulary and term HTTP requests
type TaxonomyHandlers struct {
	taxonomyService services.TaxonomyService
}

// NewTaxonomyHandlers creates a new taxonomy handlers instance
func NewTaxonomyHandlers(taxonomyService services.TaxonomyService) *TaxonomyHandlers {
	return &TaxonomyHandlers{taxonomyService: taxonomyService}
}

func handleTaxonomyError(c echo.Context, err error) error {
	var integrityErr *tree.IntegrityError
	switch {
	case errors.Is(err, services.ErrVocabularyNotFound):
		return common.SendNotFoundError(c, "Vocabulary")
	case errors.Is(err, services.ErrTermNotFound):
		return common.SendNotFoundError(c, "Term")
	case errors.Is(err, services.ErrParentTermNotFound):
		return common.SendNotFoundError(c, "Parent term")
	case errors.Is(err, services.ErrTermSelfParent):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, services.ErrParentWrongVocabulary):
		return common.SendConflictError(c, err.Error())
	case errors.As(err, &integrityErr):
		log.Printf("ERROR: taxonomy fetch integrity failure: %v", integrityErr)
		return common.SendServerError(c, integrityErr.Error())
	default:
		log.Printf("ERROR: taxonomy operation failed: %v", err)
		return common.SendServerError(c, "Taxonomy operation failed")
	}
}

// ListVocabulariesRequest represents query parameters for listing vocabularies
type ListVocabulariesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListVocabularies handles getting a list of vocabularies
func (h *TaxonomyHandlers) ListVocabularies(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListVocabulariesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	vocabularies, err := h.taxonomyService.ListVocabularies(ctx, req.Limit, req.Offset)
	if err != nil {
		return handleTaxonomyError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"vocabularies": vocabularies,
		"limit":        req.Limit,
		"offset":       req.Offset,
	})
}

// CreateVocabularyRequest represents the vocabulary creation payload
type CreateVocabularyRequest struct {
	Name     string                 `json:"name"`
	IsActive *bool                  `json:"is_active"`
	Metadata map[string]interface{} `json:"metadata"`
}

// CreateVocabulary handles creating a new vocabulary
func (h *TaxonomyHandlers) CreateVocabulary(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateVocabularyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	vocabulary := &models.Vocabulary{
		Name:     req.Name,
		IsActive: true,
		Metadata: req.Metadata,
	}
	if req.IsActive != nil {
		vocabulary.IsActive = *req.IsActive
	}

	if err := h.taxonomyService.CreateVocabulary(ctx, userID, vocabulary); err != nil {
		return handleTaxonomyError(c, err)
	}
	return c.JSON(http.StatusCreated, vocabulary)
}

// GetVocabulary handles getting vocabulary details by ID
func (h *TaxonomyHandlers) GetVocabulary(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "vocabulary id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	vocabulary, err := h.taxonomyService.GetVocabulary(ctx, id)
	if err != nil {
		return handleTaxonomyError(c, err)
	}
	return c.JSON(http.StatusOK, vocabulary)
}

// UpdateVocabularyRequest represents the vocabulary update payload
type UpdateVocabularyRequest struct {
	Name     string                 `json:"name"`
	IsActive *bool                  `json:"is_active"`
	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateVocabulary handles renaming and toggling a vocabulary
func (h *TaxonomyHandlers) UpdateVocabulary(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "vocabulary id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateVocabularyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	vocabulary := &models.Vocabulary{
		ID:       id,
		Name:     req.Name,
		IsActive: true,
		Metadata: req.Metadata,
	}
	if req.IsActive != nil {
		vocabulary.IsActive = *req.IsActive
	}

	if err := h.taxonomyService.UpdateVocabulary(ctx, userID, vocabulary); err != nil {
		return handleTaxonomyError(c, err)
	}
	return c.JSON(http.StatusOK, vocabulary)
}

// DeleteVocabulary handles deleting a vocabulary
func (h *TaxonomyHandlers) DeleteVocabulary(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "vocabulary id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.taxonomyService.DeleteVocabulary(ctx, id); err != nil {
		return handleTaxonomyError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetTermTree handles building one vocabulary's ordered term forest
func (h *TaxonomyHandlers) GetTermTree(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "vocabulary id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	roots, err := h.taxonomyService.GetTree(ctx, id)
	if err != nil {
		return handleTaxonomyError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"vocabulary_id": id,
		"terms":         roots,
	})
}

// GetTermTrees handles building several vocabularies' forests from one
// batched fetch: GET /vocabularies/tree?ids=a,b,c
func (h *TaxonomyHandlers) GetTermTrees(c echo.Context) error {
	ctx := c.Request().Context()

	rawIDs := strings.Split(c.QueryParam("ids"), ",")
	var vocabularyIDs []uuid.UUID
	for _, raw := range rawIDs {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		id, err := common.ValidateUUID(raw, "vocabulary id")
		if err != nil {
			return common.SendValidationError(c, "ids", err.Error())
		}
		vocabularyIDs = append(vocabularyIDs, id)
	}
	if len(vocabularyIDs) == 0 {
		return common.SendValidationError(c, "ids", "at least one vocabulary id is required")
	}

	forests, err := h.taxonomyService.GetTrees(ctx, vocabularyIDs)
	if err != nil {
		return handleTaxonomyError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"trees": forests,
	})
}

// CreateTermRequest represents the term creation payload
type CreateTermRequest struct {
	ParentID        *uuid.UUID             `json:"parent_id"`
	Label           string                 `json:"label"`
	Description     string                 `json:"description"`
	Position        *int                   `json:"position"`
	IsActive        *bool                  `json:"is_active"`
	VisibilityRoles []string               `json:"visibility_roles"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// CreateTerm handles creating a new term inside a vocabulary
func (h *TaxonomyHandlers) CreateTerm(c echo.Context) error {
	ctx := c.Request().Context()

	vocabularyID, err := common.ValidateUUID(c.Param("id"), "vocabulary id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req CreateTermRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Label, "label"); err != nil {
		return common.SendValidationError(c, "label", err.Error())
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	term := &models.Term{
		VocabularyID:    vocabularyID,
		ParentID:        req.ParentID,
		Label:           req.Label,
		Description:     req.Description,
		IsActive:        true,
		VisibilityRoles: req.VisibilityRoles,
		Metadata:        req.Metadata,
	}
	if req.IsActive != nil {
		term.IsActive = *req.IsActive
	}

	if err := h.taxonomyService.CreateTerm(ctx, userID, term, req.Position); err != nil {
		return handleTaxonomyError(c, err)
	}
	return c.JSON(http.StatusCreated, term)
}

// GetTerm handles getting one term by ID
func (h *TaxonomyHandlers) GetTerm(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "term id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	term, err := h.taxonomyService.GetTerm(ctx, id)
	if err != nil {
		return handleTaxonomyError(c, err)
	}
	return c.JSON(http.StatusOK, term)
}

// UpdateTermRequest represents the term update payload
type UpdateTermRequest struct {
	ParentID        *uuid.UUID             `json:"parent_id"`
	Label           string                 `json:"label"`
	Description     string                 `json:"description"`
	Position        *int                   `json:"position"`
	IsActive        *bool                  `json:"is_active"`
	VisibilityRoles []string               `json:"visibility_roles"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// UpdateTerm handles updating a term, including reparenting
func (h *TaxonomyHandlers) UpdateTerm(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "term id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateTermRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Label, "label"); err != nil {
		return common.SendValidationError(c, "label", err.Error())
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	existing, err := h.taxonomyService.GetTerm(ctx, id)
	if err != nil {
		return handleTaxonomyError(c, err)
	}

	term := &models.Term{
		ID:              id,
		ParentID:        req.ParentID,
		Label:           req.Label,
		Description:     req.Description,
		Position:        existing.Position,
		IsActive:        existing.IsActive,
		VisibilityRoles: req.VisibilityRoles,
		Metadata:        req.Metadata,
	}
	if req.Position != nil {
		term.Position = *req.Position
	}
	if req.IsActive != nil {
		term.IsActive = *req.IsActive
	}

	if err := h.taxonomyService.UpdateTerm(ctx, userID, term); err != nil {
		return handleTaxonomyError(c, err)
	}
	return c.JSON(http.StatusOK, term)
}

// DeleteTerm handles deleting a term
func (h *TaxonomyHandlers) DeleteTerm(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "term id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.taxonomyService.DeleteTerm(ctx, id); err != nil {
		return handleTaxonomyError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
