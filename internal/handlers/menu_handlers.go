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

// MenuHandlers handles menu and menu-item HTTP requests
type MenuHandlers struct {
	menuService services.MenuService
}

// NewMenuHandlers creates a new menu handlers instance
func NewMenuHandlers(menuService services.MenuService) *MenuHandlers {
	return &MenuHandlers{menuService: menuService}
}

// handleMenuError maps service errors onto HTTP responses. Integrity
// errors are logged here; the tree layer never logs.
func handleMenuError(c echo.Context, err error) error {
	var integrityErr *tree.IntegrityError
	switch {
	case errors.Is(err, services.ErrMenuNotFound):
		return common.SendNotFoundError(c, "Menu")
	case errors.Is(err, services.ErrMenuItemNotFound):
		return common.SendNotFoundError(c, "Menu item")
	case errors.Is(err, services.ErrParentItemNotFound):
		return common.SendNotFoundError(c, "Parent menu item")
	case errors.Is(err, services.ErrItemSelfParent):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, services.ErrParentWrongMenu):
		return common.SendConflictError(c, err.Error())
	case errors.As(err, &integrityErr):
		log.Printf("ERROR: menu fetch integrity failure: %v", integrityErr)
		return common.SendServerError(c, integrityErr.Error())
	default:
		log.Printf("ERROR: menu operation failed: %v", err)
		return common.SendServerError(c, "Menu operation failed")
	}
}

// ListMenusRequest represents query parameters for listing menus
type ListMenusRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListMenus handles getting a list of menus
func (h *MenuHandlers) ListMenus(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListMenusRequest
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

	menus, err := h.menuService.ListMenus(ctx, req.Limit, req.Offset)
	if err != nil {
		return handleMenuError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"menus":  menus,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// CreateMenuRequest represents the menu creation payload
type CreateMenuRequest struct {
	Name     string                 `json:"name"`
	IsActive *bool                  `json:"is_active"`
	Metadata map[string]interface{} `json:"metadata"`
}

// CreateMenu handles creating a new menu
func (h *MenuHandlers) CreateMenu(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateMenuRequest
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

	menu := &models.Menu{
		Name:     req.Name,
		IsActive: true,
		Metadata: req.Metadata,
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	if err := h.menuService.CreateMenu(ctx, userID, menu); err != nil {
		return handleMenuError(c, err)
	}
	return c.JSON(http.StatusCreated, menu)
}

// GetMenu handles getting menu details by ID
func (h *MenuHandlers) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "menu id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	menu, err := h.menuService.GetMenu(ctx, id)
	if err != nil {
		return handleMenuError(c, err)
	}
	return c.JSON(http.StatusOK, menu)
}

// UpdateMenuRequest represents the menu update payload
type UpdateMenuRequest struct {
	Name     string                 `json:"name"`
	IsActive *bool                  `json:"is_active"`
	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateMenu handles renaming and toggling a menu
func (h *MenuHandlers) UpdateMenu(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "menu id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateMenuRequest
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

	menu := &models.Menu{
		ID:       id,
		Name:     req.Name,
		IsActive: true,
		Metadata: req.Metadata,
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	if err := h.menuService.UpdateMenu(ctx, userID, menu); err != nil {
		return handleMenuError(c, err)
	}
	return c.JSON(http.StatusOK, menu)
}

// DeleteMenu handles deleting a menu
func (h *MenuHandlers) DeleteMenu(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "menu id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.menuService.DeleteMenu(ctx, id); err != nil {
		return handleMenuError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMenuTree handles building one menu's ordered item forest
func (h *MenuHandlers) GetMenuTree(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "menu id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	roots, err := h.menuService.GetTree(ctx, id)
	if err != nil {
		return handleMenuError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"menu_id": id,
		"items":   roots,
	})
}

// GetMenuTrees handles building several menus' forests from one batched
// fetch: GET /menus/tree?ids=a,b,c
func (h *MenuHandlers) GetMenuTrees(c echo.Context) error {
	ctx := c.Request().Context()

	rawIDs := strings.Split(c.QueryParam("ids"), ",")
	var menuIDs []uuid.UUID
	for _, raw := range rawIDs {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		id, err := common.ValidateUUID(raw, "menu id")
		if err != nil {
			return common.SendValidationError(c, "ids", err.Error())
		}
		menuIDs = append(menuIDs, id)
	}
	if len(menuIDs) == 0 {
		return common.SendValidationError(c, "ids", "at least one menu id is required")
	}

	forests, err := h.menuService.GetTrees(ctx, menuIDs)
	if err != nil {
		return handleMenuError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"trees": forests,
	})
}

// CreateItemRequest represents the menu-item creation payload
type CreateItemRequest struct {
	ParentID        *uuid.UUID             `json:"parent_id"`
	Label           string                 `json:"label"`
	URL             string                 `json:"url"`
	Position        *int                   `json:"position"`
	IsActive        *bool                  `json:"is_active"`
	VisibilityRoles []string               `json:"visibility_roles"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// CreateItem handles creating a new item inside a menu
func (h *MenuHandlers) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	menuID, err := common.ValidateUUID(c.Param("id"), "menu id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req CreateItemRequest
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

	item := &models.MenuItem{
		MenuID:          menuID,
		ParentID:        req.ParentID,
		Label:           req.Label,
		URL:             req.URL,
		IsActive:        true,
		VisibilityRoles: req.VisibilityRoles,
		Metadata:        req.Metadata,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := h.menuService.CreateItem(ctx, userID, item, req.Position); err != nil {
		return handleMenuError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// GetItem handles getting one menu item by ID
func (h *MenuHandlers) GetItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	item, err := h.menuService.GetItem(ctx, id)
	if err != nil {
		return handleMenuError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateItemRequest represents the menu-item update payload
type UpdateItemRequest struct {
	ParentID        *uuid.UUID             `json:"parent_id"`
	Label           string                 `json:"label"`
	URL             string                 `json:"url"`
	Position        *int                   `json:"position"`
	IsActive        *bool                  `json:"is_active"`
	VisibilityRoles []string               `json:"visibility_roles"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// UpdateItem handles updating a menu item, including reparenting
func (h *MenuHandlers) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateItemRequest
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

	existing, err := h.menuService.GetItem(ctx, id)
	if err != nil {
		return handleMenuError(c, err)
	}

	item := &models.MenuItem{
		ID:              id,
		ParentID:        req.ParentID,
		Label:           req.Label,
		URL:             req.URL,
		Position:        existing.Position,
		IsActive:        existing.IsActive,
		VisibilityRoles: req.VisibilityRoles,
		Metadata:        req.Metadata,
	}
	if req.Position != nil {
		item.Position = *req.Position
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := h.menuService.UpdateItem(ctx, userID, item); err != nil {
		return handleMenuError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles deleting a menu item
func (h *MenuHandlers) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.menuService.DeleteItem(ctx, id); err != nil {
		return handleMenuError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
