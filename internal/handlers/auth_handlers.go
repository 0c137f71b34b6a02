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

// AuthHandlers handles login, token refresh and the current-user lookup
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles credential verification and token issuance
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if err := common.ValidateRequiredString(req.Password, "password"); err != nil {
		return common.SendValidationError(c, "password", err.Error())
	}

	tokens, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUserInactive):
			return common.SendUnauthorizedError(c)
		default:
			log.Printf("ERROR: login failed: %v", err)
			return common.SendServerError(c, "Login failed")
		}
	}
	return c.JSON(http.StatusOK, tokens)
}

// RefreshRequest represents the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles refresh-token rotation
func (h *AuthHandlers) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.RefreshToken, "refresh_token"); err != nil {
		return common.SendValidationError(c, "refresh_token", err.Error())
	}

	tokens, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRefresh), errors.Is(err, services.ErrUserInactive),
			errors.Is(err, services.ErrUserNotFound):
			return common.SendUnauthorizedError(c)
		default:
			log.Printf("ERROR: token refresh failed: %v", err)
			return common.SendServerError(c, "Token refresh failed")
		}
	}
	return c.JSON(http.StatusOK, tokens)
}

// Me handles returning the authenticated user
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return common.SendNotFoundError(c, "User")
		}
		log.Printf("ERROR: current-user lookup failed: %v", err)
		return common.SendServerError(c, "User lookup failed")
	}
	return c.JSON(http.StatusOK, user)
}
