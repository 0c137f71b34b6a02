package middleware

import (
	"context"
	"net/http"
	"time"

	"pressroom/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTCustomClaims are the claims this service issues and accepts.
type JWTCustomClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTConfig builds the echo-jwt configuration. When jwksURL is set,
// tokens are verified against the external identity provider's JWKS;
// otherwise the shared HMAC secret is used.
func NewJWTConfig(secret, jwksURL string) (echojwt.Config, error) {
	config := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(JWTCustomClaims)
		},
		SigningKey:     []byte(secret),
		SuccessHandler: injectClaims,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}

	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return config, err
		}
		config.SigningKey = nil
		config.KeyFunc = jwks.Keyfunc
	}

	return config, nil
}

// injectClaims copies the validated claims into the request context so
// services can stamp created_by/updated_by without touching echo.
func injectClaims(c echo.Context) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok {
		return
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return
	}

	ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
	ctx = context.WithValue(ctx, common.RoleKey, claims.Role)
	c.SetRequest(c.Request().WithContext(ctx))
}

// GetUserIDFromContext extracts the authenticated user id.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(common.UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleFromContext extracts the authenticated user's role.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(common.RoleKey).(string)
	return role, ok
}
