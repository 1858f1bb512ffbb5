package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vendaflow/ms-go-billing/app/types"
)

const (
	apiKeyHeader = "X-API-Key"
	userIDHeader = "X-User-ID"
)

const userIDContextKey = "auth.user_id"

// RequireInternalAccess gates internal routes behind the shared API key.
// Callers reach this service through the auth gateway, which attaches the
// key and the authenticated user's id.
func RequireInternalAccess(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if apiKey == "" || ctx.Request().Header.Get(apiKeyHeader) != apiKey {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "unauthorized"})
			}
			return next(ctx)
		}
	}
}

// RequireUser resolves the caller identity from the X-User-ID header and
// stores it on the echo context for handlers.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			raw := strings.TrimSpace(ctx.Request().Header.Get(userIDHeader))
			userID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || userID == 0 {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "missing or invalid user identity"})
			}
			ctx.Set(userIDContextKey, userID)
			return next(ctx)
		}
	}
}

// UserID returns the identity stored by RequireUser, or 0 when absent.
func UserID(ctx echo.Context) uint64 {
	userID, _ := ctx.Get(userIDContextKey).(uint64)
	return userID
}
