package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayware/ticketdesk/internal/auth"
)

// Context keys set by Authenticated and read by handlers and the
// permissions guard.
const (
	CtxIdentityKey = "identity" // *auth.Identity
	CtxUserIDKey   = "user_id"  // uint64
)

// Authenticated returns a guard that resolves the caller identity from
// the request (bearer header first, session cookie second) and verifies
// the account is still active.  Absence of a verifiable credential is a
// 401; a resolved but disabled account is a 403.  The resolved identity
// is stored in the Echo context for downstream guards and handlers.
func Authenticated(resolver *auth.SessionResolver, users auth.UserDirectory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := resolver.ResolveFromHeaders(c.Request().Header)
			if id == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			user, ok, err := users.FindByID(ctx, id.UserID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
			}
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !user.IsActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
			}

			c.Set(CtxIdentityKey, id)
			c.Set(CtxUserIDKey, id.UserID)
			return next(c)
		}
	}
}

// CurrentUserID extracts the authenticated user ID stored by
// Authenticated.  Returns 0 when the guard did not run.
func CurrentUserID(c echo.Context) uint64 {
	if v, ok := c.Get(CtxUserIDKey).(uint64); ok {
		return v
	}
	return 0
}
