package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayware/ticketdesk/internal/auth"
)

// RequirePermission returns a guard enforcing that the authenticated user
// holds (resource, action).  It must run after Authenticated.  Roles are
// loaded per request so a role change takes effect without re-login;
// evaluation itself is deny-by-default.
func RequirePermission(users auth.UserDirectory, resource, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := CurrentUserID(c)
			if uid == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			roles, err := users.GetRolesForUser(ctx, uid)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load roles failed"})
			}
			if !auth.HasPermission(roles, resource, action) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
