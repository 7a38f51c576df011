package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/stayware/ticketdesk/internal/auth"
	"github.com/stayware/ticketdesk/internal/handler"
	"github.com/stayware/ticketdesk/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the authentication endpoints.  The whole group sits
// behind the rate limiter: these are the routes worth brute-forcing.
// Unauthenticated operations live under /v1/auth; /v1/me is protected by
// the authentication guard.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter, authGuard echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	// Token trades the exchange code from login or the OAuth redirect for
	// the durable access token.
	g.POST("/token", a.Token)
	g.GET("/oauth/google/callback", a.OAuthCallback)
	g.POST("/password-reset", a.PasswordReset)
	g.POST("/password-reset/confirm", a.PasswordResetConfirm)

	e.GET("/v1/me", a.Me, authGuard)
}

// RegisterAPI wires the protected CRUD surface.  Every route runs the
// authentication guard and then a permissions guard for its declared
// (resource, action) requirement.
func RegisterAPI(
	e *echo.Echo,
	users auth.UserDirectory,
	tickets *handler.TicketHandler,
	hotels *handler.HotelHandler,
	comments *handler.CommentHandler,
	roles *handler.RoleHandler,
	authGuard, cache echo.MiddlewareFunc,
) {
	perm := func(resource, action string) echo.MiddlewareFunc {
		return middleware.RequirePermission(users, resource, action)
	}

	v1 := e.Group("/v1", authGuard)

	v1.GET("/tickets", tickets.ListByHotel, perm("tickets", "read"))
	v1.GET("/tickets/:id", tickets.Get, perm("tickets", "read"))
	v1.POST("/tickets", tickets.Create, perm("tickets", "create"))
	v1.PATCH("/tickets/:id", tickets.Update, perm("tickets", "update"))
	v1.DELETE("/tickets/:id", tickets.Delete, perm("tickets", "delete"))

	// The hotel directory is the hottest read in the admin UI; it runs
	// through the response cache after the guards.
	v1.GET("/hotels", hotels.List, perm("hotels", "read"), cache)
	v1.GET("/hotels/:id", hotels.Get, perm("hotels", "read"))
	v1.POST("/hotels", hotels.Create, perm("hotels", "create"))
	v1.PATCH("/hotels/:id", hotels.Update, perm("hotels", "update"))

	v1.GET("/hotels/:id/comments", comments.ListByHotel, perm("comments", "read"))
	v1.POST("/hotels/:id/comments", comments.Create, perm("comments", "create"))
	v1.DELETE("/hotels/:id/comments/:commentId", comments.Delete, perm("comments", "delete"))

	v1.GET("/roles", roles.List, perm("roles", "read"))
	v1.PATCH("/roles/:id", roles.UpdatePermissions, perm("roles", "update"))
	v1.DELETE("/roles/:id", roles.Delete, perm("roles", "delete"))
	v1.POST("/users/:id/roles", roles.Assign, perm("roles", "update"))
}
