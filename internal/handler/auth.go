package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stayware/ticketdesk/internal/auth"
	"github.com/stayware/ticketdesk/internal/config"
	"github.com/stayware/ticketdesk/internal/middleware"
	"github.com/stayware/ticketdesk/internal/queue"
	queue_publisher "github.com/stayware/ticketdesk/internal/service"
)

// CtxOAuthIdentityKey is where the fronting OAuth middleware stores the
// provider-verified identity before the callback handler runs.
const CtxOAuthIdentityKey = "oauth_identity"

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg config.Config
	Svc *auth.Service
}

func NewAuthHandler(cfg config.Config, svc *auth.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Svc: svc}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type exchangeReq struct {
	Code string `json:"code"`
}
type resetReq struct {
	Email string `json:"email"`
}
type resetConfirmReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// statusOf maps the auth error taxonomy onto HTTP status codes.  This is
// the only place the mapping lives; services stay transport-free.
func statusOf(err error) int {
	switch {
	case errors.Is(err, auth.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidOrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInactiveAccount):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrAccountConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Signup creates a local account and returns an access token directly:
// this is a plain API call, no redirect, so the exchange-code hop would
// add nothing.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Svc.Signup(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	h.audit(queue.ActionSignup, res.User.ID, res.User.Email, 0)
	return c.JSON(http.StatusCreated, echo.Map{"access_token": res.AccessToken, "user": res.User})
}

// Login validates credentials and returns an exchange code, keeping the
// client flow identical to the OAuth path.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	code, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"code": code})
}

// Token trades an exchange code for the durable access token.
func (h *AuthHandler) Token(c echo.Context) error {
	var req exchangeReq
	if err := c.Bind(&req); err != nil || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Svc.ExchangeCode(ctx, req.Code)
	if err != nil {
		return h.fail(c, err)
	}
	h.audit(queue.ActionLogin, res.User.ID, res.User.Email, 0)
	return c.JSON(http.StatusOK, echo.Map{"access_token": res.AccessToken, "user": res.User})
}

// OAuthCallback finishes the federated login redirect.  The fronting
// OAuth middleware has already verified the provider token and stored the
// identity in context; this handler only runs the provider-conflict check,
// issues a code and bounces the browser back to the SPA.
func (h *AuthHandler) OAuthCallback(c echo.Context) error {
	id, ok := c.Get(CtxOAuthIdentityKey).(*auth.Identity)
	if !ok || id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no verified identity"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	code, err := h.Svc.HandleOAuthCallback(ctx, *id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/auth/callback?code="+url.QueryEscape(code))
}

// PasswordReset starts the reset flow.  The response is the same for
// unknown and eligible emails; outside production the raw token rides
// along for development convenience.
func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	raw, err := h.Svc.RequestPasswordReset(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset request failed"})
	}
	resp := echo.Map{"success": true}
	if raw != "" {
		resp["reset_token"] = raw
	}
	return c.JSON(http.StatusOK, resp)
}

// PasswordResetConfirm redeems a reset token and sets the new password.
func (h *AuthHandler) PasswordResetConfirm(c echo.Context) error {
	var req resetConfirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.ResetPassword(ctx, req.Token, req.Password); err != nil {
		return h.fail(c, err)
	}
	h.audit(queue.ActionPasswordReset, 0, "", 0)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Me returns the authenticated user's view (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	uid := middleware.CurrentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Svc.CurrentUser(ctx, uid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *AuthHandler) fail(c echo.Context, err error) error {
	return c.JSON(statusOf(err), echo.Map{"error": err.Error()})
}

// audit publishes best-effort; a broker outage never fails the request.
func (h *AuthHandler) audit(action string, actorID uint64, actorEmail string, resourceID uint64) {
	ev := queue.AuditEvent{
		ID:         uuid.NewString(),
		Action:     action,
		ActorID:    actorID,
		ActorEmail: actorEmail,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAuditEvent(ctx, ev)
	}()
}
