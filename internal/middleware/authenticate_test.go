package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayware/ticketdesk/internal/auth"
	"github.com/stayware/ticketdesk/internal/model"
)

// guardDirectory implements just enough of auth.UserDirectory for the
// guard tests: user lookup by ID and per-user roles.
type guardDirectory struct {
	users map[uint64]model.User
	roles map[uint64][]model.Role
}

func (d *guardDirectory) FindByEmail(context.Context, string) (model.User, bool, error) {
	return model.User{}, false, nil
}

func (d *guardDirectory) FindByID(_ context.Context, id uint64) (model.User, bool, error) {
	u, ok := d.users[id]
	return u, ok, nil
}

func (d *guardDirectory) CreateLocalUser(context.Context, string, string, string) (model.User, error) {
	return model.User{}, nil
}

func (d *guardDirectory) EnsureUserForAuth(context.Context, auth.Identity) (model.User, error) {
	return model.User{}, nil
}

func (d *guardDirectory) GetRolesForUser(_ context.Context, userID uint64) ([]model.Role, error) {
	return d.roles[userID], nil
}

func (d *guardDirectory) UpdatePasswordHash(context.Context, uint64, string) error  { return nil }
func (d *guardDirectory) UpdateUserProfile(context.Context, uint64, string, string) error {
	return nil
}
func (d *guardDirectory) CreatePasswordResetToken(context.Context, uint64, string, time.Time) error {
	return nil
}
func (d *guardDirectory) FindValidPasswordResetTokenByHash(context.Context, string) (model.PasswordResetToken, bool, error) {
	return model.PasswordResetToken{}, false, nil
}
func (d *guardDirectory) ConsumePasswordResetToken(context.Context, uint64) error { return nil }
func (d *guardDirectory) ConsumeAllPasswordResetTokensForUser(context.Context, uint64) error {
	return nil
}

var _ auth.UserDirectory = (*guardDirectory)(nil)

func newGuardFixture(t *testing.T) (*auth.Issuer, *auth.SessionResolver, *guardDirectory) {
	t.Helper()
	issuer, err := auth.NewIssuer("session-secret", "access-secret", 0, time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	dir := &guardDirectory{
		users: map[uint64]model.User{},
		roles: map[uint64][]model.Role{},
	}
	return issuer, auth.NewSessionResolver(issuer, "td_session"), dir
}

func doGuarded(t *testing.T, mw []echo.MiddlewareFunc, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": CurrentUserID(c)})
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/tickets", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler chain: %v", err)
	}
	return rec
}

func TestAuthenticatedRejectsMissingCredential(t *testing.T) {
	_, resolver, dir := newGuardFixture(t)
	rec := doGuarded(t, []echo.MiddlewareFunc{Authenticated(resolver, dir)}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestAuthenticatedAcceptsBearer(t *testing.T) {
	issuer, resolver, dir := newGuardFixture(t)
	dir.users[7] = model.User{ID: 7, Email: "a@x.com", IsActive: true}
	token, err := issuer.CreateAccessToken(auth.Identity{UserID: 7, Email: "a@x.com"})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	rec := doGuarded(t, []echo.MiddlewareFunc{Authenticated(resolver, dir)}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthenticatedAcceptsSessionCookie(t *testing.T) {
	issuer, resolver, dir := newGuardFixture(t)
	dir.users[4] = model.User{ID: 4, Email: "c@x.com", IsActive: true}
	token, err := issuer.CreateSessionToken(auth.Identity{UserID: 4, Email: "c@x.com"})
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	rec := doGuarded(t, []echo.MiddlewareFunc{Authenticated(resolver, dir)}, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "td_session", Value: token})
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthenticatedRejectsDisabledAccount(t *testing.T) {
	issuer, resolver, dir := newGuardFixture(t)
	dir.users[9] = model.User{ID: 9, Email: "off@x.com", IsActive: false}
	token, _ := issuer.CreateAccessToken(auth.Identity{UserID: 9, Email: "off@x.com"})

	rec := doGuarded(t, []echo.MiddlewareFunc{Authenticated(resolver, dir)}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
}

func TestAuthenticatedRejectsDeletedUser(t *testing.T) {
	issuer, resolver, dir := newGuardFixture(t)
	token, _ := issuer.CreateAccessToken(auth.Identity{UserID: 42, Email: "gone@x.com"})

	rec := doGuarded(t, []echo.MiddlewareFunc{Authenticated(resolver, dir)}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	issuer, resolver, dir := newGuardFixture(t)
	dir.users[2] = model.User{ID: 2, Email: "m@x.com", IsActive: true}
	dir.roles[2] = []model.Role{{Name: "manager", Permissions: map[string][]string{
		"tickets": {"read", "create"},
	}}}
	token, _ := issuer.CreateAccessToken(auth.Identity{UserID: 2, Email: "m@x.com"})
	withBearer := func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }

	allowed := doGuarded(t, []echo.MiddlewareFunc{
		Authenticated(resolver, dir),
		RequirePermission(dir, "tickets", "read"),
	}, withBearer)
	if allowed.Code != http.StatusOK {
		t.Fatalf("granted action: status %d, want 200", allowed.Code)
	}

	denied := doGuarded(t, []echo.MiddlewareFunc{
		Authenticated(resolver, dir),
		RequirePermission(dir, "tickets", "delete"),
	}, withBearer)
	if denied.Code != http.StatusForbidden {
		t.Fatalf("missing action: status %d, want 403", denied.Code)
	}
}

func TestRequirePermissionWithoutAuthentication(t *testing.T) {
	_, _, dir := newGuardFixture(t)
	rec := doGuarded(t, []echo.MiddlewareFunc{RequirePermission(dir, "tickets", "read")}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}
