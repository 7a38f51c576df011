package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/stayware/ticketdesk/internal/model"
	"github.com/stayware/ticketdesk/internal/utils"
)

// Service composes the token issuer, exchange-code broker, password-reset
// flow and user directory into the signup/login/callback/exchange/reset
// operations the HTTP layer exposes.
type Service struct {
	issuer     *Issuer
	users      UserDirectory
	broker     *ExchangeCodeBroker
	reset      *PasswordResetFlow
	bcryptCost int

	// exposeResetTokens is a development convenience: when true the raw
	// reset token is returned in the API response instead of being
	// delivered out of band.  It must be wired to deployment config and
	// stay false in production.
	exposeResetTokens bool
}

// SignupResult is returned by Signup: a direct API call, so the access
// token is handed back without the exchange-code hop.
type SignupResult struct {
	AccessToken string
	User        UserView
}

func NewService(issuer *Issuer, users UserDirectory, broker *ExchangeCodeBroker, bcryptCost int, exposeResetTokens bool) *Service {
	return &Service{
		issuer:            issuer,
		users:             users,
		broker:            broker,
		reset:             NewPasswordResetFlow(users, bcryptCost),
		bcryptCost:        bcryptCost,
		exposeResetTokens: exposeResetTokens,
	}
}

// Signup registers a local account and returns an access token directly.
func (s *Service) Signup(ctx context.Context, email, password, displayName string) (SignupResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if !strings.Contains(email, "@") || displayName == "" {
		return SignupResult{}, ErrValidation
	}
	if len(password) < 8 {
		return SignupResult{}, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	if existing, ok, err := s.users.FindByEmail(ctx, email); err != nil {
		return SignupResult{}, err
	} else if ok {
		if existing.AuthProvider == model.ProviderGoogle {
			// Steer the user to federated login instead of a generic conflict.
			return SignupResult{}, fmt.Errorf("%w: this email uses Google sign-in", ErrAccountConflict)
		}
		return SignupResult{}, fmt.Errorf("%w: email already registered", ErrAccountConflict)
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return SignupResult{}, err
	}
	user, err := s.users.CreateLocalUser(ctx, email, displayName, hash)
	if err != nil {
		return SignupResult{}, err
	}
	roles, err := s.users.GetRolesForUser(ctx, user.ID)
	if err != nil {
		return SignupResult{}, err
	}
	token, err := s.issuer.CreateAccessToken(identityOf(user))
	if err != nil {
		return SignupResult{}, err
	}
	return SignupResult{AccessToken: token, User: NewUserView(user, roles)}, nil
}

// Login validates local credentials and returns an exchange code.  The
// code hop is kept symmetric with the OAuth path so every client flow ends
// with the same exchange step.  All credential sub-failures collapse into
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrValidation
	}

	user, ok, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	if user.AuthProvider == model.ProviderGoogle && user.PasswordHash == "" {
		return "", fmt.Errorf("%w: this account signs in with Google", ErrAccountConflict)
	}
	if !utils.VerifyPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", ErrInactiveAccount
	}
	return s.broker.Issue(identityOf(user))
}

// HandleOAuthCallback turns a provider-verified identity into an exchange
// code.  A local account under the same email blocks the callback before
// any code is issued.
func (s *Service) HandleOAuthCallback(ctx context.Context, id Identity) (string, error) {
	id.Email = strings.ToLower(strings.TrimSpace(id.Email))
	if id.Email == "" {
		return "", ErrValidation
	}
	if existing, ok, err := s.users.FindByEmail(ctx, id.Email); err != nil {
		return "", err
	} else if ok && existing.AuthProvider == model.ProviderLocal {
		return "", fmt.Errorf("%w: this email uses password sign-in", ErrAccountConflict)
	}
	return s.broker.Issue(id)
}

// ExchangeCode trades a login/callback code for the durable credential.
func (s *Service) ExchangeCode(ctx context.Context, code string) (ExchangeResult, error) {
	return s.broker.Exchange(ctx, code)
}

// RequestPasswordReset starts the reset flow.  The returned token is
// non-empty only when a token was generated AND the deployment is
// configured to expose it; handlers must not branch on emptiness in a way
// that changes the response shape.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	raw, err := s.reset.Request(ctx, email)
	if err != nil {
		return "", err
	}
	if !s.exposeResetTokens {
		return "", nil
	}
	return raw, nil
}

// ResetPassword redeems a reset token and sets the new password.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	return s.reset.Consume(ctx, rawToken, newPassword)
}

// CurrentUser loads the view for an authenticated user ID.
func (s *Service) CurrentUser(ctx context.Context, userID uint64) (UserView, error) {
	user, ok, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	if !ok {
		return UserView{}, ErrInvalidCredentials
	}
	roles, err := s.users.GetRolesForUser(ctx, user.ID)
	if err != nil {
		return UserView{}, err
	}
	return NewUserView(user, roles), nil
}

func identityOf(u model.User) Identity {
	return Identity{
		UserID:   u.ID,
		Provider: u.AuthProvider,
		Email:    u.Email,
		Name:     u.DisplayName,
		Picture:  u.AvatarURL,
	}
}
