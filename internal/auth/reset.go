package auth

import (
	"context"
	"strings"
	"time"

	"github.com/stayware/ticketdesk/internal/model"
	"github.com/stayware/ticketdesk/internal/utils"
)

const (
	resetTokenTTL   = 30 * time.Minute
	resetTokenBytes = 32
)

// PasswordResetFlow issues and consumes hashed one-time reset tokens.
// Token rows are persisted through the UserDirectory; only the SHA-256
// digest is ever stored, and at most one token per user is live at a time.
type PasswordResetFlow struct {
	users      UserDirectory
	bcryptCost int
	now        func() time.Time
}

func NewPasswordResetFlow(users UserDirectory, bcryptCost int) *PasswordResetFlow {
	return &PasswordResetFlow{users: users, bcryptCost: bcryptCost, now: time.Now}
}

// Request starts a reset for the given email.  For unknown emails and
// federated accounts it succeeds without generating a token, so callers
// can return a response indistinguishable from the eligible path and leak
// nothing about account existence.  The returned raw token is empty in
// that case; whether a generated token is ever exposed to the client is
// the caller's deployment-gated decision.
func (f *PasswordResetFlow) Request(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, ok, err := f.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !ok || user.AuthProvider != model.ProviderLocal {
		return "", nil
	}

	raw, err := utils.RandomHex(resetTokenBytes)
	if err != nil {
		return "", err
	}
	// A new token supersedes every outstanding one for this user.
	if err := f.users.ConsumeAllPasswordResetTokensForUser(ctx, user.ID); err != nil {
		return "", err
	}
	expires := f.now().UTC().Add(resetTokenTTL)
	if err := f.users.CreatePasswordResetToken(ctx, user.ID, utils.HashTokenRaw(raw), expires); err != nil {
		return "", err
	}
	return raw, nil
}

// Consume redeems a raw reset token and sets a new password.  On success
// the token is marked consumed and every sibling token for the same user
// is invalidated, closing the race where two reset links were issued and
// the older one is replayed after the newer one was used.
func (f *PasswordResetFlow) Consume(ctx context.Context, rawToken, newPassword string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" || len(newPassword) < 8 {
		return ErrValidation
	}

	record, ok, err := f.users.FindValidPasswordResetTokenByHash(ctx, utils.HashTokenRaw(rawToken))
	if err != nil {
		return err
	}
	if !ok || record.ConsumedAt != nil || f.now().UTC().After(record.ExpiresAt) {
		return ErrInvalidOrExpiredToken
	}

	hash, err := utils.HashPassword(newPassword, f.bcryptCost)
	if err != nil {
		return err
	}
	if err := f.users.UpdatePasswordHash(ctx, record.UserID, hash); err != nil {
		return err
	}
	if err := f.users.ConsumePasswordResetToken(ctx, record.ID); err != nil {
		return err
	}
	return f.users.ConsumeAllPasswordResetTokensForUser(ctx, record.UserID)
}
