package auth

import (
	"context"
	"time"

	"github.com/stayware/ticketdesk/internal/model"
)

// UserDirectory is the persistence contract this package depends on.  The
// MySQL implementation lives in internal/repository; tests substitute an
// in-memory fake.  Lookup methods report absence through the bool return
// rather than an error so "not found" never travels as a failure.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (model.User, bool, error)
	FindByID(ctx context.Context, id uint64) (model.User, bool, error)
	CreateLocalUser(ctx context.Context, email, displayName, passwordHash string) (model.User, error)
	// EnsureUserForAuth resolves the durable user for a verified identity,
	// provisioning a federated account on first sight and refreshing the
	// stored display name and avatar when the provider reports new ones.
	EnsureUserForAuth(ctx context.Context, id Identity) (model.User, error)
	GetRolesForUser(ctx context.Context, userID uint64) ([]model.Role, error)
	UpdatePasswordHash(ctx context.Context, userID uint64, hash string) error
	UpdateUserProfile(ctx context.Context, userID uint64, displayName, avatarURL string) error

	CreatePasswordResetToken(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error
	FindValidPasswordResetTokenByHash(ctx context.Context, tokenHash string) (model.PasswordResetToken, bool, error)
	ConsumePasswordResetToken(ctx context.Context, tokenID uint64) error
	ConsumeAllPasswordResetTokensForUser(ctx context.Context, userID uint64) error
}
