package auth

import (
	"context"
	"strings"
	"time"

	"github.com/stayware/ticketdesk/internal/model"
)

// fakeDirectory is an in-memory UserDirectory used across the package
// tests.  It mimics the store semantics the MySQL implementation
// provides: case-insensitive emails, consumed-flag bookkeeping and
// federated provisioning in EnsureUserForAuth.
type fakeDirectory struct {
	users  map[uint64]model.User
	roles  map[uint64][]model.Role
	tokens []model.PasswordResetToken
	nextID uint64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users: map[uint64]model.User{},
		roles: map[uint64][]model.Role{},
	}
}

func (d *fakeDirectory) addUser(u model.User) model.User {
	if u.ID == 0 {
		d.nextID++
		u.ID = d.nextID
	} else if u.ID > d.nextID {
		d.nextID = u.ID
	}
	u.Email = strings.ToLower(u.Email)
	d.users[u.ID] = u
	return u
}

func (d *fakeDirectory) FindByEmail(_ context.Context, email string) (model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range d.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

func (d *fakeDirectory) FindByID(_ context.Context, id uint64) (model.User, bool, error) {
	u, ok := d.users[id]
	return u, ok, nil
}

func (d *fakeDirectory) CreateLocalUser(_ context.Context, email, displayName, passwordHash string) (model.User, error) {
	return d.addUser(model.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		AuthProvider: model.ProviderLocal,
		IsActive:     true,
	}), nil
}

func (d *fakeDirectory) EnsureUserForAuth(ctx context.Context, id Identity) (model.User, error) {
	if u, ok, _ := d.FindByEmail(ctx, id.Email); ok {
		return u, nil
	}
	provider := id.Provider
	if provider == "" {
		provider = model.ProviderGoogle
	}
	return d.addUser(model.User{
		Email:        id.Email,
		DisplayName:  id.Name,
		AuthProvider: provider,
		AvatarURL:    id.Picture,
		IsActive:     true,
	}), nil
}

func (d *fakeDirectory) GetRolesForUser(_ context.Context, userID uint64) ([]model.Role, error) {
	return d.roles[userID], nil
}

func (d *fakeDirectory) UpdatePasswordHash(_ context.Context, userID uint64, hash string) error {
	u := d.users[userID]
	u.PasswordHash = hash
	d.users[userID] = u
	return nil
}

func (d *fakeDirectory) UpdateUserProfile(_ context.Context, userID uint64, displayName, avatarURL string) error {
	u := d.users[userID]
	u.DisplayName = displayName
	u.AvatarURL = avatarURL
	d.users[userID] = u
	return nil
}

func (d *fakeDirectory) CreatePasswordResetToken(_ context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	d.nextID++
	d.tokens = append(d.tokens, model.PasswordResetToken{
		ID:        d.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	})
	return nil
}

func (d *fakeDirectory) FindValidPasswordResetTokenByHash(_ context.Context, tokenHash string) (model.PasswordResetToken, bool, error) {
	for _, t := range d.tokens {
		if t.TokenHash == tokenHash && t.ConsumedAt == nil && time.Now().UTC().Before(t.ExpiresAt) {
			return t, true, nil
		}
	}
	return model.PasswordResetToken{}, false, nil
}

func (d *fakeDirectory) ConsumePasswordResetToken(_ context.Context, tokenID uint64) error {
	now := time.Now().UTC()
	for i := range d.tokens {
		if d.tokens[i].ID == tokenID && d.tokens[i].ConsumedAt == nil {
			d.tokens[i].ConsumedAt = &now
		}
	}
	return nil
}

func (d *fakeDirectory) ConsumeAllPasswordResetTokensForUser(_ context.Context, userID uint64) error {
	now := time.Now().UTC()
	for i := range d.tokens {
		if d.tokens[i].UserID == userID && d.tokens[i].ConsumedAt == nil {
			d.tokens[i].ConsumedAt = &now
		}
	}
	return nil
}
