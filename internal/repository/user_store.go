package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/stayware/ticketdesk/internal/auth"
	"github.com/stayware/ticketdesk/internal/model"
)

const userColumns = "id,email,display_name,password_hash,auth_provider,avatar_url,is_active,hotel_id,created_at,updated_at"

// UserStore is the MySQL implementation of auth.UserDirectory.  User,
// role and reset-token methods are split across files but share this one
// type so a single handle satisfies the whole contract.
type UserStore struct{ DB *sql.DB }

func NewUserStore(db *sql.DB) *UserStore { return &UserStore{DB: db} }

var _ auth.UserDirectory = (*UserStore)(nil)

// FindByEmail fetches a user by normalized email.  Absence is reported
// through the bool, not an error.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.scanUser(s.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if err == sql.ErrNoRows {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}

// FindByID fetches a user by id.
func (s *UserStore) FindByID(ctx context.Context, id uint64) (model.User, bool, error) {
	u, err := s.scanUser(s.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}

// CreateLocalUser inserts a password-based account and returns the stored row.
func (s *UserStore) CreateLocalUser(ctx context.Context, email, displayName, passwordHash string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (email, display_name, password_hash, auth_provider, is_active) VALUES (?,?,?,?,1)",
		email, displayName, passwordHash, model.ProviderLocal)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	u, _, err := s.FindByID(ctx, uint64(id))
	return u, err
}

// EnsureUserForAuth resolves the durable user behind a verified identity.
// Unknown emails are provisioned as federated accounts (no password hash);
// known ones get their display name and avatar refreshed when the provider
// reports new values.
func (s *UserStore) EnsureUserForAuth(ctx context.Context, id auth.Identity) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	u, ok, err := s.FindByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		provider := id.Provider
		if provider == "" {
			provider = model.ProviderGoogle
		}
		res, err := s.DB.ExecContext(ctx,
			"INSERT INTO users (email, display_name, auth_provider, avatar_url, is_active) VALUES (?,?,?,?,1)",
			email, id.Name, provider, id.Picture)
		if err != nil {
			return model.User{}, err
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return model.User{}, err
		}
		u, _, err = s.FindByID(ctx, uint64(newID))
		return u, err
	}
	if (id.Name != "" && id.Name != u.DisplayName) || (id.Picture != "" && id.Picture != u.AvatarURL) {
		name, avatar := u.DisplayName, u.AvatarURL
		if id.Name != "" {
			name = id.Name
		}
		if id.Picture != "" {
			avatar = id.Picture
		}
		if err := s.UpdateUserProfile(ctx, u.ID, name, avatar); err != nil {
			return model.User{}, err
		}
		u.DisplayName, u.AvatarURL = name, avatar
	}
	return u, nil
}

// UpdatePasswordHash replaces the stored password hash.
func (s *UserStore) UpdatePasswordHash(ctx context.Context, userID uint64, hash string) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", hash, userID)
	return err
}

// UpdateUserProfile updates mutable profile fields.
func (s *UserStore) UpdateUserProfile(ctx context.Context, userID uint64, displayName, avatarURL string) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE users SET display_name=?, avatar_url=?, updated_at=NOW() WHERE id=?",
		displayName, avatarURL, userID)
	return err
}

type rowScanner interface{ Scan(dest ...any) error }

func (s *UserStore) scanUser(row rowScanner) (model.User, error) {
	var (
		u      model.User
		hash   sql.NullString
		avatar sql.NullString
		hotel  sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &hash, &u.AuthProvider,
		&avatar, &u.IsActive, &hotel, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.PasswordHash = hash.String
	u.AvatarURL = avatar.String
	if hotel.Valid {
		u.HotelID = uint64(hotel.Int64)
	}
	return u, nil
}
