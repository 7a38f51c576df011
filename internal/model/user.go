package model

import "time"

// Auth providers supported for account provisioning.  Local accounts carry
// a bcrypt password hash; google accounts are provisioned on first OAuth
// callback and never hold a password.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User represents an application user record as stored in the `users`
// table.  Emails are stored lower-cased so uniqueness is case-insensitive.
// PasswordHash is empty for federated (google) accounts; HotelID scopes the
// user to a tenant and may be zero for global accounts.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (lower-cased, unique)
	DisplayName  string    // users.display_name
	PasswordHash string    // users.password_hash ('' for google accounts)
	AuthProvider string    // users.auth_provider (local|google)
	AvatarURL    string    // users.avatar_url
	IsActive     bool      // users.is_active
	HotelID      uint64    // users.hotel_id (tenant scope, 0 = none)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Role groups permissions.  Permissions maps a resource name to the set of
// actions granted on it; the single action "*" grants every action on that
// resource.  The mapping is stored as a JSON column and validated against
// the permission catalog when a role is created or updated, never at
// evaluation time.  System roles cannot be deleted.
type Role struct {
	ID          uint64              // roles.id
	Name        string              // roles.name (unique)
	Permissions map[string][]string // roles.permissions (JSON)
	IsSystem    bool                // roles.is_system
	CreatedAt   time.Time           // roles.created_at
	UpdatedAt   time.Time           // roles.updated_at
}

// PasswordResetToken models an entry in the `password_reset_tokens` table.
// Only the SHA-256 hash of the raw token is persisted; the raw value is
// handed to the requester once and never stored.
type PasswordResetToken struct {
	ID         uint64     // password_reset_tokens.id
	UserID     uint64     // password_reset_tokens.user_id
	TokenHash  string     // password_reset_tokens.token_hash (hex SHA-256)
	ExpiresAt  time.Time  // password_reset_tokens.expires_at
	ConsumedAt *time.Time // password_reset_tokens.consumed_at (nullable)
	CreatedAt  time.Time  // password_reset_tokens.created_at
}
