package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/stayware/ticketdesk/internal/model"
)

// Password-reset token persistence.  Mirrors the refresh-token pattern:
// only the SHA-256 hash is stored, expiry and consumption are checked at
// read time, and invalidation is a bulk consume rather than a delete so
// rows keep their audit trail.

// CreatePasswordResetToken inserts a reset token row.
func (s *UserStore) CreatePasswordResetToken(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt)
	return err
}

// FindValidPasswordResetTokenByHash returns the unconsumed, unexpired
// token matching the hash, if any.
func (s *UserStore) FindValidPasswordResetTokenByHash(ctx context.Context, tokenHash string) (model.PasswordResetToken, bool, error) {
	var (
		t        model.PasswordResetToken
		consumed sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, consumed_at, created_at "+
			"FROM password_reset_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &consumed, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return model.PasswordResetToken{}, false, nil
	}
	if err != nil {
		return model.PasswordResetToken{}, false, err
	}
	if consumed.Valid {
		ts := consumed.Time
		t.ConsumedAt = &ts
	}
	if t.ConsumedAt != nil || time.Now().UTC().After(t.ExpiresAt) {
		return model.PasswordResetToken{}, false, nil
	}
	return t, true, nil
}

// ConsumePasswordResetToken marks a single token as used.
func (s *UserStore) ConsumePasswordResetToken(ctx context.Context, tokenID uint64) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET consumed_at=NOW() WHERE id=? AND consumed_at IS NULL",
		tokenID)
	return err
}

// ConsumeAllPasswordResetTokensForUser invalidates every outstanding
// token for a user.  Called before issuing a new token and after a
// successful consume.
func (s *UserStore) ConsumeAllPasswordResetTokensForUser(ctx context.Context, userID uint64) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET consumed_at=NOW() WHERE user_id=? AND consumed_at IS NULL",
		userID)
	return err
}
