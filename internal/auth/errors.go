// Package auth implements the identity and access subsystem: token
// issuance and verification, session resolution, the exchange-code
// handshake, the password-reset lifecycle and role-based permission
// evaluation.  Services in this package return sentinel errors; the
// handler layer maps each kind to an HTTP status and never the other
// way around.
package auth

import "errors"

var (
	// ErrInvalidCredentials covers every login sub-failure (unknown email,
	// wrong password).  The message is deliberately generic so responses
	// do not reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountConflict is returned when an email is already taken by an
	// account from another provider (local signup vs google callback).
	ErrAccountConflict = errors.New("account exists with a different sign-in method")

	// ErrInactiveAccount is returned for disabled accounts that presented
	// otherwise valid credentials.
	ErrInactiveAccount = errors.New("account is disabled")

	// ErrInvalidOrExpiredToken covers exchange codes and password-reset
	// tokens that are unknown, already used or past their expiry.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrValidation indicates malformed input (empty email, short
	// password and the like).
	ErrValidation = errors.New("invalid input")
)
