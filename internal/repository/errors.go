// Package repository implements MySQL persistence for users, roles,
// password-reset tokens and the ticket/hotel/comment domain.  Sentinel
// errors defined here let handlers distinguish failure scenarios without
// inspecting driver error strings.
package repository

import "errors"

// ErrEmailExists is returned when an insert violates the unique email
// index. Handlers translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a system role.
// Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
