package service

import "errors"

// Operation errors form a closed set so handlers and tests can
// distinguish cause instead of catching everything broadly.
var (
	// ErrNotFound is returned when a referenced id does not exist
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation is returned when a deletion is blocked by a
	// referential rule (parent with campers, default or referenced group)
	ErrConstraintViolation = errors.New("operation blocked by referential rule")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so callers cannot enumerate accounts
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailTaken        = errors.New("email already taken")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session expired")
	ErrInvalidInvitation = errors.New("invalid or expired invitation")
)
