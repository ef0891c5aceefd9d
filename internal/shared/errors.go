package shared

import "errors"

var (
	// ErrNotFound indicates resource not found or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail occurs when a signup reuses a registered email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidToken occurs when a session token fails verification.
	ErrInvalidToken = errors.New("invalid token")
)
