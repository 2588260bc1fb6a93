package model

import "errors"

// Common errors used across the application
var (
	// Credential errors
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrInvalidInput      = errors.New("invalid input")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUnauthenticated    = errors.New("authentication required")

	// Lookup errors
	ErrUserNotFound = errors.New("user not found")
	ErrNoScores     = errors.New("no scores recorded")
)
