package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists indicates a unique-email constraint violation.
	// Backends map their vendor-specific conflict signal to this error so
	// callers never match driver error codes.
	ErrEmailExists = errors.New("email already exists")

	// ErrSessionNotFound indicates that session was not found or is expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrPageNotFound indicates that page was not found
	ErrPageNotFound = errors.New("page not found")

	// ErrSlugExists indicates a unique-slug constraint violation
	ErrSlugExists = errors.New("slug already exists")

	// ErrMenuNotFound indicates that menu was not found
	ErrMenuNotFound = errors.New("menu not found")

	// ErrLocationExists indicates a unique-menu-location constraint violation
	ErrLocationExists = errors.New("menu location already exists")
)
