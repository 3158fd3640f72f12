package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound      = errors.New("entity not found")
	ErrNotAuthorized = errors.New("caller is not an admin")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnavailable   = errors.New("remote service unavailable")
	ErrLockHeld      = errors.New("another event for this user is being processed")

	// ErrMessageGone is reported by the chat platform when a message that we
	// try to edit or delete no longer exists.
	ErrMessageGone = errors.New("message no longer exists")
)
