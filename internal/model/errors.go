package model

import "errors"

// Common errors used across the application
var (
	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrGuestNotFound   = errors.New("guest identity not found")
	ErrInvalidAvatar   = errors.New("avatar not in catalog")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameExists  = errors.New("username already exists")

	// Stats errors
	ErrStatsNotFound    = errors.New("game stats not found")
	ErrEmptyStatsUpdate = errors.New("stats update carries no fields")
)
