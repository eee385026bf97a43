package domain

import "errors"

// Domain errors (no external dependencies). Handlers map these to HTTP
// status codes.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already registered")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicate           = errors.New("duplicate resource")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("access denied")
	ErrConflict            = errors.New("conflict with current state")
	ErrAccountInactive     = errors.New("account inactive")
	ErrAccountSuspended    = errors.New("account suspended")
	ErrAccountUnverified   = errors.New("account not verified")
	ErrTokenRevoked        = errors.New("refresh token revoked")
	ErrClearanceTooLow     = errors.New("security clearance too low")
	ErrNoProviderAvailable = errors.New("no provider available")
)
