// Package apperr holds the error taxonomy shared by services and handlers.
// Callers wrap these with fmt.Errorf("...: %w") and match them with errors.Is.
package apperr

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access restricted")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrValidation         = errors.New("validation failed")
)
