package auth

import (
	"errors"
	"fmt"
	"time"
)

// Auth module errors.
var (
	// Credential errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminExists        = errors.New("admin already configured")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email")

	// Token errors
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidTokenClaims = errors.New("invalid token claims")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
)

// TooManyAttemptsError carries when the login window resets.
type TooManyAttemptsError struct {
	RetryAt time.Time
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrTooManyAttempts, e.RetryAt.Format(time.RFC3339))
}

func (e *TooManyAttemptsError) Unwrap() error {
	return ErrTooManyAttempts
}
