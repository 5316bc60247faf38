package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrInvalidGoogleToken indicates a Google ID token failed verification
type ErrInvalidGoogleToken struct {
	Err error
}

func (e *ErrInvalidGoogleToken) Error() string {
	if e.Err == nil {
		return "invalid Google credential"
	}
	return fmt.Sprintf("invalid Google credential: %v", e.Err)
}

func (e *ErrInvalidGoogleToken) Unwrap() error {
	return e.Err
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrDatabaseUnavailable is returned by handlers when the server started
// without a database connection.
var ErrDatabaseUnavailable = errors.New("database unavailable")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailErr  *ErrEmailAlreadyExists
		credErr   *ErrInvalidCredentials
		valErr    *ErrValidation
		googleErr *ErrInvalidGoogleToken
		userErr   *ErrUserNotFound
	)
	switch {
	case errors.As(err, &emailErr), errors.As(err, &credErr), errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &googleErr):
		return http.StatusUnauthorized
	case errors.As(err, &userErr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
