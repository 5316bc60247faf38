package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	userID := uuid.New()
	assert.Equal(t, "email already registered: a@b.com", (&ErrEmailAlreadyExists{Email: "a@b.com"}).Error())
	assert.Equal(t, "invalid email or password", (&ErrInvalidCredentials{}).Error())
	assert.Equal(t, "user not found: "+userID.String(), (&ErrUserNotFound{UserID: userID}).Error())
	assert.Equal(t, "validation error: email - email", (&ErrValidation{Field: "email", Message: "email"}).Error())
	assert.Equal(t, "invalid Google credential", (&ErrInvalidGoogleToken{}).Error())

	cause := errors.New("audience mismatch")
	googleErr := &ErrInvalidGoogleToken{Err: cause}
	assert.Contains(t, googleErr.Error(), "audience mismatch")
	assert.ErrorIs(t, googleErr, cause)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"duplicate email", &ErrEmailAlreadyExists{Email: "a@b.com"}, http.StatusBadRequest},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusBadRequest},
		{"validation", &ErrValidation{Field: "name", Message: "required"}, http.StatusBadRequest},
		{"google token", &ErrInvalidGoogleToken{}, http.StatusUnauthorized},
		{"user not found", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound},
		{"wrapped duplicate", fmt.Errorf("register: %w", &ErrEmailAlreadyExists{}), http.StatusBadRequest},
		{"database unavailable", ErrDatabaseUnavailable, http.StatusInternalServerError},
		{"generic", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
