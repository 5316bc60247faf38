//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			request: CreateUserRequest{Name: "A", Email: "a@b.com", Password: "x"},
		},
		{
			name:    "missing name",
			request: CreateUserRequest{Email: "a@b.com", Password: "x"},
			wantErr: true,
		},
		{
			name:    "invalid email",
			request: CreateUserRequest{Name: "A", Email: "not-an-email", Password: "x"},
			wantErr: true,
		},
		{
			name:    "password longer than 72 bytes",
			request: CreateUserRequest{Name: "A", Email: "a@b.com", Password: strings.Repeat("p", 73)},
			wantErr: true,
		},
		{
			name:    "password of exactly 72 bytes",
			request: CreateUserRequest{Name: "A", Email: "a@b.com", Password: strings.Repeat("p", 72)},
		},
		{
			name:    "missing password",
			request: CreateUserRequest{Name: "A", Email: "a@b.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_Validation(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "a@b.com", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "a@b.com"}).Validate())
	assert.Error(t, (&LoginRequest{Password: "x"}).Validate())
}
