package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateUserRequest represents the signup request for email/password accounts.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"` // bcrypt input limit
}

// LoginRequest represents the signin request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries the ID token issued to the browser by Google Sign-In.
type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

// User represents a user profile for API responses (avoids import cycle with db package).
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Picture     string    `json:"picture,omitempty"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
}

// SignupResponse is returned after a successful signup.
type SignupResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the bearer token issued on signin.
type LoginResponse struct {
	Token string `json:"token"`
}

// GoogleLoginResponse carries the token plus the profile shown in the navbar.
type GoogleLoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

var validate = validator.New()

// Validate checks the struct tags. Failures are validator.ValidationErrors.
func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// Validate checks the struct tags. Failures are validator.ValidationErrors.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}
