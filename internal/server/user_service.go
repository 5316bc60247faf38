package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides business logic for user authentication operations
type UserService struct {
	db             DBClient
	passwordConfig *config.PasswordConfig
	verifier       IDTokenVerifier
}

// NewUserService creates a new UserService with the given dependencies.
// db may be nil when the server started without a database.
func NewUserService(database DBClient, passwordConfig *config.PasswordConfig, verifier IDTokenVerifier) *UserService {
	return &UserService{
		db:             database,
		passwordConfig: passwordConfig,
		verifier:       verifier,
	}
}

// convertDBUserToTypesUser converts db.User to types.User, excluding password hash
func convertDBUserToTypesUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:          dbUser.ID,
		Name:        dbUser.Name,
		Email:       dbUser.Email,
		Picture:     dbUser.Picture,
		PasswordSet: dbUser.PasswordSet,
		CreatedAt:   dbUser.CreatedAt,
	}
}

// Register creates a new user with password authentication
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	if s.db == nil {
		return nil, ErrDatabaseUnavailable
	}

	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: db.NormalizeEmail(req.Email)}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		// the pepper counts toward bcrypt's 72-byte limit
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &ErrValidation{Field: "Password", Message: "too long"}
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.db.CreateUser(ctx, req.Name, req.Email, passwordHash)
	if err != nil {
		// lost a race with a concurrent signup for the same address
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, &ErrEmailAlreadyExists{Email: db.NormalizeEmail(req.Email)}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	if s.db == nil {
		return nil, ErrDatabaseUnavailable
	}

	dbUser, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Security: Always return generic error if user not found or password wrong
	if dbUser == nil || !dbUser.PasswordSet {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// GoogleLogin verifies a Google credential and signs the user in, creating
// the account on first use. Accounts created this way have no password.
func (s *UserService) GoogleLogin(ctx context.Context, credential string) (*types.User, error) {
	if s.verifier == nil {
		return nil, fmt.Errorf("google sign-in is not configured")
	}
	profile, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, err
	}
	if s.db == nil {
		return nil, ErrDatabaseUnavailable
	}

	dbUser, err := s.db.UpsertGoogleUser(ctx, profile.Email, profile.Name, profile.Picture)
	if err != nil {
		return nil, fmt.Errorf("failed to save google user: %w", err)
	}
	return convertDBUserToTypesUser(dbUser), nil
}

// GetUser returns the profile for an authenticated user.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	if s.db == nil {
		return nil, ErrDatabaseUnavailable
	}
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return convertDBUserToTypesUser(dbUser), nil
}
