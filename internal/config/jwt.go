package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultJWTExpirationHours is the fixed token lifetime; tokens are never refreshed.
const DefaultJWTExpirationHours = 1

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (falls back to DefaultJWTSecret) and JWT_EXPIRATION_HOURS (default: 1).
func NewJWTConfig() (*JWTConfig, error) {
	expirationStr := os.Getenv("JWT_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = strconv.Itoa(DefaultJWTExpirationHours)
	}

	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
	}

	return NewJWTConfigWithSecret(getEnvString("JWT_SECRET", DefaultJWTSecret), expirationHours)
}

// NewJWTConfigWithSecret builds a validated JWT configuration from explicit values.
func NewJWTConfigWithSecret(secret string, expirationHours int) (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT secret cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
