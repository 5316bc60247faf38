package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultJWTSecret, cfg.Secret)
	assert.Equal(t, 1, cfg.ExpirationHours, "tokens expire after one hour by default")
}

func TestNewJWTConfig_CustomValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "6")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 6, cfg.ExpirationHours)
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	tests := []struct {
		name       string
		expiration string
	}{
		{"non-numeric", "abc"},
		{"zero", "0"},
		{"negative", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)
			cfg, err := NewJWTConfig()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestNewJWTConfigWithSecret_EmptySecret(t *testing.T) {
	cfg, err := NewJWTConfigWithSecret("", 1)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
