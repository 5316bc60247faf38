package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Defaults for the tiers below, overridable from the environment.
const (
	DefaultAIHourlyLimit  = 30
	DefaultAuthMinuteRate = 20
	DefaultBurst          = 5
)

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: EndpointConfigs(
			getEnvInt("RATE_LIMIT_AI_PER_HOUR", DefaultAIHourlyLimit),
			getEnvInt("RATE_LIMIT_AUTH_PER_MINUTE", DefaultAuthMinuteRate),
		),
	}
}

// DefaultEndpointConfigs returns the endpoint tiers with default limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return EndpointConfigs(DefaultAIHourlyLimit, DefaultAuthMinuteRate)
}

// EndpointConfigs builds the endpoint tiers.
func EndpointConfigs(aiPerHour, authPerMinute int) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: AI generation spends provider quota
		{Path: "/api/ai/generate", Method: "POST", Limit: aiPerHour, Window: time.Hour, Burst: DefaultBurst},

		// Tier 2: credential checks, limited against guessing
		{Path: "/signup", Method: "POST", Limit: authPerMinute, Window: time.Minute, Burst: DefaultBurst},
		{Path: "/signin", Method: "POST", Limit: authPerMinute, Window: time.Minute, Burst: DefaultBurst},
		{Path: "/auth/google", Method: "POST", Limit: authPerMinute, Window: time.Minute, Burst: DefaultBurst},

		// Tier 3: settings and telemetry fall through to the default limit
		// Tier 4: liveness (unlimited) is handled in the matcher
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
