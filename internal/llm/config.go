// Package llm provides the generative-AI provider configuration and client abstraction
// used by the AI proxy endpoint.
package llm

import "strings"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short rewrites and bullet suggestions
	TierLite ModelTier = "lite"
	// TierStandard is the default for summaries and experience text
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form output such as cover letters
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, currently the only one wired.
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider     Provider
	DefaultModel string
	Models       map[ModelTier]string
	Temperature  float32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:     ProviderGemini,
		DefaultModel: "gemini-2.5-flash",
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.7,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// ResolveModel maps a requested model to a concrete model name.
// Empty requests use the default model. A tier name resolves through Models.
// A concrete model name is accepted only if it is one of the configured models;
// anything else falls back to the default.
func (c *Config) ResolveModel(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return c.defaultModel()
	}
	if model, ok := c.Models[ModelTier(strings.ToLower(requested))]; ok {
		return model
	}
	if requested == c.DefaultModel {
		return requested
	}
	for _, model := range c.Models {
		if model == requested {
			return requested
		}
	}
	return c.defaultModel()
}

func (c *Config) defaultModel() string {
	if c.DefaultModel != "" {
		return c.DefaultModel
	}
	return c.GetModel(TierStandard)
}

// WithDefaultModel returns a copy of the config using model as the default.
func (c *Config) WithDefaultModel(model string) *Config {
	newConfig := &Config{
		Provider:     c.Provider,
		DefaultModel: model,
		Models:       make(map[ModelTier]string, len(c.Models)),
		Temperature:  c.Temperature,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}
