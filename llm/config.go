package llm

import (
	"time"

	"github.com/kbukum/agentflow/resilience"
	"github.com/kbukum/agentflow/util"
)

// Config holds configuration for creating a Client. It is
// provider-agnostic; the Dialect field selects the provider mapping.
type Config struct {
	// Name identifies this client instance in logs.
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// Dialect selects the provider mapping ("ollama", "openai"). Must
	// match a registered dialect.
	Dialect string `yaml:"dialect" json:"dialect" mapstructure:"dialect"`

	// BaseURL is the provider's API base URL (e.g. "http://localhost:11434").
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// Model is the default model when the request names none.
	Model string `yaml:"model" json:"model" mapstructure:"model"`

	// APIKey is sent as a bearer token when set.
	APIKey string `yaml:"api_key" json:"-" mapstructure:"api_key"`

	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature" json:"temperature" mapstructure:"temperature"`

	// MaxTokens is the default response limit. 0 means provider default.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens"`

	// Timeout for each HTTP request. Defaults to 120s.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`

	// Headers are sent with every request.
	Headers map[string]string `yaml:"headers" json:"headers" mapstructure:"headers"`

	// Retry configures retry behavior for failed requests. Nil takes
	// the resilience defaults.
	Retry *resilience.RetryConfig `yaml:"-" json:"-" mapstructure:"-"`
}

// applyDefaults sets default values for unset config fields.
func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
	if c.Name == "" && c.Dialect != "" {
		c.Name = c.Dialect + "-llm"
	}
}

// Fields returns the config as loggable fields. The API key is masked.
func (c *Config) Fields() map[string]any {
	return map[string]any{
		"dialect":  c.Dialect,
		"base_url": c.BaseURL,
		"model":    c.Model,
		"api_key":  util.MaskSecret(c.APIKey, 4),
		"timeout":  c.Timeout.String(),
	}
}
