package config

import (
	"fmt"

	"github.com/kbukum/agentflow/backend"
	"github.com/kbukum/agentflow/llm"
	"github.com/kbukum/agentflow/routing"
	"github.com/kbukum/agentflow/server"
)

// BackendConfig selects and configures the execution backend.
type BackendConfig struct {
	// Kind selects the backend: "stub", "llm", or "subprocess".
	Kind string `yaml:"kind" mapstructure:"kind"`
	// LLM configures the model-server backend (kind "llm").
	LLM llm.Config `yaml:"llm" mapstructure:"llm"`
	// Subprocess configures the worker-process backend (kind "subprocess").
	Subprocess backend.SubprocessConfig `yaml:"subprocess" mapstructure:"subprocess"`
}

// ApplyDefaults fills unset fields. The default backend talks to a local
// Ollama server.
func (c *BackendConfig) ApplyDefaults() {
	if c.Kind == "" {
		c.Kind = "llm"
	}
	if c.Kind == "llm" {
		if c.LLM.Dialect == "" {
			c.LLM.Dialect = "ollama"
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "http://localhost:11434"
		}
	}
}

// Validate checks the backend selection and its kind-specific fields.
func (c *BackendConfig) Validate() error {
	switch c.Kind {
	case "stub":
		return nil
	case "llm":
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("backend.llm.base_url is required")
		}
		if c.LLM.Dialect == "" {
			return fmt.Errorf("backend.llm.dialect is required")
		}
		return nil
	case "subprocess":
		if c.Subprocess.Binary == "" {
			return fmt.Errorf("backend.subprocess.binary is required")
		}
		return nil
	default:
		return fmt.Errorf("backend.kind must be one of [stub, llm, subprocess] (got: %q)", c.Kind)
	}
}

// Build constructs the configured backend.
func (c *BackendConfig) Build() (backend.Backend, error) {
	switch c.Kind {
	case "stub":
		return backend.NewStub(""), nil
	case "llm":
		client, err := llm.New(c.LLM)
		if err != nil {
			return nil, err
		}
		return backend.NewLLM(client), nil
	case "subprocess":
		return backend.NewSubprocess(c.Subprocess)
	default:
		return nil, fmt.Errorf("backend.kind must be one of [stub, llm, subprocess] (got: %q)", c.Kind)
	}
}

// ArtifactConfig controls run artifact persistence.
type ArtifactConfig struct {
	// Enabled turns artifact persistence on.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Dir is the artifact root directory.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ApplyDefaults fills unset fields.
func (c *ArtifactConfig) ApplyDefaults() {
	if c.Dir == "" {
		c.Dir = "runs"
	}
}

// ObservabilityConfig controls OTLP trace and metric export.
type ObservabilityConfig struct {
	// Enabled turns export on. Off, tracing and metrics are no-ops.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP export.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// ApplyDefaults fills unset fields with development-friendly values.
func (c *ObservabilityConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
		c.Insecure = true
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Validate checks the export settings.
func (c *ObservabilityConfig) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be between 0.0 and 1.0 (got: %g)", c.SampleRate)
	}
	return nil
}

// Config is the full configuration for the agentflow binaries.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Routing       routing.Config      `yaml:"routing" mapstructure:"routing"`
	Backend       BackendConfig       `yaml:"backend" mapstructure:"backend"`
	Artifacts     ArtifactConfig      `yaml:"artifacts" mapstructure:"artifacts"`
	Server        server.Config       `yaml:"server" mapstructure:"server"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Routing.ApplyDefaults()
	c.Backend.ApplyDefaults()
	c.Artifacts.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Routing.Validate(); err != nil {
		return err
	}
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	return nil
}

// Load reads configuration from config.yml, .env files, and the
// environment, applies defaults, and validates the result.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig("agentflow", &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
