package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithConfigFile("/nonexistent/config.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "agentflow" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Backend.Kind != "llm" {
		t.Errorf("backend kind = %q", cfg.Backend.Kind)
	}
	if cfg.Backend.LLM.BaseURL != "http://localhost:11434" {
		t.Errorf("llm base url = %q", cfg.Backend.LLM.BaseURL)
	}
	if cfg.Routing.BulkItemThreshold != 50 {
		t.Errorf("bulk item threshold = %d", cfg.Routing.BulkItemThreshold)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d", cfg.Server.Port)
	}
	if cfg.Artifacts.Dir != "runs" {
		t.Errorf("artifact dir = %q", cfg.Artifacts.Dir)
	}
	if cfg.Observability.SampleRate != 1.0 {
		t.Errorf("sample rate = %g", cfg.Observability.SampleRate)
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
name: agentflow
environment: production
logging:
  level: warn
  format: json
routing:
  bulk_item_threshold: 10
backend:
  kind: subprocess
  subprocess:
    binary: ./worker
    grace_period: 5s
artifacts:
  enabled: true
  dir: /tmp/agentflow-runs
server:
  port: 9090
  runs_per_minute: 30
observability:
  enabled: true
  endpoint: otel-collector:4318
  sample_rate: 0.25
`)

	cfg, err := Load(WithConfigFile(path), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Environment != "production" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.Backend.Kind != "subprocess" {
		t.Errorf("backend kind = %q", cfg.Backend.Kind)
	}
	if cfg.Backend.Subprocess.Binary != "./worker" {
		t.Errorf("binary = %q", cfg.Backend.Subprocess.Binary)
	}
	if cfg.Backend.Subprocess.GracePeriod != 5*time.Second {
		t.Errorf("grace period = %s", cfg.Backend.Subprocess.GracePeriod)
	}
	if cfg.Routing.BulkItemThreshold != 10 {
		t.Errorf("bulk item threshold = %d", cfg.Routing.BulkItemThreshold)
	}
	if len(cfg.Routing.Tiers) != 3 {
		t.Errorf("expected tier defaults to be filled, got %d tiers", len(cfg.Routing.Tiers))
	}
	if !cfg.Artifacts.Enabled || cfg.Artifacts.Dir != "/tmp/agentflow-runs" {
		t.Errorf("artifacts = %+v", cfg.Artifacts)
	}
	if cfg.Server.Port != 9090 || cfg.Server.RunsPerMinute != 30 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Observability.Endpoint != "otel-collector:4318" {
		t.Errorf("endpoint = %q", cfg.Observability.Endpoint)
	}
	if cfg.Observability.SampleRate != 0.25 {
		t.Errorf("sample rate = %g", cfg.Observability.SampleRate)
	}
}

func TestLoadValidationFailure(t *testing.T) {
	path := writeConfig(t, `
backend:
  kind: quantum
`)

	_, err := Load(WithConfigFile(path), WithEnvFile("/nonexistent/.env"))
	if err == nil {
		t.Fatal("expected error for unknown backend kind")
	}
	if !strings.Contains(err.Error(), "backend.kind") {
		t.Errorf("error %q does not mention backend.kind", err)
	}
}

func TestLoadEnvOverridesNested(t *testing.T) {
	path := writeConfig(t, `
backend:
  kind: llm
  llm:
    model: qwen3
`)

	os.Setenv("BACKEND_LLM_MODEL", "llama3.1")
	defer os.Unsetenv("BACKEND_LLM_MODEL")

	cfg, err := Load(WithConfigFile(path), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.LLM.Model != "llama3.1" {
		t.Errorf("expected env override to win, got %q", cfg.Backend.LLM.Model)
	}
}

func TestBackendConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BackendConfig
		wantErr string
	}{
		{"stub", BackendConfig{Kind: "stub"}, ""},
		{"llm missing base url", BackendConfig{Kind: "llm"}, "base_url"},
		{"subprocess missing binary", BackendConfig{Kind: "subprocess"}, "binary"},
		{"unknown kind", BackendConfig{Kind: "quantum"}, "backend.kind"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestBackendConfigBuild(t *testing.T) {
	t.Run("stub", func(t *testing.T) {
		cfg := BackendConfig{Kind: "stub"}
		b, err := cfg.Build()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if b.Name() != "stub" {
			t.Errorf("name = %q", b.Name())
		}
	})

	t.Run("llm", func(t *testing.T) {
		cfg := BackendConfig{Kind: "llm"}
		cfg.ApplyDefaults()
		b, err := cfg.Build()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if b.Name() != "ollama-llm" {
			t.Errorf("name = %q", b.Name())
		}
	})

	t.Run("subprocess", func(t *testing.T) {
		cfg := BackendConfig{Kind: "subprocess"}
		cfg.Subprocess.Binary = "sh"
		b, err := cfg.Build()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if b.Name() != "subprocess" {
			t.Errorf("name = %q", b.Name())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := BackendConfig{Kind: "quantum"}
		if _, err := cfg.Build(); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestObservabilityConfigValidate(t *testing.T) {
	cfg := ObservabilityConfig{SampleRate: 2}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for sample rate above 1")
	}
	cfg.SampleRate = 0.5
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
