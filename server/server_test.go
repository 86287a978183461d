package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/agentflow/logger"
	"github.com/kbukum/agentflow/server"
)

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

func TestServer_HandlerWrapsEngine(t *testing.T) {
	cfg := server.Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	srv := server.New(cfg, logger.NewDefault("server-test"))

	srv.GinEngine().GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/ping", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "pong" {
		t.Errorf("body = %q", rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected request-id middleware to be applied")
	}
}

func TestServer_RecoversFromHandlerPanic(t *testing.T) {
	cfg := server.Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	srv := server.New(cfg, logger.NewDefault("server-test"))

	srv.GinEngine().GET("/boom", func(*gin.Context) {
		panic("handler exploded")
	})

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/boom", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestServer_StartStop(t *testing.T) {
	cfg := server.Config{Host: "127.0.0.1", Port: 0}
	srv := server.New(cfg, logger.NewDefault("server-test"))

	ctx := context.Background()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestServer_Addr(t *testing.T) {
	cfg := server.Config{Host: "127.0.0.1", Port: 9321}
	srv := server.New(cfg, logger.NewDefault("server-test"))

	if got := srv.Addr(); got != "127.0.0.1:9321" {
		t.Fatalf("addr = %s", got)
	}
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg server.Config
	cfg.ApplyDefaults()

	if cfg.Port != 8080 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.WriteTimeout != 600 {
		t.Errorf("write timeout = %d", cfg.WriteTimeout)
	}
	if cfg.MaxBodySize != "10MB" {
		t.Errorf("max body size = %s", cfg.MaxBodySize)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("cors origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestConfig_ApplyDefaultsKeepsExplicit(t *testing.T) {
	cfg := server.Config{Port: 9000, WriteTimeout: 30}
	cfg.ApplyDefaults()

	if cfg.Port != 9000 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.WriteTimeout != 30 {
		t.Errorf("write timeout = %d", cfg.WriteTimeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     server.Config
		wantErr string
	}{
		{"defaults", func() server.Config { var c server.Config; c.ApplyDefaults(); return c }(), ""},
		{"bad port", server.Config{Port: 70000}, "server.port"},
		{"negative read timeout", server.Config{Port: 8080, ReadTimeout: -1}, "read_timeout"},
		{"negative rate limit", server.Config{Port: 8080, RunsPerMinute: -5}, "runs_per_minute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
