package llm

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kbukum/agentflow/resilience"
)

// Client is a config-driven chat completion client that works with any
// provider through the Dialect pattern. Transport is plain net/http;
// failed requests retry with exponential backoff.
type Client struct {
	name       string
	baseURL    string
	dialect    Dialect
	httpClient *http.Client
	headers    map[string]string
	apiKey     string
	model      string
	temp       float64
	maxTokens  int
	retry      resilience.RetryConfig
}

// New creates a Client from config using the global dialect registry.
func New(cfg Config) (*Client, error) {
	cfg.applyDefaults()
	dialect, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return NewWithDialect(dialect, cfg)
}

// NewWithDialect creates a Client with an explicit dialect instance,
// bypassing the registry.
func NewWithDialect(dialect Dialect, cfg Config) (*Client, error) {
	if dialect == nil {
		return nil, fmt.Errorf("llm: dialect is required")
	}
	cfg.applyDefaults()
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("llm: base url is required")
	}
	if cfg.Name == "" {
		cfg.Name = dialect.Name() + "-llm"
	}

	retry := resilience.DefaultRetryConfig()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}
	if retry.RetryIf == nil {
		retry.RetryIf = retryableError
	}

	return &Client{
		name:       cfg.Name,
		baseURL:    cfg.BaseURL,
		dialect:    dialect,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		headers:    cfg.Headers,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		temp:       cfg.Temperature,
		maxTokens:  cfg.MaxTokens,
		retry:      retry,
	}, nil
}

// Name returns the client name.
func (c *Client) Name() string { return c.name }

// Model returns the default model.
func (c *Client) Model() string { return c.model }

// Dialect returns the dialect in use.
func (c *Client) Dialect() Dialect { return c.dialect }

// IsAvailable checks whether the provider is reachable, using the
// dialect's health endpoint when it has one.
func (c *Client) IsAvailable(ctx context.Context) bool {
	path := c.dialect.HealthPath()
	if path == "" {
		path = c.dialect.ChatPath()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return false
	}
	c.setHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	// Any response proves the server is there; a chat path probed with
	// GET may well answer 404 or 405.
	return resp.StatusCode < http.StatusInternalServerError
}

// Complete sends a completion request and returns the full response.
// Transport-level failures and retryable statuses (429, 5xx) are
// retried per the configured policy.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	c.fillDefaults(&req)

	body, err := c.dialect.BuildRequest(req)
	if err != nil {
		return nil, fmt.Errorf("llm: build request: %w", err)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	raw, err := resilience.Retry(ctx, c.retry, func() ([]byte, error) {
		return c.post(ctx, c.dialect.ChatPath(), payload)
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.dialect.ParseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("llm: parse response: %w", err)
	}
	return resp, nil
}

// --- internal ---

func (c *Client) fillDefaults(req *CompletionRequest) {
	if req.Model == "" {
		req.Model = c.model
	}
	if req.Temperature == 0 {
		req.Temperature = c.temp
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.maxTokens
	}
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("llm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm: send request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // error on close after read is not actionable

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("llm: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode, body: truncate(body, 512)}
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// statusError is a non-200 response from the provider.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("llm: unexpected status %d: %s", e.status, e.body)
}

// retryableError retries transport failures, 429 and 5xx. Context
// cancellation and client-side 4xx are final.
func retryableError(err error) bool {
	var se *statusError
	if stderrors.As(err, &se) {
		return se.status >= http.StatusInternalServerError || se.status == http.StatusTooManyRequests
	}
	return resilience.DefaultRetryIf(err)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
