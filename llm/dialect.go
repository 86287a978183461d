package llm

import (
	"fmt"
	"sort"
	"sync"
)

// Dialect maps the universal completion types to and from one
// provider's HTTP format. The shipped dialects are "ollama" and
// "openai"; projects register additional ones at startup with
// [RegisterDialect].
type Dialect interface {
	// Name returns the dialect identifier (e.g. "ollama").
	Name() string

	// ChatPath returns the chat completion endpoint path.
	ChatPath() string

	// HealthPath returns the health-check endpoint path. Empty means
	// the provider has none.
	HealthPath() string

	// BuildRequest maps a universal CompletionRequest to the provider's
	// JSON request body.
	BuildRequest(req CompletionRequest) (any, error)

	// ParseResponse maps the provider's JSON response body to a
	// universal CompletionResponse.
	ParseResponse(body []byte) (*CompletionResponse, error)
}

// --- dialect registry ---

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect adds a dialect to the global registry. The shipped
// dialects register themselves from init().
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect retrieves a dialect by name.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown dialect %q", name)
	}
	return d, nil
}

// Dialects returns the sorted names of all registered dialects.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
