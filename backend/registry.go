package backend

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages named backend factories and cached instances.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	instances map[string]Backend
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]Backend),
	}
}

// RegisterFactory registers a named factory for creating backends.
func (r *Registry) RegisterFactory(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create instantiates a backend using the named factory and config.
func (r *Registry) Create(name string, cfg map[string]any) (Backend, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("backend: factory %q not registered", name)
	}
	return factory(cfg)
}

// Get returns a cached backend instance by name.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[name]
	return inst, ok
}

// Set caches a backend instance by name.
func (r *Registry) Set(name string, instance Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[name] = instance
}

// List returns sorted names of all registered factories.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
