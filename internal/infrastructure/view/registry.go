package view

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

// Factory builds a fresh controller instance.
type Factory = func() any

// Registry maps the controller names used in view descriptions to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// New builds a controller. Every call returns a new instance.
func (r *Registry) New(name string) (any, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownController, name)
	}
	return f(), nil
}

// Names lists the registered controller names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
