package transcription

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"shortgen/internal/services"
)

// Registry holds the configured backends by name.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Transcriber
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Transcriber)}
}

// Register adds a backend under name, replacing any previous entry.
func (r *Registry) Register(name string, t Transcriber) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[strings.ToLower(strings.TrimSpace(name))] = t
}

// Resolve returns the backend registered under name.
func (r *Registry) Resolve(name string) (Transcriber, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	t, ok := r.backends[key]
	r.mu.RUnlock()
	if !ok {
		return nil, services.Wrap(
			services.ErrConfiguration,
			"transcription",
			"resolve backend",
			fmt.Sprintf("unknown backend %q (available: %s)", name, strings.Join(r.Names(), ", ")),
			nil,
		)
	}
	return t, nil
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
