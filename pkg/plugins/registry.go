package plugins

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrDuplicatePlugin means a qualified name was registered twice.
	ErrDuplicatePlugin = errors.New("plugin already registered")
	// ErrUnknownPlugin means the model requested a name nobody registered.
	ErrUnknownPlugin = errors.New("unknown plugin")
	// ErrRegistryFrozen means Register was called after Freeze.
	ErrRegistryFrozen = errors.New("plugin registry is frozen")
)

// Registry is the central inventory of capabilities offered to the model.
// It is append-only during startup registration and frozen before the
// first request; after Freeze it is read-only and safe to share.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []Descriptor // registration order, kept for reproducible prompting
	frozen  bool
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin under its qualified descriptor name.
// Duplicate names and post-freeze registration are startup programming
// errors and are returned as such.
func (r *Registry) Register(p Plugin) error {
	name := p.Descriptor.Name
	if name == "" {
		return fmt.Errorf("plugin name is empty")
	}
	if p.Invoke == nil {
		return fmt.Errorf("plugin %s has no adapter", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register %s", ErrRegistryFrozen, name)
	}
	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
	}

	r.plugins[name] = p
	r.order = append(r.order, p.Descriptor)
	return nil
}

// Freeze ends the registration phase. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Descriptors returns a snapshot of all descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve returns the plugin registered under the qualified name.
func (r *Registry) Resolve(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[name]
	if !ok {
		return Plugin{}, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
	}
	return p, nil
}

// Len reports the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
