package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/devicegraph/pkg/graph"
)

// Registry manages the device kinds available to architecture files.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*graph.Kind
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[string]*graph.Kind),
	}
}

// Register adds kinds to the registry, keyed by their type name.
// If a kind with the same type exists, it is overwritten.
func (r *Registry) Register(kinds ...*graph.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range kinds {
		r.kinds[k.Type()] = k
	}
}

// Lookup returns the kind registered under a type name.
func (r *Registry) Lookup(typ string) (*graph.Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[typ]
	return k, ok
}

// New constructs a device of a registered kind.
// Returns an error if the kind is not found.
func (r *Registry) New(typ, name string, opts ...graph.DeviceOption) (*graph.Device, error) {
	k, ok := r.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("kind not found: %s", typ)
	}
	return k.New(name, opts...)
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.kinds))
	for t := range r.kinds {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
