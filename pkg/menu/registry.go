// Package menu models the UI registration context cleanups are wired
// into: a registry standing in for a menu/toolbar system, plus an XML
// layout description controlling presentation order.
package menu

import (
	"sort"
	"sync"

	"github.com/arthur-debert/treesweep/pkg/cleanup"
	"github.com/arthur-debert/treesweep/pkg/errors"
	"github.com/arthur-debert/treesweep/pkg/logging"
)

// Registry tracks the cleanups currently registered with the UI. It
// implements cleanup.Registrar, so a Registry can be handed to
// cleanup.New as the collection's host context.
type Registry struct {
	mu    sync.RWMutex
	items map[string]*cleanup.Cleanup
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		items: make(map[string]*cleanup.Cleanup),
	}
}

// Register adds a cleanup to the registry
func (r *Registry) Register(c *cleanup.Cleanup) error {
	if c == nil || c.ID == "" {
		return errors.New(errors.ErrInvalidInput, "cannot register cleanup without an id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[c.ID]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "cleanup %q is already registered", c.ID)
	}

	r.items[c.ID] = c
	logger := logging.GetLogger("menu")
	logger.Debug().Str("id", c.ID).Msg("Cleanup registered with UI")
	return nil
}

// Deregister removes a cleanup from the registry. Unknown ids are ignored.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
}

// Get retrieves a registered cleanup, or nil when absent.
func (r *Registry) Get(id string) *cleanup.Cleanup {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.items[id]
}

// Has checks if a cleanup is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[id]
	return exists
}

// IDs returns all registered ids in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids
}

// Count returns the number of registered cleanups
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
