package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Faultbox/scenery/internal/engine/loader"
)

// Registry holds loaded models keyed by ID. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	models map[uuid.UUID]*loader.Model
	order  []uuid.UUID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[uuid.UUID]*loader.Model)}
}

// Add registers m. Adding the same model twice is a no-op.
func (r *Registry) Add(m *loader.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.models[m.ID]; ok {
		return
	}
	r.models[m.ID] = m
	r.order = append(r.order, m.ID)
}

// Get returns the model with the given ID.
func (r *Registry) Get(id uuid.UUID) (*loader.Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[id]
	return m, ok
}

// List returns the models in the order they were added.
func (r *Registry) List() []*loader.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*loader.Model, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.models[id])
	}
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
