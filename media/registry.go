package media

import (
	"sync"

	"github.com/samber/mo"
)

// Registry maps ids to live handles. Absent lookups are a normal outcome.
type Registry interface {
	Register(id string, h *Handle)
	Lookup(id string) mo.Option[*Handle]
	// All returns a snapshot of every live handle.
	All() map[string]*Handle
	Remove(id string)
	Len() int
}

// MemoryRegistry is the in-process Registry used by default.
type MemoryRegistry struct {
	mu      sync.RWMutex
	handles map[string]*Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *MemoryRegistry {
	return &MemoryRegistry{handles: make(map[string]*Handle)}
}

// Register inserts or overwrites the entry for id.
func (r *MemoryRegistry) Register(id string, h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[id] = h
}

func (r *MemoryRegistry) Lookup(id string) mo.Option[*Handle] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handles[id]; ok {
		return mo.Some(h)
	}
	return mo.None[*Handle]()
}

func (r *MemoryRegistry) All() map[string]*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make(map[string]*Handle, len(r.handles))
	for id, h := range r.handles {
		all[id] = h
	}
	return all
}

func (r *MemoryRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}

func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}
