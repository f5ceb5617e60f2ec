package coach

// Store exposes coach retrieval for HTTP handlers.
type Store interface {
	List() []Coach
	FindByID(id string) (Coach, bool)
}

// MemoryStore implements Store with an in-memory slice. The registry is
// immutable after construction.
type MemoryStore struct {
	items []Coach
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied coaches.
func NewMemoryStore(items []Coach) *MemoryStore {
	return &MemoryStore{items: append([]Coach(nil), items...)}
}

// List returns the predefined coach list.
func (s *MemoryStore) List() []Coach {
	return append([]Coach(nil), s.items...)
}

// FindByID looks up a coach by identifier.
func (s *MemoryStore) FindByID(id string) (Coach, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Coach{}, false
}
