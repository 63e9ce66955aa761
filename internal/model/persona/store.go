package persona

// Store exposes persona retrieval for HTTP handlers and the prompt composer.
type Store interface {
	List() []Summary
	FindByID(id string) (Persona, bool)
}

// MemoryStore implements Store over a fixed set of personas. It is never
// written after construction, so concurrent reads need no locking.
type MemoryStore struct {
	items []Persona
	index map[string]int
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
// Later duplicates of an id are ignored.
func NewMemoryStore(items []Persona) *MemoryStore {
	s := &MemoryStore{
		items: make([]Persona, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, item := range items {
		if _, ok := s.index[item.ID]; ok {
			continue
		}
		item.Tags = append([]string(nil), item.Tags...)
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	return s
}

// List returns the public view of every persona in seed order.
func (s *MemoryStore) List() []Summary {
	out := make([]Summary, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item.Summary())
	}
	return out
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	i, ok := s.index[id]
	if !ok {
		return Persona{}, false
	}
	p := s.items[i]
	p.Tags = append([]string(nil), p.Tags...)
	return p, true
}
