package catalog

import (
	"fmt"
	"sync"
)

// Store holds the session's catalog. Readers see either the previous or the
// new catalog, never a partial one.
type Store struct {
	mu      sync.RWMutex
	current *Catalog
}

// NewStore returns a store seeded with c, which may be nil.
func NewStore(c *Catalog) *Store {
	return &Store{current: c}
}

// Current returns the active catalog, or nil when none has been loaded.
func (s *Store) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace swaps in a new catalog.
func (s *Store) Replace(c *Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

// LoadBytes parses data and makes it current. On failure the previous
// catalog stays in place.
func (s *Store) LoadBytes(data []byte) (*Catalog, error) {
	c, err := Load(data)
	if err != nil {
		return nil, err
	}
	s.Replace(c)
	return c, nil
}

// LoadFile is LoadBytes for a path on disk.
func (s *Store) LoadFile(path string) (*Catalog, error) {
	c, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replacing catalog: %w", err)
	}
	s.Replace(c)
	return c, nil
}
