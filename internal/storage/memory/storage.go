package memory

import (
	"context"
	"sync"

	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Nothing survives the process; useful for tests and --storage=memory.
type Storage struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		values: make(map[string]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", model.ErrKeyNotFound
	}
	return v, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// Writes returns the number of Set calls made so far
func (s *Storage) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
