package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/storage"
)

// Storage keeps device-local values in a single JSON file. It is the
// default backend: the file plays the role a browser's local storage would.
type Storage struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// New opens (or lazily creates) the state file at path
func New(path string) (*Storage, error) {
	s := &Storage{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil // Created on first write
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
		}
	}
	return s, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", model.ErrKeyNotFound
	}
	return v, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if existed {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.values[key]
	if !existed {
		return nil
	}
	delete(s.values, key)
	if err := s.flush(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// Path returns the location of the state file
func (s *Storage) Path() string {
	return s.path
}

// flush writes the whole map via a temp file and rename so a crash never
// leaves a half-written file. Caller must hold s.mu.
func (s *Storage) flush() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
