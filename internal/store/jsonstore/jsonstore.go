package jsonstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/idilsaglam/agenda/internal/store"
)

// JSON-backed storage. One human-readable file per key inside a directory.
// The mutex only serializes writers inside this process.

const fileExt = ".json"

type Store struct {
	mu  sync.Mutex
	dir string
}

var _ store.Store = (*Store)(nil)

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *Store) Load(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store.ErrNotFound
		}
		return fmt.Errorf("read file: %w", err)
	}
	if err := sonic.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %s: %v", store.ErrCorrupt, key, err)
	}
	return nil
}

func (s *Store) Save(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.Path(key), b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *Store) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
