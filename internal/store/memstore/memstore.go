// Package memstore is an in-memory store.Store. Documents are kept encoded
// so callers observe the same copy semantics as the file store.
package memstore

import (
	"fmt"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/idilsaglam/agenda/internal/store"
)

type Store struct {
	mu   sync.Mutex
	docs map[string][]byte
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Load(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.docs[key]
	if !ok {
		return store.ErrNotFound
	}
	if err := sonic.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %s: %v", store.ErrCorrupt, key, err)
	}
	return nil
}

func (s *Store) Save(key string, v any) error {
	b, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	s.mu.Lock()
	s.docs[key] = b
	s.mu.Unlock()
	return nil
}

func (s *Store) Clear(key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}

// Raw exposes the stored bytes for a key.
func (s *Store) Raw(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.docs[key]
	return b, ok
}

// Put stores raw bytes, e.g. to simulate a malformed document.
func (s *Store) Put(key string, raw []byte) {
	s.mu.Lock()
	s.docs[key] = raw
	s.mu.Unlock()
}
