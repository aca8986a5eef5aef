// Package memory is an in-process store used by tests and ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/botadmin/internal/console/store"
)

type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Len reports how many keys are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *Store) ApplyMigrations() error       { return nil }
func (s *Store) Close() error                 { return nil }
func (s *Store) Ping(_ context.Context) error { return nil }
