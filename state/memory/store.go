// Package memory provides an in-memory state store for tests and local
// development.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/state"
)

// compile-time interface check
var _ state.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	tables map[string]state.Table
}

func New() *Store {
	return &Store{
		tables: make(map[string]state.Table),
	}
}

func (s *Store) Get(_ context.Context, key string) (state.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.tables[key]
	if !ok {
		return nil, storefront.ErrKeyNotFound
	}
	return table.Clone(), nil
}

func (s *Store) Set(_ context.Context, key string, table state.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables[key] = table.Clone()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tables, key)
	return nil
}

func (s *Store) EnumeratePrefix(_ context.Context, prefix string) ([]state.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []state.Entry
	for key, table := range s.tables {
		if strings.HasPrefix(key, prefix) {
			entries = append(entries, state.Entry{Key: key, Table: table.Clone()})
		}
	}
	return entries, nil
}

// Core methods

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }
