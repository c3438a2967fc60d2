// Package redis provides a Redis-backed state store for Storefront.
//
// Tables are stored as JSON blobs keyed by the state key, so a whole
// table is read and written in one round trip. That matches the engine
// contract of full-key overwrites and keeps the driver free of partial
// update logic.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/state"
)

// compile-time interface check
var _ state.Store = (*Store)(nil)

// Store implements state.Store on top of a Redis client.
type Store struct {
	client *redis.Client
}

// New creates a new Redis state store. The client is owned by the store
// after this call and is closed by Close.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Client returns the underlying Redis client for direct access.
func (s *Store) Client() *redis.Client { return s.client }

// Migrate is a no-op. Redis needs no schema.
func (s *Store) Migrate(ctx context.Context) error { return nil }

// Ping checks server connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) (state.Table, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storefront.ErrKeyNotFound
		}
		return nil, fmt.Errorf("storefront/redis: get state: %w", err)
	}
	return decodeTable(raw)
}

func (s *Store) Set(ctx context.Context, key string, table state.Table) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("storefront/redis: encode state: %w", err)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("storefront/redis: set state: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("storefront/redis: delete state: %w", err)
	}
	return nil
}

func (s *Store) EnumeratePrefix(ctx context.Context, prefix string) ([]state.Entry, error) {
	var entries []state.Entry
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("storefront/redis: scan state: %w", err)
		}
		for _, key := range keys {
			raw, err := s.client.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					// deleted between SCAN and GET
					continue
				}
				return nil, fmt.Errorf("storefront/redis: get state: %w", err)
			}
			table, err := decodeTable(raw)
			if err != nil {
				return nil, err
			}
			entries = append(entries, state.Entry{Key: key, Table: table})
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return entries, nil
}

func decodeTable(raw []byte) (state.Table, error) {
	var table state.Table
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("storefront/redis: decode state: %w", err)
	}
	if table == nil {
		table = state.Table{}
	}
	return table, nil
}
