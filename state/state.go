// Package state defines the persistence interface for per-user shop state.
//
// Shop state is a flat key-value namespace. Each key holds a table mapping
// item IDs to int64 values: purchase counters under "shop-purchases-<user>"
// and expiry deadlines (unix seconds) under "shop-expiry-<user>". Drivers
// live in subpackages (memory, sqlite, postgres, mongo, redis).
package state

import (
	"context"
	"strings"
)

// Key prefixes for the per-user tables.
const (
	ExpiryPrefix   = "shop-expiry-"
	PurchasePrefix = "shop-purchases-"
)

// Table maps item IDs to int64 values. Depending on the key it holds
// either purchase counts or expiry deadlines in unix seconds.
type Table map[string]int64

// Clone returns a copy of the table safe to mutate independently.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Entry pairs a key with its table, as returned by prefix enumeration.
type Entry struct {
	Key   string
	Table Table
}

// ExpiryKey returns the expiry table key for a user.
func ExpiryKey(userID string) string { return ExpiryPrefix + userID }

// PurchaseKey returns the purchase counter key for a user.
func PurchaseKey(userID string) string { return PurchasePrefix + userID }

// UserFromExpiryKey extracts the user ID from an expiry table key.
// Returns false if the key is not an expiry key.
func UserFromExpiryKey(key string) (string, bool) {
	if !strings.HasPrefix(key, ExpiryPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, ExpiryPrefix), true
}

// Store is the storage interface for shop state.
//
// Get returns the not-found sentinel of the owning engine when the key has
// never been written; callers treat that as an empty table. Set overwrites
// the full table under the key. EnumeratePrefix returns every key starting
// with the given prefix along with its table.
type Store interface {
	Get(ctx context.Context, key string) (Table, error)
	Set(ctx context.Context, key string, table Table) error
	Delete(ctx context.Context, key string) error
	EnumeratePrefix(ctx context.Context, prefix string) ([]Entry, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
