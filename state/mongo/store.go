// Package mongo provides a MongoDB-backed state store for Storefront
// using the Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/state"
)

const colState = "storefront_state"

// compile-time interface check
var _ state.Store = (*Store)(nil)

// Store implements state.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB state store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for the state collection.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("storefront/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (state.Table, error) {
	var m stateModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": key}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrKeyNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get state: %w", err)
	}
	return fromStateModel(&m), nil
}

func (s *Store) Set(ctx context.Context, key string, table state.Table) error {
	m := toStateModel(key, table)

	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": key}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":        m.Key,
			"entries":    m.Entries,
			"updated_at": m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storefront/mongo: set state: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.mdb.NewDelete((*stateModel)(nil)).
		Filter(bson.M{"_id": key}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storefront/mongo: delete state: %w", err)
	}
	return nil
}

func (s *Store) EnumeratePrefix(ctx context.Context, prefix string) ([]state.Entry, error) {
	var models []stateModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: enumerate state: %w", err)
	}

	entries := make([]state.Entry, len(models))
	for i := range models {
		entries[i] = state.Entry{
			Key:   models[i].Key,
			Table: fromStateModel(&models[i]),
		}
	}
	return entries, nil
}

// ==================== Helpers ====================

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for the state collection.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colState: {
			{Keys: bson.D{{Key: "updated_at", Value: 1}}},
		},
	}
}
