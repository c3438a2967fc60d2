// Package sqlite provides a state store backed by SQLite via Grove ORM.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/state"
)

// compile-time interface check
var _ state.Store = (*Store)(nil)

// Store implements state.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("storefront/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("storefront/sqlite: migration failed: %w", err)
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
	m := new(stateModel)
	err := s.sdb.NewSelect(m).
		Where("state_key = ?", key).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, storefront.ErrKeyNotFound
		}
		return nil, err
	}
	return fromStateModel(m)
}

func (s *Store) Set(ctx context.Context, key string, table state.Table) error {
	m, err := toStateModel(key, table)
	if err != nil {
		return err
	}
	_, err = s.sdb.NewInsert(m).
		OnConflict("(state_key) DO UPDATE").
		Set("entries = EXCLUDED.entries").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.sdb.NewDelete((*stateModel)(nil)).
		Where("state_key = ?", key).
		Exec(ctx)
	return err
}

func (s *Store) EnumeratePrefix(ctx context.Context, prefix string) ([]state.Entry, error) {
	var models []stateModel
	err := s.sdb.NewSelect(&models).
		Where("state_key LIKE ?", prefix+"%").
		OrderExpr("state_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]state.Entry, 0, len(models))
	for i := range models {
		table, err := fromStateModel(&models[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, state.Entry{Key: models[i].Key, Table: table})
	}
	return entries, nil
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
