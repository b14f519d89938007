// Package sqlite implements the persistence repositories on an embedded SQLite
// database through the pure-Go modernc driver.
package sqlite

import (
	"context"
	"log/slog"

	"github.com/example/eventboard/internal/persistence/sqlite/migration"
)

// Store bundles the SQLite-backed repositories over one connection pool.
type Store struct {
	*AccountRepository
	*EventRepository

	pool   *ConnectionPool
	logger *slog.Logger
}

// Open creates a Store for the given configuration. Call Migrate before use on
// a fresh database.
func Open(config Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}
	return &Store{
		AccountRepository: NewAccountRepository(pool),
		EventRepository:   NewEventRepository(pool),
		pool:              pool,
		logger:            logger,
	}, nil
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return s.Migrator().Up(ctx)
}

// Migrator exposes the migration runner bound to this store's database.
func (s *Store) Migrator() *migration.Runner {
	return migration.NewRunner(s.pool.DB(), s.logger)
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}
