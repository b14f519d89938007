package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitedriver "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Runner applies the embedded migrations to a SQLite database.
type Runner struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRunner creates a Runner for db. The database handle stays owned by the
// caller; the runner never closes it.
func NewRunner(db *sql.DB, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, logger: logger.With("component", "migration")}
}

// Up applies every pending migration.
func (r *Runner) Up(ctx context.Context) error {
	start := time.Now()
	r.logger.InfoContext(ctx, "database migrations starting")

	err := r.run(ctx, "up", func(m *migrate.Migrate) error {
		return m.Up()
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "database migrations failed", "error", err)
		return err
	}

	version, _, _ := r.Version(ctx)
	r.logger.InfoContext(ctx, "database migrations completed", "version", version, "duration", time.Since(start))
	return nil
}

// Down reverts the given number of applied migrations.
func (r *Runner) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		return NewMigrationError("down", 0, ErrInvalidSteps)
	}

	err := r.run(ctx, "down", func(m *migrate.Migrate) error {
		return m.Steps(-steps)
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "database rollback failed", "steps", steps, "error", err)
		return err
	}
	r.logger.InfoContext(ctx, "database rollback completed", "steps", steps)
	return nil
}

// Version reports the current schema version. A database with no applied
// migrations reports version 0.
func (r *Runner) Version(ctx context.Context) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)
	err := r.run(ctx, "version", func(m *migrate.Migrate) error {
		var err error
		version, dirty, err = m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			version, dirty = 0, false
			return nil
		}
		return err
	})
	return version, dirty, err
}

func (r *Runner) run(ctx context.Context, operation string, fn func(*migrate.Migrate) error) error {
	if r == nil || r.db == nil {
		return NewMigrationError(operation, 0, errors.New("database not configured"))
	}
	if err := ctx.Err(); err != nil {
		return NewMigrationError(operation, 0, err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return NewMigrationError(operation, 0, fmt.Errorf("open embedded migrations: %w", err))
	}
	defer source.Close()

	driver, err := sqlitedriver.WithInstance(r.db, &sqlitedriver.Config{})
	if err != nil {
		return NewMigrationError(operation, 0, fmt.Errorf("init sqlite driver: %w", err))
	}

	// Closing the migrator would close r.db through the driver, so only the
	// source is released here.
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return NewMigrationError(operation, 0, fmt.Errorf("init migrator: %w", err))
	}
	m.Log = migrateLogger{ctx: ctx, logger: r.logger}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			return NewMigrationError(operation, uint(dirty.Version), fmt.Errorf("%w: %v", ErrDirtyDatabase, err))
		}
		return NewMigrationError(operation, 0, fmt.Errorf("%w: %v", ErrMigrationFailed, err))
	}
	return nil
}

type migrateLogger struct {
	ctx    context.Context
	logger *slog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.DebugContext(l.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return l.logger.Enabled(l.ctx, slog.LevelDebug)
}
