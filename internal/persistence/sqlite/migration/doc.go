// Package migration applies the versioned SQLite schema for the event board.
//
// Migration files are embedded into the binary from the migrations directory and
// follow the golang-migrate naming convention:
// {version}_{description}.{up|down}.sql (e.g. "000001_create_accounts.up.sql").
// Applied versions are tracked in the schema_migrations table.
//
// Example usage:
//
//	runner := migration.NewRunner(db, logger)
//	if err := runner.Up(ctx); err != nil {
//		return fmt.Errorf("migrate: %w", err)
//	}
package migration
