package migration

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return count > 0
}

func TestRunnerUpCreatesSchema(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, nil)
	ctx := context.Background()

	version, dirty, err := runner.Version(ctx)
	if err != nil {
		t.Fatalf("Version before migrating: %v", err)
	}
	if version != 0 || dirty {
		t.Fatalf("expected clean version 0, got %d dirty=%v", version, dirty)
	}

	if err := runner.Up(ctx); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	for _, table := range []string{"accounts", "events"} {
		if !tableExists(t, db, table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}

	version, dirty, err = runner.Version(ctx)
	if err != nil {
		t.Fatalf("Version after migrating: %v", err)
	}
	if version != 2 || dirty {
		t.Fatalf("expected version 2, got %d dirty=%v", version, dirty)
	}

	// The runner must leave the handle open for the caller.
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("database closed by runner: %v", err)
	}
}

func TestRunnerUpIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, nil)
	ctx := context.Background()

	if err := runner.Up(ctx); err != nil {
		t.Fatalf("first Up failed: %v", err)
	}
	if err := runner.Up(ctx); err != nil {
		t.Fatalf("second Up failed: %v", err)
	}
}

func TestRunnerDown(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, nil)
	ctx := context.Background()

	if err := runner.Up(ctx); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if err := runner.Down(ctx, 1); err != nil {
		t.Fatalf("Down failed: %v", err)
	}
	if tableExists(t, db, "events") {
		t.Fatal("expected events table to be dropped")
	}
	if !tableExists(t, db, "accounts") {
		t.Fatal("expected accounts table to remain")
	}

	version, _, err := runner.Version(ctx)
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected version 1, got %d", version)
	}
}

func TestRunnerDownRejectsNonPositiveSteps(t *testing.T) {
	runner := NewRunner(openTestDB(t), nil)

	err := runner.Down(context.Background(), 0)
	if !errors.Is(err, ErrInvalidSteps) {
		t.Fatalf("expected ErrInvalidSteps, got %v", err)
	}

	var migrationErr *MigrationError
	if !errors.As(err, &migrationErr) || migrationErr.Operation != "down" {
		t.Fatalf("expected MigrationError for down, got %v", err)
	}
}

func TestRunnerHonoursCancelledContext(t *testing.T) {
	runner := NewRunner(openTestDB(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runner.Up(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunnerWithoutDatabase(t *testing.T) {
	runner := NewRunner(nil, nil)
	if err := runner.Up(context.Background()); err == nil {
		t.Fatal("expected error without a database")
	}
}

func TestMigrationErrorFormatting(t *testing.T) {
	err := NewMigrationError("up", 3, ErrMigrationFailed)
	if got := err.Error(); got != "migration up (version 3): migration execution failed" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(err, ErrMigrationFailed) {
		t.Fatal("expected MigrationError to unwrap")
	}
}
