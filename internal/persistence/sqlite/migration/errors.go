package migration

import (
	"errors"
	"fmt"
)

var (
	// ErrMigrationFailed indicates that applying or reverting migrations failed.
	ErrMigrationFailed = errors.New("migration execution failed")

	// ErrInvalidSteps indicates a non-positive step count for a rollback.
	ErrInvalidSteps = errors.New("migration steps must be positive")

	// ErrDirtyDatabase indicates a previous migration stopped halfway and needs manual repair.
	ErrDirtyDatabase = errors.New("database schema is dirty")
)

// MigrationError wraps migration failures with the operation being performed.
type MigrationError struct {
	Operation string // Operation being performed (up, down, version, ...)
	Version   uint   // Schema version at the time of failure, when known
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *MigrationError) Error() string {
	if e.Version > 0 {
		return fmt.Sprintf("migration %s (version %d): %v", e.Operation, e.Version, e.Err)
	}
	return fmt.Sprintf("migration %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for error unwrapping
func (e *MigrationError) Unwrap() error {
	return e.Err
}

// NewMigrationError creates a new MigrationError with context
func NewMigrationError(operation string, version uint, err error) *MigrationError {
	return &MigrationError{
		Operation: operation,
		Version:   version,
		Err:       err,
	}
}
