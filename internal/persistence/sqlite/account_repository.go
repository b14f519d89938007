package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/eventboard/internal/persistence"
)

// AccountRepository implements persistence.AccountRepository using SQLite
type AccountRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAccountRepository creates a new SQLite account repository
func NewAccountRepository(pool *ConnectionPool) *AccountRepository {
	return &AccountRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// InsertAccount inserts a new account and returns it with the assigned ID.
// The unique index on email is the authority for duplicate detection.
func (r *AccountRepository) InsertAccount(ctx context.Context, account persistence.Account) (persistence.Account, error) {
	if account.PasswordHash == "" {
		return persistence.Account{}, fmt.Errorf("insert account: password hash is required")
	}

	account.Email = normalizeEmail(account.Email)
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO accounts (email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.helper.Exec(ctx, query,
		account.Email,
		account.Name,
		account.PasswordHash,
		formatTime(account.CreatedAt),
	)
	if err != nil {
		return persistence.Account{}, r.mapper.MapError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistence.Account{}, fmt.Errorf("failed to read inserted account id: %w", err)
	}
	account.ID = id
	return account, nil
}

// FindAccountByEmail retrieves an account by normalized email address
func (r *AccountRepository) FindAccountByEmail(ctx context.Context, email string) (persistence.Account, error) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return persistence.Account{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, email, name, password_hash, created_at
		FROM accounts
		WHERE email = ?
	`

	var (
		account   persistence.Account
		createdAt string
	)
	err := r.helper.QueryRow(ctx, query, normalized).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.PasswordHash,
		&createdAt,
	)
	if err != nil {
		return persistence.Account{}, r.mapper.MapError(err)
	}

	if account.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Account{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return account, nil
}

// normalizeEmail normalizes email addresses for consistent storage and lookup
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
