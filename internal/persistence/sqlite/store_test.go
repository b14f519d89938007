package sqlite

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/eventboard/internal/persistence"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "eventboard.db")
	store, err := Open(TestConfig(path), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func insertTestAccount(t *testing.T, store *Store, email string) persistence.Account {
	t.Helper()

	account, err := store.InsertAccount(context.Background(), persistence.Account{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$10$hash",
	})
	require.NoError(t, err)
	return account
}

func strPtr(s string) *string { return &s }

func TestAccountRepository_InsertAndFind(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

	account, err := store.InsertAccount(ctx, persistence.Account{
		Email:        "  Alice@Example.com ",
		Name:         "Alice",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    created,
	})
	require.NoError(t, err)
	assert.Positive(t, account.ID)
	assert.Equal(t, "alice@example.com", account.Email)

	found, err := store.FindAccountByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)
	assert.Equal(t, "Alice", found.Name)
	assert.Equal(t, "$2a$10$hash", found.PasswordHash)
	assert.True(t, found.CreatedAt.Equal(created))
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	store := openTestStore(t)
	insertTestAccount(t, store, "dup@example.com")

	_, err := store.InsertAccount(context.Background(), persistence.Account{
		Email:        "DUP@example.com",
		Name:         "Other",
		PasswordHash: "$2a$10$other",
	})
	require.ErrorIs(t, err, persistence.ErrConstraintViolation)
}

func TestAccountRepository_FindMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.FindAccountByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	_, err = store.FindAccountByEmail(context.Background(), "   ")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestAccountRepository_RequiresPasswordHash(t *testing.T) {
	store := openTestStore(t)

	_, err := store.InsertAccount(context.Background(), persistence.Account{Email: "a@example.com", Name: "A"})
	require.Error(t, err)
}

func TestEventRepository_Lifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	owner := insertTestAccount(t, store, "owner@example.com")

	event, err := store.InsertEvent(ctx, persistence.Event{
		Title:       "Go meetup",
		Description: strPtr("Talks and pizza"),
		Date:        "2025-05-01",
		Location:    strPtr("Berlin"),
		OwnerID:     owner.ID,
	})
	require.NoError(t, err)
	assert.Positive(t, event.ID)

	fetched, err := store.FindEventByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go meetup", fetched.Title)
	require.NotNil(t, fetched.Description)
	assert.Equal(t, "Talks and pizza", *fetched.Description)
	require.NotNil(t, fetched.Location)
	assert.Equal(t, "Berlin", *fetched.Location)
	assert.Equal(t, owner.ID, fetched.OwnerID)

	later := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	updated, err := store.UpdateEventFields(ctx, event.ID, persistence.EventPatch{
		Title:       strPtr("Go meetup #2"),
		Description: &sql.NullString{},
		UpdatedAt:   later,
	})
	require.NoError(t, err)
	assert.Equal(t, "Go meetup #2", updated.Title)
	assert.Nil(t, updated.Description)
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Berlin", *updated.Location)
	assert.Equal(t, "2025-05-01", updated.Date)
	assert.True(t, updated.UpdatedAt.Equal(later))

	require.NoError(t, store.DeleteEventByID(ctx, event.ID))
	_, err = store.FindEventByID(ctx, event.ID)
	require.ErrorIs(t, err, persistence.ErrNotFound)
	require.ErrorIs(t, store.DeleteEventByID(ctx, event.ID), persistence.ErrNotFound)
}

func TestEventRepository_EmptyPatchLeavesRowUntouched(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	owner := insertTestAccount(t, store, "owner@example.com")

	event, err := store.InsertEvent(ctx, persistence.Event{Title: "Talk", Date: "2025-05-01", OwnerID: owner.ID})
	require.NoError(t, err)

	unchanged, err := store.UpdateEventFields(ctx, event.ID, persistence.EventPatch{UpdatedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, unchanged.UpdatedAt.Equal(event.UpdatedAt))

	_, err = store.UpdateEventFields(ctx, event.ID+100, persistence.EventPatch{Title: strPtr("x")})
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestEventRepository_UnknownOwner(t *testing.T) {
	store := openTestStore(t)

	_, err := store.InsertEvent(context.Background(), persistence.Event{Title: "Orphan", Date: "2025-05-01", OwnerID: 999})
	require.ErrorIs(t, err, persistence.ErrForeignKeyViolation)
}

func TestEventRepository_ListOrderedByID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	owner := insertTestAccount(t, store, "owner@example.com")
	for _, title := range []string{"first", "second", "third"} {
		_, err := store.InsertEvent(ctx, persistence.Event{Title: title, Date: "2025-05-01", OwnerID: owner.ID})
		require.NoError(t, err)
	}

	events, err = store.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "first", events[0].Title)
	assert.Equal(t, "third", events[2].Title)
	assert.Less(t, events[0].ID, events[1].ID)
}

func TestStore_Ping(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Ping(context.Background()))
}

func TestOpen_InMemory(t *testing.T) {
	store, err := Open(DefaultConfig(":memory:"), nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	insertTestAccount(t, store, "mem@example.com")

	_, err = store.FindAccountByEmail(ctx, "mem@example.com")
	require.NoError(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "default", config: DefaultConfig("data/eventboard.db")},
		{name: "empty dsn", config: Config{}, wantErr: true},
		{name: "bad journal", config: Config{DSN: "x.db", JournalMode: "sideways"}, wantErr: true},
		{name: "bad synchronous", config: Config{DSN: "x.db", Synchronous: "maybe"}, wantErr: true},
		{name: "negative pool", config: Config{DSN: "x.db", MaxOpenConns: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ConnectionStringEnablesForeignKeys(t *testing.T) {
	dsn := DefaultConfig("eventboard.db").connectionString()
	assert.Contains(t, dsn, "foreign_keys%281%29")
	assert.Contains(t, dsn, "journal_mode%28WAL%29")

	memory := DefaultConfig(":memory:").connectionString()
	assert.NotContains(t, memory, "journal_mode")
}
