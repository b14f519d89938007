package persistence

import "context"

// AccountRepository stores user accounts.
type AccountRepository interface {
	// InsertAccount persists a new account and returns it with its assigned ID.
	// A duplicate email yields ErrConstraintViolation.
	InsertAccount(ctx context.Context, account Account) (Account, error)
	// FindAccountByEmail looks an account up by its normalized email.
	FindAccountByEmail(ctx context.Context, email string) (Account, error)
}

// EventRepository stores events.
type EventRepository interface {
	InsertEvent(ctx context.Context, event Event) (Event, error)
	FindEventByID(ctx context.Context, id int64) (Event, error)
	UpdateEventFields(ctx context.Context, id int64, patch EventPatch) (Event, error)
	DeleteEventByID(ctx context.Context, id int64) error
	ListEvents(ctx context.Context) ([]Event, error)
}
