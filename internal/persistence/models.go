package persistence

import (
	"database/sql"
	"time"
)

// Account represents a registered user account as stored.
type Account struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Event represents an event row. Description and Location are nil when unset.
type Event struct {
	ID          int64
	Title       string
	Description *string
	Date        string
	Location    *string
	OwnerID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventPatch lists the columns UpdateEventFields overwrites. A nil field leaves
// the column untouched; a NullString with Valid=false stores NULL.
type EventPatch struct {
	Title       *string
	Date        *string
	Description *sql.NullString
	Location    *sql.NullString
	UpdatedAt   time.Time
}

// Empty reports whether the patch changes no caller-visible column.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Date == nil && p.Description == nil && p.Location == nil
}
