package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/eventboard/internal/persistence"
)

const eventColumns = `id, title, description, date, location, owner_id, created_at, updated_at`

// EventRepository implements persistence.EventRepository using SQLite
type EventRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewEventRepository creates a new SQLite event repository
func NewEventRepository(pool *ConnectionPool) *EventRepository {
	return &EventRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// InsertEvent inserts a new event. The owner must reference an existing account.
func (r *EventRepository) InsertEvent(ctx context.Context, event persistence.Event) (persistence.Event, error) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = event.CreatedAt
	}

	query := `
		INSERT INTO events (title, description, date, location, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.helper.Exec(ctx, query,
		event.Title,
		nullString(event.Description),
		event.Date,
		nullString(event.Location),
		event.OwnerID,
		formatTime(event.CreatedAt),
		formatTime(event.UpdatedAt),
	)
	if err != nil {
		return persistence.Event{}, r.mapper.MapError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistence.Event{}, fmt.Errorf("failed to read inserted event id: %w", err)
	}
	event.ID = id
	return event, nil
}

// FindEventByID retrieves an event by ID
func (r *EventRepository) FindEventByID(ctx context.Context, id int64) (persistence.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	event, err := scanEvent(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		return persistence.Event{}, r.mapper.MapError(err)
	}
	return event, nil
}

// UpdateEventFields overwrites the columns named by patch and returns the
// stored row. An empty patch only confirms the event exists.
func (r *EventRepository) UpdateEventFields(ctx context.Context, id int64, patch persistence.EventPatch) (persistence.Event, error) {
	if patch.Empty() {
		return r.FindEventByID(ctx, id)
	}

	updatedAt := patch.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	var (
		sets []string
		args []any
	)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *patch.Date)
	}
	if patch.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *patch.Location)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(updatedAt), id)

	query := `UPDATE events SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`

	var updated persistence.Event
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(ctx, tx, query, args...)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if rows == 0 {
			return persistence.ErrNotFound
		}

		selectQuery := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
		updated, err = scanEvent(r.helper.QueryRowTx(ctx, tx, selectQuery, id))
		return err
	})
	if err != nil {
		return persistence.Event{}, r.mapper.MapError(err)
	}
	return updated, nil
}

// DeleteEventByID removes an event by ID
func (r *EventRepository) DeleteEventByID(ctx context.Context, id int64) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListEvents returns every event ordered by ID
func (r *EventRepository) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	events := make([]persistence.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (persistence.Event, error) {
	var (
		event       persistence.Event
		description sql.NullString
		location    sql.NullString
		createdAt   string
		updatedAt   string
	)
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&description,
		&event.Date,
		&location,
		&event.OwnerID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Event{}, err
	}

	var err error
	if event.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Event{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if event.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Event{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if description.Valid {
		event.Description = &description.String
	}
	if location.Valid {
		event.Location = &location.String
	}
	return event, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
