// Package memory provides a map-backed implementation of the persistence
// repositories. It mirrors the SQLite semantics closely enough for service and
// handler tests and for running the server without a database file.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/eventboard/internal/persistence"
)

// Store keeps accounts and events in memory.
type Store struct {
	mu          sync.RWMutex
	accounts    map[int64]persistence.Account
	events      map[int64]persistence.Event
	nextAccount int64
	nextEvent   int64
	now         func() time.Time
}

// New returns an empty Store. now stamps CreatedAt on inserted rows when the
// caller leaves it zero; nil means time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		accounts: make(map[int64]persistence.Account),
		events:   make(map[int64]persistence.Event),
		now:      now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// --- AccountRepository implementation ---

// InsertAccount stores a new account, enforcing case-insensitive email uniqueness.
func (s *Store) InsertAccount(ctx context.Context, account persistence.Account) (persistence.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(account.Email)
	for _, existing := range s.accounts {
		if existing.Email == email {
			return persistence.Account{}, persistence.ErrConstraintViolation
		}
	}

	s.nextAccount++
	account.ID = s.nextAccount
	account.Email = email
	if account.CreatedAt.IsZero() {
		account.CreatedAt = s.now().UTC()
	}
	s.accounts[account.ID] = account
	return account, nil
}

// FindAccountByEmail retrieves an account by normalized email.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (persistence.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = normalizeEmail(email)
	for _, account := range s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return persistence.Account{}, persistence.ErrNotFound
}

// --- EventRepository implementation ---

// InsertEvent stores a new event. The owner must exist.
func (s *Store) InsertEvent(ctx context.Context, event persistence.Event) (persistence.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[event.OwnerID]; !ok {
		return persistence.Event{}, persistence.ErrForeignKeyViolation
	}

	s.nextEvent++
	event.ID = s.nextEvent
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now().UTC()
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = event.CreatedAt
	}
	s.events[event.ID] = cloneEvent(event)
	return cloneEvent(event), nil
}

// FindEventByID retrieves an event by ID.
func (s *Store) FindEventByID(ctx context.Context, id int64) (persistence.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return persistence.Event{}, persistence.ErrNotFound
	}
	return cloneEvent(event), nil
}

// UpdateEventFields applies patch to the stored event and returns the result.
func (s *Store) UpdateEventFields(ctx context.Context, id int64, patch persistence.EventPatch) (persistence.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return persistence.Event{}, persistence.ErrNotFound
	}
	if patch.Empty() {
		return cloneEvent(event), nil
	}

	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Date != nil {
		event.Date = *patch.Date
	}
	if patch.Description != nil {
		event.Description = nullableString(patch.Description.Valid, patch.Description.String)
	}
	if patch.Location != nil {
		event.Location = nullableString(patch.Location.Valid, patch.Location.String)
	}
	event.UpdatedAt = patch.UpdatedAt
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = s.now().UTC()
	}

	s.events[id] = cloneEvent(event)
	return cloneEvent(event), nil
}

// DeleteEventByID removes an event.
func (s *Store) DeleteEventByID(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

// ListEvents returns all events ordered by ID.
func (s *Store) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]persistence.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, cloneEvent(event))
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nullableString(valid bool, value string) *string {
	if !valid {
		return nil
	}
	return &value
}

func cloneEvent(event persistence.Event) persistence.Event {
	clone := event
	clone.Description = cloneString(event.Description)
	clone.Location = cloneString(event.Location)
	return clone
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
