package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/example/eventboard/internal/persistence"
)

// EventService orchestrates validation, ownership checks, and persistence for events.
type EventService struct {
	events persistence.EventRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewEventService wires dependencies for the event service.
func NewEventService(events persistence.EventRepository, now func() time.Time) *EventService {
	return NewEventServiceWithLogger(events, now, nil)
}

// NewEventServiceWithLogger wires dependencies for the event service with a specific logger.
func NewEventServiceWithLogger(events persistence.EventRepository, now func() time.Time, logger *slog.Logger) *EventService {
	if now == nil {
		now = time.Now
	}
	return &EventService{events: events, now: now, logger: defaultLogger(logger)}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

// CreateEvent validates the payload and stores a normalized event owned by the caller.
func (s *EventService) CreateEvent(ctx context.Context, params CreateEventParams) (event Event, err error) {
	if s == nil {
		err = fmt.Errorf("EventService is nil")
		return
	}
	if s.events == nil {
		err = fmt.Errorf("event repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateEvent", "owner_id", params.Identity.AccountID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("event_id", event.ID).InfoContext(ctx, "event created")
	}()

	if params.Identity.AccountID <= 0 {
		err = ErrInvalidToken
		return
	}
	if err = ValidateEvent(params.Payload).Err(); err != nil {
		return
	}

	now := s.now().UTC()
	var stored persistence.Event
	stored, err = s.events.InsertEvent(ctx, persistence.Event{
		Title:       strings.TrimSpace(params.Payload.Title.Value),
		Description: optionalText(params.Payload.Description),
		Date:        strings.TrimSpace(params.Payload.Date.Value),
		Location:    optionalText(params.Payload.Location),
		OwnerID:     params.Identity.AccountID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		// The token names an account the store does not know.
		if errors.Is(err, persistence.ErrForeignKeyViolation) {
			err = ErrInvalidToken
			return
		}
		err = fmt.Errorf("insert event: %w", err)
		return
	}

	event = toEvent(stored)
	return
}

// UpdateEvent applies the supplied fields to an event owned by the caller. The
// merged result must still be a valid event. An empty payload returns the
// event unchanged.
func (s *EventService) UpdateEvent(ctx context.Context, params UpdateEventParams) (event Event, err error) {
	if s == nil {
		err = fmt.Errorf("EventService is nil")
		return
	}
	if s.events == nil {
		err = fmt.Errorf("event repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateEvent",
		"event_id", params.EventID,
		"caller_id", params.Identity.AccountID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event updated")
	}()

	var existing persistence.Event
	existing, err = s.findOwned(ctx, params.EventID, params.Identity)
	if err != nil {
		return
	}
	if params.Payload.Empty() {
		event = toEvent(existing)
		return
	}

	merged := params.Payload.overlay(payloadFromEvent(existing))
	if err = ValidateEvent(merged).Err(); err != nil {
		return
	}

	patch := patchFromPayload(params.Payload)
	patch.UpdatedAt = s.now().UTC()

	var stored persistence.Event
	stored, err = s.events.UpdateEventFields(ctx, existing.ID, patch)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
			return
		}
		err = fmt.Errorf("update event: %w", err)
		return
	}

	event = toEvent(stored)
	return
}

// DeleteEvent removes an event owned by the caller.
func (s *EventService) DeleteEvent(ctx context.Context, params DeleteEventParams) (err error) {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}
	if s.events == nil {
		return fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteEvent",
		"event_id", params.EventID,
		"caller_id", params.Identity.AccountID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event deleted")
	}()

	var existing persistence.Event
	existing, err = s.findOwned(ctx, params.EventID, params.Identity)
	if err != nil {
		return
	}

	if err = s.events.DeleteEventByID(ctx, existing.ID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
			return
		}
		err = fmt.Errorf("delete event: %w", err)
	}
	return
}

// GetEvent returns a single event. Reads are public.
func (s *EventService) GetEvent(ctx context.Context, id string) (Event, error) {
	if s == nil {
		return Event{}, fmt.Errorf("EventService is nil")
	}
	if s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}

	stored, err := s.find(ctx, id)
	if err != nil {
		return Event{}, err
	}
	return toEvent(stored), nil
}

// ListEvents returns every event ordered by id. Reads are public.
func (s *EventService) ListEvents(ctx context.Context) ([]Event, error) {
	if s == nil {
		return nil, fmt.Errorf("EventService is nil")
	}
	if s.events == nil {
		return nil, nil
	}

	stored, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]Event, 0, len(stored))
	for _, model := range stored {
		out = append(out, toEvent(model))
	}
	return out, nil
}

func (s *EventService) find(ctx context.Context, rawID string) (persistence.Event, error) {
	id, err := parseEventID(rawID)
	if err != nil {
		return persistence.Event{}, err
	}
	stored, err := s.events.FindEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Event{}, ErrNotFound
		}
		return persistence.Event{}, fmt.Errorf("find event: %w", err)
	}
	return stored, nil
}

func (s *EventService) findOwned(ctx context.Context, rawID string, identity Identity) (persistence.Event, error) {
	stored, err := s.find(ctx, rawID)
	if err != nil {
		return persistence.Event{}, err
	}
	if err := Authorize(identity, stored.OwnerID); err != nil {
		return persistence.Event{}, err
	}
	return stored, nil
}

// parseEventID treats identifiers that cannot name a stored event as unknown.
func parseEventID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}

func payloadFromEvent(model persistence.Event) EventPayload {
	payload := EventPayload{
		Title: String(model.Title),
		Date:  String(model.Date),
	}
	if model.Description != nil {
		payload.Description = String(*model.Description)
	}
	if model.Location != nil {
		payload.Location = String(*model.Location)
	}
	return payload
}

func patchFromPayload(payload EventPayload) persistence.EventPatch {
	var patch persistence.EventPatch
	if payload.Title.Set {
		title := strings.TrimSpace(payload.Title.Value)
		patch.Title = &title
	}
	if payload.Date.Set {
		date := strings.TrimSpace(payload.Date.Value)
		patch.Date = &date
	}
	if payload.Description.Set {
		patch.Description = nullableText(payload.Description)
	}
	if payload.Location.Set {
		patch.Location = nullableText(payload.Location)
	}
	return patch
}

// optionalText trims a supplied optional field; empty values are stored as null.
func optionalText(field Field) *string {
	trimmed := strings.TrimSpace(field.Value)
	if !field.Set || !field.Valid || trimmed == "" {
		return nil
	}
	return &trimmed
}

func nullableText(field Field) *sql.NullString {
	if value := optionalText(field); value != nil {
		return &sql.NullString{String: *value, Valid: true}
	}
	return &sql.NullString{}
}

func toEvent(model persistence.Event) Event {
	return Event{
		ID:          model.ID,
		Title:       model.Title,
		Description: cloneString(model.Description),
		Date:        model.Date,
		Location:    cloneString(model.Location),
		OwnerID:     model.OwnerID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
