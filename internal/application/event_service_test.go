package application

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/example/eventboard/internal/persistence"
	"github.com/example/eventboard/internal/persistence/memory"
)

type eventFixture struct {
	clock *fakeClock
	store *memory.Store
	svc   *EventService
	owner Identity
	other Identity
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)}
	store := memory.New(clock.Now)
	ctx := context.Background()

	owner, err := store.InsertAccount(ctx, persistence.Account{Email: "owner@example.com", Name: "Owner", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("InsertAccount returned error: %v", err)
	}
	other, err := store.InsertAccount(ctx, persistence.Account{Email: "other@example.com", Name: "Other", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("InsertAccount returned error: %v", err)
	}

	return &eventFixture{
		clock: clock,
		store: store,
		svc:   NewEventService(store, clock.Now),
		owner: Identity{AccountID: owner.ID, Email: owner.Email},
		other: Identity{AccountID: other.ID, Email: other.Email},
	}
}

func (f *eventFixture) create(t *testing.T, payload EventPayload) Event {
	t.Helper()
	event, err := f.svc.CreateEvent(context.Background(), CreateEventParams{Identity: f.owner, Payload: payload})
	if err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}
	return event
}

func idOf(event Event) string {
	return strconv.FormatInt(event.ID, 10)
}

func TestEventService_CreateEvent(t *testing.T) {
	t.Parallel()

	t.Run("stores a normalized event owned by the caller", func(t *testing.T) {
		t.Parallel()

		f := newEventFixture(t)
		event := f.create(t, EventPayload{
			Title:       String("Meetup"),
			Description: String(""),
			Date:        String("2025-01-01"),
			Location:    String("Hall"),
		})

		if event.ID == 0 || event.OwnerID != f.owner.AccountID {
			t.Fatalf("unexpected identity fields %+v", event)
		}
		if event.Description != nil {
			t.Fatalf("empty description should be stored as null, got %q", *event.Description)
		}
		if event.Location == nil || *event.Location != "Hall" {
			t.Fatalf("unexpected location %v", event.Location)
		}
		if !event.CreatedAt.Equal(f.clock.now) || !event.UpdatedAt.Equal(f.clock.now) {
			t.Fatalf("unexpected timestamps %v / %v", event.CreatedAt, event.UpdatedAt)
		}
	})

	t.Run("rejects invalid payloads without storing", func(t *testing.T) {
		t.Parallel()

		f := newEventFixture(t)
		_, err := f.svc.CreateEvent(context.Background(), CreateEventParams{Identity: f.owner, Payload: EventPayload{Title: String(" a ")}})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		want := []string{"Title cannot have leading or trailing spaces", "Date is required"}
		if len(vErr.Errors) != len(want) || vErr.Errors[0] != want[0] || vErr.Errors[1] != want[1] {
			t.Fatalf("errors = %v, want %v", vErr.Errors, want)
		}

		events, _ := f.store.ListEvents(context.Background())
		if len(events) != 0 {
			t.Fatalf("expected no stored events, got %d", len(events))
		}
	})

	t.Run("rejects identities the store does not know", func(t *testing.T) {
		t.Parallel()

		f := newEventFixture(t)
		_, err := f.svc.CreateEvent(context.Background(), CreateEventParams{
			Identity: Identity{AccountID: 999, Email: "ghost@example.com"},
			Payload:  EventPayload{Title: String("Meetup"), Date: String("2025-01-01")},
		})
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	t.Parallel()

	t.Run("owner updates only supplied fields", func(t *testing.T) {
		t.Parallel()

		f := newEventFixture(t)
		ctx := context.Background()
		created := f.create(t, EventPayload{Title: String("Meetup"), Date: String("2025-01-01")})

		_, err := f.svc.UpdateEvent(ctx, UpdateEventParams{Identity: f.other, EventID: idOf(created), Payload: EventPayload{Location: String("Hall")}})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
		}
		untouched, _ := f.svc.GetEvent(ctx, idOf(created))
		if untouched.Location != nil || !untouched.UpdatedAt.Equal(created.UpdatedAt) {
			t.Fatalf("forbidden update must not change the event: %+v", untouched)
		}

		f.clock.now = f.clock.now.Add(time.Hour)
		updated, err := f.svc.UpdateEvent(ctx, UpdateEventParams{Identity: f.owner, EventID: idOf(created), Payload: EventPayload{Location: String("Hall")}})
		if err != nil {
			t.Fatalf("UpdateEvent returned error: %v", err)
		}
		if updated.Location == nil || *updated.Location != "Hall" {
			t.Fatalf("expected location Hall, got %v", updated.Location)
		}
		if updated.Title != "Meetup" || updated.Date != "2025-01-01" || updated.Description != nil {
			t.Fatalf("unsupplied fields changed: %+v", updated)
		}
		if !updated.UpdatedAt.Equal(f.clock.now) || !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Fatalf("expected refreshed updatedAt only, got created=%v updated=%v", updated.CreatedAt, updated.UpdatedAt)
		}
	})

	t.Run("empty payload is a no-op", func(t *testing.T) {
		t.Parallel()

		f := newEventFixture(t)
		created := f.create(t, EventPayload{Title: String("Meetup"), Date: String("2025-01-01")})
		f.clock.now = f.clock.now.Add(time.Hour)

		unchanged, err := f.svc.UpdateEvent(context.Background(), UpdateEventParams{Identity: f.owner, EventID: idOf(created)})
		if err != nil {
			t.Fatalf("UpdateEvent returned error: %v", err)
		}
		if !unchanged.UpdatedAt.Equal(created.UpdatedAt) || unchanged.Title != created.Title {
			t.Fatalf("expected unchanged event, got %+v", unchanged)
		}
	})

	t.Run("validates the merged event", func(t *testing.T) {
		t.Parallel()

		f := newEventFixture(t)
		created := f.create(t, EventPayload{Title: String("Meetup"), Date: String("2025-01-01"), Location: String("Hall")})

		_, err := f.svc.UpdateEvent(context.Background(), UpdateEventParams{
			Identity: f.owner,
			EventID:  idOf(created),
			Payload:  EventPayload{Date: String("soon"), Description: String(" padded ")},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		want := []string{"Description cannot have leading or trailing spaces", "Date must be a valid date"}
		if len(vErr.Errors) != 2 || vErr.Errors[0] != want[0] || vErr.Errors[1] != want[1] {
			t.Fatalf("errors = %v, want %v", vErr.Errors, want)
		}
	})

	t.Run("empty optional value clears the column", func(t *testing.T) {
		t.Parallel()

		f := newEventFixture(t)
		created := f.create(t, EventPayload{Title: String("Meetup"), Date: String("2025-01-01"), Location: String("Hall")})

		updated, err := f.svc.UpdateEvent(context.Background(), UpdateEventParams{
			Identity: f.owner,
			EventID:  idOf(created),
			Payload:  EventPayload{Location: String("")},
		})
		if err != nil {
			t.Fatalf("UpdateEvent returned error: %v", err)
		}
		if updated.Location != nil {
			t.Fatalf("expected location cleared, got %q", *updated.Location)
		}
	})

	t.Run("unknown and malformed ids are not found", func(t *testing.T) {
		t.Parallel()

		f := newEventFixture(t)
		for _, id := range []string{"999", "abc", "-1", ""} {
			_, err := f.svc.UpdateEvent(context.Background(), UpdateEventParams{Identity: f.owner, EventID: id, Payload: EventPayload{Title: String("x")}})
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("id %q: expected ErrNotFound, got %v", id, err)
			}
		}
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)
	ctx := context.Background()
	created := f.create(t, EventPayload{Title: String("Meetup"), Date: String("2025-01-01")})

	if err := f.svc.DeleteEvent(ctx, DeleteEventParams{Identity: f.other, EventID: idOf(created)}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.GetEvent(ctx, idOf(created)); err != nil {
		t.Fatalf("event should survive forbidden delete: %v", err)
	}

	if err := f.svc.DeleteEvent(ctx, DeleteEventParams{Identity: f.owner, EventID: idOf(created)}); err != nil {
		t.Fatalf("DeleteEvent returned error: %v", err)
	}
	if _, err := f.svc.GetEvent(ctx, idOf(created)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := f.svc.DeleteEvent(ctx, DeleteEventParams{Identity: f.owner, EventID: idOf(created)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestEventService_Reads(t *testing.T) {
	t.Parallel()

	f := newEventFixture(t)
	ctx := context.Background()

	events, err := f.svc.ListEvents(ctx)
	if err != nil || len(events) != 0 {
		t.Fatalf("expected empty list, got %v, %v", events, err)
	}

	first := f.create(t, EventPayload{Title: String("First"), Date: String("2025-01-01")})
	second := f.create(t, EventPayload{Title: String("Second"), Date: String("2025-02-01")})

	events, err = f.svc.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != 2 || events[0].ID != first.ID || events[1].ID != second.ID {
		t.Fatalf("unexpected list %+v", events)
	}

	got, err := f.svc.GetEvent(ctx, idOf(second))
	if err != nil || got.Title != "Second" {
		t.Fatalf("unexpected GetEvent result %+v, %v", got, err)
	}
	if _, err := f.svc.GetEvent(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}
