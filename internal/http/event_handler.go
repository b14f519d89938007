package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/eventboard/internal/application"
)

type eventService interface {
	CreateEvent(ctx context.Context, params application.CreateEventParams) (application.Event, error)
	UpdateEvent(ctx context.Context, params application.UpdateEventParams) (application.Event, error)
	DeleteEvent(ctx context.Context, params application.DeleteEventParams) error
	GetEvent(ctx context.Context, id string) (application.Event, error)
	ListEvents(ctx context.Context) ([]application.Event, error)
}

const (
	msgEventNotFound   = "Event not found"
	msgEditForbidden   = "You are not authorized to edit this event"
	msgDeleteForbidden = "You are not authorized to delete this event"
)

// EventHandler serves the event endpoints.
type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

// List handles GET /events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "list events failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, nil)
		return
	}

	resp := eventListResponse{
		envelope: envelope{Success: true, Message: "Events retrieved successfully"},
		Events:   make([]eventDTO, 0, len(events)),
	}
	for _, event := range events {
		resp.Events = append(resp.Events, toEventDTO(event))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// Get handles GET /events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, _ := EventIDFromContext(r.Context())
	event, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "event_id", id).WarnContext(r.Context(), "get event failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, errorMessages{http.StatusNotFound: msgEventNotFound})
		return
	}

	h.writeEvent(r.Context(), w, http.StatusOK, "Event retrieved successfully", event)
}

// Create handles POST /events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, msgMissingToken)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event request", "error", err)
		h.responder.writeDecodeError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "account_id", identity.AccountID)
	event, err := h.service.CreateEvent(r.Context(), application.CreateEventParams{
		Identity: identity,
		Payload:  req.toPayload(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "create event failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, nil)
		return
	}

	logger.With("event_id", event.ID).InfoContext(r.Context(), "event created")
	h.writeEvent(r.Context(), w, http.StatusCreated, "Event created successfully", event)
}

// Update handles PUT /events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, msgMissingToken)
		return
	}

	id, _ := EventIDFromContext(r.Context())
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "event_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event request", "error", err)
		h.responder.writeDecodeError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "event_id", id, "account_id", identity.AccountID)
	event, err := h.service.UpdateEvent(r.Context(), application.UpdateEventParams{
		Identity: identity,
		EventID:  id,
		Payload:  req.toPayload(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "update event failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, errorMessages{
			http.StatusNotFound:  msgEventNotFound,
			http.StatusForbidden: msgEditForbidden,
		})
		return
	}

	logger.InfoContext(r.Context(), "event updated")
	h.writeEvent(r.Context(), w, http.StatusOK, "Event updated successfully", event)
}

// Delete handles DELETE /events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, msgMissingToken)
		return
	}

	id, _ := EventIDFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "event_id", id, "account_id", identity.AccountID)
	err := h.service.DeleteEvent(r.Context(), application.DeleteEventParams{Identity: identity, EventID: id})
	if err != nil {
		logger.ErrorContext(r.Context(), "delete event failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, errorMessages{
			http.StatusNotFound:  msgEventNotFound,
			http.StatusForbidden: msgDeleteForbidden,
		})
		return
	}

	logger.InfoContext(r.Context(), "event deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, envelope{Success: true, Message: "Event deleted successfully"})
}

func (h *EventHandler) writeEvent(ctx context.Context, w http.ResponseWriter, status int, message string, event application.Event) {
	h.responder.writeJSON(ctx, w, status, eventResponse{
		envelope: envelope{Success: true, Message: message},
		Event:    toEventDTO(event),
	})
}

// eventRequest distinguishes absent members from null ones so updates only
// touch the fields a client sent.
type eventRequest struct {
	Title       application.Field `json:"title"`
	Description application.Field `json:"description"`
	Date        application.Field `json:"date"`
	Location    application.Field `json:"location"`
}

func (r eventRequest) toPayload() application.EventPayload {
	return application.EventPayload{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Location:    r.Location,
	}
}

type eventDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	Location    *string `json:"location"`
	OwnerID     int64   `json:"ownerId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type eventResponse struct {
	envelope
	Event eventDTO `json:"event"`
}

type eventListResponse struct {
	envelope
	Events []eventDTO `json:"events"`
}

func toEventDTO(event application.Event) eventDTO {
	return eventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date,
		Location:    event.Location,
		OwnerID:     event.OwnerID,
		CreatedAt:   event.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   event.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
