package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthCheckTimeout = 2 * time.Second

// SystemHandler serves the API description and the health check.
type SystemHandler struct {
	store     Pinger
	version   string
	responder responder
	logger    *slog.Logger
}

// NewSystemHandler constructs a SystemHandler. A nil store always reports healthy.
func NewSystemHandler(store Pinger, version string, logger *slog.Logger) *SystemHandler {
	base := defaultLogger(logger)
	return &SystemHandler{store: store, version: version, responder: newResponder(base), logger: base}
}

// Index handles GET / with a short description of the API.
func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.responder.writeJSON(r.Context(), w, http.StatusOK, indexResponse{
		envelope: envelope{Success: true, Message: "Event board API"},
		Version:  h.version,
		Endpoints: []string{
			"POST /users/signup",
			"POST /users/login",
			"GET /events",
			"GET /events/{id}",
			"POST /events",
			"PUT /events/{id}",
			"DELETE /events/{id}",
			"GET /healthz",
			"GET /metrics",
		},
	})
}

// Health handles GET /healthz.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			handlerLogger(r.Context(), h.logger, "SystemHandler", "Health").ErrorContext(r.Context(), "store ping failed", "error", err)
			h.responder.writeError(r.Context(), w, http.StatusServiceUnavailable, "Store unavailable")
			return
		}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, envelope{Success: true, Message: "OK"})
}

type indexResponse struct {
	envelope
	Version   string   `json:"version,omitempty"`
	Endpoints []string `json:"endpoints"`
}
