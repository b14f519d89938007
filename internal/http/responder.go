package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/eventboard/internal/application"
)

const (
	msgBadRequestBody      = "Invalid request body"
	msgBodyTooLarge        = "Request body too large"
	msgValidationFailed    = "Validation failed"
	msgMissingToken        = "Unauthorized"
	msgInvalidToken        = "Invalid token"
	msgTokenExpired        = "Token expired"
	msgInvalidCredentials  = "Invalid email or password"
	msgDuplicateEmail      = "Email already exists"
	msgForbidden           = "You are not authorized to perform this action"
	msgNotFound            = "Resource not found"
	msgInternalServerError = "Internal server error"
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes a failure envelope. Internal details never reach the body.
func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = statusMessage(status)
	}
	r.writeJSON(ctx, w, status, envelope{Success: false, Message: message})
}

// errorMessages overrides the default body message per status code.
type errorMessages map[int]string

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error, overrides errorMessages) {
	status := http.StatusInternalServerError
	message := msgInternalServerError

	var vErr *application.ValidationError
	switch {
	case err == nil:
		err = errors.New("unknown error")
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusBadRequest, envelope{
			Success: false,
			Message: msgValidationFailed,
			Errors:  vErr.Errors,
		})
		return
	case errors.Is(err, application.ErrDuplicateEmail):
		status, message = http.StatusConflict, msgDuplicateEmail
	case errors.Is(err, application.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, application.ErrTokenExpired):
		status, message = http.StatusUnauthorized, msgTokenExpired
	case errors.Is(err, application.ErrInvalidToken):
		status, message = http.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, application.ErrForbidden):
		status, message = http.StatusForbidden, msgForbidden
	case errors.Is(err, application.ErrNotFound):
		status, message = http.StatusNotFound, msgNotFound
	}

	if override, ok := overrides[status]; ok {
		message = override
	}
	if status == http.StatusInternalServerError {
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}
	r.writeError(ctx, w, status, message)
}

// writeDecodeError reports a body that failed to decode, distinguishing bodies
// cut off by RequestSize from malformed JSON.
func (r responder) writeDecodeError(ctx context.Context, w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		r.writeError(ctx, w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return
	}
	r.writeError(ctx, w, http.StatusBadRequest, msgBadRequestBody)
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return msgBadRequestBody
	case http.StatusUnauthorized:
		return msgMissingToken
	case http.StatusForbidden:
		return msgForbidden
	case http.StatusNotFound:
		return msgNotFound
	case http.StatusConflict:
		return msgDuplicateEmail
	case http.StatusRequestEntityTooLarge:
		return msgBodyTooLarge
	case http.StatusMethodNotAllowed:
		return http.StatusText(http.StatusMethodNotAllowed)
	default:
		return msgInternalServerError
	}
}

// envelope is the common shape of every JSON response body.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}
