package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/eventboard/internal/application"
)

// DefaultMaxBodySize caps request bodies at 1MB.
const DefaultMaxBodySize int64 = 1 << 20

// TokenVerifier resolves a bearer token to the caller's identity.
type TokenVerifier interface {
	Verify(token string) (application.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := bearerToken(r)
			if token == "" {
				responder.writeError(ctx, w, http.StatusUnauthorized, msgMissingToken)
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				responder.loggerFor(ctx).WarnContext(ctx, "token rejected", "error_kind", application.ErrorKind(err))
				switch {
				case errors.Is(err, application.ErrTokenExpired):
					responder.writeError(ctx, w, http.StatusUnauthorized, msgTokenExpired)
				case errors.Is(err, application.ErrInvalidToken):
					responder.writeError(ctx, w, http.StatusUnauthorized, msgInvalidToken)
				default:
					responder.handleServiceError(ctx, w, err, nil)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, identity)))
		})
	}
}

// RequestLogger attaches a logger carrying a fresh request id to every request
// and logs its start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)

			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			recorder := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(recorder, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "status", recorder.status(), "duration", time.Since(start))
		})
	}
}

// RequestSize limits request bodies to maxBytes. Handlers reading past the
// limit get an *http.MaxBytesError and answer 413.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.code == 0 {
		s.code = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.code == 0 {
		s.code = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) status() int {
	if s.code == 0 {
		return http.StatusOK
	}
	return s.code
}
