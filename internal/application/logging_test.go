package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/eventboard/internal/logging"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestServiceLoggerPrefersContextLogger(t *testing.T) {
	t.Parallel()

	var ctxBuf, baseBuf bytes.Buffer
	ctxLogger := slog.New(slog.NewTextHandler(&ctxBuf, nil))
	base := slog.New(slog.NewTextHandler(&baseBuf, nil))

	ctx := logging.ContextWithLogger(context.Background(), ctxLogger)
	serviceLogger(ctx, base, "EventService", "CreateEvent", "event_id", 7).Info("done")

	if baseBuf.Len() != 0 {
		t.Fatalf("expected base logger to stay unused, got %q", baseBuf.String())
	}
	out := ctxBuf.String()
	for _, want := range []string{"service=EventService", "operation=CreateEvent", "event_id=7"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNotFound, "not_found"},
		{ErrForbidden, "forbidden"},
		{fmt.Errorf("wrapped: %w", ErrDuplicateEmail), "duplicate_email"},
		{ErrInvalidCredentials, "invalid_credentials"},
		{ErrInvalidToken, "invalid_token"},
		{ErrTokenExpired, "token_expired"},
		{ErrInvalidSubject, "invalid_subject"},
		{&ValidationError{Errors: []string{"x"}}, "validation"},
		{fmt.Errorf("signup: %w", &ValidationError{Errors: []string{msgEmailInUse}}), "validation"},
		{fmt.Errorf("disk full"), "unexpected"},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
