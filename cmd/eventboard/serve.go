package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/eventboard/internal/application"
	"github.com/example/eventboard/internal/config"
	httptransport "github.com/example/eventboard/internal/http"
	"github.com/example/eventboard/internal/metrics"
	"github.com/example/eventboard/internal/persistence"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply pending migrations and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	boot, err := loadBootstrap(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	logger := boot.logger

	store, err := boot.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	metrics.Init(version)
	server := newServer(boot.cfg, newHandler(boot.cfg, store, logger))
	return listenAndServe(ctx, server, logger)
}

// backend is the storage the API runs on.
type backend interface {
	persistence.AccountRepository
	persistence.EventRepository
	httptransport.Pinger
}

func newHandler(cfg config.Config, store backend, logger *slog.Logger) http.Handler {
	now := time.Now
	tokens := application.NewTokenService(cfg.TokenSecret, cfg.TokenTTL, cfg.TokenIssuer, now)
	accountService := application.NewAccountServiceWithLogger(store, application.NewBcryptHasher(cfg.BcryptCost), tokens, now, logger)
	eventService := application.NewEventServiceWithLogger(store, now, logger)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Accounts:    httptransport.NewAccountHandler(accountService, logger),
		Events:      httptransport.NewEventHandler(eventService, logger),
		System:      httptransport.NewSystemHandler(store, version, logger),
		RequireAuth: httptransport.RequireAuth(tokens, logger),
		Metrics:     metrics.Handler(),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			metrics.HTTPMiddleware,
			httptransport.RequestSize(httptransport.DefaultMaxBodySize),
		},
	})
}

func newServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// listenAndServe runs server until ctx is cancelled, then shuts it down gracefully.
func listenAndServe(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("eventboard API listening", "addr", server.Addr, "version", version)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server encountered error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server encountered error: %w", err)
	}
	return nil
}
