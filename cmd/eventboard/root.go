package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/example/eventboard/internal/config"
	"github.com/example/eventboard/internal/logging"
	"github.com/example/eventboard/internal/persistence/sqlite"
)

// NewRootCmd creates the root command. Without a subcommand it serves the API.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eventboard",
		Short: "Event board API server",
		Long: `eventboard serves the account and event API over HTTP.

Configuration is read from EVENTBOARD_* environment variables and an optional
.env file in the working directory.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println(version)
			return nil
		},
	}
}

// bootstrap holds what every subcommand needs before doing real work.
type bootstrap struct {
	cfg    config.Config
	logger *slog.Logger
}

func loadBootstrap(out io.Writer) (bootstrap, error) {
	cfg, err := config.Load()
	if err != nil {
		return bootstrap{}, err
	}
	logger, err := logging.New(out, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return bootstrap{}, err
	}
	return bootstrap{cfg: cfg, logger: logger}, nil
}

func (b bootstrap) openStore() (*sqlite.Store, error) {
	store, err := sqlite.Open(sqlite.DefaultConfig(b.cfg.SQLiteDSN), b.logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return store, nil
}
