// Package httpd implements the HTTP server command for the scrape service.
package httpd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JONGYYY/storyscrape/cmd/common"
	"github.com/JONGYYY/storyscrape/internal/api"
)

const defaultShutdownTimeout = 30 * time.Second

// Command returns the serve command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the scrape HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start(cmd.Context())
		},
	}
}

// Start runs the HTTP server until interrupted, shutting down gracefully
// on SIGINT or SIGTERM.
func Start(ctx context.Context) error {
	// Phase 1: dependencies (config, logger, scrape pipeline).
	deps, err := common.NewDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Phase 2: API server over the pipeline.
	server := api.NewServer(deps.Config.Server, deps.Logger, deps.Scraper, deps.Metrics)

	// Phase 3: run until signal.
	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps.Logger.Info("starting storyscrape server",
		"address", deps.Config.Server.Address,
		"auth_configured", deps.Config.Reddit.Configured(),
	)

	if err := server.Start(signalCtx, defaultShutdownTimeout); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	deps.Logger.Info("server stopped")

	return nil
}
