package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/HeadlineGoat/internal/api"
	"github.com/IshaanNene/HeadlineGoat/internal/engine"
	"github.com/IshaanNene/HeadlineGoat/internal/observability"
)

var listenAddr string

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		RunE:  runServe,
	}
	cmd.Flags().StringVarP(&listenAddr, "addr", "a", "", "listen address (overrides server.addr)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Server.Addr = listenAddr
	}
	logger := setupLogger(cfg)

	metrics := observability.NewMetrics(logger)
	orch, err := engine.New(cfg, logger, engine.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("create orchestrator: %w", err)
	}
	defer orch.Close()

	var exported *observability.Metrics
	if cfg.Metrics.Enabled {
		exported = metrics
	}
	srv := api.NewServer(cfg, orch, newTweetWriter(cfg, metrics, logger), exported, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("serving",
		"addr", cfg.Server.Addr,
		"outlets", len(cfg.Outlets),
		"metrics", cfg.Metrics.Enabled,
	)
	return srv.ListenAndServe(ctx)
}
