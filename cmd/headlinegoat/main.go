package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/IshaanNene/HeadlineGoat/internal/ai"
	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/observability"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "headlinegoat",
		Short: "HeadlineGoat: top-story scraper and tweet writer",
		Long: `HeadlineGoat fetches the top article from a news outlet and category and
turns it into a short social post with an image.

Features:
  • Feed, tuned-selector and generic HTML extraction with ordered fallback
  • Lazy-loaded image recovery and og:image / twitter:image enrichment
  • Tweet writing through OpenAI, Ollama or a custom endpoint, with a local fallback
  • JSON API and Prometheus metrics endpoint`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(outletsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("HeadlineGoat %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand, which prints the effective
// configuration as YAML.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
}

// loadConfig loads and validates configuration from --config, env and
// defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogger creates a structured logger from the logging section.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// newTweetWriter wires the configured language model, or the local fallback
// when none is usable.
func newTweetWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *ai.TweetWriter {
	var gen ai.Generator
	if cfg.AI.Enabled {
		client, err := ai.NewFromConfig(&cfg.AI, logger)
		switch {
		case errors.Is(err, ai.ErrNoAPIKey):
			logger.Warn("no language model key, tweets use the headline fallback", "provider", cfg.AI.Provider)
		case err != nil:
			logger.Warn("language model disabled", "error", err)
		default:
			gen = client
		}
	}
	return ai.NewTweetWriter(gen, cfg.AI.MinLength, cfg.AI.MaxLength, metrics, logger)
}
