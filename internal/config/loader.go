package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("HEADLINEGOAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ai.api_key", "HEADLINEGOAT_AI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("headlinegoat")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".headlinegoat"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Outlets decode into a fresh slice so file entries never merge with the
	// built-in catalog's category maps.
	cfg.Outlets = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Outlets) == 0 {
		cfg.Outlets = DefaultOutlets()
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("fetcher.listing_timeout", cfg.Fetcher.ListingTimeout)
	v.SetDefault("fetcher.article_timeout", cfg.Fetcher.ArticleTimeout)
	v.SetDefault("fetcher.user_agent", cfg.Fetcher.UserAgent)
	v.SetDefault("fetcher.referer", cfg.Fetcher.Referer)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.tls_fingerprint", cfg.Fetcher.TLSFingerprint)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)

	v.SetDefault("extraction.min_headline", cfg.Extraction.MinHeadline)
	v.SetDefault("extraction.max_headline", cfg.Extraction.MaxHeadline)
	v.SetDefault("extraction.min_description", cfg.Extraction.MinDescription)
	v.SetDefault("extraction.max_description", cfg.Extraction.MaxDescription)
	v.SetDefault("extraction.feed_limit", cfg.Extraction.FeedLimit)
	v.SetDefault("extraction.boilerplate", cfg.Extraction.Boilerplate)
	v.SetDefault("extraction.image_denylist", cfg.Extraction.ImageDenylist)
	v.SetDefault("extraction.generic_selectors", cfg.Extraction.GenericSelectors)

	v.SetDefault("selection.top_n", cfg.Selection.TopN)
	v.SetDefault("selection.seed", cfg.Selection.Seed)
	v.SetDefault("selection.fallback_outlet", cfg.Selection.FallbackOutlet)

	v.SetDefault("ai.enabled", cfg.AI.Enabled)
	v.SetDefault("ai.provider", cfg.AI.Provider)
	v.SetDefault("ai.model", cfg.AI.Model)
	v.SetDefault("ai.endpoint", cfg.AI.Endpoint)
	v.SetDefault("ai.max_tokens", cfg.AI.MaxTokens)
	v.SetDefault("ai.temperature", cfg.AI.Temperature)
	v.SetDefault("ai.max_length", cfg.AI.MaxLength)
	v.SetDefault("ai.min_length", cfg.AI.MinLength)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
