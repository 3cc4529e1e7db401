package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for HeadlineGoat.
type Config struct {
	Fetcher    FetcherConfig    `mapstructure:"fetcher"    yaml:"fetcher"`
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction"`
	Selection  SelectionConfig  `mapstructure:"selection"  yaml:"selection"`
	AI         AIConfig         `mapstructure:"ai"         yaml:"ai"`
	Server     ServerConfig     `mapstructure:"server"     yaml:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"    yaml:"metrics"`
	Outlets    []Outlet         `mapstructure:"outlets"    yaml:"outlets"`
}

// FetcherConfig controls the page/feed fetcher.
type FetcherConfig struct {
	ListingTimeout  time.Duration `mapstructure:"listing_timeout"   yaml:"listing_timeout"`
	ArticleTimeout  time.Duration `mapstructure:"article_timeout"   yaml:"article_timeout"`
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	Referer         string        `mapstructure:"referer"           yaml:"referer"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSFingerprint  bool          `mapstructure:"tls_fingerprint"   yaml:"tls_fingerprint"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
}

// ExtractionConfig holds the heuristics applied to raw candidates.
type ExtractionConfig struct {
	MinHeadline      int      `mapstructure:"min_headline"      yaml:"min_headline"`
	MaxHeadline      int      `mapstructure:"max_headline"      yaml:"max_headline"`
	MinDescription   int      `mapstructure:"min_description"   yaml:"min_description"`
	MaxDescription   int      `mapstructure:"max_description"   yaml:"max_description"`
	FeedLimit        int      `mapstructure:"feed_limit"        yaml:"feed_limit"`
	Boilerplate      []string `mapstructure:"boilerplate"       yaml:"boilerplate"`
	ImageDenylist    []string `mapstructure:"image_denylist"    yaml:"image_denylist"`
	GenericSelectors []string `mapstructure:"generic_selectors" yaml:"generic_selectors"`
}

// SelectionConfig controls the final random pick.
type SelectionConfig struct {
	TopN int   `mapstructure:"top_n" yaml:"top_n"`
	Seed int64 `mapstructure:"seed"  yaml:"seed"` // 0 = seeded from the clock

	// FallbackOutlet is queried with the same category when an outlet
	// yields nothing. Empty disables it.
	FallbackOutlet string `mapstructure:"fallback_outlet" yaml:"fallback_outlet,omitempty"`
}

// AIConfig controls the tweet-writing LLM integration.
type AIConfig struct {
	Enabled     bool    `mapstructure:"enabled"     yaml:"enabled"`
	Provider    string  `mapstructure:"provider"    yaml:"provider"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	Endpoint    string  `mapstructure:"endpoint"    yaml:"endpoint"`
	APIKey      string  `mapstructure:"api_key"     yaml:"-"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxLength   int     `mapstructure:"max_length"  yaml:"max_length"`
	MinLength   int     `mapstructure:"min_length"  yaml:"min_length"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"             yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus text endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultBoilerplate lists headline markers of subscription prompts and banners.
var DefaultBoilerplate = []string{
	"subscribe", "sign up", "newsletter", "cookie", "privacy", "download app",
}

// DefaultImageDenylist lists URL substrings of placeholder and tracking images.
var DefaultImageDenylist = []string{
	"placeholder", "logo", "icon", "avatar", "1x1", "blank", "spacer",
	"pixel", "tracking", "transparent", "default", "fallback", "dummy", "empty",
}

// DefaultGenericSelectors is the ordered selector list of the generic pass.
// Earlier selectors win on duplicate headlines.
var DefaultGenericSelectors = []string{
	"article",
	"[class*='story']",
	"[class*='article']",
	"[class*='headline']",
	"[class*='card']",
	"[class*='news-item']",
	"[class*='teaser']",
	"[class*='post']",
	"li[class*='item']",
	"div[class*='item']",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Fetcher: FetcherConfig{
			ListingTimeout:  15 * time.Second,
			ArticleTimeout:  10 * time.Second,
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Referer:         "https://www.google.com/",
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    20,
		},
		Extraction: ExtractionConfig{
			MinHeadline:      20,
			MaxHeadline:      300,
			MinDescription:   10,
			MaxDescription:   200,
			FeedLimit:        15,
			Boilerplate:      append([]string(nil), DefaultBoilerplate...),
			ImageDenylist:    append([]string(nil), DefaultImageDenylist...),
			GenericSelectors: append([]string(nil), DefaultGenericSelectors...),
		},
		Selection: SelectionConfig{
			TopN:           10,
			FallbackOutlet: AggregateOutletID,
		},
		AI: AIConfig{
			Enabled:     true,
			Provider:    "openai",
			Model:       "gpt-4o",
			MaxTokens:   150,
			Temperature: 0.8,
			MaxLength:   280,
			MinLength:   250,
		},
		Server: ServerConfig{
			Addr:            ":5000",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Outlets: DefaultOutlets(),
	}
}
