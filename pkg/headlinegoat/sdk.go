// Package headlinegoat provides a public SDK for embedding HeadlineGoat as a
// library.
//
// Example usage:
//
//	client, err := headlinegoat.New(
//	    headlinegoat.WithSeed(42),
//	    headlinegoat.WithOpenAI("gpt-4o", os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	article, err := client.TopArticle(ctx, "bbc", "tech")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(client.Tweet(ctx, article))
package headlinegoat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/IshaanNene/HeadlineGoat/internal/ai"
	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/engine"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Errors callers can match with errors.Is.
var (
	ErrUnknownOutlet   = types.ErrUnknownOutlet
	ErrUnknownCategory = types.ErrUnknownCategory
	ErrNoArticle       = types.ErrNoCandidates
)

// Outlet is a news source the client can scrape.
type Outlet = config.Outlet

// Article is the top story picked for an outlet and category.
type Article struct {
	Headline    string
	Description string
	ImageURL    string
	ArticleURL  string
	Outlet      string
	OutletID    string
	Category    string
	Strategy    string

	// FallbackFrom is set when the requested outlet came up empty and the
	// story came from the aggregate outlet.
	FallbackFrom string
	FetchedAt    time.Time
}

// Client is the high-level API for using HeadlineGoat as a library.
type Client struct {
	cfg    *config.Config
	orch   *engine.Orchestrator
	tweets *ai.TweetWriter
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*settings)

type settings struct {
	cfg    *config.Config
	logger *slog.Logger
}

// WithOutlets replaces the built-in outlet catalog.
func WithOutlets(outlets ...Outlet) Option {
	return func(s *settings) { s.cfg.Outlets = outlets }
}

// WithSeed fixes the random source for category and candidate choice.
func WithSeed(seed int64) Option {
	return func(s *settings) { s.cfg.Selection.Seed = seed }
}

// WithTopN sets how many leading candidates the final pick draws from.
func WithTopN(n int) Option {
	return func(s *settings) { s.cfg.Selection.TopN = n }
}

// WithTimeouts sets the listing and article fetch timeouts.
func WithTimeouts(listing, article time.Duration) Option {
	return func(s *settings) {
		s.cfg.Fetcher.ListingTimeout = listing
		s.cfg.Fetcher.ArticleTimeout = article
	}
}

// WithUserAgent sets a custom User-Agent.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.cfg.Fetcher.UserAgent = ua }
}

// WithTLSFingerprint enables the browser-like TLS handshake.
func WithTLSFingerprint() Option {
	return func(s *settings) { s.cfg.Fetcher.TLSFingerprint = true }
}

// WithOpenAI enables tweet writing through OpenAI.
func WithOpenAI(model, apiKey string) Option {
	return func(s *settings) {
		s.cfg.AI.Enabled = true
		s.cfg.AI.Provider = string(ai.ProviderOpenAI)
		s.cfg.AI.Model = model
		s.cfg.AI.APIKey = apiKey
	}
}

// WithOllama enables tweet writing through a local Ollama server. An empty
// endpoint uses the default.
func WithOllama(model, endpoint string) Option {
	return func(s *settings) {
		s.cfg.AI.Enabled = true
		s.cfg.AI.Provider = string(ai.ProviderOllama)
		s.cfg.AI.Model = model
		s.cfg.AI.Endpoint = endpoint
	}
}

// WithoutAI disables the language model; tweets use the headline fallback.
func WithoutAI() Option {
	return func(s *settings) { s.cfg.AI.Enabled = false }
}

// WithLogger sets the logger. The default logs warnings to stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithVerbose enables debug-level logging on the default logger.
func WithVerbose() Option {
	return func(s *settings) { s.cfg.Logging.Level = "debug" }
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	s := &settings{cfg: config.DefaultConfig()}
	s.cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	for _, opt := range opts {
		opt(s)
	}
	if err := config.Validate(s.cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logger := s.logger
	if logger == nil {
		level := slog.LevelWarn
		if s.cfg.Logging.Level == "debug" {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	orch, err := engine.New(s.cfg, logger)
	if err != nil {
		return nil, err
	}

	var gen ai.Generator
	if s.cfg.AI.Enabled {
		client, err := ai.NewFromConfig(&s.cfg.AI, logger)
		switch {
		case errors.Is(err, ai.ErrNoAPIKey):
			logger.Debug("no language model key, tweets use the headline fallback")
		case err != nil:
			orch.Close()
			return nil, err
		default:
			gen = client
		}
	}

	return &Client{
		cfg:    s.cfg,
		orch:   orch,
		tweets: ai.NewTweetWriter(gen, s.cfg.AI.MinLength, s.cfg.AI.MaxLength, orch.Metrics(), logger),
		logger: logger,
	}, nil
}

// Outlets returns the configured outlets.
func (c *Client) Outlets() []Outlet {
	return append([]Outlet(nil), c.cfg.Outlets...)
}

// TopArticle scrapes the top story for an outlet. An empty category means
// "top"; "random" picks one of the concrete categories.
func (c *Client) TopArticle(ctx context.Context, outletID, category string) (*Article, error) {
	res, err := c.orch.Scrape(ctx, outletID, category)
	if err != nil {
		return nil, err
	}
	return &Article{
		Headline:     res.Article.Headline,
		Description:  res.Article.Description,
		ImageURL:     res.Article.ImageURL,
		ArticleURL:   res.Article.ArticleURL,
		Outlet:       res.Outlet.Name,
		OutletID:     res.Outlet.ID,
		Category:     string(res.Category),
		Strategy:     res.Strategy,
		FallbackFrom: res.FallbackFrom,
		FetchedAt:    time.Now(),
	}, nil
}

// Tweet writes the post text for an article. It never fails; without a
// usable language model it falls back to the headline.
func (c *Client) Tweet(ctx context.Context, a *Article) string {
	if a == nil {
		return c.tweets.Compose(ctx, "", "", "")
	}
	return c.tweets.Compose(ctx, a.Headline, a.Description, a.Outlet)
}

// Stats returns a snapshot of the client's counters.
func (c *Client) Stats() map[string]int64 {
	return c.orch.Metrics().Snapshot()
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.orch.Close()
}
