// Package engine runs the ordered extraction strategies for an outlet and
// picks the article handed back to callers.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/fetcher"
	"github.com/IshaanNene/HeadlineGoat/internal/observability"
	"github.com/IshaanNene/HeadlineGoat/internal/parser"
	"github.com/IshaanNene/HeadlineGoat/internal/pipeline"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Result is a successful scrape.
type Result struct {
	ScrapeID string
	Article  types.Article
	Outlet   config.Outlet
	Category config.Category
	Strategy string
	URL      string
	Duration time.Duration

	// FallbackFrom is the requested outlet's id when the article came from
	// the fallback outlet instead.
	FallbackFrom string
}

// Orchestrator sequences the strategies configured for an outlet and
// returns the first article any of them produces.
type Orchestrator struct {
	cfg      *config.Config
	fetcher  fetcher.Fetcher
	selector *Selector
	filter   *parser.ImageFilter
	metrics  *observability.Metrics
	fallback *config.Outlet
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithFetcher replaces the default HTTP fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(o *Orchestrator) { o.fetcher = f }
}

// WithRand injects the random source used for category and candidate choice.
func WithRand(rng *rand.Rand) Option {
	return func(o *Orchestrator) { o.selector = NewSelectorWithRand(o.cfg.Selection.TopN, rng) }
}

// WithMetrics shares a metrics registry with the caller.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// New creates an Orchestrator. Without WithFetcher it builds an HTTPFetcher
// from cfg.Fetcher.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		cfg:      cfg,
		selector: NewSelector(cfg.Selection.TopN, cfg.Selection.Seed),
		filter:   parser.NewImageFilter(cfg.Extraction.ImageDenylist),
		logger:   logger.With("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.metrics == nil {
		o.metrics = observability.NewMetrics(logger)
	}
	if id := cfg.Selection.FallbackOutlet; id != "" {
		fb, err := cfg.FindOutlet(id)
		if err != nil {
			o.logger.Warn("fallback outlet not configured, fallback disabled", "fallback", id)
		} else {
			o.fallback = fb
		}
	}
	if o.fetcher == nil {
		f, err := fetcher.NewHTTPFetcher(&cfg.Fetcher, logger)
		if err != nil {
			return nil, fmt.Errorf("create fetcher: %w", err)
		}
		o.fetcher = f
	}

	return o, nil
}

// Metrics returns the orchestrator's metrics registry.
func (o *Orchestrator) Metrics() *observability.Metrics {
	return o.metrics
}

// Close releases the fetcher.
func (o *Orchestrator) Close() error {
	return o.fetcher.Close()
}

// Scrape returns the top article for an outlet and category. Unknown outlets
// and categories fail with a *types.ConfigError before any request is made.
// When every strategy comes up empty the error is a *types.NoArticleError,
// which matches types.ErrNoCandidates.
func (o *Orchestrator) Scrape(ctx context.Context, outletID, category string) (*Result, error) {
	outlet, err := o.cfg.FindOutlet(outletID)
	if err != nil {
		return nil, err
	}
	requested, err := config.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	resolved := o.selector.ResolveCategory(requested)

	scrapeID := uuid.NewString()
	logger := o.logger.With(
		"scrape_id", scrapeID,
		"outlet", outlet.ID,
		"category", string(resolved),
	)
	if requested != resolved {
		logger = logger.With("requested_category", string(requested))
	}

	o.metrics.ScrapesTotal.Add(1)
	start := time.Now()

	res, reasons := o.runPlan(ctx, outlet, resolved, logger)
	if res == nil {
		if fb := o.fallbackOutlet(outlet); fb != nil && ctx.Err() == nil {
			logger.Info("trying fallback outlet", "fallback", fb.ID)
			var more []error
			res, more = o.runPlan(ctx, fb, resolved, logger.With("fallback", fb.ID))
			if res != nil {
				res.FallbackFrom = outlet.ID
			}
			reasons = append(reasons, more...)
		}
	}

	if res != nil {
		res.ScrapeID = scrapeID
		res.Duration = time.Since(start)
		return res, nil
	}

	o.metrics.ScrapesFailed.Add(1)
	logger.Error("no article found", "attempts", len(reasons), "duration", time.Since(start))
	return nil, &types.NoArticleError{
		Outlet:   outlet.ID,
		Category: string(resolved),
		Reasons:  reasons,
	}
}

// runPlan tries the outlet's strategies in order and returns the first
// article, or the failure reason of every strategy tried.
func (o *Orchestrator) runPlan(ctx context.Context, outlet *config.Outlet, c config.Category, logger *slog.Logger) (*Result, []error) {
	start := time.Now()
	var reasons []error
	for _, step := range o.plan(outlet, c, logger) {
		if err := ctx.Err(); err != nil {
			reasons = append(reasons, err)
			break
		}

		out := runStrategy(ctx, step.strategy, step.url, o.metrics, logger)
		if out.OK() {
			o.metrics.RecordStrategyWin(out.Strategy)
			logger.Info("article found",
				"strategy", out.Strategy,
				"candidates", out.Candidates,
				"has_image", out.Article.ImageURL != "",
				"duration", time.Since(start),
			)
			return &Result{
				Article:  *out.Article,
				Outlet:   *outlet,
				Category: c,
				Strategy: out.Strategy,
				URL:      step.url,
			}, nil
		}

		logger.Warn("strategy found nothing",
			"strategy", out.Strategy,
			"url", step.url,
			"error", out.Err,
		)
		reasons = append(reasons, fmt.Errorf("%s %s: %w", outlet.ID, out.Strategy, out.Err))
	}
	return nil, reasons
}

// fallbackOutlet returns the aggregate outlet to query when outlet comes up
// empty, or nil when none is configured or outlet is the aggregate itself.
func (o *Orchestrator) fallbackOutlet(outlet *config.Outlet) *config.Outlet {
	if o.fallback == nil || o.fallback.ID == outlet.ID {
		return nil
	}
	return o.fallback
}

type planStep struct {
	strategy Strategy
	url      string
}

// plan lists the strategies for one scrape in the order they run: the
// outlet's feed or tuned selectors, then the enriched generic pass, then a
// bare generic retry.
func (o *Orchestrator) plan(outlet *config.Outlet, c config.Category, logger *slog.Logger) []planStep {
	ex := &o.cfg.Extraction
	var steps []planStep

	switch {
	case outlet.Strategy.Type == config.StrategyFeed:
		steps = append(steps, planStep{
			strategy: &FeedStrategy{pass: o.newPass(NameFeed,
				parser.NewFeedExtractor(ex.FeedLimit, o.filter, logger),
				false, false, logger)},
			url: outlet.URLFor(c),
		})
	case outlet.HasSpecializedStrategy():
		steps = append(steps, planStep{
			strategy: &StructuralStrategy{pass: o.newPass(NameStructural,
				parser.NewStructuralExtractor(outlet.ID, outlet.Strategy.Selectors, parser.NewImageResolver(o.filter), false, logger),
				true, true, logger)},
			url: outlet.URLFor(c),
		})
	}

	pageURL := outlet.PageURLFor(c)
	generic := func(name string) *listingPass {
		return o.newPass(name,
			parser.NewStructuralExtractor(NameGeneric, ex.GenericSelectors, parser.NewImageResolver(o.filter), true, logger),
			true, true, logger)
	}

	steps = append(steps,
		planStep{
			strategy: &GenericStrategy{
				name:     NameGeneric,
				pass:     generic(NameGeneric),
				enricher: NewEnricher(o.fetcher, ex, o.filter, o.metrics, logger),
			},
			url: pageURL,
		},
		planStep{
			strategy: &GenericStrategy{name: NameGenericRetry, pass: generic(NameGenericRetry)},
			url:      pageURL,
		},
	)
	return steps
}

func (o *Orchestrator) newPass(name string, ext parser.Extractor, boilerplate, pageMeta bool, logger *slog.Logger) *listingPass {
	return &listingPass{
		name:      name,
		fetcher:   o.fetcher,
		extractor: ext,
		pipeline:  pipeline.NewCandidatePipeline(&o.cfg.Extraction, o.filter, boilerplate, logger),
		selector:  o.selector,
		filter:    o.filter,
		pageMeta:  pageMeta,
		metrics:   o.metrics,
		logger:    logger.With("strategy", name),
	}
}
