package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/HeadlineGoat/internal/fetcher"
	"github.com/IshaanNene/HeadlineGoat/internal/observability"
	"github.com/IshaanNene/HeadlineGoat/internal/parser"
	"github.com/IshaanNene/HeadlineGoat/internal/pipeline"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Strategy names reported in outcomes, logs and metrics.
const (
	NameFeed         = "feed"
	NameStructural   = "structural"
	NameGeneric      = "generic"
	NameGenericRetry = "generic_retry"
)

// ErrEmptyPool means a page was fetched and parsed but no candidate
// survived filtering.
var ErrEmptyPool = errors.New("no usable candidates")

// Outcome is the typed result of running one strategy.
type Outcome struct {
	Strategy string
	URL      string

	// Article is nil when the strategy found nothing; Err then says why.
	Article *types.Article
	Err     error

	// Candidates is the pool size after filtering and dedup.
	Candidates int
}

// OK reports whether the strategy produced an article.
func (o Outcome) OK() bool {
	return o.Article != nil
}

// Strategy turns one outlet page into at most one article.
type Strategy interface {
	// Name identifies the strategy.
	Name() string

	// Run fetches pageURL and extracts an article. Failures are reported in
	// the Outcome, never as a panic or error return.
	Run(ctx context.Context, pageURL string) Outcome
}

// listingPass is the fetch, extract, filter, dedup, select sequence every
// strategy shares.
type listingPass struct {
	name      string
	fetcher   fetcher.Fetcher
	extractor parser.Extractor
	pipeline  *pipeline.Pipeline
	selector  *Selector
	filter    *parser.ImageFilter
	// pageMeta enables the og:image/twitter:image fallback from the listing
	// page itself.
	pageMeta bool
	metrics  *observability.Metrics
	logger   *slog.Logger
}

func (p *listingPass) run(ctx context.Context, pageURL string) Outcome {
	out := Outcome{Strategy: p.name, URL: pageURL}

	resp, err := fetchPage(ctx, p.fetcher, p.metrics, pageURL, types.KindListing)
	if err != nil {
		out.Err = err
		return out
	}

	raw, err := p.extractor.Extract(resp)
	if err != nil {
		out.Err = err
		return out
	}
	p.metrics.CandidatesExtracted.Add(int64(len(raw)))

	filtered := p.pipeline.ProcessAll(raw)
	pool := Dedup(filtered)
	p.metrics.CandidatesDropped.Add(int64(len(raw) - len(pool)))
	out.Candidates = len(pool)

	p.logger.Debug("candidates filtered",
		"stages", p.pipeline.Len(),
		"raw", len(raw),
		"filtered", len(filtered),
		"unique", len(pool),
	)

	if len(pool) == 0 {
		out.Err = ErrEmptyPool
		return out
	}

	var metaImage string
	if p.pageMeta {
		metaImage = p.listingMetaImage(resp)
	}

	picked := p.selector.Select(pool, metaImage)
	article := types.ArticleFromCandidate(*picked)
	out.Article = &article
	return out
}

// listingMetaImage reads page metadata off the goquery tree already built
// for extraction.
func (p *listingPass) listingMetaImage(resp *types.Response) string {
	doc, err := resp.Document()
	if err != nil || len(doc.Nodes) == 0 {
		return ""
	}
	return parser.MetaImage(doc.Nodes[0], resp.BaseURL(), p.filter)
}

// fetchPage issues one request and keeps the fetch counters current.
func fetchPage(ctx context.Context, f fetcher.Fetcher, m *observability.Metrics, rawURL, kind string) (*types.Response, error) {
	var (
		req *types.Request
		err error
	)
	if kind == types.KindArticle {
		req, err = types.NewArticleRequest(rawURL)
	} else {
		req, err = types.NewRequest(rawURL)
	}
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Kind: types.FetchNetwork, Err: err}
	}

	m.FetchesTotal.Add(1)
	resp, err := f.Fetch(ctx, req)
	if err != nil {
		m.RecordFetchError(err)
		return nil, err
	}
	m.BytesDownloaded.Add(int64(len(resp.Body)))
	return resp, nil
}

// FeedStrategy reads candidates from an RSS/Atom feed.
type FeedStrategy struct {
	pass *listingPass
}

func (s *FeedStrategy) Name() string { return NameFeed }

func (s *FeedStrategy) Run(ctx context.Context, pageURL string) Outcome {
	return s.pass.run(ctx, pageURL)
}

// StructuralStrategy applies an outlet's tuned selector list.
type StructuralStrategy struct {
	pass *listingPass
}

func (s *StructuralStrategy) Name() string { return NameStructural }

func (s *StructuralStrategy) Run(ctx context.Context, pageURL string) Outcome {
	return s.pass.run(ctx, pageURL)
}

// GenericStrategy applies the shared selector list that works across most
// outlets. With an enricher it also fetches the chosen article's page to
// recover a missing image or description.
type GenericStrategy struct {
	name     string
	pass     *listingPass
	enricher *Enricher
}

func (s *GenericStrategy) Name() string { return s.name }

func (s *GenericStrategy) Run(ctx context.Context, pageURL string) Outcome {
	out := s.pass.run(ctx, pageURL)
	if out.OK() && s.enricher != nil {
		s.enricher.Enrich(ctx, out.Article)
	}
	return out
}

// runStrategy executes s and converts a panic into a failed outcome.
func runStrategy(ctx context.Context, s Strategy, pageURL string, m *observability.Metrics, logger *slog.Logger) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			m.StrategyPanics.Add(1)
			logger.Error("strategy panicked", "strategy", s.Name(), "url", pageURL, "panic", r)
			out = Outcome{
				Strategy: s.Name(),
				URL:      pageURL,
				Err:      fmt.Errorf("strategy %s panicked: %v", s.Name(), r),
			}
		}
	}()
	return s.Run(ctx, pageURL)
}
