package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Metrics tracks operational counters for scrapes and tweet generation.
type Metrics struct {
	// Scrape metrics
	ScrapesTotal  atomic.Int64
	ScrapesFailed atomic.Int64

	// Fetch metrics
	FetchesTotal         atomic.Int64
	FetchNetworkErrors   atomic.Int64
	FetchStatusErrors    atomic.Int64
	BytesDownloaded      atomic.Int64
	SupplementaryFetches atomic.Int64
	ImagesRecovered      atomic.Int64

	// Extraction metrics
	CandidatesExtracted atomic.Int64
	CandidatesDropped   atomic.Int64
	StrategyPanics      atomic.Int64

	// Tweet metrics
	TweetsGenerated atomic.Int64
	TweetFallbacks  atomic.Int64

	mu           sync.Mutex
	strategyWins map[string]int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		strategyWins: make(map[string]int64),
		logger:       logger.With("component", "metrics"),
	}
}

// RecordStrategyWin counts a scrape answered by the named strategy.
func (m *Metrics) RecordStrategyWin(strategy string) {
	m.mu.Lock()
	m.strategyWins[strategy]++
	m.mu.Unlock()
}

// RecordFetchError classifies err by FetchError kind.
func (m *Metrics) RecordFetchError(err error) {
	var fe *types.FetchError
	if errors.As(err, &fe) && fe.Kind == types.FetchHTTPStatus {
		m.FetchStatusErrors.Add(1)
		return
	}
	m.FetchNetworkErrors.Add(1)
}

// StrategyWins returns a copy of the per-strategy win counters.
func (m *Metrics) StrategyWins() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.strategyWins))
	for k, v := range m.strategyWins {
		out[k] = v
	}
	return out
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"headlinegoat_scrapes_total", "Total scrape requests", m.ScrapesTotal.Load()},
		{"headlinegoat_scrapes_failed_total", "Scrapes that found no article", m.ScrapesFailed.Load()},
		{"headlinegoat_fetches_total", "Total page and feed fetches", m.FetchesTotal.Load()},
		{"headlinegoat_fetch_network_errors_total", "Fetches failed by timeout or transport error", m.FetchNetworkErrors.Load()},
		{"headlinegoat_fetch_status_errors_total", "Fetches failed with a non-2xx status", m.FetchStatusErrors.Load()},
		{"headlinegoat_bytes_downloaded_total", "Total bytes downloaded", m.BytesDownloaded.Load()},
		{"headlinegoat_supplementary_fetches_total", "Article-page fetches made to enrich a result", m.SupplementaryFetches.Load()},
		{"headlinegoat_images_recovered_total", "Images recovered from article page metadata", m.ImagesRecovered.Load()},
		{"headlinegoat_candidates_extracted_total", "Raw candidates extracted", m.CandidatesExtracted.Load()},
		{"headlinegoat_candidates_dropped_total", "Candidates dropped by filters", m.CandidatesDropped.Load()},
		{"headlinegoat_strategy_panics_total", "Strategies that panicked", m.StrategyPanics.Load()},
		{"headlinegoat_tweets_generated_total", "Tweets generated by the language model", m.TweetsGenerated.Load()},
		{"headlinegoat_tweet_fallbacks_total", "Tweets built by the local fallback", m.TweetFallbacks.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}

	wins := m.StrategyWins()
	names := make([]string, 0, len(wins))
	for name := range wins {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "# HELP headlinegoat_strategy_wins_total Scrapes answered by each strategy\n")
	fmt.Fprintf(w, "# TYPE headlinegoat_strategy_wins_total counter\n")
	for _, name := range names {
		fmt.Fprintf(w, "headlinegoat_strategy_wins_total{strategy=%q} %d\n", name, wins[name])
	}
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	snap := map[string]int64{
		"scrapes_total":         m.ScrapesTotal.Load(),
		"scrapes_failed":        m.ScrapesFailed.Load(),
		"fetches_total":         m.FetchesTotal.Load(),
		"fetch_network_errors":  m.FetchNetworkErrors.Load(),
		"fetch_status_errors":   m.FetchStatusErrors.Load(),
		"bytes_downloaded":      m.BytesDownloaded.Load(),
		"supplementary_fetches": m.SupplementaryFetches.Load(),
		"images_recovered":      m.ImagesRecovered.Load(),
		"candidates_extracted":  m.CandidatesExtracted.Load(),
		"candidates_dropped":    m.CandidatesDropped.Load(),
		"strategy_panics":       m.StrategyPanics.Load(),
		"tweets_generated":      m.TweetsGenerated.Load(),
		"tweet_fallbacks":       m.TweetFallbacks.Load(),
	}
	for name, v := range m.StrategyWins() {
		snap["strategy_wins_"+name] = v
	}
	return snap
}
