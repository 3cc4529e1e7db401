package observability

import (
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestRecordFetchError(t *testing.T) {
	m := NewMetrics(testLogger)

	m.RecordFetchError(&types.FetchError{Kind: types.FetchHTTPStatus, StatusCode: 503})
	m.RecordFetchError(fmt.Errorf("wrapped: %w", &types.FetchError{Kind: types.FetchNetwork}))
	m.RecordFetchError(fmt.Errorf("plain"))

	if got := m.FetchStatusErrors.Load(); got != 1 {
		t.Errorf("status errors = %d, want 1", got)
	}
	if got := m.FetchNetworkErrors.Load(); got != 2 {
		t.Errorf("network errors = %d, want 2", got)
	}
}

func TestServeHTTP(t *testing.T) {
	m := NewMetrics(testLogger)
	m.ScrapesTotal.Add(3)
	m.RecordStrategyWin("feed")
	m.RecordStrategyWin("feed")
	m.RecordStrategyWin("generic")

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		"headlinegoat_scrapes_total 3",
		`headlinegoat_strategy_wins_total{strategy="feed"} 2`,
		`headlinegoat_strategy_wins_total{strategy="generic"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}

	if snap := m.Snapshot(); snap["strategy_wins_feed"] != 2 {
		t.Errorf("snapshot: %v", snap)
	}
}
