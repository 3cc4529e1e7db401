package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/engine"
	"github.com/IshaanNene/HeadlineGoat/internal/observability"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeScraper struct {
	res   *engine.Result
	err   error
	calls int
}

func (f *fakeScraper) Scrape(ctx context.Context, outletID, category string) (*engine.Result, error) {
	f.calls++
	return f.res, f.err
}

type fakeComposer struct{}

func (fakeComposer) Compose(ctx context.Context, headline, description, source string) string {
	return "📰 " + headline
}

func newTestServer(scraper Scraper) *httptest.Server {
	cfg := config.DefaultConfig()
	s := NewServer(cfg, scraper, fakeComposer{}, observability.NewMetrics(testLogger), testLogger)
	return httptest.NewServer(s.Handler())
}

func postGenerate(t *testing.T, srv *httptest.Server, body string) (int, GenerateResponse) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/generate", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, out
}

func TestGenerateSuccess(t *testing.T) {
	scraper := &fakeScraper{res: &engine.Result{
		Article: types.Article{
			Headline:   "Markets rally after rate cut decision",
			ImageURL:   "https://cdn.x.com/photos/m.jpg",
			ArticleURL: "https://x.com/markets",
		},
		Category: config.CategoryBusiness,
	}}
	srv := newTestServer(scraper)
	defer srv.Close()

	status, out := postGenerate(t, srv, `{"source_id":"bbc","category":"business"}`)
	if status != http.StatusOK || !out.Success {
		t.Fatalf("status %d, %+v", status, out)
	}
	if out.TweetText != "📰 Markets rally after rate cut decision" {
		t.Errorf("tweet: %q", out.TweetText)
	}
	if out.SourceName != "BBC" || out.Category != "business" {
		t.Errorf("source/category: %q %q", out.SourceName, out.Category)
	}
	if out.ImageURL != "https://cdn.x.com/photos/m.jpg" {
		t.Errorf("image: %q", out.ImageURL)
	}
}

func TestGenerateUnknownOutlet(t *testing.T) {
	scraper := &fakeScraper{}
	srv := newTestServer(scraper)
	defer srv.Close()

	status, out := postGenerate(t, srv, `{"source_id":"nope"}`)
	if status != http.StatusBadRequest || out.Success {
		t.Errorf("expected 400, got %d %+v", status, out)
	}
	if scraper.calls != 0 {
		t.Error("scraper should not run for unknown outlet")
	}
}

func TestGenerateNoArticle(t *testing.T) {
	scraper := &fakeScraper{err: &types.NoArticleError{Outlet: "cnn", Category: "top"}}
	srv := newTestServer(scraper)
	defer srv.Close()

	status, out := postGenerate(t, srv, `{"source_id":"cnn","category":"top"}`)
	if status != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", status)
	}
	if out.Error != "Could not fetch article from CNN. Please try again." {
		t.Errorf("error: %q", out.Error)
	}
}

func TestGenerateBadInput(t *testing.T) {
	scraper := &fakeScraper{err: &types.ConfigError{Field: "category", Value: "weather", Err: types.ErrUnknownCategory}}
	srv := newTestServer(scraper)
	defer srv.Close()

	if status, _ := postGenerate(t, srv, `{not json`); status != http.StatusBadRequest {
		t.Errorf("invalid JSON: expected 400, got %d", status)
	}
	if status, out := postGenerate(t, srv, `{"source_id":"bbc","category":"weather"}`); status != http.StatusBadRequest || out.Error != "Invalid category" {
		t.Errorf("unknown category: %d %+v", status, out)
	}

	scraper.err = errors.New("boom")
	if status, _ := postGenerate(t, srv, `{"source_id":"bbc"}`); status != http.StatusInternalServerError {
		t.Errorf("unexpected error: expected 500, got %d", status)
	}
}

func TestOutletsAndCategories(t *testing.T) {
	srv := newTestServer(&fakeScraper{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/outlets")
	if err != nil {
		t.Fatal(err)
	}
	var outlets []outletView
	json.NewDecoder(resp.Body).Decode(&outlets)
	resp.Body.Close()
	if len(outlets) != len(config.DefaultOutlets()) {
		t.Errorf("expected %d outlets, got %d", len(config.DefaultOutlets()), len(outlets))
	}

	resp, err = http.Get(srv.URL + "/api/categories")
	if err != nil {
		t.Fatal(err)
	}
	var cats []string
	json.NewDecoder(resp.Body).Decode(&cats)
	resp.Body.Close()
	if len(cats) == 0 || cats[len(cats)-1] != "random" {
		t.Errorf("categories: %v", cats)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeScraper{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status %d", resp.StatusCode)
	}
}
