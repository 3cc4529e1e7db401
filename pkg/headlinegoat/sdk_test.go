package headlinegoat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const listing = `<html><body>
<div class="story-card">
  <h2><a href="/story/harbour">Harbour reopens after a week of storm repairs</a></h2>
  <img data-src="/img/harbour.jpg" src="data:image/gif;base64,R0lGOD">
  <p>Ferries resumed at dawn as crews cleared the last of the debris.</p>
</div>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(listing))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testOutlet(base string) Outlet {
	return config.Outlet{
		ID:         "local",
		Name:       "Local Gazette",
		BaseURL:    base,
		Categories: map[string]string{"top": base + "/"},
		Strategy:   config.StrategyConfig{Type: config.StrategyGeneric},
	}
}

func TestTopArticleAndTweet(t *testing.T) {
	srv := newTestServer(t)
	client, err := New(WithOutlets(testOutlet(srv.URL)), WithSeed(1), WithoutAI(), WithLogger(testLogger))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	a, err := client.TopArticle(ctx, "local", "")
	if err != nil {
		t.Fatalf("top article: %v", err)
	}
	if a.Headline != "Harbour reopens after a week of storm repairs" {
		t.Errorf("headline = %q", a.Headline)
	}
	if a.ImageURL != srv.URL+"/img/harbour.jpg" {
		t.Errorf("image = %q", a.ImageURL)
	}
	if a.ArticleURL != srv.URL+"/story/harbour" {
		t.Errorf("article url = %q", a.ArticleURL)
	}
	if a.Category != "top" || a.Outlet != "Local Gazette" || a.Strategy != "generic" {
		t.Errorf("unexpected metadata: %+v", a)
	}

	tweet := client.Tweet(ctx, a)
	if !strings.HasPrefix(tweet, "📰 ") || !strings.Contains(tweet, "Harbour reopens") {
		t.Errorf("tweet = %q", tweet)
	}

	if got := client.Stats()["scrapes_total"]; got != 1 {
		t.Errorf("scrapes_total = %d, want 1", got)
	}
}

func TestTopArticleUnknownOutlet(t *testing.T) {
	srv := newTestServer(t)
	client, err := New(WithOutlets(testOutlet(srv.URL)), WithoutAI(), WithLogger(testLogger))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	_, err = client.TopArticle(context.Background(), "nope", "top")
	if !errors.Is(err, ErrUnknownOutlet) {
		t.Fatalf("expected ErrUnknownOutlet, got %v", err)
	}
	_, err = client.TopArticle(context.Background(), "local", "weather")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	if _, err := New(WithTopN(0), WithLogger(testLogger)); err == nil {
		t.Fatal("expected error for top_n 0")
	}
}

func TestTweetNilArticle(t *testing.T) {
	client, err := New(WithoutAI(), WithLogger(testLogger))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	if got := client.Tweet(context.Background(), nil); got != "Breaking news! Check out the latest updates." {
		t.Errorf("tweet = %q", got)
	}
}
