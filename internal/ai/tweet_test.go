package ai

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
	"unicode/utf8"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/observability"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeGenerator struct {
	out    string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

func TestComposeEmptyHeadline(t *testing.T) {
	w := NewTweetWriter(&fakeGenerator{out: "unused"}, 250, 280, nil, testLogger)
	if got := w.Compose(context.Background(), "  ", "", "BBC"); got != emptyHeadlineTweet {
		t.Errorf("got %q", got)
	}
}

func TestComposeWithoutGenerator(t *testing.T) {
	m := observability.NewMetrics(testLogger)
	w := NewTweetWriter(nil, 250, 280, m, testLogger)

	got := w.Compose(context.Background(), "Markets rally after rate cut decision", "", "BBC")
	if got != "📰 Markets rally after rate cut decision" {
		t.Errorf("got %q", got)
	}
	if m.TweetFallbacks.Load() != 1 {
		t.Error("fallback not counted")
	}
}

func TestFallbackTruncates(t *testing.T) {
	w := NewTweetWriter(nil, 250, 280, nil, testLogger)
	got := w.Fallback(strings.Repeat("x", 400))
	if n := utf8.RuneCountInString(got); n > 280 {
		t.Errorf("fallback too long: %d", n)
	}
	if !strings.HasSuffix(got, "...") || !strings.HasPrefix(got, "📰 ") {
		t.Errorf("unexpected fallback shape %q", got)
	}
}

func TestTinyMaxLengthIsClamped(t *testing.T) {
	for _, max := range []int{1, 3, 5, 9} {
		w := NewTweetWriter(nil, 0, max, nil, testLogger)
		got := w.Compose(context.Background(), "A headline long enough to overflow", "", "BBC")
		if n := utf8.RuneCountInString(got); n > minTweetLength {
			t.Errorf("max %d: fallback has %d runes: %q", max, n, got)
		}
		if got := w.Enforce(strings.Repeat("word ", 10)); utf8.RuneCountInString(got) > minTweetLength {
			t.Errorf("max %d: enforce left %q", max, got)
		}
	}
}

func TestComposeStripsQuotesAndEnforcesLimit(t *testing.T) {
	long := `"` + strings.Repeat("word ", 80) + `"`
	gen := &fakeGenerator{out: long}
	m := observability.NewMetrics(testLogger)
	w := NewTweetWriter(gen, 250, 280, m, testLogger)

	got := w.Compose(context.Background(), "Markets rally after rate cut decision", "Stocks climbed.", "BBC")
	if strings.HasPrefix(got, `"`) {
		t.Error("quotes not stripped")
	}
	if n := utf8.RuneCountInString(got); n > 280 {
		t.Errorf("tweet too long: %d", n)
	}
	if !strings.HasSuffix(got, "word...") {
		t.Errorf("expected word-boundary cut, got suffix %q", got[len(got)-10:])
	}
	if !strings.Contains(gen.prompt, "Description: Stocks climbed.") || !strings.Contains(gen.prompt, "from BBC") {
		t.Errorf("prompt missing article context: %q", gen.prompt)
	}
	if m.TweetsGenerated.Load() != 1 {
		t.Error("generated tweet not counted")
	}
}

func TestComposeGeneratorError(t *testing.T) {
	w := NewTweetWriter(&fakeGenerator{err: errors.New("quota exceeded")}, 250, 280, nil, testLogger)
	got := w.Compose(context.Background(), "Markets rally after rate cut decision", "", "BBC")
	if got != "📰 Markets rally after rate cut decision" {
		t.Errorf("got %q", got)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.DefaultConfig().AI

	if _, err := NewFromConfig(&cfg, testLogger); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}

	cfg.APIKey = "pplx-abc"
	if _, err := NewFromConfig(&cfg, testLogger); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected perplexity key rejection, got %v", err)
	}

	cfg.Provider = "ollama"
	cfg.APIKey = ""
	c, err := NewFromConfig(&cfg, testLogger)
	if err != nil {
		t.Fatalf("ollama: %v", err)
	}
	if c.cfg.Endpoint != "http://localhost:11434" {
		t.Errorf("ollama default endpoint: %q", c.cfg.Endpoint)
	}
}

func TestOpenAIRequest(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&payload)
		w.Write([]byte(`{"choices":[{"message":{"content":"🔥 Big news today! What do you think?"}}]}`))
	}))
	defer srv.Close()

	c := NewLLMClient(LLMConfig{
		Provider:  ProviderOpenAI,
		Endpoint:  srv.URL,
		Model:     "gpt-4o",
		APIKey:    "sk-test",
		MaxTokens: 150,
	}, testLogger)

	out, err := c.Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "🔥 Big news today! What do you think?" {
		t.Errorf("got %q", out)
	}

	msgs, _ := payload["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("expected system and user messages, got %d", len(msgs))
	}
}

func TestOpenAIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewLLMClient(LLMConfig{Provider: ProviderOpenAI, Endpoint: srv.URL, APIKey: "k"}, testLogger)
	if _, err := c.Generate(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected error on 429")
	}
}
