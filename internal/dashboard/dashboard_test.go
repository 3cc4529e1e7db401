package dashboard

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeStats map[string]int64

func (f fakeStats) Snapshot() map[string]int64 { return f }

func newTestServer(t *testing.T, provider StatsProvider) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	New(config.DefaultOutlets(), provider, testLogger).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestHomeListsOutlets(t *testing.T) {
	srv := newTestServer(t, nil)
	status, body := get(t, srv.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	for _, o := range config.DefaultOutlets() {
		if !strings.Contains(body, `href="/source/`+o.ID+`"`) {
			t.Errorf("home page missing link for %s", o.ID)
		}
	}
}

func TestSourcePage(t *testing.T) {
	srv := newTestServer(t, nil)
	status, body := get(t, srv.URL+"/source/aljazeera")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, `data-category="sports"`) || !strings.Contains(body, `data-category="random"`) {
		t.Error("source page missing category buttons")
	}
	// Al Jazeera has no entertainment section.
	if strings.Contains(body, `data-category="entertainment"`) {
		t.Error("unmapped category should not get a button")
	}
	if !strings.Contains(body, `const sourceID = "aljazeera"`) {
		t.Error("source id not embedded as a JS string")
	}
}

func TestSourcePageUnknown(t *testing.T) {
	srv := newTestServer(t, nil)
	status, body := get(t, srv.URL+"/source/nowhere")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if !strings.Contains(body, "News source not found") {
		t.Error("missing not-found message")
	}
}

func TestAPIStats(t *testing.T) {
	srv := newTestServer(t, fakeStats{"scrapes_total": 3, "bytes_downloaded": 2048})
	status, body := get(t, srv.URL+"/api/stats")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	var stats map[string]any
	if err := json.Unmarshal([]byte(body), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats["scrapes_total"] != float64(3) {
		t.Errorf("scrapes_total = %v", stats["scrapes_total"])
	}
	if stats["bytes_human"] != "2.0 kB" {
		t.Errorf("bytes_human = %v", stats["bytes_human"])
	}
	if _, ok := stats["uptime"]; !ok {
		t.Error("missing uptime")
	}
}

func TestLabel(t *testing.T) {
	cases := map[config.Category]string{
		config.CategoryTop:           "Top Stories",
		config.CategoryTech:          "Tech",
		config.CategoryInternational: "International",
	}
	for c, want := range cases {
		if got := label(c); got != want {
			t.Errorf("label(%s) = %q, want %q", c, got, want)
		}
	}
}

func TestManifestAndServiceWorker(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := get(t, srv.URL+"/manifest.json")
	if status != http.StatusOK {
		t.Fatalf("manifest status = %d", status)
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m["start_url"] != "/" || m["display"] != "standalone" {
		t.Errorf("unexpected manifest: %v", m)
	}

	resp, err := http.Get(srv.URL + "/sw.js")
	if err != nil {
		t.Fatalf("GET sw.js: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/javascript" {
		t.Errorf("sw.js content type = %q", ct)
	}

	_, home := get(t, srv.URL+"/")
	if !strings.Contains(home, `rel="manifest"`) || !strings.Contains(home, "serviceWorker.register") {
		t.Error("pages should link the manifest and register the service worker")
	}
}
