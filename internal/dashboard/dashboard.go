// Package dashboard serves the browser front end: an outlet grid, a
// per-outlet category page that calls /api/generate, and a live counter strip.
package dashboard

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
)

// StatsProvider provides counter snapshots.
type StatsProvider interface {
	Snapshot() map[string]int64
}

// Dashboard renders the HTML pages and the stats feed they poll.
type Dashboard struct {
	outlets  []config.Outlet
	provider StatsProvider
	started  time.Time
	pages    *template.Template
	logger   *slog.Logger
}

type outletCard struct {
	ID    string
	Name  string
	Color string
}

type categoryButton struct {
	Value string
	Label string
}

// New creates a dashboard over outlets. provider may be nil.
func New(outlets []config.Outlet, provider StatsProvider, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		outlets:  outlets,
		provider: provider,
		started:  time.Now(),
		pages:    template.Must(template.New("pages").Parse(pagesHTML)),
		logger:   logger.With("component", "dashboard"),
	}
}

// Register mounts the dashboard routes on mux.
func (d *Dashboard) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", d.handleHome)
	mux.HandleFunc("GET /source/{id}", d.handleSource)
	mux.HandleFunc("GET /api/stats", d.handleAPIStats)
	mux.HandleFunc("GET /manifest.json", d.handleManifest)
	mux.HandleFunc("GET /sw.js", d.handleServiceWorker)
}

// webManifest lets mobile browsers install the dashboard to the home screen.
type webManifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description"`
	StartURL        string `json:"start_url"`
	Display         string `json:"display"`
	BackgroundColor string `json:"background_color"`
	ThemeColor      string `json:"theme_color"`
}

func (d *Dashboard) handleManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/manifest+json")
	json.NewEncoder(w).Encode(webManifest{
		Name:            "HeadlineGoat",
		ShortName:       "HeadlineGoat",
		Description:     "Top stories as tweet-sized posts with images",
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#0f172a",
		ThemeColor:      "#38bdf8",
	})
}

func (d *Dashboard) handleServiceWorker(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Write([]byte(serviceWorkerJS))
}

func (d *Dashboard) handleHome(w http.ResponseWriter, r *http.Request) {
	cards := make([]outletCard, 0, len(d.outlets))
	for _, o := range d.outlets {
		cards = append(cards, outletCard{ID: o.ID, Name: o.Name, Color: colorOr(o.Color)})
	}
	d.render(w, http.StatusOK, "home", map[string]any{"Outlets": cards})
}

func (d *Dashboard) handleSource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var outlet *config.Outlet
	for i := range d.outlets {
		if d.outlets[i].ID == id {
			outlet = &d.outlets[i]
			break
		}
	}
	if outlet == nil {
		d.render(w, http.StatusNotFound, "error", map[string]any{"Message": "News source not found"})
		return
	}

	buttons := make([]categoryButton, 0, len(config.ConcreteCategories)+1)
	for _, c := range config.ConcreteCategories {
		if _, ok := outlet.Categories[string(c)]; ok {
			buttons = append(buttons, categoryButton{Value: string(c), Label: label(c)})
		}
	}
	buttons = append(buttons, categoryButton{Value: string(config.CategoryRandom), Label: "Random"})

	d.render(w, http.StatusOK, "source", map[string]any{
		"Outlet":     outletCard{ID: outlet.ID, Name: outlet.Name, Color: colorOr(outlet.Color)},
		"Categories": buttons,
	})
}

func (d *Dashboard) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    humanize.RelTime(d.started, time.Now(), "", ""),
	}
	if d.provider != nil {
		snap := d.provider.Snapshot()
		for k, v := range snap {
			stats[k] = v
		}
		stats["bytes_human"] = humanize.Bytes(uint64(snap["bytes_downloaded"]))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(stats)
}

func (d *Dashboard) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := d.pages.ExecuteTemplate(w, name, data); err != nil {
		d.logger.Error("render failed", "page", name, "error", err)
	}
}

func label(c config.Category) string {
	switch c {
	case config.CategoryTop:
		return "Top Stories"
	case config.CategoryTech:
		return "Tech"
	default:
		s := string(c)
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

func colorOr(c string) string {
	if c == "" {
		return "#334155"
	}
	return c
}
