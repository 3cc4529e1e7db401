// Package api exposes article scraping and tweet generation over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/dashboard"
	"github.com/IshaanNene/HeadlineGoat/internal/engine"
	"github.com/IshaanNene/HeadlineGoat/internal/observability"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Scraper is the interface the API uses to fetch articles.
type Scraper interface {
	Scrape(ctx context.Context, outletID, category string) (*engine.Result, error)
}

// Composer writes the post text for an article.
type Composer interface {
	Compose(ctx context.Context, headline, description, source string) string
}

// Server provides the REST API.
type Server struct {
	cfg     *config.Config
	mux     *http.ServeMux
	scraper Scraper
	tweets  Composer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	SourceID string `json:"source_id"`
	Category string `json:"category"`
}

// GenerateResponse is the body returned by POST /api/generate.
type GenerateResponse struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	TweetText   string `json:"tweet_text,omitempty"`
	ImageURL    string `json:"image_url"`
	Headline    string `json:"headline,omitempty"`
	Description string `json:"description,omitempty"`
	ArticleURL  string `json:"article_url,omitempty"`
	SourceName  string `json:"source_name,omitempty"`
	Category    string `json:"category,omitempty"`
}

type outletView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	Color      string   `json:"color"`
	Categories []string `json:"categories"`
}

// NewServer creates a new API server. metrics may be nil to disable the
// metrics endpoint.
func NewServer(cfg *config.Config, scraper Scraper, tweets Composer, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		scraper: scraper,
		tweets:  tweets,
		metrics: metrics,
		logger:  logger.With("component", "api_server"),
	}

	s.registerRoutes()
	return s
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("API server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/outlets", s.handleOutlets)
	s.mux.HandleFunc("GET /api/categories", s.handleCategories)
	s.mux.HandleFunc("POST /api/generate", s.handleGenerate)

	if s.metrics != nil && s.cfg.Metrics.Enabled {
		s.mux.Handle("GET "+s.cfg.Metrics.Path, s.metrics)
	}

	var stats dashboard.StatsProvider
	if s.metrics != nil {
		stats = s.metrics
	}
	dashboard.New(s.cfg.Outlets, stats, s.logger).Register(s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

func (s *Server) handleOutlets(w http.ResponseWriter, r *http.Request) {
	views := make([]outletView, 0, len(s.cfg.Outlets))
	for _, o := range s.cfg.Outlets {
		v := outletView{ID: o.ID, Name: o.Name, URL: o.BaseURL, Color: o.Color}
		for _, c := range config.ConcreteCategories {
			if _, ok := o.Categories[string(c)]; ok {
				v.Categories = append(v.Categories, string(c))
			}
		}
		views = append(views, v)
	}
	s.jsonResponse(w, http.StatusOK, views)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := make([]string, 0, len(config.ConcreteCategories)+1)
	for _, c := range config.ConcreteCategories {
		cats = append(cats, string(c))
	}
	cats = append(cats, string(config.CategoryRandom))
	s.jsonResponse(w, http.StatusOK, cats)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, GenerateResponse{Error: "invalid JSON"})
		return
	}

	outlet, err := s.cfg.FindOutlet(body.SourceID)
	if err != nil {
		s.jsonResponse(w, http.StatusBadRequest, GenerateResponse{Error: "Invalid news source"})
		return
	}

	res, err := s.scraper.Scrape(r.Context(), outlet.ID, body.Category)
	switch {
	case err == nil:
	case errors.Is(err, types.ErrUnknownCategory):
		s.jsonResponse(w, http.StatusBadRequest, GenerateResponse{Error: "Invalid category"})
		return
	case errors.Is(err, types.ErrNoCandidates):
		s.jsonResponse(w, http.StatusBadGateway, GenerateResponse{
			Error: fmt.Sprintf("Could not fetch article from %s. Please try again.", outlet.Name),
		})
		return
	default:
		s.logger.Error("generate failed", "outlet", outlet.ID, "error", err)
		s.jsonResponse(w, http.StatusInternalServerError, GenerateResponse{Error: "An error occurred: " + err.Error()})
		return
	}

	a := res.Article
	s.jsonResponse(w, http.StatusOK, GenerateResponse{
		Success:     true,
		TweetText:   s.tweets.Compose(r.Context(), a.Headline, a.Description, outlet.Name),
		ImageURL:    a.ImageURL,
		Headline:    a.Headline,
		Description: a.Description,
		ArticleURL:  a.ArticleURL,
		SourceName:  outlet.Name,
		Category:    string(res.Category),
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
