package engine

import (
	"context"
	"log/slog"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/fetcher"
	"github.com/IshaanNene/HeadlineGoat/internal/observability"
	"github.com/IshaanNene/HeadlineGoat/internal/parser"
	"github.com/IshaanNene/HeadlineGoat/internal/pipeline"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Enricher performs the supplementary fetch of an article page.
type Enricher struct {
	fetcher     fetcher.Fetcher
	filter      *parser.ImageFilter
	description *pipeline.DescriptionMiddleware
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewEnricher creates an Enricher.
func NewEnricher(f fetcher.Fetcher, cfg *config.ExtractionConfig, filter *parser.ImageFilter, m *observability.Metrics, logger *slog.Logger) *Enricher {
	return &Enricher{
		fetcher:     f,
		filter:      filter,
		description: &pipeline.DescriptionMiddleware{Min: cfg.MinDescription, Max: cfg.MaxDescription},
		metrics:     m,
		logger:      logger.With("component", "enricher"),
	}
}

// Enrich fills a missing image from the article page's og:image or
// twitter:image, and a missing description from its first paragraph or
// readable excerpt. It only fetches when the image is missing and an
// article URL is known. Failures leave the article as it was.
func (e *Enricher) Enrich(ctx context.Context, a *types.Article) {
	if a.ImageURL != "" || a.ArticleURL == "" {
		return
	}

	e.metrics.SupplementaryFetches.Add(1)
	resp, err := fetchPage(ctx, e.fetcher, e.metrics, a.ArticleURL, types.KindArticle)
	if err != nil {
		e.logger.Debug("supplementary fetch failed", "url", a.ArticleURL, "error", err)
		return
	}
	base := resp.BaseURL()

	if root, err := parser.ParseHTML(resp.Body); err == nil {
		if img := parser.MetaImage(root, base, e.filter); img != "" {
			a.ImageURL = img
			e.metrics.ImagesRecovered.Add(1)
		}
	}

	if a.Description == "" {
		a.Description = e.findDescription(resp, base)
	}

	e.logger.Debug("article enriched",
		"url", a.ArticleURL,
		"image", a.ImageURL != "",
		"description", a.Description != "",
	)
}

func (e *Enricher) findDescription(resp *types.Response, base string) string {
	var desc string
	if doc, err := resp.Document(); err == nil {
		desc = parser.FirstParagraph(doc, e.description.Min)
	}
	if desc == "" {
		desc = parser.ReadableExcerpt(resp.Body, base)
	}
	c, _ := e.description.Process(&types.Candidate{Description: desc})
	return c.Description
}
