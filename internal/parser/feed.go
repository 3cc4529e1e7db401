package parser

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// FeedExtractor turns RSS/Atom/JSON feed items into raw candidates.
type FeedExtractor struct {
	limit  int
	filter *ImageFilter
	logger *slog.Logger
}

// NewFeedExtractor creates a feed extractor that keeps at most limit items.
func NewFeedExtractor(limit int, filter *ImageFilter, logger *slog.Logger) *FeedExtractor {
	if filter == nil {
		filter = defaultFilter
	}
	return &FeedExtractor{
		limit:  limit,
		filter: filter,
		logger: logger.With("component", "feed_extractor"),
	}
}

// Extract implements Extractor.
func (e *FeedExtractor) Extract(resp *types.Response) ([]*types.Candidate, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &types.ParseError{URL: resp.BaseURL(), Strategy: "feed", Err: err}
	}

	items := feed.Items
	if e.limit > 0 && len(items) > e.limit {
		items = items[:e.limit]
	}

	base := resp.BaseURL()
	if feed.Link != "" {
		base = ResolveURL(base, feed.Link)
	}

	out := make([]*types.Candidate, 0, len(items))
	for _, item := range items {
		headline := NormalizeText(item.Title)
		if headline == "" {
			continue
		}
		out = append(out, &types.Candidate{
			Headline:    headline,
			Description: StripHTML(item.Description),
			ImageURL:    e.itemImage(item, base),
			ArticleURL:  ResolveURL(base, item.Link),
			Source:      "feed",
		})
	}

	e.logger.Debug("feed parsed",
		"title", feed.Title,
		"type", feed.FeedType,
		"items", len(feed.Items),
		"candidates", len(out),
	)
	return out, nil
}

// itemImage checks media:thumbnail, media:content, the item image, then
// image enclosures.
func (e *FeedExtractor) itemImage(item *gofeed.Item, base string) string {
	var raw []string
	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"thumbnail", "content"} {
			for _, ext := range media[key] {
				raw = append(raw, ext.Attrs["url"])
			}
		}
		for _, group := range media["group"] {
			for _, key := range []string{"thumbnail", "content"} {
				for _, ext := range group.Children[key] {
					raw = append(raw, ext.Attrs["url"])
				}
			}
		}
	}
	if item.Image != nil {
		raw = append(raw, item.Image.URL)
	}
	for _, enc := range item.Enclosures {
		if enc.Type == "" || strings.HasPrefix(enc.Type, "image/") {
			raw = append(raw, enc.URL)
		}
	}

	for _, r := range raw {
		if u := ResolveURL(base, r); u != "" && e.filter.Plausible(u) {
			return u
		}
	}
	return ""
}

// StripHTML reduces an HTML fragment to normalized text.
func StripHTML(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return NormalizeText(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return NormalizeText(fragment)
	}
	return NormalizeText(doc.Text())
}
