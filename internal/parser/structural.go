package parser

import (
	"log/slog"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// minAnchorHeadline is the anchor-text length an element needs when it has
// no heading tag.
const minAnchorHeadline = 20

// StructuralExtractor applies an ordered list of CSS selectors to a listing
// page and turns each match into a raw candidate.
type StructuralExtractor struct {
	name      string
	selectors []string
	resolver  *ImageResolver
	// ancestorImages lets the resolver climb to the nearest article/section/div
	// when the matched element carries no image.
	ancestorImages bool
	logger         *slog.Logger
}

// NewStructuralExtractor creates an extractor named name over selectors.
func NewStructuralExtractor(name string, selectors []string, resolver *ImageResolver, ancestorImages bool, logger *slog.Logger) *StructuralExtractor {
	if resolver == nil {
		resolver = NewImageResolver(nil)
	}
	return &StructuralExtractor{
		name:           name,
		selectors:      selectors,
		resolver:       resolver,
		ancestorImages: ancestorImages,
		logger:         logger.With("component", "structural_extractor", "extractor", name),
	}
}

// Extract implements Extractor. Candidates come out grouped by selector, in
// selector order, then document order.
func (e *StructuralExtractor) Extract(resp *types.Response) ([]*types.Candidate, error) {
	doc, err := resp.Document()
	if err != nil {
		return nil, &types.ParseError{URL: resp.BaseURL(), Strategy: e.name, Err: err}
	}
	return e.ExtractDocument(doc, resp.BaseURL()), nil
}

// ExtractDocument runs the selectors against an already parsed document.
func (e *StructuralExtractor) ExtractDocument(doc *goquery.Document, base string) []*types.Candidate {
	var out []*types.Candidate
	for _, sel := range e.selectors {
		matches := doc.Find(sel)
		if matches.Length() == 0 {
			continue
		}
		before := len(out)
		matches.Each(func(_ int, el *goquery.Selection) {
			if c := e.candidateFrom(el, base, sel); c != nil {
				out = append(out, c)
			}
		})
		e.logger.Debug("selector matched",
			"selector", sel,
			"elements", matches.Length(),
			"candidates", len(out)-before,
		)
	}
	return out
}

func (e *StructuralExtractor) candidateFrom(el *goquery.Selection, base, selector string) *types.Candidate {
	source := headlineSource(el)
	if source == nil {
		return nil
	}
	headline := NormalizeText(source.Text())
	if headline == "" {
		return nil
	}

	c := &types.Candidate{
		Headline:    headline,
		Description: NormalizeText(el.Find("p").First().Text()),
		ArticleURL:  ResolveURL(base, nearestHref(el, source)),
		Source:      selector,
	}

	c.ImageURL = e.resolver.Resolve(el, base)
	if c.ImageURL == "" && e.ancestorImages {
		c.ImageURL = e.resolver.Resolve(el.Parent().Closest("article, section, div"), base)
	}
	return c
}

// headlineSource picks the first h1/h2/h3 in el, or failing that the first
// anchor with enough text to be a headline.
func headlineSource(el *goquery.Selection) *goquery.Selection {
	if h := el.Find("h1, h2, h3").First(); h.Length() > 0 {
		return h
	}

	anchors := el.Find("a")
	if goquery.NodeName(el) == "a" {
		anchors = el.AddSelection(anchors)
	}
	var found *goquery.Selection
	anchors.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if utf8.RuneCountInString(NormalizeText(a.Text())) > minAnchorHeadline {
			found = a
			return false
		}
		return true
	})
	return found
}

// nearestHref walks from the headline source outwards looking for a link.
func nearestHref(el, source *goquery.Selection) string {
	if href, ok := source.Attr("href"); ok {
		return href
	}
	if a := source.Find("a[href]").First(); a.Length() > 0 {
		return a.AttrOr("href", "")
	}
	if a := source.Closest("a[href]"); a.Length() > 0 {
		return a.AttrOr("href", "")
	}
	if href, ok := el.Attr("href"); ok {
		return href
	}
	return el.Find("a[href]").First().AttrOr("href", "")
}

// FirstParagraph returns the first paragraph in doc with at least minLen
// characters, preferring paragraphs inside an article body.
func FirstParagraph(doc *goquery.Document, minLen int) string {
	for _, sel := range []string{"article p", "main p", "p"} {
		var text string
		doc.Find(sel).EachWithBreak(func(_ int, p *goquery.Selection) bool {
			t := NormalizeText(p.Text())
			if utf8.RuneCountInString(t) >= minLen {
				text = t
				return false
			}
			return true
		})
		if text != "" {
			return text
		}
	}
	return ""
}
