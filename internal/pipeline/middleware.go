package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/IshaanNene/HeadlineGoat/internal/parser"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// NormalizeMiddleware collapses whitespace in the text fields.
type NormalizeMiddleware struct{}

func (m *NormalizeMiddleware) Name() string { return "normalize" }

func (m *NormalizeMiddleware) Process(c *types.Candidate) (*types.Candidate, error) {
	c.Headline = parser.NormalizeText(c.Headline)
	c.Description = parser.NormalizeText(c.Description)
	c.ImageURL = strings.TrimSpace(c.ImageURL)
	c.ArticleURL = strings.TrimSpace(c.ArticleURL)
	return c, nil
}

// HeadlineWindowMiddleware drops candidates whose headline length falls
// outside [Min, Max] characters.
type HeadlineWindowMiddleware struct {
	Min int
	Max int
}

func (m *HeadlineWindowMiddleware) Name() string { return "headline_window" }

func (m *HeadlineWindowMiddleware) Process(c *types.Candidate) (*types.Candidate, error) {
	n := utf8.RuneCountInString(c.Headline)
	if n < m.Min || (m.Max > 0 && n > m.Max) {
		return nil, nil
	}
	return c, nil
}

// BoilerplateMiddleware drops navigation and subscription prompts.
type BoilerplateMiddleware struct {
	markers []string
}

func NewBoilerplateMiddleware(markers []string) *BoilerplateMiddleware {
	lowered := make([]string, 0, len(markers))
	for _, mk := range markers {
		if mk = strings.ToLower(strings.TrimSpace(mk)); mk != "" {
			lowered = append(lowered, mk)
		}
	}
	return &BoilerplateMiddleware{markers: lowered}
}

func (m *BoilerplateMiddleware) Name() string { return "boilerplate" }

func (m *BoilerplateMiddleware) Process(c *types.Candidate) (*types.Candidate, error) {
	lower := strings.ToLower(c.Headline)
	for _, mk := range m.markers {
		if strings.Contains(lower, mk) {
			return nil, nil
		}
	}
	return c, nil
}

// DescriptionMiddleware clears descriptions shorter than Min and truncates
// longer ones to Max characters. It never drops the candidate.
type DescriptionMiddleware struct {
	Min int
	Max int
}

func (m *DescriptionMiddleware) Name() string { return "description" }

func (m *DescriptionMiddleware) Process(c *types.Candidate) (*types.Candidate, error) {
	n := utf8.RuneCountInString(c.Description)
	switch {
	case n < m.Min:
		c.Description = ""
	case m.Max > 0 && n > m.Max:
		c.Description = strings.TrimSpace(string([]rune(c.Description)[:m.Max]))
	}
	return c, nil
}

// ImageFilterMiddleware clears image URLs that fail the plausibility filter.
type ImageFilterMiddleware struct {
	Filter *parser.ImageFilter
}

func (m *ImageFilterMiddleware) Name() string { return "image_filter" }

func (m *ImageFilterMiddleware) Process(c *types.Candidate) (*types.Candidate, error) {
	if c.ImageURL == "" {
		return c, nil
	}
	filter := m.Filter
	if filter == nil {
		filter = parser.NewImageFilter(nil)
	}
	if !filter.Plausible(c.ImageURL) {
		c.ImageURL = ""
	}
	return c, nil
}
