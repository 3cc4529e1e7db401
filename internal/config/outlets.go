package config

import (
	"fmt"
	"strings"

	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Category identifies a news section.
type Category string

const (
	CategoryTop           Category = "top"
	CategoryPolitics      Category = "politics"
	CategorySports        Category = "sports"
	CategoryTech          Category = "tech"
	CategoryInternational Category = "international"
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryRandom        Category = "random"
)

// ConcreteCategories is the set "random" resolves over, in display order.
var ConcreteCategories = []Category{
	CategoryTop,
	CategoryPolitics,
	CategorySports,
	CategoryTech,
	CategoryInternational,
	CategoryBusiness,
	CategoryEntertainment,
}

var categoryAliases = map[string]Category{
	"general":    CategoryTop,
	"world":      CategoryInternational,
	"technology": CategoryTech,
	"nation":     CategoryPolitics,
}

// ParseCategory maps user input onto a known Category. An empty string means top.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryTop, nil
	}
	if c, ok := categoryAliases[s]; ok {
		return c, nil
	}
	c := Category(s)
	if c == CategoryRandom {
		return c, nil
	}
	for _, known := range ConcreteCategories {
		if c == known {
			return c, nil
		}
	}
	return "", &types.ConfigError{Field: "category", Value: s, Err: types.ErrUnknownCategory}
}

// Strategy types an outlet can be configured with.
const (
	StrategyFeed       = "feed"
	StrategyStructural = "structural"
	StrategyGeneric    = "generic"
)

// StrategyConfig picks the specialized extraction strategy for an outlet.
type StrategyConfig struct {
	Type      string   `mapstructure:"type"      yaml:"type"`
	Selectors []string `mapstructure:"selectors" yaml:"selectors,omitempty"`
}

// Outlet is a configured news source.
type Outlet struct {
	ID         string            `mapstructure:"id"         yaml:"id"`
	Name       string            `mapstructure:"name"       yaml:"name"`
	BaseURL    string            `mapstructure:"base_url"   yaml:"base_url"`
	Color      string            `mapstructure:"color"      yaml:"color"`
	Categories map[string]string `mapstructure:"categories" yaml:"categories"`
	// Pages holds HTML listing pages for the generic pass when Categories
	// point at feeds.
	Pages    map[string]string `mapstructure:"pages"    yaml:"pages,omitempty"`
	Strategy StrategyConfig    `mapstructure:"strategy" yaml:"strategy"`
}

// URLFor returns the page or feed URL for a concrete category. Outlets that
// do not map the category fall back to their top URL, then their base URL.
func (o *Outlet) URLFor(c Category) string {
	if u, ok := o.Categories[string(c)]; ok && u != "" {
		return u
	}
	if u, ok := o.Categories[string(CategoryTop)]; ok && u != "" {
		return u
	}
	return o.BaseURL
}

// PageURLFor returns the HTML listing page the generic pass should scrape.
// Feed outlets use Pages, falling back to the base URL; everyone else uses
// URLFor.
func (o *Outlet) PageURLFor(c Category) string {
	if u, ok := o.Pages[string(c)]; ok && u != "" {
		return u
	}
	if o.Strategy.Type != StrategyFeed {
		return o.URLFor(c)
	}
	if u, ok := o.Pages[string(CategoryTop)]; ok && u != "" {
		return u
	}
	return o.BaseURL
}

// HasSpecializedStrategy reports whether the outlet runs a feed or tuned
// structural pass before the generic one.
func (o *Outlet) HasSpecializedStrategy() bool {
	switch o.Strategy.Type {
	case StrategyFeed:
		return true
	case StrategyStructural:
		return len(o.Strategy.Selectors) > 0
	default:
		return false
	}
}

// FindOutlet looks up an outlet by id.
func (c *Config) FindOutlet(id string) (*Outlet, error) {
	for i := range c.Outlets {
		if c.Outlets[i].ID == id {
			return &c.Outlets[i], nil
		}
	}
	return nil, &types.ConfigError{Field: "outlet", Value: id, Err: types.ErrUnknownOutlet}
}

// String implements fmt.Stringer for log output.
func (o *Outlet) String() string {
	return fmt.Sprintf("%s (%s)", o.Name, o.ID)
}

// AggregateOutletID is the built-in outlet that covers every source.
const AggregateOutletID = "general"

// DefaultOutlets returns the built-in outlet catalog.
func DefaultOutlets() []Outlet {
	return []Outlet{
		{
			ID:      "bbc",
			Name:    "BBC",
			BaseURL: "https://www.bbc.com",
			Color:   "#BB1919",
			Categories: map[string]string{
				"top":           "https://feeds.bbci.co.uk/news/rss.xml",
				"politics":      "https://feeds.bbci.co.uk/news/politics/rss.xml",
				"sports":        "https://feeds.bbci.co.uk/sport/rss.xml",
				"tech":          "https://feeds.bbci.co.uk/news/technology/rss.xml",
				"international": "https://feeds.bbci.co.uk/news/world/rss.xml",
				"business":      "https://feeds.bbci.co.uk/news/business/rss.xml",
				"entertainment": "https://feeds.bbci.co.uk/news/entertainment_and_arts/rss.xml",
			},
			Pages: map[string]string{
				"top":           "https://www.bbc.com/news",
				"politics":      "https://www.bbc.com/news/politics",
				"sports":        "https://www.bbc.com/sport",
				"tech":          "https://www.bbc.com/innovation",
				"international": "https://www.bbc.com/news/world",
				"business":      "https://www.bbc.com/business",
				"entertainment": "https://www.bbc.com/culture",
			},
			Strategy: StrategyConfig{Type: StrategyFeed},
		},
		{
			ID:      "cnn",
			Name:    "CNN",
			BaseURL: "https://edition.cnn.com",
			Color:   "#CC0000",
			Categories: map[string]string{
				"top":           "https://edition.cnn.com",
				"politics":      "https://edition.cnn.com/politics",
				"sports":        "https://edition.cnn.com/sport",
				"tech":          "https://edition.cnn.com/business/tech",
				"international": "https://edition.cnn.com/world",
				"business":      "https://edition.cnn.com/business",
				"entertainment": "https://edition.cnn.com/entertainment",
			},
			Strategy: StrategyConfig{
				Type: StrategyStructural,
				Selectors: []string{
					"div.container__item",
					"div.card",
					"li.container__item",
					"article",
				},
			},
		},
		{
			ID:      "aljazeera",
			Name:    "Al Jazeera",
			BaseURL: "https://www.aljazeera.com",
			Color:   "#D2691E",
			Categories: map[string]string{
				"top":           "https://www.aljazeera.com/xml/rss/all.xml",
				"politics":      "https://www.aljazeera.com/xml/rss/all.xml",
				"sports":        "https://www.aljazeera.com/sports/rss.xml",
				"tech":          "https://www.aljazeera.com/tag/science-and-technology/rss.xml",
				"international": "https://www.aljazeera.com/xml/rss/all.xml",
				"business":      "https://www.aljazeera.com/economy/rss.xml",
			},
			Pages: map[string]string{
				"top":           "https://www.aljazeera.com/news/",
				"sports":        "https://www.aljazeera.com/sports/",
				"tech":          "https://www.aljazeera.com/tag/science-and-technology/",
				"international": "https://www.aljazeera.com/news/",
				"business":      "https://www.aljazeera.com/economy/",
			},
			Strategy: StrategyConfig{Type: StrategyFeed},
		},
		{
			ID:      "ndtv",
			Name:    "NDTV",
			BaseURL: "https://www.ndtv.com",
			Color:   "#E31E24",
			Categories: map[string]string{
				"top":           "https://www.ndtv.com/latest",
				"politics":      "https://www.ndtv.com/india",
				"sports":        "https://sports.ndtv.com",
				"tech":          "https://www.ndtv.com/science",
				"international": "https://www.ndtv.com/world-news",
				"business":      "https://www.ndtvprofit.com",
				"entertainment": "https://www.ndtv.com/entertainment",
			},
			Strategy: StrategyConfig{
				Type: StrategyStructural,
				Selectors: []string{
					"div.news_Itm",
					"li.lst-pg_li",
					"div.NwsLstPg_ttl-wrp",
					"div.crd_ttl-wrp",
				},
			},
		},
		{
			ID:      "toi",
			Name:    "Times of India",
			BaseURL: "https://timesofindia.indiatimes.com",
			Color:   "#E31837",
			Categories: map[string]string{
				"top":           "https://timesofindia.indiatimes.com/home/headlines",
				"politics":      "https://timesofindia.indiatimes.com/india",
				"sports":        "https://timesofindia.indiatimes.com/sports",
				"tech":          "https://timesofindia.indiatimes.com/technology",
				"international": "https://timesofindia.indiatimes.com/world",
				"business":      "https://timesofindia.indiatimes.com/business",
				"entertainment": "https://timesofindia.indiatimes.com/entertainment",
			},
			Strategy: StrategyConfig{Type: StrategyGeneric},
		},
		{
			ID:      "indiatoday",
			Name:    "India Today",
			BaseURL: "https://www.indiatoday.in",
			Color:   "#E31E24",
			Categories: map[string]string{
				"top":           "https://www.indiatoday.in/top-stories",
				"politics":      "https://www.indiatoday.in/india",
				"sports":        "https://www.indiatoday.in/sports",
				"tech":          "https://www.indiatoday.in/technology",
				"international": "https://www.indiatoday.in/world",
				"business":      "https://www.indiatoday.in/business",
				"entertainment": "https://www.indiatoday.in/movies",
			},
			Strategy: StrategyConfig{
				Type: StrategyStructural,
				Selectors: []string{
					"div.B1S3_story__card__A_fhi",
					"div.story__grid article",
					"div.catagory-listing",
				},
			},
		},
		{
			ID:      AggregateOutletID,
			Name:    "All Sources",
			BaseURL: "https://news.google.com",
			Color:   "#1E3A8A",
			Categories: map[string]string{
				"top":           "https://news.google.com/rss?hl=en-US&gl=US&ceid=US:en",
				"politics":      "https://news.google.com/rss/headlines/section/topic/NATION?hl=en-US&gl=US&ceid=US:en",
				"sports":        "https://news.google.com/rss/headlines/section/topic/SPORTS?hl=en-US&gl=US&ceid=US:en",
				"tech":          "https://news.google.com/rss/headlines/section/topic/TECHNOLOGY?hl=en-US&gl=US&ceid=US:en",
				"international": "https://news.google.com/rss/headlines/section/topic/WORLD?hl=en-US&gl=US&ceid=US:en",
				"business":      "https://news.google.com/rss/headlines/section/topic/BUSINESS?hl=en-US&gl=US&ceid=US:en",
				"entertainment": "https://news.google.com/rss/headlines/section/topic/ENTERTAINMENT?hl=en-US&gl=US&ceid=US:en",
			},
			Strategy: StrategyConfig{Type: StrategyFeed},
		},
	}
}
