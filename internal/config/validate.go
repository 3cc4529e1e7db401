package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Fetcher.ListingTimeout <= 0 {
		return fmt.Errorf("fetcher.listing_timeout must be > 0")
	}
	if cfg.Fetcher.ArticleTimeout <= 0 {
		return fmt.Errorf("fetcher.article_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	ex := cfg.Extraction
	if ex.MinHeadline < 1 || ex.MaxHeadline < ex.MinHeadline {
		return fmt.Errorf("extraction headline window [%d, %d] is invalid", ex.MinHeadline, ex.MaxHeadline)
	}
	if ex.MaxDescription < 1 {
		return fmt.Errorf("extraction.max_description must be >= 1, got %d", ex.MaxDescription)
	}
	if ex.FeedLimit < 1 {
		return fmt.Errorf("extraction.feed_limit must be >= 1, got %d", ex.FeedLimit)
	}
	if len(ex.GenericSelectors) == 0 {
		return fmt.Errorf("extraction.generic_selectors must not be empty")
	}

	if cfg.Selection.TopN < 1 {
		return fmt.Errorf("selection.top_n must be >= 1, got %d", cfg.Selection.TopN)
	}

	if cfg.AI.Enabled {
		switch cfg.AI.Provider {
		case "openai", "ollama", "custom":
		default:
			return fmt.Errorf("ai.provider must be openai/ollama/custom, got %q", cfg.AI.Provider)
		}
	}
	if cfg.AI.MaxLength < 10 {
		return fmt.Errorf("ai.max_length must be >= 10, got %d", cfg.AI.MaxLength)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if len(cfg.Outlets) == 0 {
		return fmt.Errorf("at least one outlet must be configured")
	}
	seen := make(map[string]bool, len(cfg.Outlets))
	for i, o := range cfg.Outlets {
		if o.ID == "" {
			return fmt.Errorf("outlets[%d]: id is required", i)
		}
		if seen[o.ID] {
			return fmt.Errorf("outlets[%d]: duplicate id %q", i, o.ID)
		}
		seen[o.ID] = true
		if err := ValidateURL(o.BaseURL); err != nil {
			return fmt.Errorf("outlet %q base_url: %w", o.ID, err)
		}
		for cat, raw := range o.Categories {
			if c, err := ParseCategory(cat); err != nil || c == CategoryRandom || string(c) != cat {
				return fmt.Errorf("outlet %q: unknown category %q", o.ID, cat)
			}
			if err := ValidateURL(raw); err != nil {
				return fmt.Errorf("outlet %q category %q: %w", o.ID, cat, err)
			}
		}
		for cat, raw := range o.Pages {
			if c, err := ParseCategory(cat); err != nil || c == CategoryRandom || string(c) != cat {
				return fmt.Errorf("outlet %q: unknown page category %q", o.ID, cat)
			}
			if err := ValidateURL(raw); err != nil {
				return fmt.Errorf("outlet %q page %q: %w", o.ID, cat, err)
			}
		}
		switch o.Strategy.Type {
		case "", StrategyGeneric, StrategyFeed:
		case StrategyStructural:
			if len(o.Strategy.Selectors) == 0 {
				return fmt.Errorf("outlet %q: structural strategy needs selectors", o.ID)
			}
		default:
			return fmt.Errorf("outlet %q: unknown strategy type %q", o.ID, o.Strategy.Type)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
