package types

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Request kinds used to pick per-request timeouts.
const (
	KindListing = "listing"
	KindArticle = "article"
)

// Request represents an HTTP request issued by a strategy.
type Request struct {
	// URL is the target URL to fetch.
	URL *url.URL

	// Headers are extra HTTP headers layered over the fetcher defaults.
	Headers http.Header

	// Kind is KindListing for category pages and feeds, KindArticle for
	// supplementary article-page fetches.
	Kind string

	// Timeout overrides the fetcher's timeout for this request kind.
	Timeout time.Duration

	CreatedAt time.Time
}

// NewRequest creates a listing Request for rawURL.
func NewRequest(rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	return &Request{
		URL:       u,
		Headers:   make(http.Header),
		Kind:      KindListing,
		CreatedAt: time.Now(),
	}, nil
}

// NewArticleRequest creates a Request for an individual article page.
func NewArticleRequest(rawURL string) (*Request, error) {
	req, err := NewRequest(rawURL)
	if err != nil {
		return nil, err
	}
	req.Kind = KindArticle
	return req, nil
}

// URLString returns the string representation of the request URL.
func (r *Request) URLString() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}

// Domain returns the hostname of the request URL.
func (r *Request) Domain() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Hostname()
}
