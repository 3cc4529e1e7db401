package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNoCandidates    = errors.New("could not fetch article")
	ErrUnknownOutlet   = errors.New("unknown outlet")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyResponse   = errors.New("empty response body")
	ErrInvalidURL      = errors.New("invalid URL")
)

// FetchErrorKind categorizes why a fetch failed.
type FetchErrorKind string

const (
	// FetchNetwork covers timeouts, refused connections and transport failures.
	FetchNetwork FetchErrorKind = "network"
	// FetchHTTPStatus is a response outside the 2xx range.
	FetchHTTPStatus FetchErrorKind = "http_status"
)

// FetchError wraps errors that occur during fetching.
type FetchError struct {
	URL        string
	Kind       FetchErrorKind
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPStatus {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur while turning a document into candidates.
type ParseError struct {
	URL      string
	Strategy string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (strategy=%s): %v", e.URL, e.Strategy, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError reports a request that references configuration which does not exist.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s=%q): %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NoArticleError is returned when every strategy for an outlet came up empty.
// Reasons holds the per-strategy failure causes in the order they were tried.
type NoArticleError struct {
	Outlet   string
	Category string
	Reasons  []error
}

func (e *NoArticleError) Error() string {
	return fmt.Sprintf("no article for outlet %q category %q after %d strategies", e.Outlet, e.Category, len(e.Reasons))
}

func (e *NoArticleError) Unwrap() error { return ErrNoCandidates }

// PipelineError wraps a middleware failure while processing a candidate.
type PipelineError struct {
	Stage    string
	Headline string
	Err      error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %s for %q: %v", e.Stage, e.Headline, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
