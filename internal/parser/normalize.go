package parser

import (
	"net/url"
	"strings"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
)

// NormalizeText collapses every whitespace run to a single space and trims
// both ends.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ResolveURL turns ref into an absolute URL against base. Protocol-relative
// refs get an https scheme and refs already starting with "http" are returned
// unchanged. An empty ref, or one that cannot be resolved, yields "".
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "http"):
		return ref
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	resolved := baseURL.ResolveReference(refURL)
	if resolved.Scheme == "" || resolved.Host == "" {
		return ""
	}
	return resolved.String()
}

// ImageFilter rejects placeholder and tracking-pixel image URLs by substring.
type ImageFilter struct {
	denylist []string
}

// NewImageFilter creates a filter. A nil denylist uses the built-in one.
func NewImageFilter(denylist []string) *ImageFilter {
	if denylist == nil {
		denylist = config.DefaultImageDenylist
	}
	lowered := make([]string, 0, len(denylist))
	for _, d := range denylist {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			lowered = append(lowered, d)
		}
	}
	return &ImageFilter{denylist: lowered}
}

// Plausible reports whether rawURL looks like real content imagery. Anything
// not matching the denylist is accepted.
func (f *ImageFilter) Plausible(rawURL string) bool {
	if rawURL == "" || strings.HasPrefix(rawURL, "data:") {
		return false
	}
	lower := strings.ToLower(rawURL)
	for _, bad := range f.denylist {
		if strings.Contains(lower, bad) {
			return false
		}
	}
	return true
}

var defaultFilter = NewImageFilter(nil)

// IsPlausibleImage applies the built-in denylist.
func IsPlausibleImage(rawURL string) bool {
	return defaultFilter.Plausible(rawURL)
}
