package parser

import (
	"bytes"
	"net/url"

	"github.com/go-shiori/go-readability"
)

// ReadableExcerpt returns the readability excerpt of an article page, or ""
// when the page has no readable content.
func ReadableExcerpt(body []byte, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = nil
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return ""
	}
	if excerpt := NormalizeText(article.Excerpt); excerpt != "" {
		return excerpt
	}
	return NormalizeText(article.TextContent)
}
