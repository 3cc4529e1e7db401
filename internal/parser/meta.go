package parser

import (
	"bytes"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// metaImageXPaths are tried in order; the first non-empty content wins.
var metaImageXPaths = []string{
	`//meta[@property="og:image"]`,
	`//meta[@name="og:image"]`,
	`//meta[@name="twitter:image"]`,
	`//meta[@property="twitter:image"]`,
	`//meta[@name="twitter:image:src"]`,
}

// MetaImage extracts the Open Graph image, falling back to the Twitter card
// image, from a parsed document root. The result is resolved against base
// and must pass filter.
func MetaImage(root *html.Node, base string, filter *ImageFilter) string {
	if root == nil {
		return ""
	}
	if filter == nil {
		filter = defaultFilter
	}
	for _, expr := range metaImageXPaths {
		nodes, err := htmlquery.QueryAll(root, expr)
		if err != nil {
			continue
		}
		for _, n := range nodes {
			u := ResolveURL(base, strings.TrimSpace(htmlquery.SelectAttr(n, "content")))
			if u != "" && filter.Plausible(u) {
				return u
			}
		}
	}
	return ""
}

// ParseHTML parses body into a node tree for XPath queries.
func ParseHTML(body []byte) (*html.Node, error) {
	return htmlquery.Parse(bytes.NewReader(body))
}
