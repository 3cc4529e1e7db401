package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// imgAttrs are scanned in order on each <img>.
var imgAttrs = []string{
	"src",
	"data-src",
	"data-original",
	"data-lazy-src",
	"data-srcset",
	"srcset",
	"data-image",
	"data-bg",
	"data-lazyload",
}

var bgAttrs = []string{"data-bg", "data-background", "data-image"}

var cssURLPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

// ImageResolver finds a representative image inside a candidate's container.
type ImageResolver struct {
	filter *ImageFilter
}

// NewImageResolver creates a resolver backed by filter.
func NewImageResolver(filter *ImageFilter) *ImageResolver {
	if filter == nil {
		filter = defaultFilter
	}
	return &ImageResolver{filter: filter}
}

// Resolve returns the first plausible absolute image URL found in sel, trying
// <img> attributes, then <picture><source srcset>, then inline CSS
// backgrounds. It returns "" when nothing qualifies.
func (r *ImageResolver) Resolve(sel *goquery.Selection, base string) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	if u := r.fromImg(sel, base); u != "" {
		return u
	}
	if u := r.fromPicture(sel, base); u != "" {
		return u
	}
	return r.fromBackground(sel, base)
}

func (r *ImageResolver) fromImg(sel *goquery.Selection, base string) string {
	var found string
	sel.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		for _, attr := range imgAttrs {
			val, ok := img.Attr(attr)
			if !ok {
				continue
			}
			if strings.Contains(attr, "srcset") {
				val = FirstSrcsetURL(val)
			}
			if u := r.accept(base, val); u != "" {
				found = u
				return false
			}
		}
		return true
	})
	return found
}

func (r *ImageResolver) fromPicture(sel *goquery.Selection, base string) string {
	var found string
	sel.Find("picture source[srcset]").EachWithBreak(func(_ int, src *goquery.Selection) bool {
		found = r.accept(base, FirstSrcsetURL(src.AttrOr("srcset", "")))
		return found == ""
	})
	return found
}

func (r *ImageResolver) fromBackground(sel *goquery.Selection, base string) string {
	var found string
	sel.Find("div, figure, span, a").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if style, ok := el.Attr("style"); ok && strings.Contains(style, "background") {
			if m := cssURLPattern.FindStringSubmatch(style); m != nil {
				if found = r.accept(base, m[1]); found != "" {
					return false
				}
			}
		}
		for _, attr := range bgAttrs {
			if val, ok := el.Attr(attr); ok {
				if found = r.accept(base, val); found != "" {
					return false
				}
			}
		}
		return true
	})
	return found
}

func (r *ImageResolver) accept(base, raw string) string {
	u := ResolveURL(base, raw)
	if u == "" || !r.filter.Plausible(u) {
		return ""
	}
	return u
}

// FirstSrcsetURL returns the URL token of the first srcset entry, dropping
// its width or density descriptor.
func FirstSrcsetURL(srcset string) string {
	first, _, _ := strings.Cut(srcset, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
