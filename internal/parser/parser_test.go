package parser

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func makeResponse(t *testing.T, url, body string) *types.Response {
	t.Helper()
	req, err := types.NewRequest(url)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return &types.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(body),
		Request:    req,
		FinalURL:   url,
	}
}

func selection(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc.Find("body")
}

func TestNormalizeText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Hello   World  ", "Hello World"},
		{"line\none\ttab", "line one tab"},
		{"   \n\t ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeText(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := NormalizeText(got); again != got {
			t.Errorf("NormalizeText not idempotent for %q: %q vs %q", tt.in, got, again)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct{ base, ref, want string }{
		{"https://site.com/news", "//cdn.x.com/a.png", "https://cdn.x.com/a.png"},
		{"https://site.com/news", "http://y.com/b", "http://y.com/b"},
		{"https://site.com/news", "/img/a.png", "https://site.com/img/a.png"},
		{"https://site.com/news/", "story.html", "https://site.com/news/story.html"},
		{"https://site.com/news", "", ""},
		{"https://site.com/news", "   ", ""},
	}
	for _, tt := range tests {
		if got := ResolveURL(tt.base, tt.ref); got != tt.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}

func TestIsPlausibleImage(t *testing.T) {
	rejected := []string{
		"https://site.com/static/logo.png",
		"https://site.com/img/placeholder.jpg",
		"https://track.site.com/1x1.gif",
		"https://site.com/user/avatar/42.png",
		"",
	}
	for _, u := range rejected {
		if IsPlausibleImage(u) {
			t.Errorf("expected %q to be rejected", u)
		}
	}

	accepted := []string{
		"https://cdn.site.com/photos/2024/story123.jpg",
		"https://cdn.site.com/a/b/c",
	}
	for _, u := range accepted {
		if !IsPlausibleImage(u) {
			t.Errorf("expected %q to be accepted", u)
		}
	}
}

func TestFirstSrcsetURL(t *testing.T) {
	got := FirstSrcsetURL("/a-320.jpg 320w, /a-640.jpg 640w")
	if got != "/a-320.jpg" {
		t.Errorf("got %q", got)
	}
	if FirstSrcsetURL("  ") != "" {
		t.Error("expected empty for blank srcset")
	}
}

func TestImageResolverStrategies(t *testing.T) {
	r := NewImageResolver(nil)
	base := "https://site.com/news"

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "img src",
			html: `<div><img src="/photos/a.jpg"></div>`,
			want: "https://site.com/photos/a.jpg",
		},
		{
			name: "lazy data-src skips placeholder src",
			html: `<div><img src="/img/placeholder.gif" data-src="//cdn.site.com/photos/b.jpg"></div>`,
			want: "https://cdn.site.com/photos/b.jpg",
		},
		{
			name: "srcset first entry",
			html: `<div><img srcset="/photos/c-320.jpg 320w, /photos/c-640.jpg 640w"></div>`,
			want: "https://site.com/photos/c-320.jpg",
		},
		{
			name: "picture source",
			html: `<div><picture><source srcset="/photos/d.webp 1x, /photos/d2.webp 2x"></picture></div>`,
			want: "https://site.com/photos/d.webp",
		},
		{
			name: "inline background",
			html: `<div><figure style="background-image: url('/photos/e.jpg')"></figure></div>`,
			want: "https://site.com/photos/e.jpg",
		},
		{
			name: "data-background attribute",
			html: `<div><span data-background="/photos/f.jpg"></span></div>`,
			want: "https://site.com/photos/f.jpg",
		},
		{
			name: "only logos",
			html: `<div><img src="/logo.png"><div style="background:url(/icons/x.svg)"></div></div>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(selection(t, tt.html), base); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMetaImage(t *testing.T) {
	body := `<html><head>
<meta name="twitter:image" content="/photos/tw.jpg">
<meta property="og:image" content="/photos/og.jpg">
</head><body></body></html>`
	root, err := ParseHTML([]byte(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := MetaImage(root, "https://site.com/a/story", nil); got != "https://site.com/photos/og.jpg" {
		t.Errorf("expected og:image first, got %q", got)
	}

	root, _ = ParseHTML([]byte(`<html><head><meta name="twitter:image" content="https://cdn.x.com/t.jpg"></head></html>`))
	if got := MetaImage(root, "https://site.com", nil); got != "https://cdn.x.com/t.jpg" {
		t.Errorf("expected twitter:image fallback, got %q", got)
	}

	root, _ = ParseHTML([]byte(`<html><head><title>x</title></head></html>`))
	if got := MetaImage(root, "https://site.com", nil); got != "" {
		t.Errorf("expected no image, got %q", got)
	}
}

func TestStructuralExtractor(t *testing.T) {
	page := `<html><body>
<div class="card">
  <a href="/world/story-one"><h3>Leaders meet for emergency climate summit</h3></a>
  <p>Delegates arrived from forty countries.</p>
  <img src="/photos/one.jpg">
</div>
<div class="card">
  <a href="https://other.com/two">Second story headline is long enough to count</a>
</div>
<div class="card"><a href="/short">Short</a></div>
</body></html>`

	e := NewStructuralExtractor("test", []string{"div.card"}, nil, false, testLogger)
	cands, err := e.Extract(makeResponse(t, "https://site.com/news", page))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}

	first := cands[0]
	if first.Headline != "Leaders meet for emergency climate summit" {
		t.Errorf("headline: %q", first.Headline)
	}
	if first.ArticleURL != "https://site.com/world/story-one" {
		t.Errorf("article url: %q", first.ArticleURL)
	}
	if first.ImageURL != "https://site.com/photos/one.jpg" {
		t.Errorf("image: %q", first.ImageURL)
	}
	if first.Description != "Delegates arrived from forty countries." {
		t.Errorf("description: %q", first.Description)
	}

	if cands[1].ArticleURL != "https://other.com/two" {
		t.Errorf("anchor headline url: %q", cands[1].ArticleURL)
	}
}

func TestStructuralExtractorAncestorImage(t *testing.T) {
	page := `<html><body><section>
<img src="/photos/lead.jpg">
<div class="item"><h2><a href="/lead">The lead story headline of the afternoon</a></h2></div>
</section></body></html>`

	withoutAncestor := NewStructuralExtractor("tuned", []string{"div.item"}, nil, false, testLogger)
	cands, _ := withoutAncestor.Extract(makeResponse(t, "https://site.com", page))
	if len(cands) != 1 || cands[0].ImageURL != "" {
		t.Fatalf("tuned pass should not climb to ancestors: %+v", cands)
	}

	generic := NewStructuralExtractor("generic", []string{"div.item"}, nil, true, testLogger)
	cands, _ = generic.Extract(makeResponse(t, "https://site.com", page))
	if len(cands) != 1 || cands[0].ImageURL != "https://site.com/photos/lead.jpg" {
		t.Fatalf("generic pass should use ancestor image: %+v", cands)
	}
}

func TestFeedExtractor(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
<title>Test</title>
<link>https://news.example.com/</link>
<item>
  <title>Parliament passes the long-awaited budget bill</title>
  <description><![CDATA[<p>The vote was <b>close</b>.</p>]]></description>
  <link>https://news.example.com/budget</link>
  <media:thumbnail url="https://ichef.example.com/photos/budget.jpg" width="240" height="135"/>
</item>
<item>
  <title>Storm warnings issued across the northern coast</title>
  <link>/storm</link>
  <enclosure url="https://cdn.example.com/photos/storm.jpg" type="image/jpeg" length="0"/>
</item>
<item>
  <title>Third item</title>
  <link>https://news.example.com/third</link>
</item>
</channel>
</rss>`

	e := NewFeedExtractor(2, nil, testLogger)
	cands, err := e.Extract(makeResponse(t, "https://feeds.example.com/rss.xml", feed))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(cands))
	}
	if cands[0].Description != "The vote was close." {
		t.Errorf("description: %q", cands[0].Description)
	}
	if cands[0].ImageURL != "https://ichef.example.com/photos/budget.jpg" {
		t.Errorf("media thumbnail: %q", cands[0].ImageURL)
	}
	if cands[1].ImageURL != "https://cdn.example.com/photos/storm.jpg" {
		t.Errorf("enclosure: %q", cands[1].ImageURL)
	}
	if cands[1].ArticleURL != "https://news.example.com/storm" {
		t.Errorf("relative link: %q", cands[1].ArticleURL)
	}
}

func TestFeedExtractorMalformed(t *testing.T) {
	e := NewFeedExtractor(15, nil, testLogger)
	_, err := e.Extract(makeResponse(t, "https://feeds.example.com/rss.xml", "not a feed"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if _, ok := err.(*types.ParseError); !ok {
		t.Errorf("expected *types.ParseError, got %T", err)
	}
}

func TestFirstParagraph(t *testing.T) {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><p>Ad</p><article><p>Hi</p><p>The first real paragraph of the story.</p></article></body></html>`))
	if got := FirstParagraph(doc, 10); got != "The first real paragraph of the story." {
		t.Errorf("got %q", got)
	}
}
