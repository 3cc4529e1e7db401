package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrap(t *testing.T) {
	lines := wrap("Markets rally after rate cut decision as investors cheer the move", 20)
	if len(lines) < 3 {
		t.Fatalf("expected several lines, got %v", lines)
	}
	for _, l := range lines {
		if runewidth.StringWidth(l) > 20 {
			t.Errorf("line too wide: %q", l)
		}
	}
	if wrap("   ", 10) != nil {
		t.Error("blank input should produce no lines")
	}
}

func TestRenderCardAlignment(t *testing.T) {
	var buf bytes.Buffer
	renderCard(&buf, fetchOutput{
		Outlet:   "NDTV",
		Category: "international",
		Headline: "東京で大規模な祭りが開催され、多くの観光客が訪れた 🎉 and more words follow here",
		ImageURL: "https://cdn.x.com/photos/a.jpg",
	})

	for _, l := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if w := runewidth.StringWidth(l); w != cardWidth {
			t.Errorf("line width %d, want %d: %q", w, cardWidth, l)
		}
	}
}
