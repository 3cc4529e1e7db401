package types

import "strings"

// Candidate is an unverified article record produced by one extraction pass.
type Candidate struct {
	Headline    string
	Description string
	ImageURL    string
	ArticleURL  string

	// Source names the selector or feed that produced the candidate.
	Source string
}

// HasImage reports whether the candidate carries an image URL.
func (c *Candidate) HasImage() bool {
	return c.ImageURL != ""
}

// DedupKey returns the lowercased first 50 characters of the headline.
func (c *Candidate) DedupKey() string {
	r := []rune(strings.ToLower(c.Headline))
	if len(r) > 50 {
		r = r[:50]
	}
	return string(r)
}

// Article is the finalized record handed back to callers.
type Article struct {
	Headline    string `json:"headline"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ArticleURL  string `json:"article_url,omitempty"`
}

// ArticleFromCandidate copies a candidate into a caller-facing Article.
func ArticleFromCandidate(c Candidate) Article {
	return Article{
		Headline:    c.Headline,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		ArticleURL:  c.ArticleURL,
	}
}
