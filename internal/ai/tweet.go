package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/IshaanNene/HeadlineGoat/internal/observability"
)

// minTweetLength leaves room for the fallback marker and ellipsis.
const minTweetLength = 10

// emptyHeadlineTweet is posted when there is no headline to work with.
const emptyHeadlineTweet = "Breaking news! Check out the latest updates."

const systemPromptTemplate = "You are an expert X (Twitter) content creator who rewrites news into viral, " +
	"high-engagement posts. Your tweets MUST be between %d-%d characters. Use emotional hooks, " +
	"conversational tone, relevant emojis, and end with engaging questions. Never hallucinate facts; " +
	"use only what's in the scraped content."

const userPromptTemplate = `Rewrite the scraped news into a high-engagement X (Twitter) post following these rules:

1. Length must be %d-%d characters.
2. Begin with a relevant emotional hook connected to the actual news topic.
3. Use 1-3 emojis that fit the news context.
4. Summarize the news using only facts present in the scraped text.
5. Keep the tone conversational and impactful.
6. End with a short question that encourages replies.
7. Include scraped hashtags if present; do not invent new ones.
8. Do not add any unrelated information, assumptions, fake drama, opinions, or extra facts.
9. Output only the rewritten post, no explanations.
10. Do NOT wrap the output in quotation marks.

Now rewrite this news from %s:
%s

Generate ONLY the tweet text:`

// TweetWriter turns an article into a length-bounded post.
type TweetWriter struct {
	gen       Generator
	maxLength int
	minLength int
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewTweetWriter creates a writer. A nil generator always uses the local
// fallback.
func NewTweetWriter(gen Generator, minLength, maxLength int, metrics *observability.Metrics, logger *slog.Logger) *TweetWriter {
	if maxLength <= 0 {
		maxLength = 280
	}
	if maxLength < minTweetLength {
		maxLength = minTweetLength
	}
	if minLength <= 0 || minLength > maxLength {
		minLength = maxLength
	}
	return &TweetWriter{
		gen:       gen,
		maxLength: maxLength,
		minLength: minLength,
		metrics:   metrics,
		logger:    logger.With("component", "tweet_writer"),
	}
}

// Compose writes a post for the article. It makes a single model call and
// falls back to the headline on any failure; it never returns an empty
// string.
func (w *TweetWriter) Compose(ctx context.Context, headline, description, source string) string {
	headline = strings.TrimSpace(headline)
	if headline == "" {
		return emptyHeadlineTweet
	}
	if w.gen == nil {
		w.countFallback()
		return w.Fallback(headline)
	}

	content := "Headline: " + headline
	if description != "" {
		content += "\n\nDescription: " + description
	}
	system := fmt.Sprintf(systemPromptTemplate, w.minLength, w.maxLength)
	prompt := fmt.Sprintf(userPromptTemplate, w.minLength, w.maxLength, source, content)

	out, err := w.gen.Generate(ctx, system, prompt)
	if err != nil {
		w.logger.Warn("tweet generation failed, using fallback", "source", source, "error", err)
		w.countFallback()
		return w.Fallback(headline)
	}

	tweet := strings.Trim(strings.TrimSpace(out), `"'`)
	if tweet == "" {
		w.countFallback()
		return w.Fallback(headline)
	}
	if w.metrics != nil {
		w.metrics.TweetsGenerated.Add(1)
	}
	return w.Enforce(tweet)
}

// Enforce cuts tweet to the length limit on a word boundary, marking the cut
// with an ellipsis.
func (w *TweetWriter) Enforce(tweet string) string {
	if utf8.RuneCountInString(tweet) <= w.maxLength {
		return tweet
	}
	cut := string([]rune(tweet)[:w.maxLength-3])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// Fallback builds the local post used when the model is unavailable.
func (w *TweetWriter) Fallback(headline string) string {
	tweet := "📰 " + headline
	if utf8.RuneCountInString(tweet) <= w.maxLength {
		return tweet
	}
	r := []rune(headline)
	return "📰 " + string(r[:w.maxLength-6]) + "..."
}

func (w *TweetWriter) countFallback() {
	if w.metrics != nil {
		w.metrics.TweetFallbacks.Add(1)
	}
}
