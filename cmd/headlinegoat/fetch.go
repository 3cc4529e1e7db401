package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/engine"
	"github.com/IshaanNene/HeadlineGoat/internal/observability"
)

const cardWidth = 72

var (
	withTweet  bool
	jsonOutput bool
	seed       int64
)

// fetchCmd creates the "fetch" subcommand.
func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <outlet> [category]",
		Short: "Fetch the top article for an outlet and category",
		Long: `Fetch the top article for an outlet. Category defaults to "top"; "random"
picks one of the concrete categories.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runFetch,
	}
	cmd.Flags().BoolVarP(&withTweet, "tweet", "t", false, "also write the post text")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for category and candidate choice (0 = clock)")
	return cmd
}

type fetchOutput struct {
	Outlet      string `json:"outlet"`
	Category    string `json:"category"`
	Strategy    string `json:"strategy"`
	Headline    string `json:"headline"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ArticleURL  string `json:"article_url,omitempty"`
	Tweet       string `json:"tweet,omitempty"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Selection.Seed = seed
	}
	logger := setupLogger(cfg)

	category := ""
	if len(args) > 1 {
		category = args[1]
	}

	metrics := observability.NewMetrics(logger)
	orch, err := engine.New(cfg, logger, engine.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("create orchestrator: %w", err)
	}
	defer orch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := orch.Scrape(ctx, args[0], category)
	if err != nil {
		return err
	}

	out := fetchOutput{
		Outlet:      res.Outlet.Name,
		Category:    string(res.Category),
		Strategy:    res.Strategy,
		Headline:    res.Article.Headline,
		Description: res.Article.Description,
		ImageURL:    res.Article.ImageURL,
		ArticleURL:  res.Article.ArticleURL,
	}
	if withTweet {
		out.Tweet = newTweetWriter(cfg, metrics, logger).Compose(ctx, out.Headline, out.Description, out.Outlet)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	renderCard(w, out)
	fmt.Fprintf(w, "   %s in %s, %s downloaded\n",
		res.Strategy,
		res.Duration.Round(time.Millisecond),
		humanize.Bytes(uint64(metrics.BytesDownloaded.Load())),
	)
	return nil
}

// outletsCmd creates the "outlets" subcommand.
func outletsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outlets",
		Short: "List configured outlets and their strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, o := range cfg.Outlets {
				strategy := o.Strategy.Type
				if strategy == "" {
					strategy = config.StrategyGeneric
				}
				var cats []string
				for _, c := range config.ConcreteCategories {
					if _, ok := o.Categories[string(c)]; ok {
						cats = append(cats, string(c))
					}
				}
				fmt.Fprintf(w, "%s %s %s %s\n",
					runewidth.FillRight(o.ID, 12),
					runewidth.FillRight(runewidth.Truncate(o.Name, 18, "…"), 18),
					runewidth.FillRight(strategy, 11),
					strings.Join(cats, ","),
				)
			}
			return nil
		},
	}
}

// renderCard draws a boxed summary of the article, wrapping on display
// width so CJK text and emoji line up.
func renderCard(w io.Writer, out fetchOutput) {
	inner := cardWidth - 4
	line := strings.Repeat("─", cardWidth-2)

	fmt.Fprintf(w, "┌%s┐\n", line)
	row := func(s string) {
		fmt.Fprintf(w, "│ %s │\n", runewidth.FillRight(s, inner))
	}

	row(fmt.Sprintf("%s · %s", out.Outlet, out.Category))
	fmt.Fprintf(w, "├%s┤\n", line)
	for _, l := range wrap(out.Headline, inner) {
		row(l)
	}
	if out.Description != "" {
		row("")
		for _, l := range wrap(out.Description, inner) {
			row(l)
		}
	}
	if out.Tweet != "" {
		fmt.Fprintf(w, "├%s┤\n", line)
		for _, l := range wrap(out.Tweet, inner) {
			row(l)
		}
	}
	fmt.Fprintf(w, "├%s┤\n", line)
	row("img  " + runewidth.Truncate(orDash(out.ImageURL), inner-5, "…"))
	row("url  " + runewidth.Truncate(orDash(out.ArticleURL), inner-5, "…"))
	fmt.Fprintf(w, "└%s┘\n", line)
}

// wrap breaks s into lines no wider than width display cells.
func wrap(s string, width int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		if runewidth.StringWidth(word) > width {
			word = runewidth.Truncate(word, width, "…")
		}
		switch {
		case cur == "":
			cur = word
		case runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
