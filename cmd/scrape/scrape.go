// Package scrape implements the one-shot scrape command for fetching a
// single Reddit post from the terminal.
package scrape

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/JONGYYY/storyscrape/cmd/common"
	"github.com/JONGYYY/storyscrape/internal/reddit"
)

// bodyPreviewLimit caps the story column width in the result table.
const bodyPreviewLimit = 600

// Command returns the scrape command.
func Command() *cobra.Command {
	var showFull bool

	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Fetch a single Reddit post and print the parsed story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], showFull)
		},
	}

	cmd.Flags().BoolVar(&showFull, "full", false, "print the full story body instead of a preview")

	return cmd
}

// run validates the URL, scrapes it, and renders the result.
func run(cmd *cobra.Command, url string, showFull bool) error {
	if err := reddit.ValidateURL(url); err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	deps, err := common.NewDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	result, err := deps.Scraper.Scrape(cmd.Context(), url)
	if err != nil {
		var scrapeErr *reddit.ScrapeError
		if errors.As(err, &scrapeErr) {
			deps.Logger.Error("scrape failed",
				"class", string(scrapeErr.Class),
				"attempted", scrapeErr.Attempted,
				"auth_configured", scrapeErr.AuthConfigured,
			)
		}
		return fmt.Errorf("scrape failed: %w", err)
	}

	renderResult(result, showFull)

	return nil
}

// renderResult prints the scraped post as a formatted table.
func renderResult(result *reddit.ScrapeResult, showFull bool) {
	body := result.Body
	if !showFull && len(body) > bodyPreviewLimit {
		body = body[:bodyPreviewLimit] + "..."
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 100, WidthMaxEnforcer: text.WrapSoft},
	})

	t.AppendRow(table.Row{"Title", result.Title})
	t.AppendRow(table.Row{"Subreddit", result.Subreddit})
	t.AppendRow(table.Row{"Author", result.Author})
	t.AppendRow(table.Row{"Strategy", result.Strategy})
	t.AppendRow(table.Row{"URL", result.URL})
	t.AppendRow(table.Row{"Story", body})

	t.Render()
}
