package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/search"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the research archive",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "query",
				Usage: "Search query (defaults to the first argument)",
			},
			&cli.StringSliceFlag{
				Name:  "type",
				Usage: "Only include these research types (pr1, pr2, capstone, respro). Can be used multiple times",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page to show",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page (0 uses the configured page size)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Also list records that do not match the query",
			},
			&cli.BoolFlag{
				Name:  "no-pager",
				Usage: "Disable pager and output directly to terminal",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := c.String("query")
			if query == "" {
				query = strings.Join(c.Args().Slice(), " ")
			}
			types, err := parseTypes(c.StringSlice("type"))
			if err != nil {
				return err
			}
			opts := searchOptions{
				query:   query,
				types:   types,
				page:    c.Int("page"),
				limit:   c.Int("limit"),
				all:     c.Bool("all"),
				noPager: c.Bool("no-pager"),
			}
			return searchArchives(ctx, c.String("config"), opts)
		},
	}
}

type searchOptions struct {
	query   string
	types   []archive.Type
	page    int
	limit   int
	all     bool
	noPager bool
}

func parseTypes(raw []string) ([]archive.Type, error) {
	types := make([]archive.Type, 0, len(raw))
	for _, r := range raw {
		t, err := archive.ParseType(r)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// searchArchives runs the listing pipeline and prints one page of results
func searchArchives(ctx context.Context, configPath string, opts searchOptions) error {
	cfg, cat, closeCache, err := loadCatalog(configPath)
	if err != nil {
		return err
	}
	defer closeCache()

	archives, err := cat.Archives(ctx)
	if err != nil {
		return fmt.Errorf("loading archives: %w", err)
	}

	filters := search.AllFilters()
	if len(opts.types) > 0 {
		filters = search.NoFilters()
		for _, t := range opts.types {
			filters[t] = true
		}
	}

	limit := opts.limit
	if limit <= 0 {
		limit = cfg.Search.PageSize
	}

	results := search.Search(archives, opts.query, filters, search.Options{
		Threshold:  cfg.Search.Threshold,
		IncludeAll: opts.all,
	})
	items, pageCount := search.Paginate(results, limit, opts.page)
	page := search.ClampPage(opts.page, pageCount)

	return output(formatSearchOutput(opts.query, results, items, page, pageCount), opts.noPager)
}

// formatSearchOutput renders one page of results for the terminal
func formatSearchOutput(query string, results, items []search.Result, page, pageCount int) string {
	var out strings.Builder

	title := "SHS Research Archive"
	if strings.TrimSpace(query) != "" {
		title = fmt.Sprintf("Search: %s", query)
	}
	out.WriteString(titleStyle.Render(title))
	out.WriteString("\n")

	if len(results) == 0 {
		out.WriteString(noDataStyle.Render("No results"))
		out.WriteString("\n")
		return out.String()
	}

	matched := search.MatchedCount(results)
	summary := fmt.Sprintf("%d of %d results matched", matched, len(results))
	if matched == len(results) {
		summary = fmt.Sprintf("%d results", len(results))
	}
	out.WriteString(summaryStyle.Render(summary))
	out.WriteString("\n")

	for i, res := range items {
		out.WriteString(formatResult(res, i+1))
		out.WriteString("\n")
	}

	if pageCount > 1 {
		out.WriteString(metaStyle.Render(fmt.Sprintf("Page %d of %d", page, pageCount)))
		out.WriteString("\n")
	}
	return out.String()
}

func formatResult(res search.Result, index int) string {
	a := res.Archive
	var content strings.Builder

	content.WriteString(fmt.Sprintf("%d. ", index))
	for _, seg := range search.Segments(a.Title, res.Highlights[search.FieldTitle]) {
		if seg.Match {
			content.WriteString(markStyle.Render(seg.Text))
		} else {
			content.WriteString(paperTitleStyle.Render(seg.Text))
		}
	}
	content.WriteString("\n")

	meta := []string{a.Year, a.Type.Label()}
	if authors := strings.Join(a.DisplayAuthors(), ", "); authors != "" {
		meta = append([]string{authors}, meta...)
	}
	content.WriteString(metaStyle.Render(strings.Join(meta, " · ")))

	if len(a.Keywords) > 0 {
		content.WriteString("\n")
		content.WriteString(badgeStyle.Render(strings.Join(a.Keywords, " · ")))
	}

	if res.Field != "" {
		content.WriteString("\n")
		content.WriteString(metaStyle.Render(fmt.Sprintf("score %.2f on %s", res.Score, res.Field)))
	}

	content.WriteString("\n")
	content.WriteString(urlStyle.Render("slug: " + a.Slug))

	if !res.Matched {
		return unmatchedCardStyle.Render(content.String())
	}
	return cardStyle.Render(content.String())
}
