package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/citation"
)

// ShowCommand creates the show command
func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one research paper and its citation",
		ArgsUsage: "<slug>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Print only the citation: bibtex, apa or csl",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Public site address used in citation links (overrides web.base_url)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			slug := c.Args().First()
			if slug == "" {
				return fmt.Errorf("a slug is required, see 'search' to find one")
			}
			return showArchive(ctx, c.String("config"), slug, c.String("format"), c.String("base-url"))
		},
	}
}

// showArchive prints a record, or only its citation when format is set
func showArchive(ctx context.Context, configPath, slug, format, baseURL string) error {
	cfg, cat, closeCache, err := loadCatalog(configPath)
	if err != nil {
		return err
	}
	defer closeCache()

	a, err := cat.Find(ctx, slug)
	if err != nil {
		return fmt.Errorf("finding %s: %w", slug, err)
	}

	if baseURL == "" {
		baseURL = cfg.Web.BaseURL
	}
	url := archiveURL(baseURL, slug)

	if format != "" {
		body, _, err := citation.Render(a, url, format)
		if err != nil {
			return err
		}
		fmt.Print(body)
		return nil
	}

	fmt.Print(formatArchive(a, url))
	return nil
}

// archiveURL is the detail page address, or empty without a base URL.
func archiveURL(baseURL, slug string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return ""
	}
	return base + "/archive/" + slug
}

func formatArchive(a archive.Archive, url string) string {
	var out strings.Builder

	out.WriteString(titleStyle.Render(a.Title))
	out.WriteString("\n")
	out.WriteString(metaStyle.Render(strings.Join(a.DisplayAuthors(), ", ")))
	out.WriteString("\n")
	out.WriteString(metaStyle.Render(a.Year + " · " + a.Type.Label()))
	out.WriteString("\n")
	if len(a.Keywords) > 0 {
		out.WriteString(badgeStyle.Render(strings.Join(a.Keywords, " · ")))
		out.WriteString("\n")
	}

	out.WriteString(headerStyle.Render("Abstract"))
	out.WriteString("\n")
	if a.Abstract != "" {
		out.WriteString(a.Abstract)
	} else {
		out.WriteString(noDataStyle.Render("No abstract available."))
	}
	out.WriteString("\n")

	out.WriteString(headerStyle.Render("Recommended Citation"))
	out.WriteString("\n")
	out.WriteString(citation.APA(a, url))
	out.WriteString("\n")

	out.WriteString(headerStyle.Render("BibTeX"))
	out.WriteString("\n")
	out.WriteString(citation.BibTeX(a, url))
	return out.String()
}
