package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// KeywordsCommand creates the keywords command
func KeywordsCommand() *cli.Command {
	return &cli.Command{
		Name:  "keywords",
		Usage: "List every keyword in the archive",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "One keyword per line without styling",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return listKeywords(ctx, c.String("config"), c.Bool("plain"))
		},
	}
}

func listKeywords(ctx context.Context, configPath string, plain bool) error {
	_, cat, closeCache, err := loadCatalog(configPath)
	if err != nil {
		return err
	}
	defer closeCache()

	keywords, err := cat.Keywords(ctx)
	if err != nil {
		return fmt.Errorf("loading keywords: %w", err)
	}

	if plain {
		for _, k := range keywords {
			fmt.Println(k)
		}
		return nil
	}
	fmt.Print(formatKeywords(keywords))
	return nil
}

func formatKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return noDataStyle.Render("No keywords") + "\n"
	}
	var out strings.Builder
	out.WriteString(summaryStyle.Render(fmt.Sprintf("%d keywords", len(keywords))))
	out.WriteString("\n")
	for _, k := range keywords {
		out.WriteString(badgeStyle.Render("• " + k))
		out.WriteString("\n")
	}
	return out.String()
}
