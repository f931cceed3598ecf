package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/log"
)

// FetchCommand creates the fetch command
func FetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch the archive from its source and refresh the cache",
		Action: func(ctx context.Context, c *cli.Command) error {
			return fetchArchives(ctx, c.String("config"))
		},
	}
}

// fetchArchives reloads the archive and reports data problems on the sheet
func fetchArchives(ctx context.Context, configPath string) error {
	logger := log.ForService("fetch")

	cfg, cat, closeCache, err := loadCatalog(configPath)
	if err != nil {
		return err
	}
	defer closeCache()

	start := time.Now()
	archives, err := cat.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("fetching archives: %w", err)
	}
	logger.Debugf("refresh took %s", time.Since(start))

	fmt.Printf("Fetched %d archives from %s, cached in %s for %s\n",
		len(archives), cfg.Source.Type, cfg.Cache.Driver, cfg.Cache.TTL.Duration)

	counts := make(map[archive.Type]int)
	for _, a := range archives {
		counts[a.Type]++
	}
	for _, t := range archive.Types {
		fmt.Printf("  %-36s %d\n", t.Label(), counts[t])
	}

	if dups := archive.DuplicateSlugs(archives); len(dups) > 0 {
		fmt.Printf("\nWarning: %d titles share a slug, only the first of each is reachable:\n", len(dups))
		for _, slug := range dups {
			fmt.Printf("  %s\n", slug)
		}
	}
	return nil
}
