package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/msugsc-shs/research-archive/pkg/cache"
	"github.com/msugsc-shs/research-archive/pkg/catalog"
	"github.com/msugsc-shs/research-archive/pkg/config"
	"github.com/msugsc-shs/research-archive/pkg/log"
	"github.com/msugsc-shs/research-archive/pkg/source"
)

// createSourceFromConfig builds the archive source selected by the config
func createSourceFromConfig(cfg *config.Config) (source.Source, error) {
	switch cfg.Source.Type {
	case config.SourceSheets:
		creds := cfg.Source.Credentials
		return source.NewSheets(source.SheetsConfig{
			SpreadsheetID: cfg.Source.SpreadsheetID,
			Range:         cfg.Source.Range,
			Credentials: source.Credentials{
				ProjectID:    creds.ProjectID,
				PrivateKeyID: creds.PrivateKeyID,
				PrivateKey:   creds.PrivateKey,
				ClientEmail:  creds.ClientEmail,
			},
		})
	case config.SourceCSV:
		if cfg.Source.CSVPath == "" {
			return nil, fmt.Errorf("no archive source configured: set source.spreadsheet_id or source.csv_path")
		}
		return source.NewCSV(cfg.Source.CSVPath), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Source.Type)
	}
}

// openCatalog wires the configured source and cache into a catalog. The
// returned cache must be closed by the caller.
func openCatalog(cfg *config.Config) (*catalog.Catalog, cache.Cache, error) {
	src, err := createSourceFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating source: %w", err)
	}

	c, err := cache.New(cache.Options{
		Driver: cfg.Cache.Driver,
		URL:    cfg.Cache.URL,
		Prefix: cfg.Cache.Prefix,
		Path:   cfg.Cache.Path,
		Size:   cfg.Cache.Size,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s cache: %w", cfg.Cache.Driver, err)
	}

	cat := catalog.New(src, c, catalog.Options{
		TTL:           cfg.Cache.TTL.Duration,
		SourceTimeout: cfg.Source.Timeout.Duration,
		CacheTimeout:  cfg.Cache.Timeout.Duration,
	})
	return cat, c, nil
}

// loadCatalog loads the config at configPath and opens its catalog.
func loadCatalog(configPath string) (*config.Config, *catalog.Catalog, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	cat, c, err := openCatalog(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	closeCache := func() {
		if err := c.Close(); err != nil {
			log.ForService("cache").Warnf("failed to close cache: %v", err)
		}
	}
	return cfg, cat, closeCache, nil
}

// watchSource refreshes the catalog every time the local CSV export
// changes. It blocks until ctx is done.
func watchSource(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) {
	logger := log.ForService("watch")
	if cfg.Source.Type != config.SourceCSV || !cfg.Source.Watch {
		return
	}

	err := source.Watch(ctx, cfg.Source.CSVPath, func() {
		archives, err := cat.Refresh(ctx)
		if err != nil {
			logger.Errorf("Refresh after change failed: %v", err)
			return
		}
		logger.Infof("Reloaded %d archives", len(archives))
	})
	if err != nil {
		logger.Errorf("Watching %s: %v", cfg.Source.CSVPath, err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
