// Package catalog serves the research archive through a read-through cache.
// The cached copy answers every read; a miss fetches the whole table from the
// source and stores it for the configured time to live.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/cache"
	"github.com/msugsc-shs/research-archive/pkg/log"
	"github.com/msugsc-shs/research-archive/pkg/source"
)

// Cache keys.
const (
	KeyArchives = "archives"
	KeyKeywords = "keywords"
)

const (
	DefaultTTL           = time.Hour
	DefaultSourceTimeout = 30 * time.Second
	DefaultCacheTimeout  = 2 * time.Second
)

type Options struct {
	TTL           time.Duration
	SourceTimeout time.Duration
	CacheTimeout  time.Duration
}

// Catalog combines a Source and a Cache.
type Catalog struct {
	source source.Source
	cache  cache.Cache
	opts   Options
	group  singleflight.Group
	logger *log.Logger
}

// New creates a catalog. Zero options take their defaults.
func New(src source.Source, c cache.Cache, opts Options) *Catalog {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = DefaultSourceTimeout
	}
	if opts.CacheTimeout <= 0 {
		opts.CacheTimeout = DefaultCacheTimeout
	}
	return &Catalog{
		source: src,
		cache:  c,
		opts:   opts,
		logger: log.ForService("catalog"),
	}
}

// Archives returns every record, from the cache when possible.
func (c *Catalog) Archives(ctx context.Context) ([]archive.Archive, error) {
	var archives []archive.Archive
	if c.load(ctx, KeyArchives, &archives) {
		return archives, nil
	}

	// Concurrent misses share one fetch. The fetch is detached from the
	// first caller so its cancellation does not fail the others.
	ch := c.group.DoChan(KeyArchives, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debugf("shared archive fetch")
		}
		return res.Val.([]archive.Archive), nil
	}
}

// Keywords returns the keywords of every record in order, repetitions
// included.
func (c *Catalog) Keywords(ctx context.Context) ([]string, error) {
	var keywords []string
	if c.load(ctx, KeyKeywords, &keywords) {
		return keywords, nil
	}

	archives, err := c.Archives(ctx)
	if err != nil {
		return nil, err
	}
	keywords = archive.Keywords(archives)
	c.store(ctx, KeyKeywords, keywords)
	return keywords, nil
}

// Find returns the first record with the given slug.
func (c *Catalog) Find(ctx context.Context, slug string) (archive.Archive, error) {
	archives, err := c.Archives(ctx)
	if err != nil {
		return archive.Archive{}, err
	}
	return archive.Find(archives, slug)
}

// Refresh fetches the source unconditionally and overwrites both cache
// entries.
func (c *Catalog) Refresh(ctx context.Context) ([]archive.Archive, error) {
	archives, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, KeyKeywords, archive.Keywords(archives))
	return archives, nil
}

// fetch reads the source and stores the result under KeyArchives.
func (c *Catalog) fetch(ctx context.Context) ([]archive.Archive, error) {
	fctx, cancel := context.WithTimeout(ctx, c.opts.SourceTimeout)
	defer cancel()

	start := time.Now()
	archives, err := c.source.FetchAll(fctx)
	if err != nil {
		c.logger.Errorf("fetching archives: %v", err)
		if errors.Is(err, archive.ErrSourceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", archive.ErrSourceUnavailable, err)
	}
	c.logger.Infof("fetched %d archives in %s", len(archives), time.Since(start).Round(time.Millisecond))

	for _, slug := range archive.DuplicateSlugs(archives) {
		c.logger.Warnf("duplicate slug %q, only the first record is reachable", slug)
	}

	c.store(ctx, KeyArchives, archives)
	return archives, nil
}

// load decodes the cached value at key into v and reports whether it did.
// Errors other than a miss are logged and treated as a miss.
func (c *Catalog) load(ctx context.Context, key string, v any) bool {
	cctx, cancel := context.WithTimeout(ctx, c.opts.CacheTimeout)
	defer cancel()

	data, err := c.cache.Get(cctx, key)
	if errors.Is(err, cache.ErrMiss) {
		c.logger.Debugf("cache miss for %s", key)
		return false
	}
	if err != nil {
		c.logger.Warnf("reading %s from cache: %v", key, err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Warnf("discarding undecodable cache entry %s: %v", key, err)
		return false
	}
	return true
}

func (c *Catalog) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Errorf("encoding %s: %v", key, err)
		return
	}

	cctx, cancel := context.WithTimeout(ctx, c.opts.CacheTimeout)
	defer cancel()
	if err := c.cache.Set(cctx, key, data, c.opts.TTL); err != nil {
		c.logger.Warnf("writing %s to cache: %v", key, err)
	}
}
