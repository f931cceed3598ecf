// Package cache provides the key/value store that sits in front of the
// record source. Values are opaque bytes with a per-entry time to live.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a key/value store with expiring entries.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Driver names accepted by New.
const (
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Options selects and configures a cache driver.
type Options struct {
	Driver string

	// URL is the redis connection string, e.g. redis://localhost:6379/0.
	URL string

	// Prefix is prepended to every redis key.
	Prefix string

	// Path is the sqlite database file.
	Path string

	// Size bounds the number of entries kept by the memory driver.
	Size int
}

// New opens the cache described by opts.
func New(opts Options) (Cache, error) {
	switch opts.Driver {
	case DriverRedis:
		return NewRedis(opts.URL, opts.Prefix)
	case DriverSQLite:
		return NewSQLite(opts.Path)
	case DriverMemory, "":
		return NewMemory(opts.Size)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", opts.Driver)
	}
}
