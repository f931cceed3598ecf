// Package warehouse keeps the catalog stocked: it refreshes the cached
// archive on a fixed interval so visitors never wait on a cold fetch from
// the spreadsheet.
package warehouse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/log"
)

// Refresher reloads the archive from its source into the cache.
type Refresher interface {
	Refresh(ctx context.Context) ([]archive.Archive, error)
}

type Config struct {
	// RefreshInterval is the time between scheduled refreshes. It should be
	// shorter than the cache time to live.
	RefreshInterval time.Duration
}

// Status describes the last refresh.
type Status struct {
	LastRefresh time.Time
	Archives    int
	Err         error
	Refreshes   int
}

type Warehouse struct {
	config    Config
	refresher Refresher
	logger    *log.Logger

	stopCh    chan struct{}
	ctxCancel context.CancelFunc
	mu        sync.RWMutex
	wg        sync.WaitGroup
	running   bool
	status    Status
}

func NewWarehouse(config Config, refresher Refresher) *Warehouse {
	return &Warehouse{
		config:    config,
		refresher: refresher,
		logger:    log.ForService("warehouse"),
	}
}

// Start runs an initial refresh in the background and then one every
// RefreshInterval until Stop is called or ctx is done.
func (w *Warehouse) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("warehouse is already running")
	}
	if w.config.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", w.config.RefreshInterval)
	}

	var runCtx context.Context
	runCtx, w.ctxCancel = context.WithCancel(ctx)
	w.stopCh = make(chan struct{})
	w.running = true

	w.wg.Add(1)
	go w.run(runCtx, time.NewTicker(w.config.RefreshInterval))

	w.logger.Infof("Warehouse started, refreshing every %v", w.config.RefreshInterval)
	return nil
}

func (w *Warehouse) run(ctx context.Context, ticker *time.Ticker) {
	defer w.wg.Done()
	defer ticker.Stop()

	w.RefreshOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Debugf("refresh loop context cancelled")
			return
		case <-w.stopCh:
			w.logger.Debugf("refresh loop stop signal received")
			return
		case <-ticker.C:
			w.logger.Debugf("running scheduled refresh")
			w.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce refreshes the catalog now and records the outcome. A failed
// refresh leaves the previously cached archive in place.
func (w *Warehouse) RefreshOnce(ctx context.Context) Status {
	start := time.Now()
	archives, err := w.refresher.Refresh(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.LastRefresh = start
	w.status.Err = err
	w.status.Refreshes++
	if err != nil {
		w.logger.Warnf("Scheduled refresh failed: %v", err)
	} else {
		w.status.Archives = len(archives)
		w.logger.Infof("Refreshed %d archives in %s", len(archives), time.Since(start).Round(time.Millisecond))
	}
	return w.status
}

func (w *Warehouse) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}

	w.logger.Infof("Stopping warehouse...")
	w.ctxCancel()
	close(w.stopCh)
	w.running = false
	w.mu.Unlock()

	// The refresh loop takes the lock to record its status.
	w.wg.Wait()
	w.logger.Infof("Warehouse stopped")
}

func (w *Warehouse) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Status returns the outcome of the last refresh.
func (w *Warehouse) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}
