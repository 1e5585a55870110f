package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// JanitorConfig holds background sweep configuration.
type JanitorConfig struct {
	// CheckInterval is how often to sweep stale entries.
	// Default is 1 minute.
	CheckInterval time.Duration

	// Logger for sweep events.
	Logger *slog.Logger
}

// Janitor periodically sweeps stale entries out of a cache. Get already
// evicts lazily; the janitor exists so keys that are never read again do not
// pin memory.
type Janitor struct {
	config JanitorConfig
	cache  *Cache
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewJanitor creates a janitor for the given cache.
func NewJanitor(c *Cache, cfg JanitorConfig) *Janitor {
	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = 1 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Janitor{
		config: cfg,
		cache:  c,
		logger: cfg.Logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins background sweeps.
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	if j.running || j.stopped {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.mu.Unlock()

	go j.run(ctx)
}

// Stop stops background sweeps and waits for the current one to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.running || j.stopped {
		j.mu.Unlock()
		return
	}
	j.stopped = true
	j.mu.Unlock()

	close(j.stopCh)
	<-j.doneCh
}

func (j *Janitor) run(ctx context.Context) {
	defer close(j.doneCh)

	ticker := time.NewTicker(j.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopCh:
			return
		case <-ticker.C:
			j.RunOnce()
		}
	}
}

// RunOnce performs a single sweep and returns the number of entries removed.
func (j *Janitor) RunOnce() int {
	removed := j.cache.sweep()
	if removed > 0 {
		j.logger.Debug("swept stale cache entries", "removed", removed)
	}
	return removed
}
