// Package cleanup runs periodic pruning of expired state.
package cleanup

import (
	"context"
	"log/slog"
	"time"
)

// Pruner removes expired entries and reports how many were dropped
type Pruner interface {
	PruneExpired(ctx context.Context) (int, error)
}

// Cleaner handles periodic cleanup of expired entries
type Cleaner struct {
	name     string
	pruner   Pruner
	interval time.Duration
}

// NewCleaner creates a new cleanup worker
func NewCleaner(name string, pruner Pruner, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		name:     name,
		pruner:   pruner,
		interval: interval,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// run is the main loop for the cleanup worker
func (c *Cleaner) run(ctx context.Context) {
	slog.Info("cleanup worker started", "target", c.name, "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Run immediately on start
	c.cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped", "target", c.name)
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

// cleanup runs one pruning cycle
func (c *Cleaner) cleanup(ctx context.Context) int {
	slog.Debug("running cleanup cycle", "target", c.name)

	pruned, err := c.pruner.PruneExpired(ctx)
	if err != nil {
		slog.Error("cleanup cycle failed", "target", c.name, "error", err)
		return 0
	}

	if pruned > 0 {
		slog.Info("pruned expired entries", "target", c.name, "count", pruned)
	}
	return pruned
}
