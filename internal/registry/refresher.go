package registry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quantScope/internal/model"
)

// Source supplies pool metadata from an external feed (file, chain, or
// database).
type Source interface {
	FetchPools(ctx context.Context) ([]model.Pool, error)
}

// Refresher periodically rebuilds the registry snapshot from a Source.
// Fetch or validation failures keep the previous snapshot in place.
type Refresher struct {
	registry *Registry
	source   Source
	interval time.Duration
	logger   *zap.Logger
}

func NewRefresher(registry *Registry, source Source, interval time.Duration, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		registry: registry,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Run refreshes immediately, then on every tick until the context ends.
func (f *Refresher) Run(ctx context.Context) error {
	if f.registry == nil || f.source == nil {
		return fmt.Errorf("refresher: registry and source are required")
	}
	if f.interval <= 0 {
		return fmt.Errorf("refresher: interval must be positive")
	}

	if err := f.RefreshOnce(ctx); err != nil {
		f.logger.Warn("initial pool refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := f.RefreshOnce(ctx); err != nil {
				f.logger.Warn("pool refresh failed", zap.Error(err))
			}
		}
	}
}

// RefreshOnce fetches pools and swaps in a new snapshot.
func (f *Refresher) RefreshOnce(ctx context.Context) error {
	pools, err := f.source.FetchPools(ctx)
	if err != nil {
		return fmt.Errorf("fetch pools: %w", err)
	}

	snapshot, err := NewSnapshot(pools)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	f.registry.Swap(snapshot)
	f.logger.Debug("pool snapshot refreshed", zap.Int("pools", snapshot.Len()))
	return nil
}
