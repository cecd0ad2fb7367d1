package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quantScope/internal/chain"
	"quantScope/internal/datasource"
	"quantScope/internal/model"
	"quantScope/internal/oracle"
	"quantScope/internal/registry"
	"quantScope/internal/storage/postgres"
)

// runSyncPools refreshes pool TVL from on-chain balances and writes the
// registry to Postgres, or prints it when no DSN is configured.
func runSyncPools(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.BindingsFile == "" {
		return fmt.Errorf("bindings file is required")
	}

	bindings, prices, err := datasource.LoadBindings(cfg.BindingsFile)
	if err != nil {
		return err
	}
	if len(bindings) == 0 {
		return fmt.Errorf("bindings file has no pools")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	source, err := datasource.NewChainSource(chainClient, oracle.StaticOracle{Prices: prices}, bindings, logger)
	if err != nil {
		return err
	}

	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("chain id: %w", err)
	}
	head, err := chainClient.LatestBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("latest block: %w", err)
	}

	logger.Info("sync start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("chain_id", chainID.String()),
		zap.Uint64("head", head),
		zap.Int("pools", len(bindings)),
		zap.Bool("postgres", cfg.PGDSN != ""),
	)

	var store *postgres.Store
	if cfg.PGDSN != "" {
		if store, err = postgres.NewStore(ctx, cfg.PGDSN); err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		refresher := registry.NewRefresher(
			registry.New(nil),
			persistingSource{inner: source, store: store},
			cfg.RefreshInterval,
			logger,
		)
		return refresher.Run(ctx)
	}

	pools, err := source.FetchPools(ctx)
	if err != nil {
		return err
	}

	if store == nil {
		return printJSON(pools)
	}

	if err := store.UpsertPools(ctx, pools); err != nil {
		return fmt.Errorf("upsert pools: %w", err)
	}

	logger.Info("sync complete", zap.Int("pools", len(pools)))
	return nil
}

// persistingSource upserts fetched pools before handing them to the
// registry, so each watch tick lands in Postgres.
type persistingSource struct {
	inner registry.Source
	store *postgres.Store
}

func (s persistingSource) FetchPools(ctx context.Context) ([]model.Pool, error) {
	pools, err := s.inner.FetchPools(ctx)
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.UpsertPools(ctx, pools); err != nil {
			return nil, fmt.Errorf("upsert pools: %w", err)
		}
	}
	return pools, nil
}
