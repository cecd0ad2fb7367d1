package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"quantScope/internal/config"
	"quantScope/internal/datasource"
	"quantScope/internal/engine"
	"quantScope/internal/model"
	"quantScope/internal/pricing"
	"quantScope/internal/registry"
	"quantScope/internal/storage"
	"quantScope/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "engine",
		Short:        "AMM pricing and portfolio risk engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("pools-file", "./data/pools.json", "pool registry JSON path")
	root.PersistentFlags().String("risk-file", "./data/risk.json", "risk model JSON path")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN (overrides pools-file as registry source)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a swap and find the best route",
		RunE:  runQuote,
	}
	quoteCmd.Flags().String("token-in", "", "input token symbol")
	quoteCmd.Flags().String("token-out", "", "output token symbol")
	quoteCmd.Flags().String("amount", "", "input amount")
	quoteCmd.Flags().Float64("tolerance", 0, "slippage tolerance fraction (0 uses default)")
	quoteCmd.Flags().String("intermediary", "USDC", "intermediary token for two-hop routes")
	quoteCmd.Flags().Float64("slippage-tolerance", 0.005, "default slippage tolerance")
	quoteCmd.Flags().String("audit-log", "", "quote audit JSONL path")
	root.AddCommand(quoteCmd)

	addCmd := &cobra.Command{
		Use:   "add-liquidity",
		Short: "Compute deposit amounts and minted LP tokens",
		RunE:  runAddLiquidity,
	}
	addCmd.Flags().String("pool", "", "pool id")
	addCmd.Flags().StringSlice("amounts", nil, "max deposit amounts per pool token (comma-separated)")
	root.AddCommand(addCmd)

	removeCmd := &cobra.Command{
		Use:   "remove-liquidity",
		Short: "Compute redemption amounts for burning LP tokens",
		RunE:  runRemoveLiquidity,
	}
	removeCmd.Flags().String("pool", "", "pool id")
	removeCmd.Flags().String("lp-amount", "", "LP token amount to burn")
	removeCmd.Flags().String("lp-supply", "", "LP token total supply")
	root.AddCommand(removeCmd)

	riskCmd := &cobra.Command{
		Use:   "risk",
		Short: "Compute portfolio risk metrics",
		RunE:  runRisk,
	}
	riskCmd.Flags().String("portfolio", "", "portfolio snapshot JSON path")
	root.AddCommand(riskCmd)

	slippageCmd := &cobra.Command{
		Use:   "slippage",
		Short: "Estimate trade slippage and recommended tolerance",
		RunE:  runSlippage,
	}
	slippageCmd.Flags().String("token-in", "", "input token symbol")
	slippageCmd.Flags().String("token-out", "", "output token symbol")
	slippageCmd.Flags().String("amount", "", "trade size in USD")
	root.AddCommand(slippageCmd)

	syncCmd := &cobra.Command{
		Use:   "sync-pools",
		Short: "Refresh pool TVL from chain and upsert into Postgres",
		RunE:  runSyncPools,
	}
	syncCmd.Flags().String("rpc", "", "chain RPC URL")
	syncCmd.Flags().String("bindings-file", "", "pool chain bindings JSON path")
	syncCmd.Flags().Bool("watch", false, "keep refreshing on the configured interval")
	root.AddCommand(syncCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	return config.Load(cfgFile, cmd.Flags())
}

// buildEngine assembles the engine from the configured registry source and
// risk model file. The returned cleanup closes any backing store.
func buildEngine(ctx context.Context, cfg config.Config, logger *zap.Logger) (*engine.Engine, func(), error) {
	cleanup := func() {}

	var store *postgres.Store
	var source registry.Source
	if cfg.PGDSN != "" {
		var err error
		if store, err = postgres.NewStore(ctx, cfg.PGDSN); err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		cleanup = store.Close
		source = datasource.PostgresSource{Store: store}
	} else {
		source = datasource.FileSource{Path: cfg.PoolsFile}
	}

	pools, err := source.FetchPools(ctx)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	snapshot, err := registry.NewSnapshot(pools)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	riskModel, err := datasource.LoadRiskModel(cfg.RiskFile)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var audit engine.AuditSink
	if cfg.AuditLog != "" {
		audit = storage.NewJsonlQuoteLog(cfg.AuditLog)
	} else if store != nil {
		audit = pgAuditSink{ctx: ctx, store: store}
	}

	eng, err := engine.New(engine.Config{
		Intermediary:      cfg.Intermediary,
		SlippageTolerance: decimal.NewFromFloat(cfg.SlippageTolerance),
	}, registry.New(snapshot), pricing.NewLinearModel(), riskModel, audit, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return eng, cleanup, nil
}

// pgAuditSink adapts the Postgres store to the engine's audit interface.
type pgAuditSink struct {
	ctx   context.Context
	store *postgres.Store
}

func (s pgAuditSink) PutQuotes(quotes []model.Quote) error {
	return s.store.InsertQuotes(s.ctx, quotes)
}

func printJSON(value any) error {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return amount, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
