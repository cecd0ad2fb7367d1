package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"quantScope/internal/model"
)

func runRisk(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	portfolioPath, _ := cmd.Flags().GetString("portfolio")
	if portfolioPath == "" {
		return fmt.Errorf("portfolio path is required")
	}

	data, err := os.ReadFile(portfolioPath)
	if err != nil {
		return fmt.Errorf("read portfolio: %w", err)
	}
	var portfolio model.PortfolioSnapshot
	if err := json.Unmarshal(data, &portfolio); err != nil {
		return fmt.Errorf("parse portfolio: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, cleanup, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	metrics, err := eng.ComputeRiskMetrics(portfolio)
	if err != nil {
		return err
	}

	return printJSON(metrics)
}

func runSlippage(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tokenIn, _ := cmd.Flags().GetString("token-in")
	tokenOut, _ := cmd.Flags().GetString("token-out")
	if tokenIn == "" || tokenOut == "" {
		return fmt.Errorf("token-in and token-out are required")
	}

	amountStr, _ := cmd.Flags().GetString("amount")
	amount, err := parseAmount(amountStr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, cleanup, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	estimate, err := eng.EstimateSlippage(tokenIn, tokenOut, amount)
	if err != nil {
		return err
	}
	tolerance, err := eng.RecommendSlippageTolerance(tokenIn, tokenOut, amount)
	if err != nil {
		return err
	}

	return printJSON(map[string]string{
		"estimated_slippage":    estimate.String(),
		"recommended_tolerance": tolerance.String(),
	})
}
