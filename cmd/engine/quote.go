package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runQuote(cmd *cobra.Command, _ []string) error {
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

	toleranceVal, _ := cmd.Flags().GetFloat64("tolerance")
	tolerance := decimal.NewFromFloat(toleranceVal)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, cleanup, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("quote request",
		zap.String("token_in", tokenIn),
		zap.String("token_out", tokenOut),
		zap.String("amount", amount.String()),
	)

	quote, err := eng.GetQuote(tokenIn, tokenOut, amount, tolerance)
	if err != nil {
		return err
	}

	return printJSON(quote)
}
