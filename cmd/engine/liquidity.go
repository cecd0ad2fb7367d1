package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func runAddLiquidity(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	poolID, _ := cmd.Flags().GetString("pool")
	if poolID == "" {
		return fmt.Errorf("pool id is required")
	}

	amountStrs, _ := cmd.Flags().GetStringSlice("amounts")
	if len(amountStrs) == 0 {
		return fmt.Errorf("amounts are required")
	}
	amounts := make([]decimal.Decimal, len(amountStrs))
	for i, raw := range amountStrs {
		if amounts[i], err = parseAmount(raw); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, cleanup, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	op, err := eng.AddLiquidity(poolID, amounts)
	if err != nil {
		return err
	}

	return printJSON(op)
}

func runRemoveLiquidity(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	poolID, _ := cmd.Flags().GetString("pool")
	if poolID == "" {
		return fmt.Errorf("pool id is required")
	}

	lpAmountStr, _ := cmd.Flags().GetString("lp-amount")
	lpAmount, err := parseAmount(lpAmountStr)
	if err != nil {
		return err
	}
	lpSupplyStr, _ := cmd.Flags().GetString("lp-supply")
	lpSupply, err := parseAmount(lpSupplyStr)
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

	op, err := eng.RemoveLiquidity(poolID, lpAmount, lpSupply)
	if err != nil {
		return err
	}

	return printJSON(op)
}
