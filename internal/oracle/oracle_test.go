package oracle

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildPortfolio(t *testing.T) {
	prices := StaticOracle{Prices: map[string]PricePoint{
		"ETH/USD":  {Value: decimal.NewFromInt(2500)},
		"USDC/USD": {Value: decimal.NewFromInt(1)},
	}}

	portfolio, err := BuildPortfolio(context.Background(), []TokenBalance{
		{Symbol: "ETH", Balance: decimal.NewFromInt(2)},
		{Symbol: "USDC", Balance: decimal.NewFromInt(1_000)},
		{Symbol: "DOGE", Balance: decimal.NewFromInt(50)},
	}, prices, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// DOGE has no price and is skipped
	if len(portfolio.Positions) != 2 {
		t.Fatalf("positions mismatch: %v", portfolio.Positions)
	}
	if !portfolio.Positions[0].ValueUSD.Equal(decimal.NewFromInt(5_000)) {
		t.Fatalf("eth value mismatch: %s", portfolio.Positions[0].ValueUSD)
	}
	if !portfolio.TotalValue().Equal(decimal.NewFromInt(6_000)) {
		t.Fatalf("total mismatch: %s", portfolio.TotalValue())
	}
}

func TestBuildPortfolioRejectsNegativeBalance(t *testing.T) {
	prices := StaticOracle{Prices: map[string]PricePoint{}}

	_, err := BuildPortfolio(context.Background(), []TokenBalance{
		{Symbol: "ETH", Balance: decimal.NewFromInt(-1)},
	}, prices, nil)
	if err == nil {
		t.Fatalf("negative balance should fail")
	}
}

func TestUSDPair(t *testing.T) {
	if USDPair("ETH") != "ETH/USD" {
		t.Fatalf("pair format mismatch: %s", USDPair("ETH"))
	}
}
