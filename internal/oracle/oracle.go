package oracle

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantScope/internal/model"
)

// PricePoint is a spot price with its 24h change fraction.
type PricePoint struct {
	Value     decimal.Decimal `json:"value"`
	Change24h float64         `json:"change_24h"`
}

// PriceOracle supplies spot prices for pair identifiers such as "ETH/USD".
// The engine never calls it internally; callers use it to value balances and
// annotate quotes.
type PriceOracle interface {
	GetPrice(ctx context.Context, pairID string) (PricePoint, error)
}

// TokenBalance is one wallet holding in token units.
type TokenBalance struct {
	Symbol  string          `json:"symbol"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceProvider lists token balances for a wallet address.
type BalanceProvider interface {
	ListTokens(ctx context.Context, walletAddress string) ([]TokenBalance, error)
}

// StaticOracle serves prices from a fixed map. Used for fixtures and tests.
type StaticOracle struct {
	Prices map[string]PricePoint
}

func (o StaticOracle) GetPrice(_ context.Context, pairID string) (PricePoint, error) {
	price, ok := o.Prices[pairID]
	if !ok {
		return PricePoint{}, fmt.Errorf("no price for pair %s", pairID)
	}
	return price, nil
}

// USDPair formats the pair identifier used to value a token in USD.
func USDPair(symbol string) string {
	return symbol + "/USD"
}

// BuildPortfolio values wallet balances through the oracle into a portfolio
// snapshot. Tokens without a price are skipped with a warning rather than
// failing the whole portfolio.
func BuildPortfolio(ctx context.Context, balances []TokenBalance, prices PriceOracle, logger *zap.Logger) (model.PortfolioSnapshot, error) {
	if prices == nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("price oracle is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	positions := make([]model.Position, 0, len(balances))
	for _, balance := range balances {
		if balance.Balance.IsNegative() {
			return model.PortfolioSnapshot{}, fmt.Errorf("balance %s: negative amount %s", balance.Symbol, balance.Balance)
		}
		point, err := prices.GetPrice(ctx, USDPair(balance.Symbol))
		if err != nil {
			logger.Warn("price unavailable, skipping token",
				zap.String("symbol", balance.Symbol),
				zap.Error(err),
			)
			continue
		}
		positions = append(positions, model.Position{
			Symbol:   balance.Symbol,
			ValueUSD: balance.Balance.Mul(point.Value),
		})
	}

	return model.PortfolioSnapshot{Positions: positions}, nil
}
