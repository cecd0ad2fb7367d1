package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Position is one portfolio holding valued in USD.
type Position struct {
	Symbol   string          `json:"symbol"`
	ValueUSD decimal.Decimal `json:"value_usd"`
}

// PortfolioSnapshot is an ordered set of positions. Order is preserved in
// derived weights and risk contributions.
type PortfolioSnapshot struct {
	Positions []Position `json:"positions"`
}

// Validate rejects negative values and duplicate symbols.
func (s PortfolioSnapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Positions))
	for _, pos := range s.Positions {
		if pos.Symbol == "" {
			return fmt.Errorf("portfolio: empty symbol")
		}
		if _, dup := seen[pos.Symbol]; dup {
			return fmt.Errorf("portfolio: duplicate symbol %s", pos.Symbol)
		}
		seen[pos.Symbol] = struct{}{}
		if pos.ValueUSD.IsNegative() {
			return fmt.Errorf("portfolio: negative value for %s", pos.Symbol)
		}
	}
	return nil
}

// TotalValue returns the sum of position values.
func (s PortfolioSnapshot) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range s.Positions {
		total = total.Add(pos.ValueUSD)
	}
	return total
}

// Weights returns value fractions in position order. A zero-value portfolio
// is degenerate and yields nil.
func (s PortfolioSnapshot) Weights() []float64 {
	total := s.TotalValue()
	if !total.IsPositive() {
		return nil
	}
	weights := make([]float64, len(s.Positions))
	for i, pos := range s.Positions {
		weights[i], _ = pos.ValueUSD.Div(total).Float64()
	}
	return weights
}
