package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pool represents liquidity pool metadata used for pricing and routing.
type Pool struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Tokens   []string        `json:"tokens"`
	Decimals []uint8         `json:"decimals"`
	SwapFee  decimal.Decimal `json:"swap_fee"`
	AdminFee decimal.Decimal `json:"admin_fee"`
	TVLUSD   decimal.Decimal `json:"tvl_usd"`
}

// TokenIndex returns the index of symbol in the pool token list.
func (p Pool) TokenIndex(symbol string) (int, bool) {
	for i, token := range p.Tokens {
		if token == symbol {
			return i, true
		}
	}
	return 0, false
}

// HasPair reports whether both symbols are tokens of the pool.
func (p Pool) HasPair(a, b string) bool {
	_, okA := p.TokenIndex(a)
	_, okB := p.TokenIndex(b)
	return okA && okB && a != b
}

// Validate checks structural invariants of the pool metadata. Violations are
// programming or feed errors and fail fast.
func (p Pool) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pool id is required")
	}
	if len(p.Tokens) < 2 {
		return fmt.Errorf("pool %s: at least 2 tokens required, got %d", p.ID, len(p.Tokens))
	}
	if len(p.Tokens) != len(p.Decimals) {
		return fmt.Errorf("pool %s: tokens/decimals length mismatch (%d vs %d)", p.ID, len(p.Tokens), len(p.Decimals))
	}
	seen := make(map[string]struct{}, len(p.Tokens))
	for _, token := range p.Tokens {
		if token == "" {
			return fmt.Errorf("pool %s: empty token symbol", p.ID)
		}
		if _, dup := seen[token]; dup {
			return fmt.Errorf("pool %s: duplicate token %s", p.ID, token)
		}
		seen[token] = struct{}{}
	}
	if !validFee(p.SwapFee) {
		return fmt.Errorf("pool %s: swap fee %s out of [0,1)", p.ID, p.SwapFee)
	}
	if !validFee(p.AdminFee) {
		return fmt.Errorf("pool %s: admin fee %s out of [0,1)", p.ID, p.AdminFee)
	}
	if p.TVLUSD.IsNegative() {
		return fmt.Errorf("pool %s: negative tvl %s", p.ID, p.TVLUSD)
	}
	return nil
}

func validFee(fee decimal.Decimal) bool {
	return !fee.IsNegative() && fee.LessThan(decimal.NewFromInt(1))
}
