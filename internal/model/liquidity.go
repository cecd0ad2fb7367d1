package model

import "github.com/shopspring/decimal"

// LiquidityOperation records the result of an add- or remove-liquidity
// computation against a pool.
type LiquidityOperation struct {
	PoolID     string            `json:"pool_id"`
	AmountsIn  []decimal.Decimal `json:"amounts_in,omitempty"`
	AmountsOut []decimal.Decimal `json:"amounts_out,omitempty"`
	LPMinted   decimal.Decimal   `json:"lp_minted"`
	LPBurned   decimal.Decimal   `json:"lp_burned"`
}
