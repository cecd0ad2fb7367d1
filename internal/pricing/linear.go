package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"quantScope/internal/model"
)

// Linear approximation parameters. Impact grows linearly with trade size
// relative to a reference fraction of pool depth and is capped.
var (
	referenceFraction = decimal.NewFromFloat(0.01)
	impactSlope       = decimal.NewFromFloat(0.5)
	impactCap         = decimal.NewFromFloat(0.05)
	one               = decimal.NewFromInt(1)
)

// LinearModel approximates price impact linearly in trade size. It is a
// documented simplification of the pool bonding curve; an exact invariant
// model can replace it behind the Model interface without touching callers.
type LinearModel struct{}

func NewLinearModel() LinearModel {
	return LinearModel{}
}

// PriceSwap computes price impact, fee, and expected output for one hop.
func (LinearModel) PriceSwap(pool model.Pool, tokenInIdx, tokenOutIdx int, amountIn decimal.Decimal) (SwapEstimate, error) {
	if tokenInIdx < 0 || tokenInIdx >= len(pool.Tokens) {
		return SwapEstimate{}, fmt.Errorf("pool %s: token index %d: %w", pool.ID, tokenInIdx, model.ErrTokenNotInPool)
	}
	if tokenOutIdx < 0 || tokenOutIdx >= len(pool.Tokens) {
		return SwapEstimate{}, fmt.Errorf("pool %s: token index %d: %w", pool.ID, tokenOutIdx, model.ErrTokenNotInPool)
	}
	if tokenInIdx == tokenOutIdx {
		return SwapEstimate{}, fmt.Errorf("pool %s: same token on both sides: %w", pool.ID, model.ErrTokenNotInPool)
	}
	if !amountIn.IsPositive() {
		return SwapEstimate{}, fmt.Errorf("amount in %s: %w", amountIn, model.ErrInvalidAmount)
	}

	impact := impactCap
	if pool.TVLUSD.IsPositive() {
		depth := pool.TVLUSD.Mul(referenceFraction)
		impactFactor := amountIn.Div(depth)
		impact = decimal.Min(impactFactor.Mul(impactSlope), impactCap)
	}

	fee := amountIn.Mul(pool.SwapFee)
	output := amountIn.Mul(one.Sub(impact).Sub(pool.SwapFee))
	if output.IsNegative() {
		output = decimal.Zero
	}

	return SwapEstimate{
		PriceImpact:    impact,
		Fee:            fee,
		ExpectedOutput: output,
	}, nil
}
