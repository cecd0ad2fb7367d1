package liquidity

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantScope/internal/model"
)

// Fixed liquidity parameters. The registry does not track per-token
// reserves, so redemptions distribute a share of pool TVL evenly across the
// pool's tokens; this is a documented approximation. Round trips cannot
// create value because mintDiscount exceeds growthFactor.
var (
	depositSlippage = decimal.NewFromFloat(0.01)
	mintDiscount    = decimal.NewFromFloat(0.05)
	growthFactor    = decimal.NewFromFloat(0.02)
	one             = decimal.NewFromInt(1)
)

// Engine computes LP-token mint and burn amounts.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Add computes deposit amounts and minted LP tokens for a liquidity add.
func (e *Engine) Add(pool model.Pool, maxAmountsIn []decimal.Decimal) (model.LiquidityOperation, error) {
	if err := pool.Validate(); err != nil {
		return model.LiquidityOperation{}, err
	}
	if len(maxAmountsIn) != len(pool.Tokens) {
		return model.LiquidityOperation{}, fmt.Errorf("pool %s: %d amounts for %d tokens: %w",
			pool.ID, len(maxAmountsIn), len(pool.Tokens), model.ErrInvalidAmount)
	}

	amountsIn := make([]decimal.Decimal, len(maxAmountsIn))
	total := decimal.Zero
	for i, max := range maxAmountsIn {
		if !max.IsPositive() {
			return model.LiquidityOperation{}, fmt.Errorf("pool %s: amount[%d]=%s: %w",
				pool.ID, i, max, model.ErrInvalidAmount)
		}
		amountsIn[i] = max.Mul(one.Sub(depositSlippage))
		total = total.Add(amountsIn[i])
	}

	lpMinted := total.Mul(one.Sub(mintDiscount))
	e.logger.Debug("liquidity add",
		zap.String("pool", pool.ID),
		zap.String("lp_minted", lpMinted.String()),
	)

	return model.LiquidityOperation{
		PoolID:    pool.ID,
		AmountsIn: amountsIn,
		LPMinted:  lpMinted,
	}, nil
}

// Remove computes redemption amounts for burning lpAmount out of
// lpTotalSupply. The redeemed value is the supply share of pool TVL grown by
// growthFactor, split evenly across the pool's tokens.
func (e *Engine) Remove(pool model.Pool, lpAmount, lpTotalSupply decimal.Decimal) (model.LiquidityOperation, error) {
	if err := pool.Validate(); err != nil {
		return model.LiquidityOperation{}, err
	}
	if !lpAmount.IsPositive() || !lpTotalSupply.IsPositive() {
		return model.LiquidityOperation{}, fmt.Errorf("pool %s: lp amount %s of supply %s: %w",
			pool.ID, lpAmount, lpTotalSupply, model.ErrInvalidAmount)
	}
	if lpAmount.GreaterThan(lpTotalSupply) {
		return model.LiquidityOperation{}, fmt.Errorf("pool %s: lp amount %s exceeds supply %s: %w",
			pool.ID, lpAmount, lpTotalSupply, model.ErrInsufficientLiquidity)
	}

	// multiply before dividing so whole-number shares stay exact
	grossValue := lpAmount.Mul(pool.TVLUSD).Mul(one.Add(growthFactor)).Div(lpTotalSupply)
	perToken := grossValue.Div(decimal.NewFromInt(int64(len(pool.Tokens))))

	amountsOut := make([]decimal.Decimal, len(pool.Tokens))
	for i := range amountsOut {
		amountsOut[i] = perToken
	}

	e.logger.Debug("liquidity remove",
		zap.String("pool", pool.ID),
		zap.String("lp_burned", lpAmount.String()),
		zap.String("gross_value", grossValue.String()),
	)

	return model.LiquidityOperation{
		PoolID:     pool.ID,
		AmountsOut: amountsOut,
		LPBurned:   lpAmount,
	}, nil
}
