package slippage

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantScope/internal/model"
	"quantScope/internal/risk"
)

// Slippage parameters: volatility scaled by trade size relative to a
// reference notional, clamped to [0.1%, 5%]. The recommended tolerance adds
// a 1.5x buffer on top of the estimate.
const (
	referenceAmountUSD = 10000.0
	volatilityScale    = 0.1
	minSlippage        = 0.001
	maxSlippage        = 0.05
	toleranceBuffer    = 1.5
)

// Estimator derives slippage estimates from asset volatilities and trade
// size.
type Estimator struct {
	model  *risk.Model
	logger *zap.Logger
}

func NewEstimator(riskModel *risk.Model, logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{model: riskModel, logger: logger}
}

// Estimate returns the expected slippage fraction for swapping amountUSD of
// tokenIn into tokenOut.
func (e *Estimator) Estimate(tokenIn, tokenOut string, amountUSD decimal.Decimal) (decimal.Decimal, error) {
	if tokenIn == "" || tokenOut == "" {
		return decimal.Zero, fmt.Errorf("slippage: token symbols are required: %w", model.ErrInvalidAmount)
	}
	if !amountUSD.IsPositive() {
		return decimal.Zero, fmt.Errorf("slippage: amount %s: %w", amountUSD, model.ErrInvalidAmount)
	}

	avgVolatility := (e.model.Volatility(tokenIn) + e.model.Volatility(tokenOut)) / 2
	amount, _ := amountUSD.Float64()
	amountFactor := math.Sqrt(amount / referenceAmountUSD)

	estimate := avgVolatility * volatilityScale * amountFactor
	clamped := math.Min(math.Max(estimate, minSlippage), maxSlippage)

	e.logger.Debug("slippage estimate",
		zap.String("token_in", tokenIn),
		zap.String("token_out", tokenOut),
		zap.Float64("avg_volatility", avgVolatility),
		zap.Float64("amount_factor", amountFactor),
		zap.Float64("slippage", clamped),
	)

	return decimal.NewFromFloat(clamped), nil
}

// RecommendTolerance returns the slippage tolerance to set before
// submitting the swap: the estimate with a safety buffer applied.
func (e *Estimator) RecommendTolerance(tokenIn, tokenOut string, amountUSD decimal.Decimal) (decimal.Decimal, error) {
	estimate, err := e.Estimate(tokenIn, tokenOut, amountUSD)
	if err != nil {
		return decimal.Zero, err
	}
	return estimate.Mul(decimal.NewFromFloat(toleranceBuffer)), nil
}
