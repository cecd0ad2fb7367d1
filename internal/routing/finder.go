package routing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantScope/internal/model"
	"quantScope/internal/pricing"
	"quantScope/internal/registry"
)

// DefaultIntermediary is the hub token used for two-hop routes.
const DefaultIntermediary = "USDC"

// DefaultSlippageTolerance is applied when the caller does not supply one.
var DefaultSlippageTolerance = decimal.NewFromFloat(0.005)

var one = decimal.NewFromInt(1)

// Finder locates a direct or two-hop route between tokens and aggregates
// per-hop pricing into a quote.
type Finder struct {
	model        pricing.Model
	intermediary string
	logger       *zap.Logger
}

func NewFinder(model pricing.Model, intermediary string, logger *zap.Logger) *Finder {
	if intermediary == "" {
		intermediary = DefaultIntermediary
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{model: model, intermediary: intermediary, logger: logger}
}

type hop struct {
	pool     model.Pool
	estimate pricing.SwapEstimate
	tokenIn  string
	tokenOut string
}

// FindRoute prices tokenIn -> tokenOut over the snapshot. A zero tolerance
// selects DefaultSlippageTolerance.
func (f *Finder) FindRoute(snapshot *registry.Snapshot, tokenIn, tokenOut string, amountIn, tolerance decimal.Decimal) (model.Quote, error) {
	if tokenIn == "" || tokenOut == "" || tokenIn == tokenOut {
		return model.Quote{}, fmt.Errorf("route %s->%s: %w", tokenIn, tokenOut, model.ErrNoRouteFound)
	}
	if !amountIn.IsPositive() {
		return model.Quote{}, fmt.Errorf("amount in %s: %w", amountIn, model.ErrInvalidAmount)
	}
	if tolerance.IsZero() {
		tolerance = DefaultSlippageTolerance
	}
	if tolerance.IsNegative() || tolerance.GreaterThanOrEqual(one) {
		return model.Quote{}, fmt.Errorf("slippage tolerance %s: %w", tolerance, model.ErrInvalidAmount)
	}

	hops, err := f.selectRoute(snapshot, tokenIn, tokenOut, amountIn)
	if err != nil {
		return model.Quote{}, err
	}

	return buildQuote(tokenIn, tokenOut, amountIn, tolerance, hops), nil
}

func (f *Finder) selectRoute(snapshot *registry.Snapshot, tokenIn, tokenOut string, amountIn decimal.Decimal) ([]hop, error) {
	if direct, ok := f.bestHop(snapshot.PoolsWithPair(tokenIn, tokenOut), tokenIn, tokenOut, amountIn); ok {
		return []hop{direct}, nil
	}

	if tokenIn != f.intermediary && tokenOut != f.intermediary {
		first, okFirst := f.bestHop(snapshot.PoolsWithPair(tokenIn, f.intermediary), tokenIn, f.intermediary, amountIn)
		if okFirst {
			second, okSecond := f.bestHop(snapshot.PoolsWithPair(f.intermediary, tokenOut), f.intermediary, tokenOut, first.estimate.ExpectedOutput)
			if okSecond {
				f.logger.Debug("two-hop route selected",
					zap.String("token_in", tokenIn),
					zap.String("token_out", tokenOut),
					zap.String("intermediary", f.intermediary),
				)
				return []hop{first, second}, nil
			}
		}
	}

	return nil, fmt.Errorf("route %s->%s: %w", tokenIn, tokenOut, model.ErrNoRouteFound)
}

// bestHop prices the swap against each candidate pool and keeps the lowest
// price impact. Ties keep the earliest pool in registry order.
func (f *Finder) bestHop(candidates []model.Pool, tokenIn, tokenOut string, amountIn decimal.Decimal) (hop, bool) {
	var best hop
	found := false
	for _, pool := range candidates {
		inIdx, _ := pool.TokenIndex(tokenIn)
		outIdx, _ := pool.TokenIndex(tokenOut)
		estimate, err := f.model.PriceSwap(pool, inIdx, outIdx, amountIn)
		if err != nil {
			f.logger.Warn("price hop", zap.String("pool", pool.ID), zap.Error(err))
			continue
		}
		if !found || estimate.PriceImpact.LessThan(best.estimate.PriceImpact) {
			best = hop{pool: pool, estimate: estimate, tokenIn: tokenIn, tokenOut: tokenOut}
			found = true
		}
	}
	return best, found
}

func buildQuote(tokenIn, tokenOut string, amountIn, tolerance decimal.Decimal, hops []hop) model.Quote {
	route := make([]string, 0, len(hops)+1)
	pools := make([]string, 0, len(hops))
	fees := make([]model.HopFee, 0, len(hops))

	route = append(route, tokenIn)
	survival := one
	for _, h := range hops {
		route = append(route, h.tokenOut)
		pools = append(pools, h.pool.ID)
		fees = append(fees, model.HopFee{Token: h.tokenIn, Amount: h.estimate.Fee})
		survival = survival.Mul(one.Sub(h.estimate.PriceImpact))
	}

	expected := hops[len(hops)-1].estimate.ExpectedOutput
	impact := one.Sub(survival)
	minOutput := expected.Mul(one.Sub(tolerance))

	return model.Quote{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		ExpectedOutput:    expected,
		MinimumOutput:     minOutput,
		PriceImpact:       impact,
		Fees:              fees,
		Route:             route,
		Pools:             pools,
		SlippageTolerance: tolerance,
	}
}
