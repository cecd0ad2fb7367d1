package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantScope/internal/liquidity"
	"quantScope/internal/model"
	"quantScope/internal/pricing"
	"quantScope/internal/registry"
	"quantScope/internal/risk"
	"quantScope/internal/routing"
	"quantScope/internal/slippage"
)

// AuditSink records issued quotes for replay and audit.
type AuditSink interface {
	PutQuotes(quotes []model.Quote) error
}

// Config holds engine tunables.
type Config struct {
	Intermediary      string
	SlippageTolerance decimal.Decimal
}

// Engine is the facade over pricing, routing, liquidity, and risk. All
// operations are synchronous and deterministic; the registry and risk model
// snapshots are the only shared state and are swapped atomically.
type Engine struct {
	cfg       Config
	registry  *registry.Registry
	finder    *routing.Finder
	liquidity *liquidity.Engine
	riskModel atomic.Pointer[risk.Model]
	audit     AuditSink
	logger    *zap.Logger
}

func New(cfg Config, reg *registry.Registry, pricer pricing.Model, riskModel *risk.Model, audit AuditSink, logger *zap.Logger) (*Engine, error) {
	if reg == nil {
		return nil, fmt.Errorf("engine: registry is required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("engine: pricing model is required")
	}
	if riskModel == nil {
		return nil, fmt.Errorf("engine: risk model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		cfg:       cfg,
		registry:  reg,
		finder:    routing.NewFinder(pricer, cfg.Intermediary, logger),
		liquidity: liquidity.NewEngine(logger),
		audit:     audit,
		logger:    logger,
	}
	e.riskModel.Store(riskModel)
	return e, nil
}

// UpdateRiskModel swaps in a refreshed risk model snapshot.
func (e *Engine) UpdateRiskModel(riskModel *risk.Model) {
	if riskModel == nil {
		return
	}
	e.riskModel.Store(riskModel)
}

// GetQuote prices tokenIn -> tokenOut for amountIn. A zero tolerance applies
// the configured default.
func (e *Engine) GetQuote(tokenIn, tokenOut string, amountIn, tolerance decimal.Decimal) (model.Quote, error) {
	if tolerance.IsZero() {
		tolerance = e.cfg.SlippageTolerance
	}

	quote, err := e.finder.FindRoute(e.registry.Snapshot(), tokenIn, tokenOut, amountIn, tolerance)
	if err != nil {
		return model.Quote{}, err
	}

	e.logger.Info("quote",
		zap.String("token_in", tokenIn),
		zap.String("token_out", tokenOut),
		zap.String("amount_in", amountIn.String()),
		zap.String("expected_output", quote.ExpectedOutput.String()),
		zap.String("price_impact", quote.PriceImpact.String()),
		zap.Strings("route", quote.Route),
	)

	if e.audit != nil {
		if err := e.audit.PutQuotes([]model.Quote{quote}); err != nil {
			e.logger.Warn("audit quote", zap.Error(err))
		}
	}

	return quote, nil
}

// AddLiquidity computes the deposit and LP mint for the pool.
func (e *Engine) AddLiquidity(poolID string, maxAmountsIn []decimal.Decimal) (model.LiquidityOperation, error) {
	pool, ok := e.registry.Snapshot().PoolByID(poolID)
	if !ok {
		return model.LiquidityOperation{}, fmt.Errorf("pool %s: %w", poolID, model.ErrPoolNotFound)
	}
	return e.liquidity.Add(pool, maxAmountsIn)
}

// RemoveLiquidity computes the redemption for burning lpAmount.
func (e *Engine) RemoveLiquidity(poolID string, lpAmount, lpTotalSupply decimal.Decimal) (model.LiquidityOperation, error) {
	pool, ok := e.registry.Snapshot().PoolByID(poolID)
	if !ok {
		return model.LiquidityOperation{}, fmt.Errorf("pool %s: %w", poolID, model.ErrPoolNotFound)
	}
	return e.liquidity.Remove(pool, lpAmount, lpTotalSupply)
}

// ComputeRiskMetrics analyzes the portfolio against the current risk model.
func (e *Engine) ComputeRiskMetrics(portfolio model.PortfolioSnapshot) (model.RiskMetrics, error) {
	analyzer := risk.NewAnalyzer(e.riskModel.Load(), e.logger)
	return analyzer.Compute(portfolio)
}

// EstimateSlippage returns the expected slippage fraction for the trade.
func (e *Engine) EstimateSlippage(tokenIn, tokenOut string, amountUSD decimal.Decimal) (decimal.Decimal, error) {
	estimator := slippage.NewEstimator(e.riskModel.Load(), e.logger)
	return estimator.Estimate(tokenIn, tokenOut, amountUSD)
}

// RecommendSlippageTolerance returns the buffered tolerance for the trade.
func (e *Engine) RecommendSlippageTolerance(tokenIn, tokenOut string, amountUSD decimal.Decimal) (decimal.Decimal, error) {
	estimator := slippage.NewEstimator(e.riskModel.Load(), e.logger)
	return estimator.RecommendTolerance(tokenIn, tokenOut, amountUSD)
}
