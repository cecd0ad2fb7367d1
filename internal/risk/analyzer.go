package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantScope/internal/model"
)

// Parametric risk parameters: 95% one-day VaR over a 252-day year, a 2%
// risk-free rate, and a drawdown proxy of 2.5x volatility.
const (
	RiskFreeRate       = 0.02
	z95                = 1.645
	tradingDaysPerYear = 252
	drawdownMultiplier = 2.5
)

// Analyzer computes portfolio risk metrics from a snapshot and a risk
// model. It performs no I/O and is safe for concurrent use.
type Analyzer struct {
	model  *Model
	logger *zap.Logger
}

func NewAnalyzer(riskModel *Model, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{model: riskModel, logger: logger}
}

// Compute derives volatility, Sharpe ratio, VaR, drawdown proxy, and
// per-asset risk contributions for the portfolio. A zero-value portfolio is
// degenerate and yields all-zero metrics.
func (a *Analyzer) Compute(portfolio model.PortfolioSnapshot) (model.RiskMetrics, error) {
	if err := portfolio.Validate(); err != nil {
		return model.RiskMetrics{}, fmt.Errorf("portfolio: %w", err)
	}

	total := portfolio.TotalValue()
	if !total.IsPositive() {
		return model.RiskMetrics{TotalValueUSD: decimal.Zero}, nil
	}

	weights := portfolio.Weights()
	n := len(portfolio.Positions)
	symbols := make([]string, n)
	vols := make([]float64, n)
	for i, pos := range portfolio.Positions {
		symbols[i] = pos.Symbol
		vols[i] = a.model.Volatility(pos.Symbol)
	}

	// Quadratic form over the correlation matrix. The diagonal contributes
	// w_i^2 sigma_i^2 since rho(i,i) = 1.
	variance := 0.0
	marginal := make([]float64, n)
	estimatedSet := make(map[string]struct{})
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rho, estimated := a.model.Correlation(symbols[i], symbols[j])
			if estimated && weights[i] > 0 && weights[j] > 0 {
				estimatedSet[model.PairLabel(symbols[i], symbols[j])] = struct{}{}
			}
			term := weights[i] * weights[j] * vols[i] * vols[j] * rho
			variance += term
			marginal[i] += term
		}
	}
	if variance < 0 {
		variance = 0
	}
	volatility := math.Sqrt(variance)

	expectedReturn := 0.0
	for i, pos := range portfolio.Positions {
		expectedReturn += weights[i] * a.model.ExpectedReturn(pos.Symbol)
	}

	sharpe := math.NaN()
	sharpeDefined := false
	if volatility > 0 {
		sharpe = (expectedReturn - RiskFreeRate) / volatility
		sharpeDefined = true
	}

	varFactor := z95 * volatility * math.Sqrt(1.0/tradingDaysPerYear)
	valueAtRisk := total.Mul(decimal.NewFromFloat(varFactor))

	contributions := make([]model.AssetContribution, n)
	for i := range contributions {
		contribution := 0.0
		if variance > 0 {
			contribution = marginal[i] / variance * 100
		}
		contributions[i] = model.AssetContribution{
			Symbol:          symbols[i],
			Weight:          weights[i],
			ContributionPct: contribution,
		}
	}

	estimatedPairs := sortedKeys(estimatedSet)
	if len(estimatedPairs) > 0 {
		a.logger.Debug("correlations defaulted", zap.Strings("pairs", estimatedPairs))
	}

	return model.RiskMetrics{
		TotalValueUSD:  total,
		Volatility:     volatility,
		ExpectedReturn: expectedReturn,
		SharpeRatio:    sharpe,
		SharpeDefined:  sharpeDefined,
		ValueAtRisk95:  valueAtRisk,
		MaxDrawdown:    volatility * drawdownMultiplier,
		Contributions:  contributions,
		EstimatedPairs: estimatedPairs,
	}, nil
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
