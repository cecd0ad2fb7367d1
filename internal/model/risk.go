package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCorrelation is assumed for asset pairs without measured data.
// Lookups that fall back to it are flagged as estimated.
const DefaultCorrelation = 0.5

// AssetRiskProfile holds annualized volatility and expected return for one asset.
type AssetRiskProfile struct {
	Symbol         string  `json:"symbol"`
	Volatility     float64 `json:"volatility"`
	ExpectedReturn float64 `json:"expected_return"`
}

// Validate checks the profile invariants.
func (p AssetRiskProfile) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("risk profile: symbol is required")
	}
	if p.Volatility < 0 {
		return fmt.Errorf("risk profile %s: negative volatility %f", p.Symbol, p.Volatility)
	}
	return nil
}

// CorrelationEntry is one measured pairwise correlation.
type CorrelationEntry struct {
	A   string  `json:"a"`
	B   string  `json:"b"`
	Rho float64 `json:"rho"`
}

// CorrelationMatrix is a symmetric pairwise correlation lookup with a
// flagged default for missing pairs.
type CorrelationMatrix struct {
	data map[string]float64
}

// NewCorrelationMatrix builds a matrix from measured entries. Entries are
// stored symmetrically; rho outside [-1, 1] is rejected.
func NewCorrelationMatrix(entries []CorrelationEntry) (CorrelationMatrix, error) {
	data := make(map[string]float64, len(entries))
	for _, entry := range entries {
		if entry.A == "" || entry.B == "" {
			return CorrelationMatrix{}, fmt.Errorf("correlation entry: empty symbol")
		}
		if entry.Rho < -1 || entry.Rho > 1 {
			return CorrelationMatrix{}, fmt.Errorf("correlation %s/%s: rho %f out of [-1,1]", entry.A, entry.B, entry.Rho)
		}
		data[pairKey(entry.A, entry.B)] = entry.Rho
	}
	return CorrelationMatrix{data: data}, nil
}

// Lookup returns the correlation between two assets. The diagonal is 1.
// Missing pairs return DefaultCorrelation with estimated set to true.
func (m CorrelationMatrix) Lookup(a, b string) (rho float64, estimated bool) {
	if a == b {
		return 1, false
	}
	if rho, ok := m.data[pairKey(a, b)]; ok {
		return rho, false
	}
	return DefaultCorrelation, true
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "/" + b
}

// PairLabel formats a pair the way estimated-pair diagnostics report it.
func PairLabel(a, b string) string {
	return pairKey(a, b)
}

// AssetContribution is one asset's share of total portfolio risk.
type AssetContribution struct {
	Symbol          string  `json:"symbol"`
	Weight          float64 `json:"weight"`
	ContributionPct float64 `json:"contribution_pct"`
}

// RiskMetrics summarizes portfolio-level risk. MaxDrawdown is a volatility
// proxy, not a historical simulation. EstimatedPairs lists asset pairs whose
// correlation fell back to the default.
type RiskMetrics struct {
	TotalValueUSD  decimal.Decimal     `json:"total_value_usd"`
	Volatility     float64             `json:"volatility"`
	ExpectedReturn float64             `json:"expected_return"`
	SharpeRatio    float64             `json:"sharpe_ratio"`
	SharpeDefined  bool                `json:"sharpe_defined"`
	ValueAtRisk95  decimal.Decimal     `json:"value_at_risk_95"`
	MaxDrawdown    float64             `json:"max_drawdown"`
	Contributions  []AssetContribution `json:"contributions"`
	EstimatedPairs []string            `json:"estimated_pairs,omitempty"`
}

// MarshalJSON emits null for an undefined Sharpe ratio. The in-memory NaN
// sentinel is not representable in JSON.
func (m RiskMetrics) MarshalJSON() ([]byte, error) {
	type alias RiskMetrics
	out := struct {
		alias
		SharpeRatio *float64 `json:"sharpe_ratio"`
	}{alias: alias(m)}
	if m.SharpeDefined {
		out.SharpeRatio = &m.SharpeRatio
	}
	return json.Marshal(out)
}
