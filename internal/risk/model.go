package risk

import (
	"fmt"

	"quantScope/internal/model"
)

// Defaults applied to assets missing from the model. Defaulted values feed
// into diagnostics rather than failing the computation.
const (
	DefaultVolatility     = 0.05
	DefaultExpectedReturn = 0.03
)

// Model holds static per-asset risk data and pairwise correlations. It is
// immutable once built; refreshes construct a new Model and swap it in.
type Model struct {
	profiles map[string]model.AssetRiskProfile
	matrix   model.CorrelationMatrix
}

// NewModel validates the profiles and builds an immutable risk model.
func NewModel(profiles []model.AssetRiskProfile, matrix model.CorrelationMatrix) (*Model, error) {
	bySymbol := make(map[string]model.AssetRiskProfile, len(profiles))
	for _, profile := range profiles {
		if err := profile.Validate(); err != nil {
			return nil, err
		}
		if _, dup := bySymbol[profile.Symbol]; dup {
			return nil, fmt.Errorf("risk model: duplicate profile %s", profile.Symbol)
		}
		bySymbol[profile.Symbol] = profile
	}
	return &Model{profiles: bySymbol, matrix: matrix}, nil
}

// Profile returns the stored profile and whether it was listed.
func (m *Model) Profile(symbol string) (model.AssetRiskProfile, bool) {
	profile, ok := m.profiles[symbol]
	return profile, ok
}

// Volatility returns annualized volatility, defaulting for unlisted assets.
func (m *Model) Volatility(symbol string) float64 {
	if profile, ok := m.profiles[symbol]; ok {
		return profile.Volatility
	}
	return DefaultVolatility
}

// ExpectedReturn returns the expected annual return, defaulting for
// unlisted assets.
func (m *Model) ExpectedReturn(symbol string) float64 {
	if profile, ok := m.profiles[symbol]; ok {
		return profile.ExpectedReturn
	}
	return DefaultExpectedReturn
}

// Correlation returns the pairwise correlation and whether it was estimated
// from the default rather than measured.
func (m *Model) Correlation(a, b string) (float64, bool) {
	return m.matrix.Lookup(a, b)
}
