package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quantScope/internal/model"
	"quantScope/internal/oracle"
	"quantScope/internal/risk"
)

// FileSource loads pool metadata from a JSON file. Suitable for fixtures
// and local runs.
type FileSource struct {
	Path string
}

// FetchPools reads and parses the pool file.
func (s FileSource) FetchPools(_ context.Context) ([]model.Pool, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("pools file path is required")
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read pools file: %w", err)
	}

	var pools []model.Pool
	if err := json.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("parse pools file: %w", err)
	}
	for _, pool := range pools {
		if err := pool.Validate(); err != nil {
			return nil, err
		}
	}
	return pools, nil
}

type bindingsFile struct {
	Bindings []PoolBinding                `json:"bindings"`
	Prices   map[string]oracle.PricePoint `json:"prices,omitempty"`
}

// LoadBindings reads chain pool bindings and optional static reference
// prices from a JSON file.
func LoadBindings(path string) ([]PoolBinding, map[string]oracle.PricePoint, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("bindings file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read bindings file: %w", err)
	}

	var parsed bindingsFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, nil, fmt.Errorf("parse bindings file: %w", err)
	}
	for _, binding := range parsed.Bindings {
		if err := binding.Validate(); err != nil {
			return nil, nil, err
		}
	}
	return parsed.Bindings, parsed.Prices, nil
}

type riskFile struct {
	Profiles     []model.AssetRiskProfile `json:"profiles"`
	Correlations []model.CorrelationEntry `json:"correlations"`
}

// LoadRiskModel reads asset risk profiles and correlations from a JSON file
// and builds an immutable risk model.
func LoadRiskModel(path string) (*risk.Model, error) {
	if path == "" {
		return nil, fmt.Errorf("risk file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read risk file: %w", err)
	}

	var parsed riskFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse risk file: %w", err)
	}

	matrix, err := model.NewCorrelationMatrix(parsed.Correlations)
	if err != nil {
		return nil, err
	}
	return risk.NewModel(parsed.Profiles, matrix)
}
