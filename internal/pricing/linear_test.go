package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"quantScope/internal/model"
)

func TestLinearModelCappedImpact(t *testing.T) {
	pool := testPool("curve-3pool", 100_000_000, 0.0004)
	amountIn := decimal.NewFromInt(1_000_000)

	estimate, err := NewLinearModel().PriceSwap(pool, 0, 1, amountIn)
	if err != nil {
		t.Fatalf("price swap: %v", err)
	}

	// impactFactor = 1,000,000 / (100,000,000 * 0.01) = 1.0 -> capped at 0.05
	if !estimate.PriceImpact.Equal(decimal.NewFromFloat(0.05)) {
		t.Fatalf("price impact mismatch: %s", estimate.PriceImpact)
	}
	if !estimate.Fee.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("fee mismatch: %s", estimate.Fee)
	}
	if !estimate.ExpectedOutput.Equal(decimal.NewFromInt(949_600)) {
		t.Fatalf("expected output mismatch: %s", estimate.ExpectedOutput)
	}
}

func TestLinearModelBelowCap(t *testing.T) {
	pool := testPool("deep", 100_000_000, 0.001)
	amountIn := decimal.NewFromInt(100_000)

	estimate, err := NewLinearModel().PriceSwap(pool, 0, 1, amountIn)
	if err != nil {
		t.Fatalf("price swap: %v", err)
	}

	// impactFactor = 100,000 / 1,000,000 = 0.1 -> impact 0.1 * 0.5 = 0.05,
	// exactly at the cap boundary
	if !estimate.PriceImpact.Equal(decimal.NewFromFloat(0.05)) {
		t.Fatalf("price impact mismatch: %s", estimate.PriceImpact)
	}

	smaller, err := NewLinearModel().PriceSwap(pool, 0, 1, decimal.NewFromInt(10_000))
	if err != nil {
		t.Fatalf("price swap: %v", err)
	}
	if !smaller.PriceImpact.Equal(decimal.NewFromFloat(0.005)) {
		t.Fatalf("price impact mismatch: %s", smaller.PriceImpact)
	}
	if smaller.ExpectedOutput.GreaterThan(decimal.NewFromInt(10_000)) {
		t.Fatalf("output exceeds input: %s", smaller.ExpectedOutput)
	}
}

func TestLinearModelImpactMonotonic(t *testing.T) {
	pool := testPool("mono", 50_000_000, 0.0004)
	lmodel := NewLinearModel()

	prev := decimal.Zero
	for _, amount := range []int64{1_000, 10_000, 100_000, 1_000_000, 10_000_000} {
		estimate, err := lmodel.PriceSwap(pool, 0, 1, decimal.NewFromInt(amount))
		if err != nil {
			t.Fatalf("price swap %d: %v", amount, err)
		}
		if estimate.PriceImpact.LessThan(prev) {
			t.Fatalf("impact decreased at amount %d: %s < %s", amount, estimate.PriceImpact, prev)
		}
		prev = estimate.PriceImpact
	}
}

func TestLinearModelInvalidInputs(t *testing.T) {
	pool := testPool("p", 1_000_000, 0.003)
	lmodel := NewLinearModel()

	if _, err := lmodel.PriceSwap(pool, 0, 1, decimal.Zero); !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("zero amount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := lmodel.PriceSwap(pool, 0, 1, decimal.NewFromInt(-5)); !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("negative amount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := lmodel.PriceSwap(pool, 0, 5, decimal.NewFromInt(10)); !errors.Is(err, model.ErrTokenNotInPool) {
		t.Fatalf("bad index: expected ErrTokenNotInPool, got %v", err)
	}
	if _, err := lmodel.PriceSwap(pool, 1, 1, decimal.NewFromInt(10)); !errors.Is(err, model.ErrTokenNotInPool) {
		t.Fatalf("same index: expected ErrTokenNotInPool, got %v", err)
	}
}

func TestLinearModelZeroTVL(t *testing.T) {
	pool := testPool("empty", 0, 0.003)

	estimate, err := NewLinearModel().PriceSwap(pool, 0, 1, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("price swap: %v", err)
	}
	if !estimate.PriceImpact.Equal(decimal.NewFromFloat(0.05)) {
		t.Fatalf("zero tvl should hit the cap: %s", estimate.PriceImpact)
	}
}

func testPool(id string, tvl float64, fee float64) model.Pool {
	return model.Pool{
		ID:       id,
		Name:     id,
		Tokens:   []string{"USDT", "USDC"},
		Decimals: []uint8{6, 6},
		SwapFee:  decimal.NewFromFloat(fee),
		TVLUSD:   decimal.NewFromFloat(tvl),
	}
}
