package liquidity

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"quantScope/internal/model"
)

func TestAddLiquidity(t *testing.T) {
	engine := NewEngine(nil)
	pool := threePool(30_000_000)

	maxAmounts := []decimal.Decimal{
		decimal.NewFromInt(1000),
		decimal.NewFromInt(2000),
		decimal.NewFromInt(3000),
	}

	op, err := engine.Add(pool, maxAmounts)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// deposit slippage 1%
	if !op.AmountsIn[0].Equal(decimal.NewFromInt(990)) {
		t.Fatalf("amount in mismatch: %s", op.AmountsIn[0])
	}
	// lp = (990 + 1980 + 2970) * 0.95
	want := decimal.NewFromInt(5940).Mul(decimal.NewFromFloat(0.95))
	if !op.LPMinted.Equal(want) {
		t.Fatalf("lp minted mismatch: %s != %s", op.LPMinted, want)
	}

	// no value creation: minted LP never exceeds deposited USD value
	total := decimal.Zero
	for _, amount := range op.AmountsIn {
		total = total.Add(amount)
	}
	if op.LPMinted.GreaterThan(total) {
		t.Fatalf("lp minted %s exceeds deposits %s", op.LPMinted, total)
	}
}

func TestAddLiquidityInvalid(t *testing.T) {
	engine := NewEngine(nil)
	pool := threePool(30_000_000)

	_, err := engine.Add(pool, []decimal.Decimal{decimal.NewFromInt(100)})
	if !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("length mismatch: expected ErrInvalidAmount, got %v", err)
	}

	_, err = engine.Add(pool, []decimal.Decimal{
		decimal.NewFromInt(100),
		decimal.Zero,
		decimal.NewFromInt(100),
	})
	if !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("zero amount: expected ErrInvalidAmount, got %v", err)
	}
}

func TestRemoveLiquidity(t *testing.T) {
	engine := NewEngine(nil)
	pool := threePool(30_000_000)

	op, err := engine.Remove(pool, decimal.NewFromInt(1_000), decimal.NewFromInt(30_000_000))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	if len(op.AmountsOut) != 3 {
		t.Fatalf("amounts out length: %d", len(op.AmountsOut))
	}
	// share 1/30,000 of 30M TVL grown 2%, split over 3 tokens
	want := decimal.NewFromInt(1_000).Mul(decimal.NewFromFloat(1.02)).Div(decimal.NewFromInt(3))
	for i, amount := range op.AmountsOut {
		if !amount.Equal(want) {
			t.Fatalf("amount out[%d] mismatch: %s != %s", i, amount, want)
		}
	}
	if !op.LPBurned.Equal(decimal.NewFromInt(1_000)) {
		t.Fatalf("lp burned mismatch: %s", op.LPBurned)
	}
}

func TestRemoveLiquidityExceedsSupply(t *testing.T) {
	engine := NewEngine(nil)
	pool := threePool(30_000_000)

	_, err := engine.Remove(pool, decimal.NewFromInt(101), decimal.NewFromInt(100))
	if !errors.Is(err, model.ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
	}

	_, err = engine.Remove(pool, decimal.Zero, decimal.NewFromInt(100))
	if !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("zero lp: expected ErrInvalidAmount, got %v", err)
	}
}

// Adding then immediately redeeming the full minted amount must not pay out
// more than was deposited; the 5% mint discount dominates the 2% growth
// factor.
func TestAddRemoveRoundTripConservation(t *testing.T) {
	engine := NewEngine(nil)

	baseTVL := decimal.NewFromInt(10_000_000)
	baseSupply := decimal.NewFromInt(10_000_000)
	deposit := decimal.NewFromInt(30_000)

	pool := threePool(0)
	pool.TVLUSD = baseTVL
	maxAmounts := []decimal.Decimal{
		decimal.NewFromInt(10_000),
		decimal.NewFromInt(10_000),
		decimal.NewFromInt(10_000),
	}

	added, err := engine.Add(pool, maxAmounts)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	depositedTotal := decimal.Zero
	for _, amount := range added.AmountsIn {
		depositedTotal = depositedTotal.Add(amount)
	}
	pool.TVLUSD = baseTVL.Add(depositedTotal)
	supply := baseSupply.Add(added.LPMinted)

	removed, err := engine.Remove(pool, added.LPMinted, supply)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	redeemedTotal := decimal.Zero
	for _, amount := range removed.AmountsOut {
		redeemedTotal = redeemedTotal.Add(amount)
	}

	if redeemedTotal.GreaterThan(deposit) {
		t.Fatalf("round trip created value: redeemed %s > deposited %s", redeemedTotal, deposit)
	}
}

func threePool(tvl float64) model.Pool {
	return model.Pool{
		ID:       "tri",
		Name:     "Tri Stable",
		Tokens:   []string{"USDT", "USDC", "DAI"},
		Decimals: []uint8{6, 6, 18},
		SwapFee:  decimal.NewFromFloat(0.0004),
		TVLUSD:   decimal.NewFromFloat(tvl),
	}
}
