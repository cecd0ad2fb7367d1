package pricing

import (
	"github.com/shopspring/decimal"

	"quantScope/internal/model"
)

// SwapEstimate is the output of pricing a single hop.
type SwapEstimate struct {
	PriceImpact    decimal.Decimal
	Fee            decimal.Decimal
	ExpectedOutput decimal.Decimal
}

// Model prices a single-hop swap against one pool. Implementations must be
// pure functions of the pool state so quotes are deterministic and
// replayable.
type Model interface {
	PriceSwap(pool model.Pool, tokenInIdx, tokenOutIdx int, amountIn decimal.Decimal) (SwapEstimate, error)
}
