package model

import "github.com/shopspring/decimal"

// HopFee is the fee charged on a single hop, denominated in that hop's
// input token. Fees across hops are tracked separately, never summed
// across denominations.
type HopFee struct {
	Token  string          `json:"token"`
	Amount decimal.Decimal `json:"amount"`
}

// Quote is the result of pricing a swap across one or more pools.
type Quote struct {
	TokenIn           string          `json:"token_in"`
	TokenOut          string          `json:"token_out"`
	AmountIn          decimal.Decimal `json:"amount_in"`
	ExpectedOutput    decimal.Decimal `json:"expected_output"`
	MinimumOutput     decimal.Decimal `json:"minimum_output"`
	PriceImpact       decimal.Decimal `json:"price_impact"`
	Fees              []HopFee        `json:"fees"`
	Route             []string        `json:"route"`
	Pools             []string        `json:"pools"`
	SlippageTolerance decimal.Decimal `json:"slippage_tolerance"`
}
