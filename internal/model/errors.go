package model

import "errors"

// Engine error kinds. Every public operation returns one of these or a
// wrapped variant, never an untyped failure.
var (
	ErrPoolNotFound          = errors.New("pool not found")
	ErrTokenNotInPool        = errors.New("token not in pool")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrNoRouteFound          = errors.New("no route found")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)
