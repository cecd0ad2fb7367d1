package datasource

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantScope/internal/chain"
	"quantScope/internal/model"
	"quantScope/internal/oracle"
)

// PoolBinding ties static pool metadata to on-chain addresses. Token
// addresses are parallel to Pool.Tokens.
type PoolBinding struct {
	Pool           model.Pool `json:"pool"`
	PoolAddress    string     `json:"pool_address"`
	TokenAddresses []string   `json:"token_addresses"`
}

// Validate checks the binding shape and addresses.
func (b PoolBinding) Validate() error {
	if err := b.Pool.Validate(); err != nil {
		return err
	}
	if !common.IsHexAddress(b.PoolAddress) {
		return fmt.Errorf("pool %s: invalid pool address %s", b.Pool.ID, b.PoolAddress)
	}
	if len(b.TokenAddresses) != len(b.Pool.Tokens) {
		return fmt.Errorf("pool %s: %d token addresses for %d tokens", b.Pool.ID, len(b.TokenAddresses), len(b.Pool.Tokens))
	}
	for _, addr := range b.TokenAddresses {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("pool %s: invalid token address %s", b.Pool.ID, addr)
		}
	}
	return nil
}

// TokenDecimalsCache caches ERC20 decimals by address.
type TokenDecimalsCache struct {
	mu   sync.RWMutex
	data map[common.Address]uint8
}

func NewTokenDecimalsCache() *TokenDecimalsCache {
	return &TokenDecimalsCache{data: make(map[common.Address]uint8)}
}

func (c *TokenDecimalsCache) Get(address common.Address) (uint8, bool) {
	c.mu.RLock()
	decimals, ok := c.data[address]
	c.mu.RUnlock()
	return decimals, ok
}

func (c *TokenDecimalsCache) Set(address common.Address, decimals uint8) {
	c.mu.Lock()
	c.data[address] = decimals
	c.mu.Unlock()
}

// ChainSource refreshes pool TVL from on-chain ERC20 balances valued
// through a price oracle. Retries belong here, at the I/O boundary, not in
// the engine.
type ChainSource struct {
	client     *chain.Client
	prices     oracle.PriceOracle
	bindings   []PoolBinding
	decimals   *TokenDecimalsCache
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

func NewChainSource(client *chain.Client, prices oracle.PriceOracle, bindings []PoolBinding, logger *zap.Logger) (*ChainSource, error) {
	if client == nil {
		return nil, fmt.Errorf("chain client is required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price oracle is required")
	}
	for _, binding := range bindings {
		if err := binding.Validate(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainSource{
		client:     client,
		prices:     prices,
		bindings:   bindings,
		decimals:   NewTokenDecimalsCache(),
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
		logger:     logger,
	}, nil
}

// FetchPools returns the bound pools with TVL recomputed from chain state.
// Pools whose balances cannot be read keep their last known TVL.
func (s *ChainSource) FetchPools(ctx context.Context) ([]model.Pool, error) {
	pools := make([]model.Pool, 0, len(s.bindings))
	for i := range s.bindings {
		binding := &s.bindings[i]
		tvl, err := s.fetchTVL(ctx, binding)
		if err != nil {
			s.logger.Warn("tvl refresh failed, keeping last value",
				zap.String("pool", binding.Pool.ID),
				zap.Error(err),
			)
		} else {
			binding.Pool.TVLUSD = tvl
		}
		pools = append(pools, binding.Pool)
	}
	return pools, nil
}

func (s *ChainSource) fetchTVL(ctx context.Context, binding *PoolBinding) (decimal.Decimal, error) {
	poolAddr := common.HexToAddress(binding.PoolAddress)
	tvl := decimal.Zero

	for i, symbol := range binding.Pool.Tokens {
		tokenAddr := common.HexToAddress(binding.TokenAddresses[i])

		var balance *big.Int
		err := withRetry(ctx, s.maxRetries, s.backoff, func(ctx context.Context) error {
			var callErr error
			balance, callErr = chain.BalanceOf(ctx, s.client, tokenAddr, poolAddr)
			return callErr
		})
		if err != nil {
			return decimal.Zero, fmt.Errorf("balance %s: %w", symbol, err)
		}

		decimals, err := s.tokenDecimals(ctx, tokenAddr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("decimals %s: %w", symbol, err)
		}

		point, err := s.prices.GetPrice(ctx, oracle.USDPair(symbol))
		if err != nil {
			return decimal.Zero, fmt.Errorf("price %s: %w", symbol, err)
		}

		amount := decimal.NewFromBigInt(balance, -int32(decimals))
		tvl = tvl.Add(amount.Mul(point.Value))
	}

	return tvl, nil
}

func (s *ChainSource) tokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	if decimals, ok := s.decimals.Get(token); ok {
		return decimals, nil
	}
	var decimals uint8
	err := withRetry(ctx, s.maxRetries, s.backoff, func(ctx context.Context) error {
		var callErr error
		decimals, callErr = chain.TokenDecimals(ctx, s.client, token)
		return callErr
	})
	if err != nil {
		return 0, err
	}
	s.decimals.Set(token, decimals)
	return decimals, nil
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
