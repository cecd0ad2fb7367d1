package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"quantScope/internal/model"
)

// Store provides Postgres persistence for pool metadata and quote audit
// records. Decimal values are persisted as text to avoid precision loss.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPools inserts or updates pool metadata.
func (s *Store) UpsertPools(ctx context.Context, pools []model.Pool) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO pools (
				id, name, tokens, decimals, swap_fee, admin_fee, tvl_usd, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (id)
			DO UPDATE SET
				name = EXCLUDED.name,
				tokens = EXCLUDED.tokens,
				decimals = EXCLUDED.decimals,
				swap_fee = EXCLUDED.swap_fee,
				admin_fee = EXCLUDED.admin_fee,
				tvl_usd = EXCLUDED.tvl_usd,
				updated_at = now()
		`,
			pool.ID,
			pool.Name,
			pool.Tokens,
			decimalsToInts(pool.Decimals),
			pool.SwapFee.String(),
			pool.AdminFee.String(),
			pool.TVLUSD.String(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadPools returns all pool metadata in insertion order.
func (s *Store) LoadPools(ctx context.Context) ([]model.Pool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, tokens, decimals, swap_fee, admin_fee, tvl_usd
		FROM pools
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []model.Pool
	for rows.Next() {
		var (
			pool     model.Pool
			decimals []int32
			swapFee  string
			adminFee string
			tvl      string
		)
		if err := rows.Scan(&pool.ID, &pool.Name, &pool.Tokens, &decimals, &swapFee, &adminFee, &tvl); err != nil {
			return nil, err
		}
		pool.Decimals = intsToDecimals(decimals)
		if pool.SwapFee, err = decimal.NewFromString(swapFee); err != nil {
			return nil, fmt.Errorf("pool %s: swap fee: %w", pool.ID, err)
		}
		if pool.AdminFee, err = decimal.NewFromString(adminFee); err != nil {
			return nil, fmt.Errorf("pool %s: admin fee: %w", pool.ID, err)
		}
		if pool.TVLUSD, err = decimal.NewFromString(tvl); err != nil {
			return nil, fmt.Errorf("pool %s: tvl: %w", pool.ID, err)
		}
		pools = append(pools, pool)
	}
	return pools, rows.Err()
}

// InsertQuotes appends quote audit records.
func (s *Store) InsertQuotes(ctx context.Context, quotes []model.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, quote := range quotes {
		batch.Queue(`
			INSERT INTO quotes (
				token_in, token_out, amount_in, expected_output, minimum_output,
				price_impact, slippage_tolerance, route, pools, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		`,
			quote.TokenIn,
			quote.TokenOut,
			quote.AmountIn.String(),
			quote.ExpectedOutput.String(),
			quote.MinimumOutput.String(),
			quote.PriceImpact.String(),
			quote.SlippageTolerance.String(),
			quote.Route,
			quote.Pools,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range quotes {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func decimalsToInts(decimals []uint8) []int32 {
	out := make([]int32, len(decimals))
	for i, d := range decimals {
		out[i] = int32(d)
	}
	return out
}

func intsToDecimals(ints []int32) []uint8 {
	out := make([]uint8, len(ints))
	for i, d := range ints {
		out[i] = uint8(d)
	}
	return out
}
