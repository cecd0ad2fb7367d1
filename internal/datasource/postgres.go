package datasource

import (
	"context"
	"fmt"

	"quantScope/internal/model"
	"quantScope/internal/storage/postgres"
)

// PostgresSource loads registry snapshots from the Postgres store.
type PostgresSource struct {
	Store *postgres.Store
}

func (s PostgresSource) FetchPools(ctx context.Context) ([]model.Pool, error) {
	if s.Store == nil {
		return nil, fmt.Errorf("postgres store is required")
	}
	return s.Store.LoadPools(ctx)
}
