package registry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"quantScope/internal/model"
)

func TestSnapshotLookups(t *testing.T) {
	snapshot, err := NewSnapshot([]model.Pool{
		registryPool("eth-usdc", "ETH", "USDC"),
		registryPool("wbtc-usdc", "WBTC", "USDC"),
		registryPool("eth-usdc-2", "ETH", "USDC"),
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snapshot.Len() != 3 {
		t.Fatalf("len mismatch: %d", snapshot.Len())
	}
	if pool, ok := snapshot.PoolByID("wbtc-usdc"); !ok || pool.ID != "wbtc-usdc" {
		t.Fatalf("pool by id failed: %v %v", pool, ok)
	}
	if _, ok := snapshot.PoolByID("missing"); ok {
		t.Fatalf("missing id should not resolve")
	}

	pairs := snapshot.PoolsWithPair("USDC", "ETH")
	if len(pairs) != 2 || pairs[0].ID != "eth-usdc" || pairs[1].ID != "eth-usdc-2" {
		t.Fatalf("pair lookup order mismatch: %v", pairs)
	}

	withUSDC := snapshot.PoolsWithToken("USDC")
	if len(withUSDC) != 3 {
		t.Fatalf("token lookup mismatch: %v", withUSDC)
	}
}

func TestSnapshotRejectsDuplicatesAndInvalid(t *testing.T) {
	_, err := NewSnapshot([]model.Pool{
		registryPool("dup", "ETH", "USDC"),
		registryPool("dup", "WBTC", "USDC"),
	})
	if err == nil {
		t.Fatalf("duplicate ids should fail")
	}

	bad := registryPool("bad", "ETH", "USDC")
	bad.Tokens = []string{"ETH"}
	if _, err := NewSnapshot([]model.Pool{bad}); err == nil {
		t.Fatalf("invalid pool should fail")
	}
}

func TestSnapshotCopiesInput(t *testing.T) {
	pools := []model.Pool{registryPool("eth-usdc", "ETH", "USDC")}
	snapshot, err := NewSnapshot(pools)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	pools[0].ID = "mutated"
	if got := snapshot.At(0).ID; got != "eth-usdc" {
		t.Fatalf("snapshot shares caller slice: %s", got)
	}
}

func TestRegistrySwapUnderConcurrentReads(t *testing.T) {
	first, err := NewSnapshot([]model.Pool{registryPool("a", "ETH", "USDC")})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	second, err := NewSnapshot([]model.Pool{
		registryPool("a", "ETH", "USDC"),
		registryPool("b", "WBTC", "USDC"),
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	reg := New(first)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				snap := reg.Snapshot()
				if n := snap.Len(); n != 1 && n != 2 {
					t.Errorf("torn snapshot: len %d", n)
					return
				}
			}
		}()
	}
	reg.Swap(second)
	wg.Wait()

	if reg.Snapshot().Len() != 2 {
		t.Fatalf("swap not visible")
	}

	reg.Swap(nil)
	if reg.Snapshot().Len() != 2 {
		t.Fatalf("nil swap should be ignored")
	}
}

func TestRefreshOnce(t *testing.T) {
	reg := New(nil)
	source := &fakeSource{pools: []model.Pool{registryPool("eth-usdc", "ETH", "USDC")}}
	refresher := NewRefresher(reg, source, 0, nil)

	if err := refresher.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if reg.Snapshot().Len() != 1 {
		t.Fatalf("snapshot not refreshed")
	}

	// fetch failure keeps the previous snapshot
	source.err = errors.New("rpc down")
	if err := refresher.RefreshOnce(context.Background()); err == nil {
		t.Fatalf("expected fetch error")
	}
	if reg.Snapshot().Len() != 1 {
		t.Fatalf("failed refresh should keep old snapshot")
	}

	// invalid pools keep the previous snapshot too
	bad := registryPool("bad", "ETH", "USDC")
	bad.Decimals = nil
	source.err = nil
	source.pools = []model.Pool{bad}
	if err := refresher.RefreshOnce(context.Background()); err == nil {
		t.Fatalf("expected validation error")
	}
	if got, ok := reg.Snapshot().PoolByID("eth-usdc"); !ok || got.ID != "eth-usdc" {
		t.Fatalf("failed refresh should keep old snapshot")
	}
}

type fakeSource struct {
	pools []model.Pool
	err   error
}

func (s *fakeSource) FetchPools(context.Context) ([]model.Pool, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pools, nil
}

func registryPool(id, tokenA, tokenB string) model.Pool {
	return model.Pool{
		ID:       id,
		Name:     id,
		Tokens:   []string{tokenA, tokenB},
		Decimals: []uint8{18, 6},
		SwapFee:  decimal.NewFromFloat(0.003),
		TVLUSD:   decimal.NewFromInt(1_000_000),
	}
}
