package registry

import (
	"fmt"
	"sync/atomic"

	"quantScope/internal/model"
)

// Snapshot is an immutable view of the pool set. Lookup helpers preserve
// registry insertion order.
type Snapshot struct {
	pools []model.Pool
	byID  map[string]int
}

// NewSnapshot validates the pools and builds an immutable snapshot.
func NewSnapshot(pools []model.Pool) (*Snapshot, error) {
	copied := make([]model.Pool, len(pools))
	copy(copied, pools)

	byID := make(map[string]int, len(copied))
	for i, pool := range copied {
		if err := pool.Validate(); err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		if _, dup := byID[pool.ID]; dup {
			return nil, fmt.Errorf("snapshot: duplicate pool id %s", pool.ID)
		}
		byID[pool.ID] = i
	}

	return &Snapshot{pools: copied, byID: byID}, nil
}

// Len returns the number of pools.
func (s *Snapshot) Len() int {
	return len(s.pools)
}

// At returns the pool at index i in registry order.
func (s *Snapshot) At(i int) model.Pool {
	return s.pools[i]
}

// PoolByID looks up a pool by identifier.
func (s *Snapshot) PoolByID(id string) (model.Pool, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Pool{}, false
	}
	return s.pools[i], true
}

// PoolsWithPair returns pools containing both symbols, in registry order.
func (s *Snapshot) PoolsWithPair(a, b string) []model.Pool {
	var out []model.Pool
	for _, pool := range s.pools {
		if pool.HasPair(a, b) {
			out = append(out, pool)
		}
	}
	return out
}

// PoolsWithToken returns pools containing the symbol, in registry order.
func (s *Snapshot) PoolsWithToken(symbol string) []model.Pool {
	var out []model.Pool
	for _, pool := range s.pools {
		if _, ok := pool.TokenIndex(symbol); ok {
			out = append(out, pool)
		}
	}
	return out
}

// Registry holds the current pool snapshot. Readers always observe a fully
// built snapshot; refreshes swap the pointer atomically and never block
// readers.
type Registry struct {
	current atomic.Pointer[Snapshot]
}

// New creates a registry holding the given snapshot. A nil snapshot starts
// the registry empty.
func New(initial *Snapshot) *Registry {
	r := &Registry{}
	if initial == nil {
		initial = &Snapshot{byID: map[string]int{}}
	}
	r.current.Store(initial)
	return r
}

// Snapshot returns the current immutable snapshot.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// Swap replaces the current snapshot. Nil snapshots are ignored.
func (r *Registry) Swap(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	r.current.Store(snapshot)
}
