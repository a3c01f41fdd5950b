// Package itemmemory provides the deterministic symbol-to-hypervector
// mapping: on a cache miss the vector is reconstructed by seeded
// regeneration, so eviction is only ever a performance concern, never a
// correctness one.
package itemmemory

import (
	"sync"

	"cortexd/internal/logging"
	"cortexd/internal/symbol"
	"cortexd/internal/vsa"
)

var log = logging.Get(logging.CategorySymbol)

// ItemMemory caches symbol -> hypervector so repeated lookups avoid
// re-seeding a PRNG. It is safe for concurrent use; concurrent misses for
// the same id independently compute semantically equal vectors thanks to
// EncodeSymbol's determinism, so no lock is held across the encode call.
type ItemMemory struct {
	ops *vsa.Ops

	mu    sync.RWMutex
	cache map[symbol.ID]vsa.HyperVec
}

// New constructs an empty ItemMemory bound to ops.
func New(ops *vsa.Ops) *ItemMemory {
	return &ItemMemory{ops: ops, cache: make(map[symbol.ID]vsa.HyperVec)}
}

// GetOrCreate returns the cached vector for id, computing and inserting it
// via vsa.EncodeSymbol on a miss.
func (m *ItemMemory) GetOrCreate(id symbol.ID) vsa.HyperVec {
	m.mu.RLock()
	if v, ok := m.cache[id]; ok {
		m.mu.RUnlock()
		return v
	}
	m.mu.RUnlock()

	v := vsa.EncodeSymbol(m.ops, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.cache[id]; ok {
		// Another goroutine won the race; its vector is semantically
		// identical, so keep it to minimize churn.
		return existing
	}
	m.cache[id] = v
	return v
}

// Insert externally supplies a vector for id (e.g. a code-pattern vector
// computed outside encode_symbol), overwriting any cached value.
func (m *ItemMemory) Insert(id symbol.ID, v vsa.HyperVec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[id] = v
}

// Evict drops id from the cache. Safe even if id is absent; reconstruction
// on the next GetOrCreate recomputes the same vector.
func (m *ItemMemory) Evict(id symbol.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, id)
	log.Debug("evicted item memory entry for %s", id)
}

// Len reports the number of cached entries.
func (m *ItemMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}
