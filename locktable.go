package tl2

// lockTable is a fixed-size array of versioned write spinlocks. Every word
// address in a Region maps to exactly one lock via a bit-mixing hash;
// distinct addresses landing on the same lock only cost concurrency, never
// correctness.
type lockTable struct {
	locks []vwsl
}

func newLockTable(size int) *lockTable {
	if size <= 0 {
		size = defaultLockTableSize
	}
	return &lockTable{locks: make([]vwsl, size)}
}

// lockFor returns the lock covering addr. The mapping is a pure function
// of addr and table size, stable for the Region's lifetime.
func (t *lockTable) lockFor(addr address) *vwsl {
	h := splitMix64(uint64(addr))
	return &t.locks[h%uint64(len(t.locks))]
}

// splitMix64 is the finalizer (mixing) step of the SplitMix64 PRNG, reused
// here purely as a bit mixer: it spreads the low bits of pointer-derived
// addresses (which cluster on alignment boundaries) across the full key
// space before the modulo reduction, avoiding systematic collisions on
// stride-aligned addresses.
func splitMix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	x = x ^ (x >> 31)
	return x
}
