package tl2

import "sync/atomic"

// vwsl is a versioned write spinlock: a single atomic word whose low bit is
// a lock flag and whose remaining 63 bits are a monotonically increasing
// version. Packing both into one word lets a reader sample lock state and
// version atomically in a single load, which is what makes the read
// "sandwich" check in Transaction.Read race-free.
//
// All operations use sequentially consistent atomics. try acquire never
// spins; bounded retry belongs to the caller (see commit.go).
type vwsl uint64

const vwslLockBit = uint64(1)

// snapshot decomposes the current state of the lock.
func (l *vwsl) snapshot() (locked bool, version uint64) {
	v := atomic.LoadUint64((*uint64)(l))
	return v&vwslLockBit != 0, v >> 1
}

// tryLock attempts to set the lock bit while preserving the version. It
// performs exactly one compare-and-swap and never blocks: if the lock is
// already held, or another writer wins the race, it returns false
// immediately.
func (l *vwsl) tryLock() bool {
	v := atomic.LoadUint64((*uint64)(l))
	if v&vwslLockBit != 0 {
		return false
	}
	return atomic.CompareAndSwapUint64((*uint64)(l), v, v|vwslLockBit)
}

// unlockPreserveVersion clears the lock bit without advancing the version.
// Used when a committing transaction fails validation after already
// locking its write set.
func (l *vwsl) unlockPreserveVersion() {
	v := atomic.LoadUint64((*uint64)(l))
	atomic.StoreUint64((*uint64)(l), v&^vwslLockBit)
}

// setVersionAndUnlock publishes newVersion and releases the lock in one
// atomic store. Caller must already hold the lock.
func (l *vwsl) setVersionAndUnlock(newVersion uint64) {
	atomic.StoreUint64((*uint64)(l), newVersion<<1)
}
