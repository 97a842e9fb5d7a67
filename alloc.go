package tl2

// AllocStatus is the outcome of Transaction.Alloc, standing in for the C
// API's SUCCESS / NOMEM / ABORT_ALLOC tri-state return.
type AllocStatus int

const (
	AllocSuccess AllocStatus = iota
	AllocNoMem
	AllocAbort
)

// Alloc allocates an align-aligned segment of size bytes (size must be a
// multiple of the Region's alignment) and links it into the Region's
// segment list. The new segment is registered for eventual release, but
// only at Destroy — freeing within a transaction is always deferred (see
// Free), which sidesteps the transactional-free coordination problem
// entirely (spec.md §4.5, §9 "Deferred segment freeing").
func (tx *Transaction) Alloc(size uintptr) (Address, AllocStatus) {
	if tx.state != txActive {
		return 0, AllocAbort
	}
	if size == 0 || size%tx.region.align != 0 {
		// Misuse (spec.md §7): undefined behavior, callers must not pass
		// an unaligned size. Reported as AllocAbort rather than panicking.
		return 0, AllocAbort
	}

	seg := func() (s *segment) {
		defer func() {
			if recover() != nil {
				s = nil
			}
		}()
		return newAlignedSegment(size, tx.region.align)
	}()
	if seg == nil {
		return 0, AllocNoMem
	}

	r := tx.region
	r.segMu.Lock()
	seg.prev = r.last
	r.last.next = seg
	r.last = seg
	r.segMu.Unlock()

	r.logger.Debug("segment allocated", "size", size, "addr", seg.base())
	return seg.base(), AllocSuccess
}

// Free releases nothing itself: every segment is freed at Region.Destroy.
// It reports true when addr lies inside a live segment of the Region, and
// false when it does not or when the transaction has already ended.
func (tx *Transaction) Free(addr Address) bool {
	if tx.state != txActive {
		return false
	}
	return tx.region.segmentFor(addr, tx.region.align) != nil
}
