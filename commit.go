package tl2

// commit runs the two-phase TL2 commit protocol for a write transaction
// with a non-empty write set: lock the write set, bump the global clock,
// validate the read set, then publish writes and release locks
// (spec.md §4.5).
func (tx *Transaction) commit() bool {
	region := tx.region

	locked := make([]*vwsl, 0, 8)
	releaseAll := func() {
		for _, l := range locked {
			l.unlockPreserveVersion()
		}
	}
	alreadyLocked := func(l *vwsl) bool {
		for _, h := range locked {
			if h == l {
				return true
			}
		}
		return false
	}

	// Acquire phase: lock the write set in ascending address order, which
	// is what makes lock acquisition order identical across all
	// concurrent committers and therefore deadlock-free.
	aborted := false
	tx.writes.forEach(func(n *writeSetNode) {
		if aborted {
			return
		}
		lock := region.locks.lockFor(n.addr)
		if alreadyLocked(lock) {
			return
		}
		if !tx.tryAcquire(lock) {
			aborted = true
			return
		}
		locked = append(locked, lock)
	})
	if aborted {
		releaseAll()
		return tx.abort(AbortWriteLockTimeout)
	}

	// Timestamp phase.
	wv := region.clock.incrementAndFetch()
	tx.wv = wv

	// Validate phase: if no committer interleaved between our rv and wv,
	// every earlier read is still consistent by construction and
	// revalidation can be skipped (spec.md §4.5 "GVC fast path").
	if wv != tx.rv+1 {
		valid := true
		for n := tx.reads.head; n != nil && valid; n = n.next {
			lock := region.locks.lockFor(n.addr)
			wordLocked, version := lock.snapshot()
			if wordLocked && !alreadyLocked(lock) {
				valid = false
				break
			}
			if version > tx.rv {
				valid = false
				break
			}
		}
		if !valid {
			releaseAll()
			return tx.abort(AbortValidationFailed)
		}
	}

	// Publish phase: write each buffered value into shared memory, then
	// publish the new version and release the lock in one atomic store.
	tx.writes.forEach(func(n *writeSetNode) {
		word := region.bytesAt(n.addr, n.size)
		copy(word, n.val)
	})
	for _, l := range locked {
		l.setVersionAndUnlock(wv)
	}

	tx.state = txCommitted
	return true
}

// tryAcquire retries lock.tryLock up to the Region's configured bound,
// backing off between attempts, before giving up. This bounds the amount
// of time a committer can spend contending for a single word's lock,
// which is the livelock mitigation spec.md §9 calls for.
func (tx *Transaction) tryAcquire(lock *vwsl) bool {
	limit := tx.region.commitRetryLimit
	backoff := tx.region.commitBackoff
	for attempt := 0; attempt < limit; attempt++ {
		if lock.tryLock() {
			return true
		}
		backoff(attempt)
	}
	return false
}
