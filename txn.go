package tl2

// txState is the transaction lifecycle spec.md §4.5 describes: Active ->
// Committing -> {Committed, Aborted}. Both terminal states lead to
// destruction (End always tears the transaction down, win or lose).
type txState int

const (
	txActive txState = iota
	txCommitting
	txCommitted
	txAborted
)

// Transaction is a single TL2 transaction: a read version, a read set, a
// write set, and the region it runs against. The zero value is not usable;
// obtain one from Region.Begin.
type Transaction struct {
	region   *Region
	readOnly bool

	rv uint64
	wv uint64

	reads  readSet
	writes writeSet

	state  txState
	reason AbortReason
}

// Begin starts a new transaction against the Region, sampling the global
// versioned clock as the transaction's read version. readOnly marks the
// transaction as read-only, which lets Read skip consulting the write set
// and lets End skip the commit protocol entirely.
func (r *Region) Begin(readOnly bool) *Transaction {
	return &Transaction{
		region:   r,
		readOnly: readOnly,
		rv:       r.clock.load(),
		state:    txActive,
	}
}

// IsReadOnly reports whether the transaction was started read-only.
func (tx *Transaction) IsReadOnly() bool { return tx.readOnly }

// AbortReason reports why the transaction aborted, or AbortNone if it has
// not (yet) aborted.
func (tx *Transaction) AbortReason() AbortReason { return tx.reason }

// abort transitions the transaction to the terminal Aborted state and
// records why. It does not release any write-set locks: callers that have
// acquired locks (commit's acquire/validate phases) must release them
// before calling abort.
func (tx *Transaction) abort(reason AbortReason) bool {
	tx.state = txAborted
	tx.reason = reason
	tx.region.logger.Debug("transaction aborted", "reason", reason.String(), "rv", tx.rv)
	return false
}

// Read copies size bytes starting at src (a Region address) into dst. size
// must be a positive multiple of the Region's alignment and src must be
// aligned; violating this is undefined behavior per spec.md §7.
//
// Read returns false if the transaction aborted; the transaction is then
// terminal and must be discarded (Begin a new one and retry).
func (tx *Transaction) Read(src Address, size uintptr, dst []byte) bool {
	if tx.state != txActive {
		return false
	}

	align := tx.region.align
	for off := uintptr(0); off < size; off += align {
		wordAddr := src + Address(off)
		wordDst := dst[off : off+align]

		if !tx.readWord(wordAddr, wordDst) {
			return tx.abort(AbortReadStale)
		}
	}
	return true
}

// readWord implements the per-word read protocol: consult the write set
// (read-your-own-writes), then sandwich the shared read between a pre- and
// post-sample of the word's VWSL so a concurrent commit cannot be observed
// half-applied (spec.md §4.5, the opacity "sandwich" check).
func (tx *Transaction) readWord(addr Address, dst []byte) bool {
	if !tx.readOnly {
		if buffered := tx.writes.lookup(addr); buffered != nil {
			copy(dst, buffered)
			return true
		}
	}

	lock := tx.region.locks.lockFor(addr)

	lockedBefore, versionBefore := lock.snapshot()
	if lockedBefore || versionBefore > tx.rv {
		return false
	}

	word := tx.region.bytesAt(addr, uintptr(len(dst)))
	if word == nil {
		return false
	}
	copy(dst, word)

	lockedAfter, versionAfter := lock.snapshot()
	if lockedAfter || versionAfter != versionBefore {
		return false
	}

	if !tx.readOnly {
		tx.reads.upsert(addr)
	}
	return true
}

// Write buffers size bytes from src into the write set at Region address
// dst. No shared memory is touched and no lock is acquired; the write
// becomes visible to other transactions only if and when this transaction
// commits. size must be a positive multiple of the Region's alignment and
// dst must be aligned.
func (tx *Transaction) Write(src []byte, size uintptr, dst Address) bool {
	if tx.state != txActive {
		return false
	}

	align := tx.region.align
	for off := uintptr(0); off < size; off += align {
		wordAddr := dst + Address(off)
		wordSrc := src[off : off+align]
		tx.writes.upsert(wordAddr, wordSrc, align)
	}
	return true
}

// End commits the transaction if it is a write transaction with a
// non-empty write set, or trivially succeeds otherwise (read-only
// transactions validated on every Read; write transactions with nothing
// buffered have nothing to conflict on). It always terminates the
// transaction: the return value is the final commit/abort outcome, and the
// transaction must not be used again afterward.
func (tx *Transaction) End() bool {
	if tx.state != txActive {
		return false
	}

	if tx.readOnly || tx.writes.empty() {
		tx.state = txCommitted
		return true
	}

	tx.state = txCommitting
	return tx.commit()
}
