// Package tl2 implements a software transactional memory engine over the
// TL2 (Transactional Locking II) algorithm.
//
// A Region exposes a fixed-size, word-addressable block of memory. Client
// goroutines group loads and stores into transactions that appear to run
// atomically and in a single serializable order:
//
//	region, err := tl2.Create(64, 8)
//	tx := region.Begin(false)
//	var buf [8]byte
//	if !tx.Read(region.Start(), 8, buf[:]) {
//	    // aborted, retry from Begin
//	}
//	tx.Write(buf[:], 8, region.Start())
//	if !tx.End() {
//	    // aborted, retry from Begin
//	}
//
// Transactions are optimistic: reads and writes are buffered speculatively
// and validated against a global version clock at commit time. A
// transaction that observes a stale or concurrently-modified value aborts;
// the caller is expected to retry it from Begin.
//
// tl2 makes no attempt to survive process or OS-level faults, does not
// support nested transactions, and provides no fairness guarantee between
// competing transactions beyond the livelock mitigation of a bounded
// commit-lock retry count.
package tl2
