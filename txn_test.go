package tl2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRegion(t *testing.T, size, align uintptr) *Region {
	t.Helper()
	region, err := Create(size, align, WithLockTableSize(32))
	require.NoError(t, err)
	t.Cleanup(region.Destroy)
	return region
}

// TestTransaction_SelfReadSeesOwnWrite is spec.md §8 property 6
// (idempotence of self-reads).
func TestTransaction_SelfReadSeesOwnWrite(t *testing.T) {
	region := newTestRegion(t, 8, 8)
	tx := region.Begin(false)

	val := []byte{0, 0, 0, 0, 0, 0, 0, 22}
	require.True(t, tx.Write(val, 8, region.Start()))

	var out [8]byte
	require.True(t, tx.Read(region.Start(), 8, out[:]))
	require.Equal(t, val, out[:])
}

func TestTransaction_ReadOnlyIgnoresWriteSet(t *testing.T) {
	region := newTestRegion(t, 8, 8)

	writer := region.Begin(false)
	require.True(t, writer.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 8, region.Start()))
	require.True(t, writer.End())

	ro := region.Begin(true)
	// A buffered write in a read-only transaction must not be seen by Read.
	ro.Write([]byte{9, 9, 9, 9, 9, 9, 9, 9}, 8, region.Start())
	var out [8]byte
	require.True(t, ro.Read(region.Start(), 8, out[:]))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, out[:])
	require.True(t, ro.End())
}

func TestTransaction_ReadAbortsOnLockedWord(t *testing.T) {
	region := newTestRegion(t, 8, 8)
	tx := region.Begin(false)

	lock := region.locks.lockFor(region.Start())
	require.True(t, lock.tryLock())
	defer lock.unlockPreserveVersion()

	var out [8]byte
	require.False(t, tx.Read(region.Start(), 8, out[:]))
	require.Equal(t, AbortReadStale, tx.AbortReason())
}

func TestTransaction_ReadAbortsOnStaleVersion(t *testing.T) {
	region := newTestRegion(t, 8, 8)
	tx := region.Begin(false)

	lock := region.locks.lockFor(region.Start())
	lock.setVersionAndUnlock(tx.rv + 1)

	var out [8]byte
	require.False(t, tx.Read(region.Start(), 8, out[:]))
}

func TestTransaction_OperationsAfterEndFail(t *testing.T) {
	region := newTestRegion(t, 8, 8)
	tx := region.Begin(false)
	require.True(t, tx.End())

	var out [8]byte
	require.False(t, tx.Read(region.Start(), 8, out[:]))
	require.False(t, tx.Write(out[:], 8, region.Start()))
	require.False(t, tx.End())
}

func TestTransaction_EndTrivialForEmptyWriteSet(t *testing.T) {
	region := newTestRegion(t, 8, 8)
	tx := region.Begin(false)
	require.True(t, tx.End())
}

func TestTransaction_WriteThenCommitIsVisibleToNextTransaction(t *testing.T) {
	region := newTestRegion(t, 8, 8)

	tx1 := region.Begin(false)
	require.True(t, tx1.Write([]byte{0, 0, 0, 0, 0, 0, 0, 22}, 8, region.Start()))
	require.True(t, tx1.End())

	tx2 := region.Begin(true)
	var out [8]byte
	require.True(t, tx2.Read(region.Start(), 8, out[:]))
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 22}, out[:])
	require.True(t, tx2.End())
}
