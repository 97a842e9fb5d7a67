package tl2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreate_RejectsNonPowerOfTwoAlignment(t *testing.T) {
	_, err := Create(16, 3)
	require.ErrorIs(t, err, ErrInvalidAlignment)
}

func TestCreate_RejectsSizeNotMultipleOfAlign(t *testing.T) {
	_, err := Create(17, 8)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestCreate_RejectsZeroSize(t *testing.T) {
	_, err := Create(0, 8)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestCreate_StartIsAligned(t *testing.T) {
	region, err := Create(64, 8, WithLockTableSize(16))
	require.NoError(t, err)
	defer region.Destroy()

	require.Equal(t, uintptr(0), uintptr(region.Start())%8)
	require.Equal(t, uintptr(64), region.Size())
	require.Equal(t, uintptr(8), region.Align())
}

func TestRegion_AllocExtendsSegmentList(t *testing.T) {
	region, err := Create(8, 8, WithLockTableSize(16))
	require.NoError(t, err)
	defer region.Destroy()

	tx := region.Begin(false)
	addr, status := tx.Alloc(16)
	require.Equal(t, AllocSuccess, status)
	require.Equal(t, uintptr(0), uintptr(addr)%8)
	require.True(t, tx.End())

	tx2 := region.Begin(false)
	var buf [16]byte
	require.True(t, tx2.Read(addr, 16, buf[:]))
	require.True(t, tx2.End())
}

func TestRegion_AllocRejectsUnalignedSize(t *testing.T) {
	region, err := Create(8, 8, WithLockTableSize(16))
	require.NoError(t, err)
	defer region.Destroy()

	tx := region.Begin(false)
	_, status := tx.Alloc(3)
	require.Equal(t, AllocAbort, status)
}

func TestTransaction_FreeIsNoOpButReportsValidAddress(t *testing.T) {
	region, err := Create(8, 8, WithLockTableSize(16))
	require.NoError(t, err)
	defer region.Destroy()

	tx := region.Begin(false)
	require.True(t, tx.Free(region.Start()))
	require.True(t, tx.End())
}
