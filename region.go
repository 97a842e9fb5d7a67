package tl2

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"
)

// Address is a word-addressable location inside a Region's shared memory.
// It is only ever meaningful relative to the Region that produced it via
// Start or Alloc.
type Address uintptr

type address = Address

// segment is one aligned block of shared memory, linked into the Region's
// segment list. The first segment is created by Create; subsequent ones by
// Transaction.Alloc. All segments are released together on Destroy —
// freeing within a transaction is deferred (see Transaction.Free).
type segment struct {
	prev, next *segment
	raw        []byte // oversized backing buffer, owns the memory
	data       []byte // aligned view into raw, length == payload size
}

func (s *segment) base() Address {
	return Address(uintptr(unsafe.Pointer(&s.data[0])))
}

func (s *segment) contains(addr Address, size uintptr) bool {
	base := uintptr(s.base())
	off := uintptr(addr)
	return off >= base && off+size <= base+uintptr(len(s.data))
}

// newAlignedSegment allocates a zero-filled, align-aligned block of size
// bytes. Go's allocator does not guarantee arbitrary power-of-two
// alignment for byte slices, so the segment over-allocates and carves an
// aligned window out of the oversized buffer — standing in for the
// platform aligned allocator spec.md places out of the core's scope.
func newAlignedSegment(size, align uintptr) *segment {
	raw := make([]byte, size+align-1)
	base := uintptr(unsafe.Pointer(&raw[0]))
	misalignment := base % align
	var offset uintptr
	if misalignment != 0 {
		offset = align - misalignment
	}
	return &segment{raw: raw, data: raw[offset : offset+size]}
}

// Region is a shared, word-addressable memory region plus the TL2 engine
// state (global clock, lock table) needed to run transactions over it.
type Region struct {
	size  uintptr
	align uintptr

	clock globalVersionedClock
	locks *lockTable

	segMu    sync.Mutex
	first    *segment
	last     *segment

	commitRetryLimit int
	commitBackoff    backoffFunc

	logger *slog.Logger
}

// Create allocates a new Region of size bytes, aligned to align (a power
// of two, with size a multiple of align), and returns a handle to it. It
// returns a non-nil error instead of the C API's INVALID_REGION sentinel
// on allocation failure or invalid arguments.
func Create(size, align uintptr, opts ...Option) (*Region, error) {
	if align == 0 || align&(align-1) != 0 {
		return nil, fmt.Errorf("tl2: create: %w: align=%d", ErrInvalidAlignment, align)
	}
	if size == 0 || size%align != 0 {
		return nil, fmt.Errorf("tl2: create: %w: size=%d align=%d", ErrInvalidSize, size, align)
	}

	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	seg := func() (s *segment) {
		defer func() {
			if recover() != nil {
				s = nil
			}
		}()
		return newAlignedSegment(size, align)
	}()
	if seg == nil {
		return nil, fmt.Errorf("tl2: create: %w: size=%d align=%d", ErrAllocFailed, size, align)
	}

	r := &Region{
		size:             size,
		align:            align,
		locks:            newLockTable(cfg.lockTableSize),
		first:            seg,
		last:             seg,
		commitRetryLimit: cfg.commitRetryLimit,
		commitBackoff:    cfg.commitBackoff,
		logger:           cfg.logger,
	}

	r.logger.Debug("region created", "size", size, "align", align, "start", seg.base())
	return r, nil
}

// Destroy frees every segment allocated through Alloc plus the Region's
// first segment. The caller must ensure no transaction is running against
// the Region; behavior is undefined otherwise (spec.md §6).
func (r *Region) Destroy() {
	r.segMu.Lock()
	defer r.segMu.Unlock()

	n := 0
	for s := r.first; s != nil; {
		next := s.next
		s.prev, s.next, s.raw, s.data = nil, nil, nil, nil
		s = next
		n++
	}
	r.first, r.last = nil, nil
	r.logger.Debug("region destroyed", "segments_freed", n)
}

// Start returns the address of the Region's first segment.
func (r *Region) Start() Address { return r.first.base() }

// Size returns the Region's size in bytes.
func (r *Region) Size() uintptr { return r.size }

// Align returns the Region's word alignment in bytes.
func (r *Region) Align() uintptr { return r.align }

// segmentFor returns the segment owning addr, or nil if addr does not fall
// inside any live segment of the Region.
func (r *Region) segmentFor(addr Address, size uintptr) *segment {
	r.segMu.Lock()
	defer r.segMu.Unlock()
	for s := r.first; s != nil; s = s.next {
		if s.contains(addr, size) {
			return s
		}
	}
	return nil
}

// bytesAt returns a slice view of the size bytes at addr, for internal use
// by the commit publish phase and speculative reads.
func (r *Region) bytesAt(addr Address, size uintptr) []byte {
	s := r.segmentFor(addr, size)
	if s == nil {
		return nil
	}
	off := uintptr(addr) - uintptr(s.base())
	return s.data[off : off+size]
}
