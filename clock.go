package tl2

import "sync/atomic"

// globalVersionedClock is the single process-wide monotonic counter that
// supplies read and commit timestamps (rv/wv) for every transaction
// running against a Region. It starts at zero and only ever increases.
type globalVersionedClock struct {
	v atomic.Uint64
}

func (c *globalVersionedClock) load() uint64 {
	return c.v.Load()
}

func (c *globalVersionedClock) incrementAndFetch() uint64 {
	return c.v.Add(1)
}
