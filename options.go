package tl2

import (
	"io"
	"log/slog"
	"runtime"
)

// defaultLockTableSize is a modest default for the fixed-size lock table.
// spec.md notes the reference implementation sizes it on the order of
// 10^7 to keep collisions rare across large regions; callers working with
// small regions (as most tests do) should lower it with WithLockTableSize
// to keep test setup cheap.
const defaultLockTableSize = 1 << 16

// defaultCommitRetryLimit bounds how many times commit's acquire phase
// retries a single VWSL try-lock before giving up and aborting. This is
// the "bounded try-lock retry" livelock mitigation spec.md §4.5 and §9
// describe; it trades a small chance of aborting a transaction that would
// eventually succeed for guaranteed system-wide progress.
const defaultCommitRetryLimit = 256

type backoffFunc func(attempt int)

// linearBackoff yields the processor a number of times proportional to
// the attempt count before the next try-lock attempt. spec.md calls for
// "linear backoff spin" specifically (as opposed to exponential).
func linearBackoff(attempt int) {
	for i := 0; i < attempt; i++ {
		runtime.Gosched()
	}
}

type config struct {
	lockTableSize    int
	commitRetryLimit int
	commitBackoff    backoffFunc
	logger           *slog.Logger
}

func defaultConfig() config {
	return config{
		lockTableSize:    defaultLockTableSize,
		commitRetryLimit: defaultCommitRetryLimit,
		commitBackoff:    linearBackoff,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Region at Create time.
type Option func(*config)

// WithLockTableSize overrides the fixed-size lock table's length (L in
// spec.md §3). Larger tables reduce address collisions at the cost of
// memory; this is a build-time constant in the original C, exposed here
// as a tunable default.
func WithLockTableSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.lockTableSize = n
		}
	}
}

// WithCommitRetryLimit overrides the bounded try-lock retry count used
// during commit's acquire phase.
func WithCommitRetryLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.commitRetryLimit = n
		}
	}
}

// WithCommitBackoff overrides the spin-backoff strategy between try-lock
// attempts during commit's acquire phase.
func WithCommitBackoff(fn func(attempt int)) Option {
	return func(c *config) {
		if fn != nil {
			c.commitBackoff = fn
		}
	}
}

// WithLogger injects a structured logger for Region lifecycle and abort
// diagnostics. By default the Region logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
