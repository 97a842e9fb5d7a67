package tl2

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies no goroutine (e.g. a stray backoff timer or leaked
// commit retry loop) survives the package's test suite, mirroring how
// go.uber.org/goleak is used in other goroutine-heavy packages in this
// corpus.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
