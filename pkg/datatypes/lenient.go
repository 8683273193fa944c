package datatypes

import (
	"sync/atomic"
)

var lenient atomic.Bool

// SetLenientParsing switches the process-wide parsing mode. In lenient mode
// out-of-range input is clamped or normalized instead of rejected.
func SetLenientParsing(on bool) {
	lenient.Store(on)
}

// LenientParsing reports whether lenient parsing is active.
func LenientParsing() bool {
	return lenient.Load()
}
