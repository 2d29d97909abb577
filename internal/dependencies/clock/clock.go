package clock

import (
	"github.com/jonboulle/clockwork"
)

// Clock provides time and ticker operations that can be faked for testing.
// Production code uses the real clock; tests use clockwork's FakeClock.
type Clock = clockwork.Clock

// New creates a Clock backed by the system clock
func New() Clock {
	return clockwork.NewRealClock()
}

// Ticker delivers ticks from a Clock
type Ticker = clockwork.Ticker
