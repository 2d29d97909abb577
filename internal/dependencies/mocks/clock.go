package mocks

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/musikspil/internal/dependencies/clock"
)

// Ensure FakeClock implements Clock
var _ clock.Clock = (*clockwork.FakeClock)(nil)

// NewMockClock creates a fake clock set to the given time.
// Tickers created from it only fire when the clock is advanced.
func NewMockClock(t time.Time) *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(t)
}
