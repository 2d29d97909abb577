package view

import (
	"fmt"
	"math"
	"time"

	"github.com/mcoot/musikspil/internal/model"
)

// CountdownInterval is how often the countdown is repainted
const CountdownInterval = 250 * time.Millisecond

// WaitingForDJ is shown while the DJ has not started the round clock
const WaitingForDJ = "Waiting for DJ…"

// Countdown is the server-anchored round clock
type Countdown struct {
	TimerSeconds int       `json:"timer_seconds"`
	StartedAt    time.Time `json:"started_at,omitzero"`
	Started      bool      `json:"started"`
}

// CountdownOf extracts the round clock from a snapshot
func CountdownOf(snap *model.GameSnapshot) Countdown {
	if snap == nil {
		return Countdown{}
	}
	start, ok := snap.RoundStart()
	return Countdown{TimerSeconds: snap.TimerSeconds, StartedAt: start, Started: ok}
}

// Remaining returns the whole seconds left at now, never negative
func Remaining(timerSeconds int, startedAt, now time.Time) int {
	left := float64(timerSeconds) - now.Sub(startedAt).Seconds()
	return max(0, int(math.Ceil(left)))
}

// Remaining returns the seconds left at now. ok is false before the clock starts.
func (c Countdown) Remaining(now time.Time) (secs int, ok bool) {
	if !c.Started {
		return 0, false
	}
	return Remaining(c.TimerSeconds, c.StartedAt, now), true
}

// Text renders the countdown line at now
func (c Countdown) Text(now time.Time) string {
	secs, ok := c.Remaining(now)
	if !ok {
		return WaitingForDJ
	}
	return fmt.Sprintf("Time left: %ds", secs)
}
