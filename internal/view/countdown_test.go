package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/musikspil/internal/model"
)

func TestRemaining(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		timer   int
		elapsed time.Duration
		want    int
	}{
		{"ten seconds in", 30, 10 * time.Second, 20},
		{"rounds up partial seconds", 30, 10*time.Second + 300*time.Millisecond, 20},
		{"just started", 30, 0, 30},
		{"exactly expired", 30, 30 * time.Second, 0},
		{"long expired", 30, time.Minute, 0},
		{"start in the future", 30, -5 * time.Second, 35},
		{"no timer", 0, time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Remaining(tt.timer, now.Add(-tt.elapsed), now))
		})
	}
}

func TestCountdownText(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	started := float64(now.Add(-10 * time.Second).Unix())

	snap := &model.GameSnapshot{TimerSeconds: 30, RoundStartedAt: &started}
	assert.Equal(t, "Time left: 20s", CountdownOf(snap).Text(now))

	snap.RoundStartedAt = nil
	c := CountdownOf(snap)
	assert.Equal(t, WaitingForDJ, c.Text(now))
	_, ok := c.Remaining(now)
	assert.False(t, ok)

	assert.Equal(t, WaitingForDJ, CountdownOf(nil).Text(now))
}

func TestFractionalAnchor(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 10, 0, time.UTC)
	started := float64(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Unix()) + 0.5

	c := CountdownOf(&model.GameSnapshot{TimerSeconds: 30, RoundStartedAt: &started})

	secs, ok := c.Remaining(now)
	assert.True(t, ok)
	assert.Equal(t, 21, secs, "20.5 seconds left rounds up")
}

func TestCoverAtWraps(t *testing.T) {
	assert.Equal(t, Covers[0], CoverAt(0))
	assert.Equal(t, Covers[0], CoverAt(len(Covers)))
	assert.Equal(t, Covers[len(Covers)-1], CoverAt(-1))
}
