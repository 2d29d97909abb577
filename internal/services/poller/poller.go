package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/musikspil/internal/dependencies/clock"
	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/schedule"
	"github.com/mcoot/musikspil/internal/session"
	"github.com/mcoot/musikspil/internal/transport"
)

// DefaultInterval is how often the room state is refreshed
const DefaultInterval = time.Second

// Listener is notified after each poll
type Listener interface {
	// Refresh is called after a new snapshot has been stored
	Refresh()
	// ConnectivityChanged is called when a poll succeeds after a failure, or vice versa
	ConnectivityChanged(online bool)
}

// Poller periodically fetches the room state into the session model
type Poller struct {
	caller   transport.Caller
	model    *session.Model
	listener Listener
	task     *schedule.Task
	logger   *slog.Logger

	// Serialises polls so only one request is outstanding
	mu sync.Mutex
}

// New creates a Poller. Nothing is polled until Start is called.
func New(caller transport.Caller, m *session.Model, listener Listener, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger = logger.With(slog.String("component", "poller"))
	return &Poller{
		caller:   caller,
		model:    m,
		listener: listener,
		task:     schedule.NewTask(clk, "poll", interval, logger),
		logger:   logger,
	}
}

// Start begins polling every interval. Ticks while no room is set do nothing.
func (p *Poller) Start(ctx context.Context) {
	p.task.Start(ctx, func(ctx context.Context) {
		p.PollNow(ctx)
	})
}

// Stop halts polling and waits for any in-progress tick to finish
func (p *Poller) Stop() {
	p.task.Stop()
}

// Running returns true while the poll task is live
func (p *Poller) Running() bool {
	return p.task.Running()
}

// PollNow fetches the state immediately, waiting for any outstanding poll first.
// Errors are logged and reflected in the connectivity flag only.
// Returns true if a new snapshot was stored and the listener refreshed.
func (p *Poller) PollNow(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	room := p.model.RoomCode()
	if room == "" {
		return false
	}

	var snap model.GameSnapshot
	err := p.caller.Call(ctx, transport.ActionState, transport.RoomRequest{Room: room}, &snap)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Warn("poll failed", slog.String("room", string(room)), slog.String("error", err.Error()))
		p.setOnline(false)
		return false
	}

	p.setOnline(true)

	if !p.model.ReplaceSnapshot(room, &snap) {
		p.logger.Debug("discarding snapshot for room no longer joined", slog.String("room", string(room)))
		return false
	}
	p.listener.Refresh()
	return true
}

func (p *Poller) setOnline(online bool) {
	if p.model.SetOnline(online) {
		p.logger.Info("connectivity changed", slog.Bool("online", online))
		p.listener.ConnectivityChanged(online)
	}
}
