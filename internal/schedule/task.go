package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/musikspil/internal/dependencies/clock"
)

// TickFunc is called on every tick of a running Task
type TickFunc func(ctx context.Context)

// Option configures a Task
type Option func(*Task)

// Immediately makes the task tick once as soon as it starts,
// before waiting for the first interval to elapse.
func Immediately() Option {
	return func(t *Task) {
		t.immediate = true
	}
}

// Task is a cancellable repeating job driven by a Clock.
// At most one run of a Task is live at any time: Start replaces any
// previous run, and Stop does not return until the run has exited.
type Task struct {
	clock     clock.Clock
	name      string
	interval  time.Duration
	immediate bool
	logger    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTask creates a stopped Task
func NewTask(clk clock.Clock, name string, interval time.Duration, logger *slog.Logger, opts ...Option) *Task {
	t := &Task{
		clock:    clk,
		name:     name,
		interval: interval,
		logger:   logger.With(slog.String("task", name)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the task's name
func (t *Task) Name() string {
	return t.name
}

// Start begins ticking fn every interval until Stop is called or ctx is done.
// A run already in progress is stopped first.
func (t *Task) Start(ctx context.Context, fn TickFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	ticker := t.clock.NewTicker(t.interval)
	done := make(chan struct{})

	t.cancel = cancel
	t.done = done

	go t.run(runCtx, ticker, fn, done)

	t.logger.Debug("task started", slog.Duration("interval", t.interval))
}

// Stop cancels the current run and waits for it to exit.
// Stopping a stopped task is a no-op.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopLocked() {
		t.logger.Debug("task stopped")
	}
}

// Running returns true if the task has a live run
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

func (t *Task) stopLocked() bool {
	if t.cancel == nil {
		return false
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.done = nil
	return true
}

func (t *Task) run(ctx context.Context, ticker clock.Ticker, fn TickFunc, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	if t.immediate {
		fn(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			// A tick and a cancellation can be ready together
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
		}
	}
}
