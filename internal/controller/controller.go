package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/musikspil/internal/dependencies/clock"
	"github.com/mcoot/musikspil/internal/dependencies/random"
	"github.com/mcoot/musikspil/internal/display"
	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/schedule"
	"github.com/mcoot/musikspil/internal/session"
	"github.com/mcoot/musikspil/internal/view"
)

// Config holds the controller's timer intervals
type Config struct {
	CountdownInterval time.Duration
	CoverInterval     time.Duration
}

// DefaultConfig returns the standard repaint intervals
func DefaultConfig() Config {
	return Config{
		CountdownInterval: view.CountdownInterval,
		CoverInterval:     view.CoverInterval,
	}
}

// Controller renders the session model and paints the result. While the
// Round screen is showing it also runs the countdown and cover rotation.
type Controller struct {
	model   *session.Model
	painter display.Painter
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	countdown *schedule.Task
	covers    *schedule.Task

	mu               sync.Mutex
	ctx              context.Context
	screen           view.Screen
	categories       []string
	version          string
	historyCollapsed bool
	yearDraft        string
	last             view.ViewModel

	// paintMu serialises painter calls. Lock order is mu then paintMu.
	paintMu  sync.Mutex
	coverIdx int
}

// New creates a Controller. Call Start before the first Refresh.
func New(m *session.Model, painter display.Painter, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Controller {
	logger = logger.With(slog.String("component", "controller"))
	if cfg.CountdownInterval <= 0 {
		cfg.CountdownInterval = view.CountdownInterval
	}
	if cfg.CoverInterval <= 0 {
		cfg.CoverInterval = view.CoverInterval
	}
	return &Controller{
		model:     m,
		painter:   painter,
		clock:     clk,
		random:    rnd,
		logger:    logger,
		countdown: schedule.NewTask(clk, "countdown", cfg.CountdownInterval, logger, schedule.Immediately()),
		covers:    schedule.NewTask(clk, "covers", cfg.CoverInterval, logger, schedule.Immediately()),
		ctx:       context.Background(),
	}
}

// Start sets the context for round tasks and paints the current state
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	c.Refresh()
}

// Stop halts the round tasks
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopRoundTasks()
}

// Refresh re-renders from the session model and repaints
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, snap := c.model.View()
	vm := view.Render(snap, sess, c.localLocked())

	prev := c.screen
	c.screen = vm.Screen
	c.last = vm

	// Stop before painting so no stale clock line lands on the new screen
	if prev == view.ScreenRound && vm.Screen != view.ScreenRound {
		c.stopRoundTasks()
	}

	c.paintMu.Lock()
	c.painter.Paint(vm)
	if vm.Screen == view.ScreenRound {
		c.painter.PaintCountdown(vm.Round.Countdown.Text(c.clock.Now()))
	}
	c.paintMu.Unlock()

	if vm.Screen == view.ScreenRound && prev != view.ScreenRound {
		c.startRoundTasks()
	}
}

// ConnectivityChanged repaints only the online indicator
func (c *Controller) ConnectivityChanged(online bool) {
	c.mu.Lock()
	c.last.Online = online
	c.mu.Unlock()

	c.paintMu.Lock()
	defer c.paintMu.Unlock()
	c.painter.PaintConnectivity(online)
}

// Screen returns the screen last painted
func (c *Controller) Screen() view.Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// Last returns the view model last painted
func (c *Controller) Last() view.ViewModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// RoundTasksRunning returns whether the countdown and cover rotation are live
func (c *Controller) RoundTasksRunning() (countdown, covers bool) {
	return c.countdown.Running(), c.covers.Running()
}

// SetCategories stores the categories loaded at startup
func (c *Controller) SetCategories(categories []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = categories
}

// SetVersion stores the server version shown in the footer
func (c *Controller) SetVersion(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version = version
}

// SetHistoryCollapsed stores the history panel state
func (c *Controller) SetHistoryCollapsed(collapsed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.historyCollapsed = collapsed
}

// SetYearDraft stores the typed-but-unsubmitted guess
func (c *Controller) SetYearDraft(draft string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yearDraft = draft
}

func (c *Controller) localLocked() view.Local {
	return view.Local{
		Notice:           c.model.Notice(),
		HistoryCollapsed: c.historyCollapsed,
		Categories:       c.categories,
		Version:          c.version,
		Online:           c.model.Online(),
		YearDraft:        c.yearDraft,
	}
}

func (c *Controller) startRoundTasks() {
	c.logger.Debug("entering round")

	c.paintMu.Lock()
	// The first tick advances onto the random start cover
	c.coverIdx = c.random.Intn(len(view.Covers)) - 1
	c.paintMu.Unlock()

	c.countdown.Start(c.ctx, c.tickCountdown)
	c.covers.Start(c.ctx, c.tickCover)
}

func (c *Controller) stopRoundTasks() {
	c.countdown.Stop()
	c.covers.Stop()
}

func (c *Controller) tickCountdown(context.Context) {
	snap := c.model.Snapshot()
	if !inRound(snap) {
		return
	}
	text := view.CountdownOf(snap).Text(c.clock.Now())

	c.paintMu.Lock()
	defer c.paintMu.Unlock()
	c.painter.PaintCountdown(text)
}

func (c *Controller) tickCover(context.Context) {
	c.paintMu.Lock()
	defer c.paintMu.Unlock()

	c.coverIdx++
	c.painter.PaintCover(view.CoverAt(c.coverIdx))
}

func inRound(snap *model.GameSnapshot) bool {
	return snap != nil && snap.Started && snap.Status == model.StatusRound
}
