package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/musikspil/internal/dependencies/clock"
	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/session"
	"github.com/mcoot/musikspil/internal/transport"
	"github.com/mcoot/musikspil/internal/view"
)

// FallbackVersion is shown when the server does not report its version
const FallbackVersion = "v1.4.39"

// Resyncer fetches a fresh snapshot on demand
type Resyncer interface {
	// PollNow returns true if it stored a snapshot and repainted
	PollNow(ctx context.Context) bool
}

// View is the part of the view controller commands update
type View interface {
	Refresh()
	SetYearDraft(draft string)
	SetHistoryCollapsed(collapsed bool)
	SetCategories(categories []string)
	SetVersion(version string)
}

// HistoryPrefs persists the history panel state
type HistoryPrefs interface {
	HistoryCollapsed(ctx context.Context) bool
	ToggleHistoryCollapsed(ctx context.Context) (bool, error)
}

// StartOptions are the host's settings for a new game. Zero values are
// left out so the server keeps the room's current settings.
type StartOptions struct {
	Timer    int
	Rounds   int
	Category string
}

// Dispatcher turns user commands into server requests. Every command
// validates locally first, sends one request, updates the session on
// success and then resyncs immediately. Failures become a notice.
type Dispatcher struct {
	caller transport.Caller
	model  *session.Model
	poller Resyncer
	view   View
	prefs  HistoryPrefs
	clock  clock.Clock
	logger *slog.Logger

	mu   sync.Mutex
	year view.YearInput
}

// New creates a Dispatcher
func New(caller transport.Caller, m *session.Model, poller Resyncer, v View, prefs HistoryPrefs, clk clock.Clock, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		caller: caller,
		model:  m,
		poller: poller,
		view:   v,
		prefs:  prefs,
		clock:  clk,
		logger: logger.With(slog.String("component", "dispatcher")),
	}
}

// CreateRoom creates a room with the local player as host
func (d *Dispatcher) CreateRoom(ctx context.Context, name string, timer, rounds int) error {
	req := transport.CreateRoomRequest{Name: strings.TrimSpace(name), Timer: timer, Rounds: rounds}

	var resp transport.CreateRoomResponse
	if err := d.caller.Call(ctx, transport.ActionCreateRoom, req, &resp); err != nil {
		return d.fail(transport.ActionCreateRoom, err)
	}
	if resp.Room == "" || resp.Player.ID == "" {
		return d.fail(transport.ActionCreateRoom, model.ErrMalformedResponse)
	}

	d.model.SetSession(resp.Room, &model.PlayerRef{ID: resp.Player.ID, Name: req.Name})
	d.logger.Info("room created", slog.String("room", string(resp.Room)), slog.String("player", string(resp.Player.ID)))
	return d.succeed(ctx, "")
}

// Join joins an existing room. The room code is trimmed and upper-cased.
func (d *Dispatcher) Join(ctx context.Context, room, name string) error {
	code := model.RoomCode(strings.ToUpper(strings.TrimSpace(room)))
	if code == "" {
		return d.fail(transport.ActionJoin, model.NewValidationError(transport.ActionJoin, model.ErrEmptyRoomCode))
	}
	req := transport.JoinRequest{Room: code, Name: strings.TrimSpace(name)}

	var resp transport.JoinResponse
	if err := d.caller.Call(ctx, transport.ActionJoin, req, &resp); err != nil {
		return d.fail(transport.ActionJoin, err)
	}
	if resp.Player.ID == "" {
		return d.fail(transport.ActionJoin, model.ErrMalformedResponse)
	}

	d.model.SetSession(code, &model.PlayerRef{ID: resp.Player.ID, Name: req.Name})
	d.logger.Info("joined room", slog.String("room", string(code)), slog.String("player", string(resp.Player.ID)))
	return d.succeed(ctx, "")
}

// SetCategory changes the room's song category
func (d *Dispatcher) SetCategory(ctx context.Context, category string) error {
	sess, err := d.requirePlayer(transport.ActionSetCategory)
	if err != nil {
		return err
	}
	req := transport.SetCategoryRequest{Room: sess.RoomCode, Player: sess.PlayerID(), Category: strings.TrimSpace(category)}
	return d.send(ctx, transport.ActionSetCategory, req, "")
}

// StartGame starts the game with the host's settings
func (d *Dispatcher) StartGame(ctx context.Context, opts StartOptions) error {
	sess, err := d.requirePlayer(transport.ActionStartGame)
	if err != nil {
		return err
	}
	req := transport.StartGameRequest{
		Room:     sess.RoomCode,
		Player:   sess.PlayerID(),
		Timer:    opts.Timer,
		Rounds:   opts.Rounds,
		Category: opts.Category,
	}
	return d.send(ctx, transport.ActionStartGame, req, "")
}

// StartTimer starts the round clock (DJ only)
func (d *Dispatcher) StartTimer(ctx context.Context) error {
	sess, err := d.requirePlayer(transport.ActionStartTimer)
	if err != nil {
		return err
	}
	return d.send(ctx, transport.ActionStartTimer, transport.PlayerRequest{Room: sess.RoomCode, Player: sess.PlayerID()}, "")
}

// SkipSong draws a new song for the current round (DJ only)
func (d *Dispatcher) SkipSong(ctx context.Context) error {
	sess, err := d.requirePlayer(transport.ActionSkipSong)
	if err != nil {
		return err
	}
	return d.send(ctx, transport.ActionSkipSong, transport.PlayerRequest{Room: sess.RoomCode, Player: sess.PlayerID()}, "")
}

// SubmitGuess submits raw as the guess, or the year draft when raw is empty.
// Empty and non-numeric years are rejected without sending anything.
func (d *Dispatcher) SubmitGuess(ctx context.Context, raw string) error {
	sess, err := d.requirePlayer(transport.ActionSubmitGuess)
	if err != nil {
		return err
	}

	if strings.TrimSpace(raw) == "" {
		d.mu.Lock()
		raw = d.year.Value()
		d.mu.Unlock()
	}
	year, err := view.ParseYear(raw)
	if err != nil {
		return d.fail(transport.ActionSubmitGuess, model.NewValidationError(transport.ActionSubmitGuess, err))
	}

	req := transport.SubmitGuessRequest{Room: sess.RoomCode, Player: sess.PlayerID(), Year: year}
	if err := d.caller.Call(ctx, transport.ActionSubmitGuess, req, nil); err != nil {
		return d.fail(transport.ActionSubmitGuess, err)
	}

	d.setYearDraft(func(y *view.YearInput) { y.Clear() })
	return d.succeed(ctx, "Guess sent ✅")
}

// EditYear changes the year draft: a year, "+N"/"-N" steps, or a decade like "1980s"
func (d *Dispatcher) EditYear(arg string) error {
	var err error
	d.setYearDraft(func(y *view.YearInput) {
		err = y.Apply(arg, d.clock.Now().Year())
	})
	if err != nil {
		return d.fail(transport.ActionSubmitGuess, model.NewValidationError(transport.ActionSubmitGuess, err))
	}
	d.model.ClearNotice()
	d.view.Refresh()
	return nil
}

// YearDraft returns the typed-but-unsubmitted guess
func (d *Dispatcher) YearDraft() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.year.Value()
}

// NextRound advances to the next round, or to the final results after the last
func (d *Dispatcher) NextRound(ctx context.Context) error {
	sess, err := d.requireRoom(transport.ActionNextRound)
	if err != nil {
		return err
	}
	return d.send(ctx, transport.ActionNextRound, transport.RoomRequest{Room: sess.RoomCode}, "")
}

// ResetGame returns the room to the lobby with scores cleared
func (d *Dispatcher) ResetGame(ctx context.Context) error {
	sess, err := d.requireRoom(transport.ActionResetGame)
	if err != nil {
		return err
	}
	return d.send(ctx, transport.ActionResetGame, transport.RoomRequest{Room: sess.RoomCode}, "")
}

// LeaveRoom tells the server the player is leaving and forgets the room.
// The local session is cleared whether or not the request succeeds.
func (d *Dispatcher) LeaveRoom(ctx context.Context) error {
	sess := d.model.Session()
	if sess.InRoom() && sess.Player != nil {
		req := transport.PlayerRequest{Room: sess.RoomCode, Player: sess.PlayerID()}
		if err := d.caller.Call(ctx, transport.ActionLeaveRoom, req, nil); err != nil {
			d.logger.Warn("leave request failed, leaving locally",
				slog.String("room", string(sess.RoomCode)),
				slog.String("error", err.Error()))
		}
	}

	d.model.Clear()
	d.setYearDraft(func(y *view.YearInput) { y.Clear() })
	return d.succeed(ctx, "")
}

// ToggleHistory flips and persists the history panel state
func (d *Dispatcher) ToggleHistory(ctx context.Context) error {
	collapsed, err := d.prefs.ToggleHistoryCollapsed(ctx)
	if err != nil {
		d.logger.Warn("failed to persist history preference", slog.String("error", err.Error()))
	}
	d.view.SetHistoryCollapsed(collapsed)
	d.view.Refresh()
	return err
}

// LoadPreferences applies persisted preferences to the view
func (d *Dispatcher) LoadPreferences(ctx context.Context) {
	d.view.SetHistoryCollapsed(d.prefs.HistoryCollapsed(ctx))
}

// LoadCategories fetches the category list once at startup.
// On failure the list stays empty and the view falls back to the default.
func (d *Dispatcher) LoadCategories(ctx context.Context) []string {
	var resp transport.CategoriesResponse
	if err := d.caller.Call(ctx, transport.ActionCategories, nil, &resp); err != nil {
		d.logger.Warn("failed to load categories", slog.String("error", err.Error()))
		resp.Categories = nil
	}
	d.view.SetCategories(resp.Categories)
	return resp.Categories
}

// LoadVersion fetches the server version for the footer
func (d *Dispatcher) LoadVersion(ctx context.Context) string {
	var resp transport.VersionResponse
	if err := d.caller.Call(ctx, transport.ActionVersion, nil, &resp); err != nil {
		d.logger.Warn("failed to load version", slog.String("error", err.Error()))
	}
	version := resp.Version
	if version == "" {
		version = FallbackVersion
	}
	d.view.SetVersion(version)
	return version
}

// send issues a request that only needs a resync on success
func (d *Dispatcher) send(ctx context.Context, action string, payload any, okNotice string) error {
	if err := d.caller.Call(ctx, action, payload, nil); err != nil {
		return d.fail(action, err)
	}
	return d.succeed(ctx, okNotice)
}

// succeed sets or clears the notice and resyncs straight away
func (d *Dispatcher) succeed(ctx context.Context, okNotice string) error {
	if okNotice != "" {
		d.model.SetNotice(session.NoticeInfo, okNotice)
	} else {
		d.model.ClearNotice()
	}
	if !d.poller.PollNow(ctx) {
		d.view.Refresh()
	}
	return nil
}

// fail turns err into a notice and repaints. The session is left alone.
func (d *Dispatcher) fail(action string, err error) error {
	kind := session.NoticeError
	if model.IsValidation(err) {
		kind = session.NoticeValidation
	}
	d.logger.Debug("command failed", slog.String("action", action), slog.String("error", err.Error()))
	d.model.SetNotice(kind, noticeText(action, err))
	d.view.Refresh()
	return err
}

func (d *Dispatcher) requireRoom(action string) (model.Session, error) {
	sess := d.model.Session()
	if !sess.InRoom() {
		return sess, d.fail(action, model.NewValidationError(action, model.ErrNoRoom))
	}
	return sess, nil
}

func (d *Dispatcher) requirePlayer(action string) (model.Session, error) {
	sess, err := d.requireRoom(action)
	if err != nil {
		return sess, err
	}
	if sess.Player == nil {
		return sess, d.fail(action, model.NewValidationError(action, model.ErrNoPlayer))
	}
	return sess, nil
}

func (d *Dispatcher) setYearDraft(fn func(y *view.YearInput)) {
	d.mu.Lock()
	fn(&d.year)
	draft := d.year.Value()
	d.mu.Unlock()

	d.view.SetYearDraft(draft)
}

var failurePrefixes = map[string]string{
	transport.ActionCreateRoom:  "Could not create room",
	transport.ActionJoin:        "Could not join",
	transport.ActionSetCategory: "Could not change category",
	transport.ActionStartGame:   "Could not start game",
	transport.ActionStartTimer:  "Could not start timer",
	transport.ActionSkipSong:    "Could not skip song",
	transport.ActionSubmitGuess: "Error",
	transport.ActionNextRound:   "Could not go to next round",
	transport.ActionResetGame:   "Could not reset",
}

// noticeText words an error for the user. Validation messages stand alone;
// request failures name the command and the server's reason.
func noticeText(action string, err error) string {
	if model.IsValidation(err) {
		return err.Error()
	}

	reason := err.Error()
	var rf *transport.RequestFailedError
	switch {
	case errors.As(err, &rf):
		reason = rf.Message
	case errors.Is(err, transport.ErrUnreachable):
		reason = transport.ErrUnreachable.Error()
	}

	prefix, ok := failurePrefixes[action]
	if !ok {
		prefix = "Request failed"
	}
	return fmt.Sprintf("%s: %s", prefix, reason)
}
