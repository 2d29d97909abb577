package sse

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/musikspil/internal/display"
	"github.com/mcoot/musikspil/internal/view"
)

// State is the latest painted display, replayed to new viewers
type State struct {
	View      view.ViewModel
	Countdown string
	Cover     string
	Online    bool
}

// Broadcaster is a display painter that pushes every update to SSE viewers
type Broadcaster struct {
	hub      *Hub
	renderer *Renderer
	logger   *slog.Logger

	// paintMu keeps state updates and their broadcasts in the same order
	paintMu sync.Mutex
	mu      sync.RWMutex
	state   State
}

// Ensure Broadcaster implements display.Painter
var _ display.Painter = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:      hub,
		renderer: NewRenderer(),
		logger:   logger.With(slog.String("component", "sse-broadcaster")),
		state: State{
			View:   view.ViewModel{Screen: view.ScreenNoRoom, Online: true},
			Online: true,
		},
	}
}

// Current returns the latest painted state
func (b *Broadcaster) Current() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Paint broadcasts a full screen. Round-only fragments are dropped on other screens.
func (b *Broadcaster) Paint(vm view.ViewModel) {
	b.paintMu.Lock()
	defer b.paintMu.Unlock()

	b.mu.Lock()
	if vm.Screen != view.ScreenRound {
		b.state.Countdown = ""
		b.state.Cover = ""
	}
	b.state.View = vm
	b.state.Online = vm.Online
	countdown := b.state.Countdown
	b.mu.Unlock()

	html, err := b.renderer.RenderView(context.Background(), vm, countdown)
	if err != nil {
		b.logger.Error("sse failed to render view",
			slog.String("screen", vm.Screen.String()),
			slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(display.EventView, html)
}

// PaintCountdown broadcasts the round clock line
func (b *Broadcaster) PaintCountdown(text string) {
	b.paintMu.Lock()
	defer b.paintMu.Unlock()

	b.mu.Lock()
	b.state.Countdown = text
	b.mu.Unlock()

	html, err := b.renderer.RenderCountdown(context.Background(), text)
	if err != nil {
		b.logger.Error("sse failed to render countdown", slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(display.EventCountdown, html)
}

// PaintCover broadcasts the round artwork
func (b *Broadcaster) PaintCover(cover string) {
	b.paintMu.Lock()
	defer b.paintMu.Unlock()

	b.mu.Lock()
	b.state.Cover = cover
	b.mu.Unlock()

	html, err := b.renderer.RenderCover(context.Background(), cover)
	if err != nil {
		b.logger.Error("sse failed to render cover", slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(display.EventCover, html)
}

// PaintConnectivity broadcasts the online indicator
func (b *Broadcaster) PaintConnectivity(online bool) {
	b.paintMu.Lock()
	defer b.paintMu.Unlock()

	b.mu.Lock()
	b.state.Online = online
	b.state.View.Online = online
	b.mu.Unlock()

	html, err := b.renderer.RenderConnectivity(context.Background(), online)
	if err != nil {
		b.logger.Error("sse failed to render connectivity", slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(display.EventConnectivity, html)
}

// InitialMessages renders the current state as SSE events for a new viewer
func (b *Broadcaster) InitialMessages(ctx context.Context) [][]byte {
	state := b.Current()

	var messages [][]byte
	add := func(event string, html string, err error) {
		if err != nil {
			b.logger.Error("sse failed to render initial event",
				slog.String("event", event),
				slog.Any("error", err))
			return
		}
		messages = append(messages, formatSSEMessage(event, html))
	}

	html, err := b.renderer.RenderConnectivity(ctx, state.Online)
	add(display.EventConnectivity, html, err)
	html, err = b.renderer.RenderView(ctx, state.View, state.Countdown)
	add(display.EventView, html, err)
	if state.Cover != "" {
		html, err = b.renderer.RenderCover(ctx, state.Cover)
		add(display.EventCover, html, err)
	}
	return messages
}
