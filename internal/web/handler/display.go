package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/musikspil/internal/web/sse"
	"github.com/mcoot/musikspil/internal/web/templates/components"
)

// DisplayHandler serves the latest painted view to browsers on the local network
type DisplayHandler struct {
	broadcaster *sse.Broadcaster
	hub         *sse.Hub
	logger      *slog.Logger
}

// NewDisplayHandler creates a new DisplayHandler
func NewDisplayHandler(broadcaster *sse.Broadcaster, hub *sse.Hub, logger *slog.Logger) *DisplayHandler {
	return &DisplayHandler{
		broadcaster: broadcaster,
		hub:         hub,
		logger:      logger,
	}
}

// Home renders the full display page
func (h *DisplayHandler) Home(w http.ResponseWriter, r *http.Request) {
	state := h.broadcaster.Current()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Page(state.View, state.Countdown).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render display page", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// View renders only the swappable screen fragment
func (h *DisplayHandler) View(w http.ResponseWriter, r *http.Request) {
	state := h.broadcaster.Current()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.View(state.View, state.Countdown).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render view fragment", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// ViewJSON returns the current view model
func (h *DisplayHandler) ViewJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.broadcaster.Current().View)
}

// Events streams display updates over SSE
func (h *DisplayHandler) Events(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub, h.broadcaster.InitialMessages(r.Context())...)
}

// Health reports liveness and the number of connected viewers
func (h *DisplayHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"viewers": h.hub.ClientCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
