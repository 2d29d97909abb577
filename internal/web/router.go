package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/musikspil/internal/middleware"
	"github.com/mcoot/musikspil/internal/web/handler"
	"github.com/mcoot/musikspil/internal/web/sse"
)

// RouterConfig holds configuration for the display router
type RouterConfig struct {
	Logger      *slog.Logger
	Hub         *sse.Hub
	Broadcaster *sse.Broadcaster
	StaticDir   string // Path to static files (cover art), optional
}

// NewRouter creates the display mirror router
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger, htmlPanicHandler))
	r.Use(middleware.Logging(cfg.Logger))

	displayHandler := handler.NewDisplayHandler(cfg.Broadcaster, cfg.Hub, cfg.Logger)

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/covers/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/covers/").Handler(staticHandler)
	}

	r.HandleFunc("/", displayHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/view", displayHandler.View).Methods(http.MethodGet)
	r.HandleFunc("/view.json", displayHandler.ViewJSON).Methods(http.MethodGet)
	r.HandleFunc("/events", displayHandler.Events).Methods(http.MethodGet)
	r.HandleFunc("/health", displayHandler.Health).Methods(http.MethodGet)

	return r
}

func htmlPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Error</title></head>
<body>
<h1>Display error</h1>
<p>The display could not be drawn. It will refresh on the next update.</p>
<p><a href="/">Reload</a></p>
</body>
</html>`))
}
