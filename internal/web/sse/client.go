package sse

import (
	"net/http"
	"time"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second

	// Reconnect delay suggested to browsers, in milliseconds
	retryMillis = "3000"

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one connected display viewer
type Client struct {
	id          string
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a client identified by id
func NewClient(id string) *Client {
	return &Client{
		id:          id,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ServeSSE streams hub events to one viewer until it disconnects.
// initial is written first so a new viewer sees the current screen at once.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, initial ...[]byte) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(r.RemoteAddr)
	if !hub.Register(client) {
		http.Error(w, "Display closed", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	_, _ = w.Write([]byte("retry: " + retryMillis + "\n\n"))
	_, _ = w.Write(formatSSEMessage("connected", `{"status":"connected"}`))
	for _, msg := range initial {
		_, _ = w.Write(msg)
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
