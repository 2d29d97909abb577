package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musikspil/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "countdown",
			data:      "Time left: 20s",
			expected:  "event: countdown\ndata: Time left: 20s\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "view",
			data:      "<div>\n  <p>Lobby</p>\n</div>",
			expected:  "event: view\ndata: <div>\ndata:   <p>Lobby</p>\ndata: </div>\n\n",
		},
		{
			name:      "empty data",
			eventName: "cover",
			data:      "",
			expected:  "event: cover\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "view",
			data:      "line1\r\nline2",
			expected:  "event: view\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "single line", input: "hello", expected: []string{"hello"}},
		{name: "trailing newline", input: "line1\n", expected: []string{"line1"}},
		{name: "empty string", input: "", expected: []string{""}},
		{name: "crlf line endings", input: "line1\r\nline2\r\n", expected: []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func receive(t *testing.T, client *Client) string {
	t.Helper()
	select {
	case msg := <-client.send:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := startHub(t)

	client := NewClient("viewer1")
	require.True(t, hub.Register(client))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastEvent("view", "<p>hi</p>")
	assert.Equal(t, "event: view\ndata: <p>hi</p>\n\n", receive(t, client))
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)

	client := NewClient("viewer1")
	require.True(t, hub.Register(client))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-client.send
	assert.False(t, ok, "send channel should be closed")
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := startHub(t)

	clients := []*Client{NewClient("a"), NewClient("b"), NewClient("c")}
	for _, c := range clients {
		require.True(t, hub.Register(c))
	}
	assert.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	hub.BroadcastEvent("connectivity", "Online")
	for _, c := range clients {
		assert.Equal(t, "event: connectivity\ndata: Online\n\n", receive(t, c))
	}
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	client := NewClient("viewer1")
	require.True(t, hub.Register(client))

	hub.Close()
	hub.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}

	_, ok := <-client.send
	assert.False(t, ok, "send channel should be closed")
	assert.False(t, hub.Register(NewClient("late")), "register after close should fail")
	assert.Equal(t, 0, hub.ClientCount())
}
