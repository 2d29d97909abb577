package session

import (
	"sync"

	"github.com/mcoot/musikspil/internal/model"
)

// NoticeKind distinguishes what produced a user-visible notice
type NoticeKind string

const (
	NoticeNone       NoticeKind = ""
	NoticeInfo       NoticeKind = "info"
	NoticeValidation NoticeKind = "validation" // Local input rejected, nothing sent
	NoticeError      NoticeKind = "error"      // Request failed
)

// Notice is a transient message shown to the user
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// IsZero returns true if there is no notice
func (n Notice) IsZero() bool {
	return n.Kind == NoticeNone && n.Text == ""
}

// Model holds the client-local truth: which room and player this device is,
// the last snapshot received, whether the last poll succeeded, and the
// current notice. The poller is the only snapshot writer and the
// dispatcher the only session writer.
type Model struct {
	mu       sync.RWMutex
	session  model.Session
	snapshot *model.GameSnapshot
	online   bool
	notice   Notice
}

// New creates an empty Model. The client starts online until a poll fails.
func New() *Model {
	return &Model{online: true}
}

// Session returns a copy of the current session
func (m *Model) Session() model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// RoomCode returns the current room code, empty if not in a room
func (m *Model) RoomCode() model.RoomCode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.RoomCode
}

// SetSession records the room and player after a create or join.
// Moving to a different room drops the previous room's snapshot.
func (m *Model) SetSession(room model.RoomCode, player *model.PlayerRef) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.RoomCode != room {
		m.snapshot = nil
	}
	m.session = model.Session{RoomCode: room, Player: player}
}

// Clear forgets the room, player and snapshot
func (m *Model) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = model.Session{}
	m.snapshot = nil
}

// Snapshot returns the last snapshot received, or nil
func (m *Model) Snapshot() *model.GameSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// View returns the session and snapshot as one consistent pair
func (m *Model) View() (model.Session, *model.GameSnapshot) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, m.snapshot
}

// ReplaceSnapshot stores snap if the session is still in room.
// Returns false when the session has moved on and the snapshot was dropped.
func (m *Model) ReplaceSnapshot(room model.RoomCode, snap *model.GameSnapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if room == "" || m.session.RoomCode != room {
		return false
	}
	m.snapshot = snap
	return true
}

// Online returns the connectivity flag
func (m *Model) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetOnline updates the connectivity flag and returns true if it changed
func (m *Model) SetOnline(online bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := m.online != online
	m.online = online
	return changed
}

// Notice returns the current notice
func (m *Model) Notice() Notice {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notice
}

// SetNotice replaces the current notice
func (m *Model) SetNotice(kind NoticeKind, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notice = Notice{Kind: kind, Text: text}
}

// ClearNotice removes the current notice
func (m *Model) ClearNotice() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notice = Notice{}
}
