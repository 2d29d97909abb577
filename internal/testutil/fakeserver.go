package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/mcoot/musikspil/internal/model"
)

// Request is one call received by the FakeServer
type Request struct {
	Action string
	Body   map[string]any
}

type failure struct {
	status  int
	message string
}

type fakeRoom struct {
	snap     *model.GameSnapshot
	nextSong int
}

// FakeServer is a small in-memory game server speaking the client's wire
// protocol. It follows the real server's rules closely enough for client
// tests: host/DJ checks, round ending once every non-DJ has guessed, and
// 3/2/1 points for guesses 0/1/2 years off.
type FakeServer struct {
	mu sync.Mutex

	Categories []string
	Version    string
	Songs      []model.Song

	// Now is used for start_timer and timer expiry
	Now func() time.Time

	rooms    map[model.RoomCode]*fakeRoom
	requests []Request
	failures map[string]failure
	nextRoom int
	nextID   int
}

// NewFakeServer creates a FakeServer with a few songs and categories
func NewFakeServer() *FakeServer {
	return &FakeServer{
		Categories: []string{"Standard", "1980", "1990"},
		Version:    "1.4.23-test",
		Songs: []model.Song{
			{Title: "Song A", Artist: "Artist A", Year: 1984, PlayURL: "https://open.spotify.com/track/a"},
			{Title: "Song B", Artist: "Artist B", Year: 1991, PlayURL: "https://open.spotify.com/track/b"},
			{Title: "Song C", Artist: "Artist C", Year: 2003},
			{Title: "Song D", Artist: "Artist D", Year: 1977},
		},
		Now:      time.Now,
		rooms:    make(map[model.RoomCode]*fakeRoom),
		failures: make(map[string]failure),
	}
}

// Fail makes every subsequent call of action fail with status and message.
// An action of "*" fails every call.
func (f *FakeServer) Fail(action string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[action] = failure{status: status, message: message}
}

// Recover clears a failure set by Fail
func (f *FakeServer) Recover(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, action)
}

// Requests returns a copy of every request received so far
func (f *FakeServer) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Count returns the number of requests received for action
func (f *FakeServer) Count(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Action == action {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of a room's current state
func (f *FakeServer) Snapshot(code model.RoomCode) *model.GameSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[code]
	if !ok {
		return nil
	}
	return cloneSnapshot(room.snap)
}

// Mutate applies fn to a room's state under the server lock
func (f *FakeServer) Mutate(code model.RoomCode, fn func(s *model.GameSnapshot)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok := f.rooms[code]; ok {
		fn(room.snap)
	}
}

func (f *FakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
		return
	}

	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)
	action, _ := body["action"].(string)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, Request{Action: action, Body: body})

	if fail, ok := f.failures[action]; ok {
		writeFailure(w, fail)
		return
	}
	if fail, ok := f.failures["*"]; ok {
		writeFailure(w, fail)
		return
	}

	status, resp := f.handle(action, body)
	writeJSON(w, status, resp)
}

func (f *FakeServer) handle(action string, body map[string]any) (int, any) {
	switch action {
	case "version":
		return http.StatusOK, map[string]any{"ok": true, "version": f.Version}
	case "categories":
		return http.StatusOK, map[string]any{"categories": f.Categories}
	case "create_room":
		return f.createRoom(body)
	}

	code := model.RoomCode(str(body, "room"))
	room, ok := f.rooms[code]
	if !ok {
		if action == "leave_room" {
			return http.StatusOK, map[string]any{"ok": true}
		}
		return http.StatusBadRequest, errResp("room_not_found")
	}
	s := room.snap
	pid := model.PlayerID(str(body, "player"))

	switch action {
	case "join":
		f.nextID++
		id := model.PlayerID(fmt.Sprintf("p%d", f.nextID))
		s.Players = append(s.Players, model.Player{ID: id, Name: nameOr(str(body, "name"))})
		s.Scores[id] = 0
		return http.StatusOK, map[string]any{"player": map[string]any{"id": id}}

	case "state":
		f.endRoundIfExpired(s)
		s.AvailableCategories = append([]string(nil), f.Categories...)
		return http.StatusOK, cloneSnapshot(s)

	case "set_category":
		if s.Started {
			return http.StatusBadRequest, errResp("already_started")
		}
		if pid != s.HostID {
			return http.StatusBadRequest, errResp("not_host")
		}
		s.Category = str(body, "category")
		return http.StatusOK, map[string]any{"ok": true}

	case "start_game":
		if pid != s.HostID {
			return http.StatusForbidden, errResp("only_host_can_start")
		}
		rounds := num(body, "rounds", s.RoundsTotal)
		n := len(s.Players)
		if rounds < n {
			rounds = n
		}
		if rounds%n != 0 {
			rounds = ((rounds + n - 1) / n) * n
		}
		if t := num(body, "timer", 0); t > 0 {
			s.TimerSeconds = t
		}
		if c := str(body, "category"); c != "" {
			s.Category = c
		}
		s.RoundsTotal = rounds
		s.Started = true
		s.Status = model.StatusRound
		s.RoundIndex = 0
		s.DJIndex = 0
		s.Guesses = map[model.PlayerID]int{}
		s.LastRoundPoints = map[model.PlayerID]int{}
		s.History = []model.HistoryEntry{}
		s.RoundStartedAt = nil
		s.CurrentSong = f.drawSong(room)
		return http.StatusOK, map[string]any{"ok": true}

	case "start_timer":
		if !s.Started || s.Status != model.StatusRound || s.CurrentSong == nil {
			return http.StatusBadRequest, errResp("no_active_round")
		}
		if !s.IsDJ(pid) {
			return http.StatusBadRequest, errResp("not_dj")
		}
		started := float64(f.Now().UnixMilli()) / 1000
		s.RoundStartedAt = &started
		return http.StatusOK, map[string]any{"ok": true, "round_started_at": started}

	case "skip_song":
		if !s.Started || s.Status != model.StatusRound || s.CurrentSong == nil {
			return http.StatusBadRequest, errResp("no_active_round")
		}
		if !s.IsDJ(pid) {
			return http.StatusBadRequest, errResp("not_dj")
		}
		s.CurrentSong = f.drawSong(room)
		s.Guesses = map[model.PlayerID]int{}
		s.LastRoundPoints = map[model.PlayerID]int{}
		s.RoundStartedAt = nil
		return http.StatusOK, cloneSnapshot(s)

	case "submit_guess":
		year, ok := body["year"].(float64)
		if !ok {
			return http.StatusBadRequest, errResp("invalid_year")
		}
		if pid == "" {
			return http.StatusBadRequest, errResp("missing_player")
		}
		if s.IsDJ(pid) {
			return http.StatusBadRequest, errResp("dj_cannot_guess")
		}
		if s.HasGuessed(pid) {
			return http.StatusBadRequest, errResp("already_guessed")
		}
		s.Guesses[pid] = int(year)
		if allGuessed(s) {
			endRound(s)
		}
		return http.StatusOK, map[string]any{"ok": true}

	case "next_round":
		if s.RoundsTotal > 0 && s.RoundIndex >= s.RoundsTotal-1 {
			s.Status = model.StatusGameOver
			return http.StatusOK, map[string]any{"ok": true}
		}
		s.RoundIndex++
		s.DJIndex = (s.DJIndex + 1) % len(s.Players)
		s.Guesses = map[model.PlayerID]int{}
		s.LastRoundPoints = map[model.PlayerID]int{}
		s.RoundStartedAt = nil
		s.Status = model.StatusRound
		s.CurrentSong = f.drawSong(room)
		return http.StatusOK, map[string]any{"ok": true}

	case "reset_game":
		for _, p := range s.Players {
			s.Scores[p.ID] = 0
		}
		s.Status = model.StatusLobby
		s.Started = false
		s.RoundIndex = 0
		s.RoundStartedAt = nil
		s.Guesses = map[model.PlayerID]int{}
		s.LastRoundPoints = map[model.PlayerID]int{}
		s.History = []model.HistoryEntry{}
		return http.StatusOK, map[string]any{"ok": true}

	case "leave_room":
		f.removePlayer(code, s, pid)
		return http.StatusOK, map[string]any{"ok": true}
	}

	return http.StatusBadRequest, errResp("unknown_action")
}

func (f *FakeServer) createRoom(body map[string]any) (int, any) {
	f.nextRoom++
	f.nextID++
	code := model.RoomCode(fmt.Sprintf("RM%02d", f.nextRoom))
	id := model.PlayerID(fmt.Sprintf("p%d", f.nextID))

	f.rooms[code] = &fakeRoom{snap: &model.GameSnapshot{
		Status:          model.StatusLobby,
		Players:         []model.Player{{ID: id, Name: nameOr(str(body, "name"))}},
		HostID:          id,
		RoundsTotal:     num(body, "rounds", 10),
		Category:        model.DefaultCategory,
		TimerSeconds:    num(body, "timer", 20),
		Guesses:         map[model.PlayerID]int{},
		Scores:          map[model.PlayerID]int{id: 0},
		LastRoundPoints: map[model.PlayerID]int{},
		History:         []model.HistoryEntry{},
	}}
	return http.StatusOK, map[string]any{"ok": true, "room": code, "player": map[string]any{"id": id}}
}

func (f *FakeServer) drawSong(room *fakeRoom) *model.Song {
	if len(f.Songs) == 0 {
		return nil
	}
	song := f.Songs[room.nextSong%len(f.Songs)]
	room.nextSong++
	return &song
}

func (f *FakeServer) endRoundIfExpired(s *model.GameSnapshot) {
	if s.Status != model.StatusRound {
		return
	}
	start, ok := s.RoundStart()
	if !ok {
		return
	}
	if f.Now().Sub(start) >= time.Duration(s.TimerSeconds)*time.Second {
		endRound(s)
	}
}

func (f *FakeServer) removePlayer(code model.RoomCode, s *model.GameSnapshot, pid model.PlayerID) {
	idx := -1
	for i, p := range s.Players {
		if p.ID == pid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)
	delete(s.Scores, pid)
	delete(s.Guesses, pid)
	delete(s.LastRoundPoints, pid)

	if len(s.Players) == 0 {
		delete(f.rooms, code)
		return
	}
	if s.HostID == pid {
		s.HostID = s.Players[0].ID
	}
	if idx < s.DJIndex {
		s.DJIndex--
	}
	s.DJIndex %= len(s.Players)
}

func allGuessed(s *model.GameSnapshot) bool {
	if len(s.Players) < 2 {
		return false
	}
	for _, p := range s.Players {
		if s.IsDJ(p.ID) {
			continue
		}
		if !s.HasGuessed(p.ID) {
			return false
		}
	}
	return true
}

func endRound(s *model.GameSnapshot) {
	correct := 0
	if s.CurrentSong != nil {
		correct = s.CurrentSong.Year
	}

	names := map[model.PlayerID]string{}
	last := map[model.PlayerID]int{}
	for _, p := range s.Players {
		names[p.ID] = p.Name
		g, ok := s.Guesses[p.ID]
		if !ok {
			last[p.ID] = 0
			continue
		}
		pts := pointsFor(g, correct)
		last[p.ID] = pts
		s.Scores[p.ID] += pts
	}
	s.LastRoundPoints = last

	entry := model.HistoryEntry{RoundNumber: s.RoundIndex + 1}
	if dj := s.DJ(); dj != nil {
		entry.DJName = dj.Name
	}
	if s.CurrentSong != nil {
		song := *s.CurrentSong
		entry.Song = &song
	}
	for _, p := range s.Players {
		if g, ok := s.Guesses[p.ID]; ok {
			entry.Guesses = append(entry.Guesses, model.HistoryGuess{PlayerName: names[p.ID], GuessYear: g, Points: last[p.ID]})
		}
	}
	s.History = append(s.History, entry)

	s.Status = model.StatusRoundResult
	s.RoundStartedAt = nil
}

func pointsFor(guess, correct int) int {
	d := guess - correct
	if d < 0 {
		d = -d
	}
	switch d {
	case 0:
		return 3
	case 1:
		return 2
	case 2:
		return 1
	}
	return 0
}

func cloneSnapshot(s *model.GameSnapshot) *model.GameSnapshot {
	data, _ := json.Marshal(s)
	var out model.GameSnapshot
	_ = json.Unmarshal(data, &out)
	return &out
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeFailure(w http.ResponseWriter, fail failure) {
	if fail.message == "" {
		w.WriteHeader(fail.status)
		return
	}
	writeJSON(w, fail.status, errResp(fail.message))
}

func errResp(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func str(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

func num(body map[string]any, key string, def int) int {
	switch v := body[key].(type) {
	case float64:
		return int(v)
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return def
}

func nameOr(name string) string {
	if name == "" {
		return "Spiller"
	}
	return name
}
