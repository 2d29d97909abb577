package model

import "time"

// Status is the phase a started room is in
type Status string

const (
	StatusLobby       Status = "lobby"        // Room exists, game not started
	StatusRound       Status = "round"        // DJ is playing a song, players guessing
	StatusRoundResult Status = "round_result" // Correct year revealed
	StatusGameOver    Status = "game_over"    // All rounds played
)

// DefaultCategory is used when neither the server nor the snapshot names one
const DefaultCategory = "Standard"

// Song is the track the DJ plays in a round
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Year   int    `json:"year"`
	// PlayURL links to the track on the streaming service
	PlayURL string `json:"spotifyUrl"`
}

// HistoryGuess is one player's guess in a completed round
type HistoryGuess struct {
	PlayerName string `json:"player_name"`
	GuessYear  int    `json:"guess_year"`
	Points     int    `json:"points"`
}

// HistoryEntry is the record of a completed round
type HistoryEntry struct {
	RoundNumber int            `json:"round_number"`
	DJName      string         `json:"dj_name"`
	Song        *Song          `json:"song"`
	Guesses     []HistoryGuess `json:"guesses"`
}

// GameSnapshot is the authoritative room state returned by the server.
// A snapshot is never modified after it has been received.
type GameSnapshot struct {
	Started bool     `json:"started"`
	Status  Status   `json:"status"`
	Players []Player `json:"players"`

	HostID      PlayerID `json:"host_id"`
	DJIndex     int      `json:"dj_index"`
	RoundIndex  int      `json:"round_index"`
	RoundsTotal int      `json:"rounds_total"`

	Category            string   `json:"category"`
	AvailableCategories []string `json:"available_categories"`

	// Countdown anchor. Nil means the round exists but the DJ has not started the clock.
	TimerSeconds   int      `json:"timer_seconds"`
	RoundStartedAt *float64 `json:"round_started_at"`

	CurrentSong *Song `json:"current_song"`

	Guesses         map[PlayerID]int `json:"guesses"`
	Scores          map[PlayerID]int `json:"scores"`
	LastRoundPoints map[PlayerID]int `json:"last_round_points"`

	History []HistoryEntry `json:"history"`
}

// DJ returns the player acting as DJ, or nil if dj_index is out of range
func (s *GameSnapshot) DJ() *Player {
	if s == nil || s.DJIndex < 0 || s.DJIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.DJIndex]
}

// IsDJ returns true if the given player is the current DJ
func (s *GameSnapshot) IsDJ(id PlayerID) bool {
	dj := s.DJ()
	return dj != nil && id != "" && dj.ID == id
}

// HasGuessed returns true if the player has a submitted guess
func (s *GameSnapshot) HasGuessed(id PlayerID) bool {
	_, ok := s.Guesses[id]
	return ok
}

// Guess returns the player's submitted guess, if any
func (s *GameSnapshot) Guess(id PlayerID) (int, bool) {
	year, ok := s.Guesses[id]
	return year, ok
}

// ScoreOf returns the player's cumulative score, 0 if absent
func (s *GameSnapshot) ScoreOf(id PlayerID) int {
	return s.Scores[id]
}

// LastRoundPointsOf returns the points awarded in the last round, 0 if absent
func (s *GameSnapshot) LastRoundPointsOf(id PlayerID) int {
	return s.LastRoundPoints[id]
}

// RoundStart returns the server-anchored round start time
func (s *GameSnapshot) RoundStart() (time.Time, bool) {
	if s == nil || s.RoundStartedAt == nil {
		return time.Time{}, false
	}
	secs := *s.RoundStartedAt
	whole := int64(secs)
	nanos := int64((secs - float64(whole)) * float64(time.Second))
	return time.Unix(whole, nanos), true
}

// RoundsRemaining returns the number of rounds not yet completed, counting the current one
func (s *GameSnapshot) RoundsRemaining() int {
	remaining := s.RoundsTotal - s.RoundIndex
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CategoryOrDefault returns the room's category, falling back to the default
func (s *GameSnapshot) CategoryOrDefault() string {
	if s == nil || s.Category == "" {
		return DefaultCategory
	}
	return s.Category
}
