package view

import (
	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/session"
)

// Local is the client-side state that affects rendering besides the snapshot
type Local struct {
	Notice           session.Notice
	HistoryCollapsed bool
	// Categories loaded at startup, used when the snapshot lists none
	Categories []string
	Version    string
	Online     bool
	YearDraft  string
}

// ViewModel is everything a painter needs to draw one screen.
// Exactly one of Lobby, Round, Result and GameOver is set, matching Screen,
// except for ScreenNoRoom where none is.
type ViewModel struct {
	Screen   Screen           `json:"screen"`
	RoomCode model.RoomCode   `json:"room_code,omitempty"`
	Player   *model.PlayerRef `json:"player,omitempty"`
	Online   bool             `json:"online"`
	Notice   session.Notice   `json:"notice"`
	Version  string           `json:"version"`
	CanLeave bool             `json:"can_leave"`
	Lobby    *LobbyView       `json:"lobby,omitempty"`
	Round    *RoundView       `json:"round,omitempty"`
	Result   *ResultView      `json:"result,omitempty"`
	GameOver *GameOverView    `json:"game_over,omitempty"`
	History  *HistoryView     `json:"history,omitempty"`
	Scores   *LiveScoreView   `json:"live_score,omitempty"`
}

// PlayerRow is one entry in the lobby player list
type PlayerRow struct {
	ID     model.PlayerID `json:"id"`
	Name   string         `json:"name"`
	IsHost bool           `json:"is_host"`
	IsYou  bool           `json:"is_you"`
}

// LobbyView is the pre-game room
type LobbyView struct {
	Players []PlayerRow `json:"players"`
	IsHost  bool        `json:"is_host"`
	// Host holds the host-only controls, nil for everyone else
	Host *HostControls `json:"host,omitempty"`
}

// HostControls are the settings the host picks before starting
type HostControls struct {
	Category     string   `json:"category"`
	Categories   []string `json:"categories"`
	TimerSeconds int      `json:"timer_seconds"`
	RoundsTotal  int      `json:"rounds_total"`
}

// SongView is a song as shown to the DJ or in history
type SongView struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Year    string `json:"year"`
	PlayURL string `json:"play_url,omitempty"`
}

// GuessIndicator shows whether a player has guessed, never what
type GuessIndicator struct {
	Name      string `json:"name"`
	Submitted bool   `json:"submitted"`
}

// ScoreRow is a player's cumulative score
type ScoreRow struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RoundView is a round in progress
type RoundView struct {
	Number    int    `json:"number"`
	Total     int    `json:"total"`
	Remaining int    `json:"remaining"`
	Counter   string `json:"counter"`

	IsDJ   bool   `json:"is_dj"`
	DJName string `json:"dj_name"`
	Role   string `json:"role"`

	// Song is only set for the DJ
	Song          *SongView `json:"song,omitempty"`
	CanSkip       bool      `json:"can_skip"`
	CanStartTimer bool      `json:"can_start_timer"`

	CanGuess  bool   `json:"can_guess"`
	Guessed   bool   `json:"guessed"`
	YearDraft string `json:"year_draft,omitempty"`

	Guesses   []GuessIndicator `json:"guesses"`
	Scores    []ScoreRow       `json:"scores"`
	Countdown Countdown        `json:"countdown"`
}

// ResultRow is one non-DJ player's outcome of the last round
type ResultRow struct {
	Name   string `json:"name"`
	Guess  string `json:"guess"`
	Points int    `json:"points"`
	Total  int    `json:"total"`
}

// ResultView reveals the correct year after a round
type ResultView struct {
	CorrectYear string      `json:"correct_year"`
	Song        *SongView   `json:"song,omitempty"`
	DJName      string      `json:"dj_name"`
	Rows        []ResultRow `json:"rows"`
	IsLastRound bool        `json:"is_last_round"`
}

// GameOverView is the final ranking
type GameOverView struct {
	Winner  string     `json:"winner"`
	Ranking []ScoreRow `json:"ranking"`
}

// HistoryGuessRow is one guess in a completed round
type HistoryGuessRow struct {
	Name   string `json:"name"`
	Year   int    `json:"year"`
	Points int    `json:"points"`
}

// HistoryRound is one completed round
type HistoryRound struct {
	Number  int               `json:"number"`
	Title   string            `json:"title"`
	DJName  string            `json:"dj_name"`
	Song    SongView          `json:"song"`
	Guesses []HistoryGuessRow `json:"guesses"`
}

// HistoryView lists completed rounds, oldest first
type HistoryView struct {
	Collapsed bool           `json:"collapsed"`
	Rounds    []HistoryRound `json:"rounds"`
}

// LiveScoreView is the always-visible score strip
type LiveScoreView struct {
	DJName string     `json:"dj_name,omitempty"`
	Scores []ScoreRow `json:"scores"`
}
