package transport

import "github.com/mcoot/musikspil/internal/model"

// Action names understood by the server
const (
	ActionCategories  = "categories"
	ActionVersion     = "version"
	ActionCreateRoom  = "create_room"
	ActionJoin        = "join"
	ActionSetCategory = "set_category"
	ActionStartGame   = "start_game"
	ActionStartTimer  = "start_timer"
	ActionSkipSong    = "skip_song"
	ActionSubmitGuess = "submit_guess"
	ActionNextRound   = "next_round"
	ActionResetGame   = "reset_game"
	ActionLeaveRoom   = "leave_room"
	ActionState       = "state"
)

// CreateRoomRequest creates a room with the caller as host
type CreateRoomRequest struct {
	Name   string `json:"name"`
	Timer  int    `json:"timer"`
	Rounds int    `json:"rounds"`
}

// PlayerIDResponse is the player part of create/join responses
type PlayerIDResponse struct {
	ID model.PlayerID `json:"id"`
}

// CreateRoomResponse is returned by create_room
type CreateRoomResponse struct {
	Room   model.RoomCode   `json:"room"`
	Player PlayerIDResponse `json:"player"`
}

// JoinRequest joins an existing room
type JoinRequest struct {
	Room model.RoomCode `json:"room"`
	Name string         `json:"name"`
}

// JoinResponse is returned by join
type JoinResponse struct {
	Player PlayerIDResponse `json:"player"`
}

// RoomRequest addresses a room without naming a player
type RoomRequest struct {
	Room model.RoomCode `json:"room"`
}

// PlayerRequest addresses a room on behalf of a player
type PlayerRequest struct {
	Room   model.RoomCode `json:"room"`
	Player model.PlayerID `json:"player"`
}

// SetCategoryRequest changes the room's song category (host only)
type SetCategoryRequest struct {
	Room     model.RoomCode `json:"room"`
	Player   model.PlayerID `json:"player"`
	Category string         `json:"category"`
}

// StartGameRequest starts the game with the host's chosen settings.
// Unset settings are omitted so the server keeps the room's values.
type StartGameRequest struct {
	Room     model.RoomCode `json:"room"`
	Player   model.PlayerID `json:"player"`
	Timer    int            `json:"timer,omitempty"`
	Rounds   int            `json:"rounds,omitempty"`
	Category string         `json:"category,omitempty"`
}

// SubmitGuessRequest submits a release-year guess
type SubmitGuessRequest struct {
	Room   model.RoomCode `json:"room"`
	Player model.PlayerID `json:"player"`
	Year   int            `json:"year"`
}

// CategoriesResponse is returned by categories
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// VersionResponse is returned by version
type VersionResponse struct {
	Version string `json:"version"`
}
