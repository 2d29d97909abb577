package model

// PlayerID uniquely identifies a player within a room
type PlayerID string

// RoomCode identifies a room on the server
type RoomCode string

// Player is a room participant as listed in a snapshot
type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// PlayerRef is the local player's identity within the joined room
type PlayerRef struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}
