package model

// Session is the client-local record of which room and player this device is
type Session struct {
	RoomCode RoomCode
	Player   *PlayerRef
}

// InRoom returns true if a room code is set
func (s Session) InRoom() bool {
	return s.RoomCode != ""
}

// PlayerID returns the local player's ID, or empty if no player is set
func (s Session) PlayerID() PlayerID {
	if s.Player == nil {
		return ""
	}
	return s.Player.ID
}

// Is returns true if the local player has the given ID
func (s Session) Is(id PlayerID) bool {
	return s.Player != nil && id != "" && s.Player.ID == id
}
