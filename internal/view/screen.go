package view

// Screen is the one screen visible at a time
type Screen int

const (
	ScreenNoRoom Screen = iota
	ScreenLobby
	ScreenRound
	ScreenRoundResult
	ScreenGameOver
)

func (s Screen) String() string {
	switch s {
	case ScreenNoRoom:
		return "no_room"
	case ScreenLobby:
		return "lobby"
	case ScreenRound:
		return "round"
	case ScreenRoundResult:
		return "round_result"
	case ScreenGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the screen by name
func (s Screen) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// InGame returns true for the screens that show round history
func (s Screen) InGame() bool {
	return s == ScreenRound || s == ScreenRoundResult || s == ScreenGameOver
}
