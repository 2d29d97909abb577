package display

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/session"
	"github.com/mcoot/musikspil/internal/view"
)

func roundView() view.ViewModel {
	return view.ViewModel{
		Screen:   view.ScreenRound,
		RoomCode: "ABCD",
		Player:   &model.PlayerRef{ID: "b", Name: "Bob"},
		Online:   true,
		Version:  "1.0.0",
		Scores: &view.LiveScoreView{
			DJName: "Alice",
			Scores: []view.ScoreRow{{Name: "Alice", Score: 3}, {Name: "Bob", Score: 1}},
		},
		Round: &view.RoundView{
			Counter:  "Round 1 of 2 (2 left)",
			Role:     "Guess the year",
			DJName:   "Alice",
			CanGuess: true,
			Guesses:  []view.GuessIndicator{{Name: "Bob", Submitted: false}, {Name: "Carol", Submitted: true}},
			Scores:   []view.ScoreRow{{Name: "Alice", Score: 3}, {Name: "Bob", Score: 1}},
		},
		History: &view.HistoryView{Rounds: []view.HistoryRound{}},
		Notice:  session.Notice{Kind: session.NoticeValidation, Text: "enter a year"},
	}
}

func TestTextPaintRound(t *testing.T) {
	var buf bytes.Buffer
	p := NewText(&buf)

	p.Paint(roundView())
	out := buf.String()

	assert.Contains(t, out, "musikspil 1.0.0 [online]")
	assert.Contains(t, out, "Room: ABCD  You: Bob")
	assert.Contains(t, out, "DJ: Alice | Alice: 3 | Bob: 1")
	assert.Contains(t, out, "--- Round 1 of 2 (2 left) ---")
	assert.Contains(t, out, "⏳ Bob")
	assert.Contains(t, out, "✅ Carol")
	assert.Contains(t, out, "Your guess: ____")
	assert.Contains(t, out, "No rounds yet.")
	assert.Contains(t, out, "! validation: enter a year")
}

func TestTextPaintScreens(t *testing.T) {
	tests := []struct {
		name string
		vm   view.ViewModel
		want []string
	}{
		{
			name: "no room",
			vm:   view.ViewModel{Screen: view.ScreenNoRoom},
			want: []string{"Not in a room"},
		},
		{
			name: "lobby host",
			vm: view.ViewModel{Screen: view.ScreenLobby, Lobby: &view.LobbyView{
				Players: []view.PlayerRow{{Name: "Alice", IsHost: true, IsYou: true}, {Name: "Bob"}},
				IsHost:  true,
				Host:    &view.HostControls{Category: "Standard", Categories: []string{"Standard", "Rock"}, TimerSeconds: 30, RoundsTotal: 4},
			}},
			want: []string{"Alice [host, you]", "- Bob\n", "choices: Standard, Rock", "start [timer] [rounds]"},
		},
		{
			name: "lobby guest",
			vm: view.ViewModel{Screen: view.ScreenLobby, Lobby: &view.LobbyView{
				Players: []view.PlayerRow{{Name: "Alice", IsHost: true}},
			}},
			want: []string{"Waiting for the host"},
		},
		{
			name: "result",
			vm: view.ViewModel{Screen: view.ScreenRoundResult, Result: &view.ResultView{
				CorrectYear: "1984",
				Rows:        []view.ResultRow{{Name: "Bob", Guess: "-", Points: 0, Total: 4}},
			}},
			want: []string{"Correct year: 1984", "Bob: -  (+0)  total: 4"},
		},
		{
			name: "game over",
			vm: view.ViewModel{Screen: view.ScreenGameOver, GameOver: &view.GameOverView{
				Winner:  "Bob",
				Ranking: []view.ScoreRow{{Name: "Bob", Score: 9}, {Name: "Alice", Score: 2}},
			}},
			want: []string{"Winner: Bob", "1. Bob: 9", "2. Alice: 2"},
		},
		{
			name: "collapsed history",
			vm: view.ViewModel{Screen: view.ScreenGameOver, GameOver: &view.GameOverView{Winner: "-"},
				History: &view.HistoryView{Collapsed: true, Rounds: make([]view.HistoryRound, 2)}},
			want: []string{"History (2 rounds, hidden"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewText(&buf).Paint(tt.vm)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestTextCountdownDedupe(t *testing.T) {
	var buf bytes.Buffer
	p := NewText(&buf)

	p.PaintCountdown("Time left: 20s")
	p.PaintCountdown("Time left: 20s")
	p.PaintCountdown("Time left: 19s")

	assert.Equal(t, 1, strings.Count(buf.String(), "20s"))
	assert.Equal(t, 1, strings.Count(buf.String(), "19s"))

	// A full repaint shows the clock again
	p.Paint(view.ViewModel{Screen: view.ScreenNoRoom})
	p.PaintCountdown("Time left: 19s")
	assert.Equal(t, 2, strings.Count(buf.String(), "19s"))
}

func TestTextSkipsUnchangedScreen(t *testing.T) {
	var buf bytes.Buffer
	p := NewText(&buf)

	p.Paint(roundView())
	p.Paint(roundView())
	assert.Equal(t, 1, strings.Count(buf.String(), "=== musikspil"))

	changed := roundView()
	changed.Round.Guesses[0].Submitted = true
	p.Paint(changed)
	assert.Equal(t, 2, strings.Count(buf.String(), "=== musikspil"))
	assert.Contains(t, buf.String(), "✅ Bob")
}

func TestTextUnchangedScreenKeepsClock(t *testing.T) {
	var buf bytes.Buffer
	p := NewText(&buf)

	p.Paint(roundView())
	p.PaintCountdown("Time left: 20s")
	p.Paint(roundView())
	p.PaintCountdown("Time left: 20s")

	assert.Equal(t, 1, strings.Count(buf.String(), "20s"))
}

func TestJSONLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewJSON(&buf)

	p.Paint(roundView())
	p.PaintCountdown(view.WaitingForDJ)
	p.PaintCover("covers/cover2.svg")
	p.PaintConnectivity(false)

	var events []string
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &env))
		events = append(events, env.Event)
	}
	assert.Equal(t, []string{EventView, EventCountdown, EventCover, EventConnectivity}, events)
}

type countingPainter struct {
	paints, countdowns, covers, connectivity int
}

func (c *countingPainter) Paint(view.ViewModel)   { c.paints++ }
func (c *countingPainter) PaintCountdown(string)  { c.countdowns++ }
func (c *countingPainter) PaintCover(string)      { c.covers++ }
func (c *countingPainter) PaintConnectivity(bool) { c.connectivity++ }

func TestMultiFansOut(t *testing.T) {
	a, b := &countingPainter{}, &countingPainter{}
	m := Multi{a, b}

	m.Paint(view.ViewModel{})
	m.PaintCountdown("x")
	m.PaintCover("y")
	m.PaintConnectivity(true)

	for _, c := range []*countingPainter{a, b} {
		assert.Equal(t, countingPainter{1, 1, 1, 1}, *c)
	}
}
