package display

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/musikspil/internal/session"
	"github.com/mcoot/musikspil/internal/view"
)

// Text paints screens as plain text for a terminal
type Text struct {
	w             io.Writer
	lastScreen    string
	lastCountdown string

	// screen collects a Paint before it is compared with lastScreen
	screen *bytes.Buffer
}

// Ensure Text implements Painter
var _ Painter = (*Text)(nil)

// NewText creates a Text painter writing to w
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Paint prints the screen unless it is identical to the one last printed
func (t *Text) Paint(vm view.ViewModel) {
	t.screen = &bytes.Buffer{}
	defer func() { t.screen = nil }()

	t.printHeader(vm)

	switch vm.Screen {
	case view.ScreenNoRoom:
		t.printf("Not in a room. Use 'create <name>' or 'join <room> <name>'.\n")
	case view.ScreenLobby:
		t.printLobby(vm.Lobby)
	case view.ScreenRound:
		t.printRound(vm.Round)
	case view.ScreenRoundResult:
		t.printResult(vm.Result)
	case view.ScreenGameOver:
		t.printGameOver(vm.GameOver)
	}

	if vm.History != nil {
		t.printHistory(vm.History)
	}
	t.printNotice(vm.Notice)

	text := t.screen.String()
	if text == t.lastScreen {
		return
	}
	t.lastScreen = text
	t.lastCountdown = ""
	_, _ = io.WriteString(t.w, text)
}

// PaintCountdown prints the clock line only when it changes
func (t *Text) PaintCountdown(text string) {
	if text == t.lastCountdown {
		return
	}
	t.lastCountdown = text
	t.printf("  %s\n", text)
}

// PaintCover is a no-op; the terminal shows no artwork
func (t *Text) PaintCover(string) {}

func (t *Text) PaintConnectivity(online bool) {
	t.printf("[%s]\n", onlineLabel(online))
}

func (t *Text) printHeader(vm view.ViewModel) {
	t.printf("\n=== musikspil %s [%s] ===\n", vm.Version, onlineLabel(vm.Online))
	if vm.RoomCode != "" {
		name := ""
		if vm.Player != nil {
			name = vm.Player.Name
		}
		t.printf("Room: %s  You: %s\n", vm.RoomCode, name)
	}
	if vm.Scores != nil {
		var parts []string
		if vm.Scores.DJName != "" {
			parts = append(parts, "DJ: "+vm.Scores.DJName)
		}
		for _, row := range vm.Scores.Scores {
			parts = append(parts, fmt.Sprintf("%s: %d", row.Name, row.Score))
		}
		t.printf("%s\n", strings.Join(parts, " | "))
	}
}

func (t *Text) printLobby(l *view.LobbyView) {
	t.printf("--- Lobby ---\n")
	t.printf("Players (%d):\n", len(l.Players))
	for _, p := range l.Players {
		var tags []string
		if p.IsHost {
			tags = append(tags, "host")
		}
		if p.IsYou {
			tags = append(tags, "you")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " [" + strings.Join(tags, ", ") + "]"
		}
		t.printf("  - %s%s\n", p.Name, suffix)
	}
	if l.Host != nil {
		t.printf("Category: %s (choices: %s)\n", l.Host.Category, strings.Join(l.Host.Categories, ", "))
		t.printf("Timer: %ds  Rounds: %d\n", l.Host.TimerSeconds, l.Host.RoundsTotal)
		t.printf("Commands: category <name>, start [timer] [rounds]\n")
	} else {
		t.printf("Waiting for the host to start...\n")
	}
}

func (t *Text) printRound(r *view.RoundView) {
	t.printf("--- %s ---\n", r.Counter)
	t.printf("%s (DJ: %s)\n", r.Role, r.DJName)

	if r.IsDJ {
		if r.Song != nil {
			t.printf("Song: %s - %s (%s)\n", r.Song.Title, r.Song.Artist, r.Song.Year)
			if r.Song.PlayURL != "" {
				t.printf("Play: %s\n", r.Song.PlayURL)
			}
		}
		var cmds []string
		if r.CanStartTimer {
			cmds = append(cmds, "timer")
		}
		if r.CanSkip {
			cmds = append(cmds, "skip")
		}
		if len(cmds) > 0 {
			t.printf("Commands: %s\n", strings.Join(cmds, ", "))
		}
	} else if r.Guessed {
		t.printf("Guess sent ✅\n")
	} else if r.CanGuess {
		draft := r.YearDraft
		if draft == "" {
			draft = "____"
		}
		t.printf("Your guess: %s  (year <YYYY|+N|-N|1980s>, guess [year])\n", draft)
	}

	t.printf("Guesses:\n")
	for _, g := range r.Guesses {
		mark := "⏳"
		if g.Submitted {
			mark = "✅"
		}
		t.printf("  %s %s\n", mark, g.Name)
	}
	t.printf("Scores:\n")
	for _, s := range r.Scores {
		t.printf("  %s: %d points\n", s.Name, s.Score)
	}
}

func (t *Text) printResult(r *view.ResultView) {
	t.printf("--- Round result ---\n")
	t.printf("Correct year: %s\n", r.CorrectYear)
	if r.Song != nil {
		t.printf("Song: %s - %s\n", r.Song.Title, r.Song.Artist)
	}
	for _, row := range r.Rows {
		t.printf("  %s: %s  (+%d)  total: %d\n", row.Name, row.Guess, row.Points, row.Total)
	}
	if r.IsLastRound {
		t.printf("Commands: next (final results), reset\n")
	} else {
		t.printf("Commands: next, reset\n")
	}
}

func (t *Text) printGameOver(g *view.GameOverView) {
	t.printf("--- Game over ---\n")
	t.printf("Winner: %s\n", g.Winner)
	for i, row := range g.Ranking {
		t.printf("  %d. %s: %d\n", i+1, row.Name, row.Score)
	}
	t.printf("Commands: reset, leave\n")
}

func (t *Text) printHistory(h *view.HistoryView) {
	if h.Collapsed {
		t.printf("History (%d rounds, hidden; 'history' to show)\n", len(h.Rounds))
		return
	}
	t.printf("History:\n")
	if len(h.Rounds) == 0 {
		t.printf("  No rounds yet.\n")
		return
	}
	for _, r := range h.Rounds {
		t.printf("  %s\n", r.Title)
		t.printf("    DJ: %s\n", r.DJName)
		if r.Song.PlayURL != "" {
			t.printf("    %s\n", r.Song.PlayURL)
		}
		for _, g := range r.Guesses {
			t.printf("    %-12s %4d  %d\n", g.Name, g.Year, g.Points)
		}
	}
}

func (t *Text) printNotice(n session.Notice) {
	if n.IsZero() {
		return
	}
	t.printf("! %s: %s\n", n.Kind, n.Text)
}

func (t *Text) printf(format string, args ...any) {
	if t.screen != nil {
		_, _ = fmt.Fprintf(t.screen, format, args...)
		return
	}
	_, _ = fmt.Fprintf(t.w, format, args...)
}

func onlineLabel(online bool) string {
	if online {
		return "online"
	}
	return "connecting..."
}
