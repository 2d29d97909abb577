package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mcoot/musikspil/internal/dispatcher"
)

// Defaults for a new room, matching the server's own
const (
	DefaultTimer  = 20
	DefaultRounds = 10
)

// ErrQuit is returned by Runner.Exec for the quit command
var ErrQuit = errors.New("quit")

// UsageError is a malformed input line. No request is sent for it.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usage(format string) error {
	return &UsageError{Msg: "usage: " + format}
}

// Line is one parsed input line
type Line struct {
	Verb string
	Args []string
}

// ParseLine splits an input line into a lowercased verb and its arguments.
// Returns false for blank lines.
func ParseLine(s string) (Line, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Line{}, false
	}
	return Line{Verb: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// rest joins the arguments from i on, for names with spaces
func (l Line) rest(i int) string {
	if i >= len(l.Args) {
		return ""
	}
	return strings.Join(l.Args[i:], " ")
}

// intArg parses argument i, returning def when absent
func (l Line) intArg(i, def int, form string) (int, error) {
	if i >= len(l.Args) {
		return def, nil
	}
	n, err := strconv.Atoi(l.Args[i])
	if err != nil || n <= 0 {
		return 0, usage(form)
	}
	return n, nil
}

const helpText = `Commands:
  create [name] [timer] [rounds]   create a room (defaults: 20s, 10 rounds)
  join <room> [name]               join a room by code
  category <name>                  choose the song category (host, lobby only)
  start [timer] [rounds]           start the game (host)
  timer                            start the round clock (DJ)
  skip                             draw another song (DJ)
  year <YYYY|+N|-N|1980s>          edit the year you are about to guess
  guess [year]                     submit a guess (uses the edited year if omitted)
  next                             go to the next round
  reset                            back to the lobby with scores cleared
  leave                            leave the room
  history                          collapse or expand round history
  help                             show this help
  quit                             exit`

// Runner executes input lines against a dispatcher
type Runner struct {
	dispatcher *dispatcher.Dispatcher
	out        io.Writer
	name       string
}

// NewRunner creates a Runner. name is used when create or join omit one.
func NewRunner(d *dispatcher.Dispatcher, out io.Writer, name string) *Runner {
	return &Runner{dispatcher: d, out: out, name: name}
}

// Exec runs one parsed line. Command failures are already shown as a
// notice on the painted screen; they are returned for logging.
func (r *Runner) Exec(ctx context.Context, l Line) error {
	d := r.dispatcher

	switch l.Verb {
	case "create", "c":
		name := r.name
		if len(l.Args) > 0 {
			name = l.Args[0]
		}
		timer, err := l.intArg(1, DefaultTimer, "create [name] [timer] [rounds]")
		if err != nil {
			return err
		}
		rounds, err := l.intArg(2, DefaultRounds, "create [name] [timer] [rounds]")
		if err != nil {
			return err
		}
		return d.CreateRoom(ctx, name, timer, rounds)

	case "join", "j":
		if len(l.Args) == 0 {
			return usage("join <room> [name]")
		}
		name := l.rest(1)
		if name == "" {
			name = r.name
		}
		return d.Join(ctx, l.Args[0], name)

	case "category", "cat":
		if len(l.Args) == 0 {
			return usage("category <name>")
		}
		return d.SetCategory(ctx, l.rest(0))

	case "start", "s":
		timer, err := l.intArg(0, 0, "start [timer] [rounds]")
		if err != nil {
			return err
		}
		rounds, err := l.intArg(1, 0, "start [timer] [rounds]")
		if err != nil {
			return err
		}
		return d.StartGame(ctx, dispatcher.StartOptions{Timer: timer, Rounds: rounds})

	case "timer", "t":
		return d.StartTimer(ctx)

	case "skip":
		return d.SkipSong(ctx)

	case "year", "y":
		if len(l.Args) != 1 {
			return usage("year <YYYY|+N|-N|1980s>")
		}
		return d.EditYear(l.Args[0])

	case "guess", "g":
		return d.SubmitGuess(ctx, l.rest(0))

	case "next", "n":
		return d.NextRound(ctx)

	case "reset":
		return d.ResetGame(ctx)

	case "leave":
		return d.LeaveRoom(ctx)

	case "history", "h":
		return d.ToggleHistory(ctx)

	case "help", "?":
		_, _ = fmt.Fprintln(r.out, helpText)
		return nil

	case "quit", "exit", "q":
		return ErrQuit
	}

	return &UsageError{Msg: fmt.Sprintf("unknown command %q, try help", l.Verb)}
}
