package view

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/session"
)

type RenderSuite struct {
	suite.Suite
	snap  *model.GameSnapshot
	local Local
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderSuite))
}

func (s *RenderSuite) SetupTest() {
	started := 1704110400.0
	s.snap = &model.GameSnapshot{
		Started: true,
		Status:  model.StatusRound,
		Players: []model.Player{
			{ID: "a", Name: "Alice"},
			{ID: "b", Name: "Bob"},
			{ID: "c", Name: "Carol"},
			{ID: "d", Name: "Dave"},
		},
		HostID:         "a",
		DJIndex:        0,
		RoundIndex:     1,
		RoundsTotal:    4,
		Category:       "1980",
		TimerSeconds:   30,
		RoundStartedAt: &started,
		CurrentSong:    &model.Song{Title: "Take On Me", Artist: "a-ha", Year: 1984, PlayURL: "https://open.spotify.com/track/x"},
		Guesses:        map[model.PlayerID]int{"b": 1979},
		Scores:         map[model.PlayerID]int{"a": 10, "b": 30, "c": 30, "d": 5},
		LastRoundPoints: map[model.PlayerID]int{
			"b": 2,
		},
		History: []model.HistoryEntry{{
			RoundNumber: 1,
			DJName:      "Dave",
			Song:        &model.Song{Title: "Blue Monday", Artist: "New Order", Year: 1983},
			Guesses:     []model.HistoryGuess{{PlayerName: "Bob", GuessYear: 1982, Points: 2}},
		}},
	}
	s.local = Local{Online: true, Version: "1.0.0"}
}

func sessionFor(room model.RoomCode, id model.PlayerID) model.Session {
	return model.Session{RoomCode: room, Player: &model.PlayerRef{ID: id}}
}

// NoRoom

func (s *RenderSuite) TestNoSnapshotIsNoRoom() {
	vm := Render(nil, model.Session{}, s.local)

	s.Equal(ScreenNoRoom, vm.Screen)
	s.Nil(vm.Lobby)
	s.Nil(vm.Round)
	s.Nil(vm.History)
	s.Nil(vm.Scores)
	s.False(vm.CanLeave)
	s.Equal("1.0.0", vm.Version)
}

func (s *RenderSuite) TestNoSnapshotYetHidesLeave() {
	vm := Render(nil, sessionFor("ABCD", "b"), s.local)

	s.Equal(ScreenNoRoom, vm.Screen)
	s.Equal(model.RoomCode("ABCD"), vm.RoomCode)
	s.False(vm.CanLeave)
}

// Lobby

func (s *RenderSuite) TestNotStartedIsAlwaysLobby() {
	for _, status := range []model.Status{model.StatusLobby, model.StatusRound, model.StatusRoundResult, model.StatusGameOver, "weird"} {
		s.snap.Started = false
		s.snap.Status = status

		vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

		s.Equal(ScreenLobby, vm.Screen, "status %q", status)
		s.NotNil(vm.Lobby)
		s.Nil(vm.Round)
		s.Nil(vm.Result)
		s.Nil(vm.GameOver)
		s.Nil(vm.History, "history is hidden in the lobby")
	}
}

func (s *RenderSuite) TestUnknownStartedStatusIsLobby() {
	s.snap.Status = "intermission"

	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

	s.Equal(ScreenLobby, vm.Screen)
	s.NotNil(vm.Lobby)
}

func (s *RenderSuite) TestLobbyHostControlsOnlyForHost() {
	s.snap.Started = false
	s.snap.AvailableCategories = []string{"Standard", "1980"}

	host := Render(s.snap, sessionFor("ABCD", "a"), s.local)
	s.Require().NotNil(host.Lobby.Host)
	s.True(host.Lobby.IsHost)
	s.Equal("1980", host.Lobby.Host.Category)
	s.Equal([]string{"Standard", "1980"}, host.Lobby.Host.Categories)
	s.True(host.Lobby.Players[0].IsHost)
	s.True(host.Lobby.Players[0].IsYou)

	guest := Render(s.snap, sessionFor("ABCD", "b"), s.local)
	s.False(guest.Lobby.IsHost)
	s.Nil(guest.Lobby.Host)
	s.Len(guest.Lobby.Players, 4)
	s.True(guest.Lobby.Players[1].IsYou)
}

func (s *RenderSuite) TestLobbyCategoryFallbacks() {
	s.snap.Started = false
	s.snap.Category = ""

	vm := Render(s.snap, sessionFor("ABCD", "a"), s.local)
	s.Equal("Standard", vm.Lobby.Host.Category)
	s.Equal([]string{"Standard"}, vm.Lobby.Host.Categories)

	s.local.Categories = []string{"Standard", "Rock"}
	vm = Render(s.snap, sessionFor("ABCD", "a"), s.local)
	s.Equal([]string{"Standard", "Rock"}, vm.Lobby.Host.Categories)
}

// Round

func (s *RenderSuite) TestRoundGuessIndicatorsArePresenceOnly() {
	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)
	s.Require().Equal(ScreenRound, vm.Screen)

	s.Equal([]GuessIndicator{
		{Name: "Bob", Submitted: true},
		{Name: "Carol", Submitted: false},
		{Name: "Dave", Submitted: false},
	}, vm.Round.Guesses, "DJ Alice is excluded")

	data, err := json.Marshal(vm)
	s.Require().NoError(err)
	s.NotContains(string(data), "1979", "guess value never rendered")
	s.NotContains(string(data), "1984", "song year hidden from non-DJ")
	s.NotContains(string(data), "Take On Me")
	s.Nil(vm.Round.Song)
	s.False(vm.Round.CanSkip)
}

func (s *RenderSuite) TestRoundDJSeesSong() {
	vm := Render(s.snap, sessionFor("ABCD", "a"), s.local)

	s.True(vm.Round.IsDJ)
	s.Equal("You are the DJ", vm.Round.Role)
	s.Require().NotNil(vm.Round.Song)
	s.Equal("Take On Me", vm.Round.Song.Title)
	s.Equal("1984", vm.Round.Song.Year)
	s.Equal("https://open.spotify.com/track/x", vm.Round.Song.PlayURL)
	s.True(vm.Round.CanSkip)
	s.False(vm.Round.CanGuess)
	s.False(vm.Round.CanStartTimer, "clock already running")

	data, err := json.Marshal(vm)
	s.Require().NoError(err)
	s.NotContains(string(data), "1979", "the DJ still sees presence only")
}

func (s *RenderSuite) TestRoundDJWaitingCanStartTimer() {
	s.snap.RoundStartedAt = nil

	vm := Render(s.snap, sessionFor("ABCD", "a"), s.local)

	s.True(vm.Round.CanStartTimer)
	s.False(vm.Round.Countdown.Started)
}

func (s *RenderSuite) TestRoundGuessGating() {
	s.local.YearDraft = "19"

	guessed := Render(s.snap, sessionFor("ABCD", "b"), s.local)
	s.True(guessed.Round.Guessed)
	s.False(guessed.Round.CanGuess)

	pending := Render(s.snap, sessionFor("ABCD", "c"), s.local)
	s.False(pending.Round.Guessed)
	s.True(pending.Round.CanGuess)
	s.Equal("19", pending.Round.YearDraft)
	s.Equal("Guess the year", pending.Round.Role)
}

func (s *RenderSuite) TestRoundCounterAndScores() {
	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

	s.Equal("Round 2 of 4 (3 left)", vm.Round.Counter)
	s.Equal("Alice", vm.Round.DJName)
	s.Equal([]ScoreRow{{"Alice", 10}, {"Bob", 30}, {"Carol", 30}, {"Dave", 5}}, vm.Round.Scores)
}

func (s *RenderSuite) TestRoundMissingScoresDefaultToZero() {
	s.snap.Scores = nil

	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

	for _, row := range vm.Round.Scores {
		s.Zero(row.Score)
	}
}

func (s *RenderSuite) TestRoundDJIndexOutOfRange() {
	s.snap.DJIndex = 9

	vm := Render(s.snap, sessionFor("ABCD", "a"), s.local)

	s.False(vm.Round.IsDJ)
	s.Equal("-", vm.Round.DJName)
	s.Len(vm.Round.Guesses, 4)
}

// Round result

func (s *RenderSuite) TestResultTotalsAndDeltas() {
	s.snap.Status = model.StatusRoundResult
	s.snap.Guesses = map[model.PlayerID]int{"b": 1983, "c": 1990}

	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)
	s.Require().Equal(ScreenRoundResult, vm.Screen)

	s.Equal("1984", vm.Result.CorrectYear)
	s.Equal([]ResultRow{
		{Name: "Bob", Guess: "1983", Points: 2, Total: 30},
		{Name: "Carol", Guess: "1990", Points: 0, Total: 30},
		{Name: "Dave", Guess: "-", Points: 0, Total: 5},
	}, vm.Result.Rows)
	s.False(vm.Result.IsLastRound)
}

func (s *RenderSuite) TestResultLastRound() {
	s.snap.Status = model.StatusRoundResult
	s.snap.RoundIndex = 3

	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

	s.True(vm.Result.IsLastRound)
}

func (s *RenderSuite) TestResultWithoutSong() {
	s.snap.Status = model.StatusRoundResult
	s.snap.CurrentSong = nil

	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

	s.Equal("-", vm.Result.CorrectYear)
	s.Nil(vm.Result.Song)
}

// Game over

func (s *RenderSuite) TestGameOverRankingIsStableDescending() {
	s.snap.Status = model.StatusGameOver

	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)
	s.Require().Equal(ScreenGameOver, vm.Screen)

	var names []string
	for _, row := range vm.GameOver.Ranking {
		names = append(names, row.Name)
	}
	s.Equal([]string{"Bob", "Carol", "Alice", "Dave"}, names)
	s.Equal("Bob", vm.GameOver.Winner)
}

func (s *RenderSuite) TestGameOverNoPlayers() {
	s.snap.Status = model.StatusGameOver
	s.snap.Players = nil

	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

	s.Equal("-", vm.GameOver.Winner)
	s.Empty(vm.GameOver.Ranking)
	s.Nil(vm.Scores)
}

// History and live score

func (s *RenderSuite) TestHistoryIdenticalAcrossGameScreens() {
	s.local.HistoryCollapsed = true
	var first *HistoryView
	for _, status := range []model.Status{model.StatusRound, model.StatusRoundResult, model.StatusGameOver} {
		s.snap.Status = status

		vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

		s.Require().NotNil(vm.History)
		if first == nil {
			first = vm.History
			continue
		}
		s.Equal(first, vm.History, "status %q", status)
	}

	s.True(first.Collapsed)
	s.Require().Len(first.Rounds, 1)
	s.Equal("Round 1: Blue Monday by New Order (1983)", first.Rounds[0].Title)
	s.Equal("Dave", first.Rounds[0].DJName)
	s.Equal([]HistoryGuessRow{{Name: "Bob", Year: 1982, Points: 2}}, first.Rounds[0].Guesses)
}

func (s *RenderSuite) TestHistoryMissingSong() {
	s.snap.History = []model.HistoryEntry{{RoundNumber: 3}}

	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

	s.Equal("Round 3: - by - (-)", vm.History.Rounds[0].Title)
	s.Equal("-", vm.History.Rounds[0].DJName)
}

func (s *RenderSuite) TestLiveScoreStrip() {
	s.snap.Started = false

	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

	s.Require().NotNil(vm.Scores)
	s.Equal("Alice", vm.Scores.DJName)
	s.Len(vm.Scores.Scores, 4)
}

func (s *RenderSuite) TestLocalFieldsCarried() {
	s.local.Online = false
	s.local.Notice = session.Notice{Kind: session.NoticeError, Text: "room_not_found"}

	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

	s.False(vm.Online)
	s.Equal("room_not_found", vm.Notice.Text)
	s.True(vm.CanLeave)
	s.Equal(model.RoomCode("ABCD"), vm.RoomCode)
}

func (s *RenderSuite) TestScreenNames() {
	data, err := json.Marshal(Render(s.snap, sessionFor("ABCD", "b"), s.local))
	s.Require().NoError(err)
	s.True(strings.Contains(string(data), `"screen":"round"`))
	s.Equal("game_over", ScreenGameOver.String())
	s.Equal("unknown", Screen(42).String())
}

func (s *RenderSuite) TestCountdownAnchorFromSnapshot() {
	vm := Render(s.snap, sessionFor("ABCD", "b"), s.local)

	c := vm.Round.Countdown
	s.True(c.Started)
	s.Equal(30, c.TimerSeconds)
	s.Equal(time.Unix(1704110400, 0), c.StartedAt)
}
