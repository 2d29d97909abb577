package view

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/mcoot/musikspil/internal/model"
)

const noValue = "-"

// Render maps the latest snapshot and local state to exactly one screen.
// It keeps no state between calls.
func Render(snap *model.GameSnapshot, sess model.Session, local Local) ViewModel {
	vm := ViewModel{
		RoomCode: sess.RoomCode,
		Player:   sess.Player,
		Online:   local.Online,
		Notice:   local.Notice,
		Version:  local.Version,
		CanLeave: snap != nil && sess.InRoom() && sess.Player != nil,
	}

	if snap == nil {
		vm.Screen = ScreenNoRoom
		return vm
	}

	vm.Scores = renderLiveScore(snap)

	vm.Screen = screenOf(snap)
	switch vm.Screen {
	case ScreenRound:
		vm.Round = renderRound(snap, sess, local)
	case ScreenRoundResult:
		vm.Result = renderResult(snap)
	case ScreenGameOver:
		vm.GameOver = renderGameOver(snap)
	default:
		vm.Lobby = renderLobby(snap, sess, local)
	}

	if vm.Screen.InGame() {
		vm.History = renderHistory(snap, local.HistoryCollapsed)
	}
	return vm
}

// screenOf picks the screen for a snapshot. A room that has not started is
// always the lobby, whatever its status says.
func screenOf(snap *model.GameSnapshot) Screen {
	if !snap.Started {
		return ScreenLobby
	}
	switch snap.Status {
	case model.StatusRound:
		return ScreenRound
	case model.StatusRoundResult:
		return ScreenRoundResult
	case model.StatusGameOver:
		return ScreenGameOver
	default:
		return ScreenLobby
	}
}

// Categories resolves the category choices, preferring the snapshot's list
func Categories(snap *model.GameSnapshot, loaded []string) []string {
	if snap != nil && len(snap.AvailableCategories) > 0 {
		return snap.AvailableCategories
	}
	if len(loaded) > 0 {
		return loaded
	}
	return []string{model.DefaultCategory}
}

func renderLobby(snap *model.GameSnapshot, sess model.Session, local Local) *LobbyView {
	lobby := &LobbyView{
		Players: make([]PlayerRow, 0, len(snap.Players)),
		IsHost:  sess.Is(snap.HostID),
	}
	for _, p := range snap.Players {
		lobby.Players = append(lobby.Players, PlayerRow{
			ID:     p.ID,
			Name:   p.Name,
			IsHost: p.ID == snap.HostID,
			IsYou:  sess.Is(p.ID),
		})
	}
	if lobby.IsHost {
		lobby.Host = &HostControls{
			Category:     snap.CategoryOrDefault(),
			Categories:   Categories(snap, local.Categories),
			TimerSeconds: snap.TimerSeconds,
			RoundsTotal:  snap.RoundsTotal,
		}
	}
	return lobby
}

func renderRound(snap *model.GameSnapshot, sess model.Session, local Local) *RoundView {
	dj := snap.DJ()
	isDJ := dj != nil && sess.Is(dj.ID)

	round := &RoundView{
		Number:    snap.RoundIndex + 1,
		Total:     snap.RoundsTotal,
		Remaining: snap.RoundsRemaining(),
		IsDJ:      isDJ,
		DJName:    noValue,
		Role:      "Guess the year",
		Guesses:   []GuessIndicator{},
		Scores:    scoreRows(snap),
		Countdown: CountdownOf(snap),
	}
	round.Counter = fmt.Sprintf("Round %d of %d (%d left)", round.Number, round.Total, round.Remaining)
	if dj != nil {
		round.DJName = dj.Name
	}

	if isDJ {
		round.Role = "You are the DJ"
		round.CanStartTimer = !round.Countdown.Started
		if snap.CurrentSong != nil {
			round.Song = songView(snap.CurrentSong)
			round.CanSkip = true
		}
	} else if id := sess.PlayerID(); id != "" {
		round.Guessed = snap.HasGuessed(id)
		round.CanGuess = !round.Guessed
		round.YearDraft = local.YearDraft
	}

	for _, p := range snap.Players {
		if dj != nil && p.ID == dj.ID {
			continue
		}
		round.Guesses = append(round.Guesses, GuessIndicator{Name: p.Name, Submitted: snap.HasGuessed(p.ID)})
	}
	return round
}

func renderResult(snap *model.GameSnapshot) *ResultView {
	dj := snap.DJ()
	result := &ResultView{
		CorrectYear: noValue,
		DJName:      noValue,
		Rows:        []ResultRow{},
		IsLastRound: snap.RoundsTotal > 0 && snap.RoundIndex >= snap.RoundsTotal-1,
	}
	if snap.CurrentSong != nil {
		result.Song = songView(snap.CurrentSong)
		result.CorrectYear = result.Song.Year
	}
	if dj != nil {
		result.DJName = dj.Name
	}

	for _, p := range snap.Players {
		if dj != nil && p.ID == dj.ID {
			continue
		}
		guess := noValue
		if year, ok := snap.Guess(p.ID); ok {
			guess = strconv.Itoa(year)
		}
		result.Rows = append(result.Rows, ResultRow{
			Name:   p.Name,
			Guess:  guess,
			Points: snap.LastRoundPointsOf(p.ID),
			Total:  snap.ScoreOf(p.ID),
		})
	}
	return result
}

func renderGameOver(snap *model.GameSnapshot) *GameOverView {
	ranking := Ranking(snap)
	over := &GameOverView{Winner: noValue, Ranking: ranking}
	if len(ranking) > 0 {
		over.Winner = ranking[0].Name
	}
	return over
}

// Ranking orders players by score, highest first. Ties keep player order.
func Ranking(snap *model.GameSnapshot) []ScoreRow {
	rows := scoreRows(snap)
	slices.SortStableFunc(rows, func(a, b ScoreRow) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return rows
}

func renderHistory(snap *model.GameSnapshot, collapsed bool) *HistoryView {
	history := &HistoryView{
		Collapsed: collapsed,
		Rounds:    make([]HistoryRound, 0, len(snap.History)),
	}
	for _, h := range snap.History {
		song := SongView{Title: noValue, Artist: noValue, Year: noValue}
		if h.Song != nil {
			song = *songView(h.Song)
		}
		round := HistoryRound{
			Number:  h.RoundNumber,
			Title:   fmt.Sprintf("Round %d: %s by %s (%s)", h.RoundNumber, song.Title, song.Artist, song.Year),
			DJName:  orNoValue(h.DJName),
			Song:    song,
			Guesses: make([]HistoryGuessRow, 0, len(h.Guesses)),
		}
		for _, g := range h.Guesses {
			round.Guesses = append(round.Guesses, HistoryGuessRow{Name: g.PlayerName, Year: g.GuessYear, Points: g.Points})
		}
		history.Rounds = append(history.Rounds, round)
	}
	return history
}

func renderLiveScore(snap *model.GameSnapshot) *LiveScoreView {
	if len(snap.Players) == 0 {
		return nil
	}
	live := &LiveScoreView{Scores: scoreRows(snap)}
	if dj := snap.DJ(); dj != nil {
		live.DJName = dj.Name
	}
	return live
}

func scoreRows(snap *model.GameSnapshot) []ScoreRow {
	rows := make([]ScoreRow, 0, len(snap.Players))
	for _, p := range snap.Players {
		rows = append(rows, ScoreRow{Name: p.Name, Score: snap.ScoreOf(p.ID)})
	}
	return rows
}

func songView(s *model.Song) *SongView {
	year := noValue
	if s.Year != 0 {
		year = strconv.Itoa(s.Year)
	}
	return &SongView{
		Title:   orNoValue(s.Title),
		Artist:  orNoValue(s.Artist),
		Year:    year,
		PlayURL: s.PlayURL,
	}
}

func orNoValue(s string) string {
	if s == "" {
		return noValue
	}
	return s
}
