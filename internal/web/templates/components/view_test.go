package components

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musikspil/internal/session"
	"github.com/mcoot/musikspil/internal/view"
)

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	return doc
}

func TestRound_DJSeesSong(t *testing.T) {
	doc := renderDoc(t, Round(&view.RoundView{
		Counter: "Round 1 of 2 (1 left)",
		Role:    "You are the DJ",
		IsDJ:    true,
		Song: &view.SongView{
			Title:   "Song A",
			Artist:  "Artist A",
			Year:    "1984",
			PlayURL: "https://open.spotify.com/track/a",
		},
		Scores: []view.ScoreRow{{Name: "Alice", Score: 3}},
	}, "Waiting for DJ…"))

	assert.Equal(t, "Song A", doc.Find("#dj-song-title").Text())
	assert.Equal(t, "Artist A (1984)", doc.Find("#dj-song-meta").Text())
	assert.Equal(t, "https://open.spotify.com/track/a", doc.Find("#dj-panel a").AttrOr("href", ""))
	assert.Equal(t, "Waiting for DJ…", doc.Find("#timer-text").Text())
	assert.Equal(t, "Alice: 3 points", doc.Find("#scoreboard li").Text())
}

func TestRound_GuesserSeesNoSong(t *testing.T) {
	doc := renderDoc(t, Round(&view.RoundView{
		Role: "Guess the year",
		Guesses: []view.GuessIndicator{
			{Name: "Bob", Submitted: true},
			{Name: "Cleo"},
		},
	}, "Time left: 5s"))

	assert.Equal(t, 0, doc.Find("#dj-panel").Length())
	items := doc.Find("#guess-list li")
	require.Equal(t, 2, items.Length())
	assert.Equal(t, "✅ Bob", items.Eq(0).Text())
	assert.Equal(t, "⏳ Cleo", items.Eq(1).Text())
}

func TestRound_UnsafeLinkIsSanitised(t *testing.T) {
	doc := renderDoc(t, Round(&view.RoundView{
		Song: &view.SongView{Title: "x", PlayURL: "javascript:alert(1)"},
	}, ""))

	assert.NotContains(t, doc.Find("#dj-panel a").AttrOr("href", ""), "javascript")
}

func TestResultAndGameOver(t *testing.T) {
	doc := renderDoc(t, Result(&view.ResultView{
		CorrectYear: "1991",
		Rows:        []view.ResultRow{{Name: "Bob", Guess: "1990", Points: 2, Total: 5}},
	}))
	assert.Equal(t, "Correct year: 1991", doc.Find("#result-correct-year").Text())
	assert.Equal(t, "Bob: 1990  (+2)  total: 5", doc.Find("#result-table li").Text())

	doc = renderDoc(t, GameOver(&view.GameOverView{
		Winner:  "Bob",
		Ranking: []view.ScoreRow{{Name: "Bob", Score: 5}, {Name: "Alice", Score: 3}},
	}))
	assert.Equal(t, "Winner: Bob", doc.Find("#winner-text").Text())
	assert.Equal(t, 2, doc.Find("#final-scoreboard li").Length())
}

func TestHistory(t *testing.T) {
	doc := renderDoc(t, History(&view.HistoryView{Collapsed: true}))
	panel := doc.Find("#history-panel")
	assert.True(t, panel.HasClass("collapsed"))
	assert.Equal(t, "No rounds yet.", panel.Find("p").Text())

	doc = renderDoc(t, History(&view.HistoryView{
		Rounds: []view.HistoryRound{{
			Number:  1,
			Title:   "Round 1: Song A by Artist A (1984)",
			DJName:  "Alice",
			Guesses: []view.HistoryGuessRow{{Name: "Bob", Year: 1983, Points: 2}},
		}},
	}))
	panel = doc.Find("#history-panel")
	assert.False(t, panel.HasClass("collapsed"))
	assert.Equal(t, "Round 1: Song A by Artist A (1984)", panel.Find(".history-title").Text())
	cells := panel.Find(".history-table tbody td")
	require.Equal(t, 3, cells.Length())
	assert.Equal(t, "1983", cells.Eq(1).Text())
}

func TestConnectivityAndCover(t *testing.T) {
	doc := renderDoc(t, Connectivity(true))
	assert.Equal(t, "Online", doc.Find(".pill-online").Text())

	doc = renderDoc(t, Connectivity(false))
	assert.Equal(t, "Connecting…", doc.Find(".pill-offline").Text())

	doc = renderDoc(t, Cover("covers/cover4.svg"))
	assert.Equal(t, "covers/cover4.svg", doc.Find("img").AttrOr("src", ""))

	var sb strings.Builder
	require.NoError(t, Cover("").Render(context.Background(), &sb))
	assert.Empty(t, sb.String())
}

func TestPage_WiresEventStream(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Page(view.ViewModel{Screen: view.ScreenNoRoom, Version: "v1"}, "").Render(context.Background(), &sb))
	assert.True(t, strings.HasPrefix(sb.String(), "<!doctype html>"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, "/events", doc.Find("body").AttrOr("sse-connect", ""))
	assert.Equal(t, "view", doc.Find("main#view").AttrOr("sse-swap", ""))
	assert.Equal(t, "Connecting…", doc.Find("#connectivity .pill-offline").Text())
	assert.Equal(t, "no_room", doc.Find("#view .screen").AttrOr("data-screen", ""))
	assert.Equal(t, "Waiting for a room…", doc.Find("#view-lobby p").Text())
}

func TestView_NoticeAndLiveScore(t *testing.T) {
	doc := renderDoc(t, View(view.ViewModel{
		Screen:   view.ScreenLobby,
		RoomCode: "RM01",
		Notice:   session.Notice{Kind: session.NoticeValidation, Text: "Enter a year"},
		Lobby:    &view.LobbyView{Players: []view.PlayerRow{{Name: "Alice", IsHost: true}}},
		Scores: &view.LiveScoreView{
			DJName: "Alice",
			Scores: []view.ScoreRow{{Name: "Alice", Score: 3}},
		},
	}, ""))

	notice := doc.Find("#notice")
	assert.True(t, notice.HasClass("notice"))
	assert.True(t, notice.HasClass("notice-validation"))
	assert.Equal(t, "Enter a year", notice.Text())
	assert.Equal(t, "Room: RM01", doc.Find("#room-code").Text())
	assert.Equal(t, "DJ: Alice", doc.Find("#live-score .pill-dj").Text())
	assert.Equal(t, "Alice: 3", doc.Find("#live-score .score-pill").Text())
	assert.Equal(t, "Alice (host)", doc.Find("#lobby-players li").Text())
}
