package model

import (
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/math-battle/internal/game"
	"github.com/palemoky/math-battle/internal/game/card"
	"github.com/palemoky/math-battle/internal/game/session"
)

type fakeSound struct {
	mu     sync.Mutex
	played []string
}

func (f *fakeSound) Play(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name != "" {
		f.played = append(f.played, name)
	}
}

func (f *fakeSound) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.played...)
}

func newTestApp(t *testing.T) (*App, *fakeSound) {
	t.Helper()
	snd := &fakeSound{}
	m := New(
		WithSound(snd),
		WithSessionOptions(
			session.WithTickInterval(time.Hour),
			session.WithRand(rand.New(rand.NewPCG(3, 3))),
		),
	)
	t.Cleanup(m.Close)
	return m, snd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *App, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(m *App, s string) {
	for _, r := range s {
		press(m, runes(string(r)))
	}
}

// startGame starts a two player game and replaces the deck with cards.
func startGame(t *testing.T, m *App, cards ...card.Card) {
	t.Helper()
	typeText(m, "Ann")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "Ben")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ScreenBoard, m.Screen())

	if len(cards) > 0 {
		local := m.backend.(localBackend)
		st := local.Snapshot()
		st.Deck = cards
		local.Restore(st)
		m.state = st
	}
}

func TestNew_StartsOnSetup(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	assert.Equal(t, ScreenSetup, m.Screen())
	assert.Equal(t, game.MinPlayers, m.playerCount)
	assert.Equal(t, 1, m.setupFocus)
	assert.True(t, m.inputs[0].Focused())
	assert.Contains(t, m.View(), "Math Battle")
	assert.NotNil(t, m.Init())
}

func TestSetup_StartWithNames(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	startGame(t, m)

	st := m.State()
	require.Len(t, st.Players, 2)
	assert.Equal(t, "Ann", st.Players[0].Name)
	assert.Equal(t, "Ben", st.Players[1].Name)
	assert.Len(t, st.Deck, card.DeckSize)
	assert.Equal(t, "Game started with 2 players", m.notice)
	assert.Contains(t, m.View(), "Ann")
}

func TestSetup_PlayerCountAndDefaultNames(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	press(m, tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 0, m.setupFocus)

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 3, m.playerCount)
	press(m, runes("2"))
	assert.Equal(t, 2, m.playerCount)
	press(m, runes("3"))

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ScreenBoard, m.Screen())
	st := m.State()
	require.Len(t, st.Players, 3)
	assert.Equal(t, game.DefaultName(2), st.Players[2].Name)
}

func TestSetup_FocusWraps(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 2, m.setupFocus)
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.setupFocus)
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 2, m.setupFocus)
	assert.True(t, m.inputs[1].Focused())
	assert.False(t, m.inputs[0].Focused())
}

func TestSetup_EscQuits(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBoard_FlipPlaysSound(t *testing.T) {
	t.Parallel()

	m, snd := newTestApp(t)
	startGame(t, m, card.Card{Type: card.Points, Value: "+2"}, card.Card{Type: card.Points, Value: "+1"})

	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	st := m.State()
	assert.Equal(t, []int{0}, st.Revealed)
	assert.Equal(t, 2, st.Players[0].Score)
	assert.Equal(t, 1, st.Current)
	assert.Equal(t, []string{string(game.SoundScore)}, snd.names())
	assert.Equal(t, "Ben's turn", m.notice)
}

func TestBoard_CursorStaysOnBoard(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	startGame(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Zero(t, m.cursor)
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.cursor)
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 6, m.cursor)
	press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.cursor)
}

func TestBoard_AdjustFocusedScore(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	startGame(t, m)

	press(m, runes("+"), runes("+"))
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, runes("-"))

	st := m.State()
	assert.Equal(t, 2, st.Players[0].Score)
	assert.Equal(t, -1, st.Players[1].Score)
	assert.Equal(t, "Ben lost 1 point", m.notice)
}

func TestBoard_InvalidTargetShowsError(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	startGame(t, m, card.Card{Type: card.Steal}, card.Card{Type: card.Points, Value: "+1"})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, game.ModeSteal, m.State().Mode)

	cmd := press(m, runes("1"))
	require.NotNil(t, cmd)
	assert.Equal(t, "Pick another player", m.err)

	press(m, ClearErrorMsg{seq: m.errSeq - 1})
	assert.NotEmpty(t, m.err)
	press(m, ClearErrorMsg{seq: m.errSeq})
	assert.Empty(t, m.err)
}

func TestBoard_TargetIgnoredInNormalMode(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	startGame(t, m)

	cmd := press(m, runes("2"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.err)
}

func TestBoard_ResetReturnsToSetup(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	startGame(t, m)

	press(m, runes("r"))
	assert.Equal(t, ScreenSetup, m.Screen())
	assert.False(t, m.State().Started())
}

func TestBoard_QuitAndHelp(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	startGame(t, m)

	press(m, runes("?"))
	assert.True(t, m.help.ShowAll)

	cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestEvents_StaleBatchesIgnored(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	startGame(t, m)
	seq := m.lastSeq

	old := Batch{Seq: seq, State: game.State{}}
	cmd := press(m, EventsMsg{Batches: []Batch{old}})
	assert.NotNil(t, cmd)
	assert.True(t, m.State().Started())

	st := m.State()
	st.Players = slices.Clone(st.Players)
	st.Players[0].Score = 5
	press(m, EventsMsg{Batches: []Batch{{
		Seq:    seq + 1,
		Events: []game.Event{{Kind: game.EventTimerTick, Remaining: 30}},
		State:  st,
	}}})
	assert.Equal(t, 5, m.State().Players[0].Score)
	// 倒计时不覆盖提示
	assert.Equal(t, "Game started with 2 players", m.notice)
}

func TestWindowSize(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	press(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 100, m.help.Width)
	assert.Less(t, m.contentWidth(), 100)
}
