package model

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/math-battle/internal/apperrors"
	"github.com/palemoky/math-battle/internal/game"
	"github.com/palemoky/math-battle/internal/game/session"
	"github.com/palemoky/math-battle/internal/logger"
	"github.com/palemoky/math-battle/internal/ui/common"
	"github.com/palemoky/math-battle/internal/ui/view"
)

const (
	maxNameLength = 16
	errorDuration = 3 * time.Second
)

// Option configures an App.
type Option func(*App)

// WithSound sets the sound effect player.
func WithSound(p SoundPlayer) Option {
	return func(m *App) {
		if p != nil {
			m.sound = p
		}
	}
}

// WithSessionOptions passes options to the local game session. Remote apps
// ignore them.
func WithSessionOptions(opts ...session.Option) Option {
	return func(m *App) {
		m.sessionOpts = append(m.sessionOpts, opts...)
	}
}

// App 热座模式的主模型，所有玩家共用一个终端。游戏在本地 session 或
// 服务器上的房间里进行
type App struct {
	backend     Backend
	sessionOpts []session.Option
	queue       *eventQueue
	sound       SoundPlayer
	keys        KeyMap
	help        help.Model

	screen Screen
	width  int
	height int

	// 开局设置
	playerCount int
	inputs      []textinput.Model
	setupFocus  int

	// 棋盘
	state   game.State
	lastSeq uint64
	cursor  int
	focus   int
	notice  string
	err     string
	errSeq  int
}

// New creates the app with a fresh local session.
func New(opts ...Option) *App {
	m := newApp(opts...)
	m.backend = localBackend{session.New(append(m.sessionOpts, session.WithListener(m.queue.push))...)}
	return m
}

func newApp(opts ...Option) *App {
	m := &App{
		queue:       newEventQueue(),
		sound:       noSound{},
		keys:        DefaultKeyMap(),
		help:        help.New(),
		playerCount: game.MinPlayers,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.inputs = make([]textinput.Model, game.MaxPlayers)
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = game.DefaultName(i)
		ti.CharLimit = maxNameLength
		ti.Width = maxNameLength + 2
		m.inputs[i] = ti
	}
	m.setSetupFocus(1)
	return m
}

func (m *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.queue.wait())
}

// Close stops the local countdown or drops the server connection.
func (m *App) Close() {
	m.backend.Close()
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case EventsMsg:
		cmd := m.applyBatches(msg.Batches)
		return m, tea.Batch(cmd, m.queue.wait())

	case ClearErrorMsg:
		if msg.seq == m.errSeq {
			m.err = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == ScreenSetup {
			return m, m.updateSetup(msg)
		}
		return m, m.updateBoard(msg)
	}
	return m, nil
}

func (m *App) View() string {
	if m.screen == ScreenSetup {
		inputs := make([]string, m.playerCount)
		for i := range inputs {
			inputs[i] = m.inputs[i].View()
		}
		return common.DocStyle.Render(view.SetupView(view.Setup{
			Room:        m.RoomCode(),
			PlayerCount: m.playerCount,
			Inputs:      inputs,
			Focus:       m.setupFocus,
			Error:       m.err,
			Width:       m.contentWidth(),
		}))
	}

	return common.DocStyle.Render(view.BoardView(view.Board{
		Room:   m.RoomCode(),
		State:  m.state,
		Cursor: m.cursor,
		Focus:  m.focus,
		Notice: m.notice,
		Error:  m.err,
		Help:   m.help.View(m.keys),
		Width:  m.contentWidth(),
	}))
}

// --- 开局设置 ---

func (m *App) updateSetup(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return tea.Quit
	case tea.KeyEnter:
		return m.startGame()
	case tea.KeyUp, tea.KeyShiftTab:
		m.setSetupFocus(m.setupFocus - 1)
		return nil
	case tea.KeyDown, tea.KeyTab:
		m.setSetupFocus(m.setupFocus + 1)
		return nil
	}

	if m.setupFocus == 0 {
		switch msg.String() {
		case "left", "h", "right", "l":
			m.setPlayerCount(game.MinPlayers + game.MaxPlayers - m.playerCount)
		case "2":
			m.setPlayerCount(2)
		case "3":
			m.setPlayerCount(3)
		}
		return nil
	}

	var cmd tea.Cmd
	m.inputs[m.setupFocus-1], cmd = m.inputs[m.setupFocus-1].Update(msg)
	return cmd
}

func (m *App) setPlayerCount(n int) {
	if game.ValidPlayerCount(n) {
		m.playerCount = n
	}
}

// setSetupFocus moves the setup focus, wrapping around the rows.
func (m *App) setSetupFocus(focus int) {
	rows := m.playerCount + 1
	m.setupFocus = (focus%rows + rows) % rows
	for i := range m.inputs {
		if i == m.setupFocus-1 {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *App) startGame() tea.Cmd {
	names := make([]string, m.playerCount)
	for i := range names {
		names[i] = m.inputs[i].Value()
	}
	if err := m.backend.Start(names); err != nil {
		return m.setError(err)
	}
	logger.LogInfo("Starting a game with %d players", len(names))
	return m.sync()
}

// --- 棋盘 ---

func (m *App) updateBoard(msg tea.KeyMsg) tea.Cmd {
	var err error

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-common.GridColumns)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(common.GridColumns)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Focus):
		if n := len(m.state.Players); n > 0 {
			m.focus = (m.focus + 1) % n
		}
	case key.Matches(msg, m.keys.Flip):
		err = m.backend.Flip(m.cursor)
	case key.Matches(msg, m.keys.Plus):
		err = m.backend.AdjustScore(m.focus, 1)
	case key.Matches(msg, m.keys.Minus):
		err = m.backend.AdjustScore(m.focus, -1)
	case key.Matches(msg, m.keys.Target):
		if m.state.Mode != game.ModeNormal {
			err = m.backend.ChooseTarget(int(msg.Runes[0]-'1'))
		}
	case key.Matches(msg, m.keys.Skip):
		err = m.backend.SkipTimer()
	case key.Matches(msg, m.keys.Confirm):
		err = m.backend.ConfirmLastCard()
	case key.Matches(msg, m.keys.Reset):
		err = m.backend.Reset()
	}

	cmd := m.sync()
	if err != nil {
		return tea.Batch(cmd, m.setError(err))
	}
	return cmd
}

// moveCursor moves the card cursor by delta, staying on the board.
func (m *App) moveCursor(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(m.state.Deck) {
		m.cursor = next
	}
}

// --- 事件 ---

// sync applies the batches queued by a synchronous session call. Remote
// results arrive later through EventsMsg.
func (m *App) sync() tea.Cmd {
	return m.applyBatches(m.queue.drain())
}

func (m *App) applyBatches(batches []Batch) tea.Cmd {
	var cmds []tea.Cmd
	for _, b := range batches {
		if b.Seq <= m.lastSeq {
			continue
		}
		m.lastSeq = b.Seq
		if b.Err != nil {
			cmds = append(cmds, m.setError(b.Err))
			continue
		}
		m.applyBatch(b)
	}
	return tea.Batch(cmds...)
}

func (m *App) applyBatch(b Batch) {
	m.state = b.State

	sound := game.SoundNone
	for _, e := range b.Events {
		if e.Sound != game.SoundNone {
			sound = e.Sound
		}
		switch e.Kind {
		case game.EventTimerTick:
			continue
		case game.EventReset:
			logger.LogInfo("Game reset")
		}
		m.notice = e.Describe(b.State.Players)
	}
	m.showScreen(b.State.Started())
	if m.focus >= len(m.state.Players) {
		m.focus = 0
	}

	m.sound.Play(string(sound))
}

// showScreen follows the state: the board once a game has started, the
// setup form otherwise. A resumed room goes straight to the board.
func (m *App) showScreen(started bool) {
	switch {
	case started && m.screen != ScreenBoard:
		m.screen = ScreenBoard
		m.cursor, m.focus = 0, 0
	case !started && m.screen != ScreenSetup:
		m.screen = ScreenSetup
		m.setSetupFocus(1)
	}
}

// setError shows err for a few seconds.
func (m *App) setError(err error) tea.Cmd {
	logger.LogError("%v", err)

	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		m.err = gameErr.Message
	} else {
		m.err = err.Error()
	}

	m.errSeq++
	seq := m.errSeq
	return tea.Tick(errorDuration, func(time.Time) tea.Msg {
		return ClearErrorMsg{seq: seq}
	})
}

func (m *App) contentWidth() int {
	x, _ := common.DocStyle.GetFrameSize()
	return max(m.width-x, 0)
}

// --- 测试和调试用的访问器 ---

// Screen returns the current screen.
func (m *App) Screen() Screen { return m.screen }

// State returns the last state the UI rendered.
func (m *App) State() game.State { return m.state }

// RoomCode returns the server room the app drives, empty when local.
func (m *App) RoomCode() string {
	if r, ok := m.backend.(interface{ RoomCode() string }); ok {
		return r.RoomCode()
	}
	return ""
}
