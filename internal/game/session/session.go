package session

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/palemoky/math-battle/internal/apperrors"
	"github.com/palemoky/math-battle/internal/game"
)

// DefaultTickInterval 倒计时每秒一跳
const DefaultTickInterval = time.Second

// Listener receives the events of one transition together with the state
// they produced. It is called without the session lock held, in transition
// order, and must not call back into the session.
type Listener func(events []game.Event, state game.State)

// Option configures a Session.
type Option func(*Session)

// WithTickInterval sets the wall-clock length of one countdown second.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithRand sets the random source used for deck shuffles.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithListener sets the event listener.
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listener = l
	}
}

// Session 游戏会话，持有一局的状态和倒计时
type Session struct {
	state    game.State
	rng      *rand.Rand
	listener Listener

	// 倒计时
	tickInterval time.Duration
	generation   uint64 // 每次启停倒计时递增，旧的 tick 会被丢弃
	tickTimer    *time.Timer
	timerMu      sync.Mutex

	notifyMu sync.Mutex // 保证事件按顺序投递
	mu       sync.Mutex
	closed   bool
}

// New 创建游戏会话
func New(opts ...Option) *Session {
	s := &Session{tickInterval: DefaultTickInterval}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start 开始新游戏
func (s *Session) Start(names []string) error {
	if !game.ValidPlayerCount(len(names)) {
		return fmt.Errorf("start with %d players: %w", len(names), apperrors.ErrInvalidPlayers)
	}
	s.apply(func(game.State) (game.State, []game.Event) {
		return game.Start(names, s.rng)
	})
	return nil
}

// Flip 翻牌
func (s *Session) Flip(index int) error {
	return s.applyStarted(func(st game.State) error {
		if index < 0 || index >= len(st.Deck) {
			return fmt.Errorf("flip card %d: %w", index, apperrors.ErrInvalidCard)
		}
		return nil
	}, func(st game.State) (game.State, []game.Event) {
		return st.Flip(index)
	})
}

// AdjustScore 手动加减分
func (s *Session) AdjustScore(seat, delta int) error {
	return s.applyStarted(func(st game.State) error {
		if seat < 0 || seat >= len(st.Players) {
			return fmt.Errorf("adjust score of seat %d: %w", seat, apperrors.ErrInvalidTarget)
		}
		return nil
	}, func(st game.State) (game.State, []game.Event) {
		return st.AdjustScore(seat, delta)
	})
}

// ChooseTarget resolves a pending steal or swap against target.
func (s *Session) ChooseTarget(target int) error {
	return s.applyStarted(func(st game.State) error {
		if target < 0 || target >= len(st.Players) || target == st.Current {
			return fmt.Errorf("choose target %d: %w", target, apperrors.ErrInvalidTarget)
		}
		return nil
	}, func(st game.State) (game.State, []game.Event) {
		switch st.Mode {
		case game.ModeSteal:
			return st.ResolveSteal(target)
		case game.ModeSwap:
			return st.ResolveSwap(target)
		}
		return st, nil
	})
}

// SkipTimer 跳过倒计时
func (s *Session) SkipTimer() error {
	return s.applyStarted(nil, game.State.SkipTimer)
}

// ConfirmLastCard 确认最后一张牌，结束游戏
func (s *Session) ConfirmLastCard() error {
	return s.applyStarted(nil, game.State.ConfirmLastCard)
}

// Reset 重置到开局设置
func (s *Session) Reset() {
	s.apply(game.State.Reset)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// Restore replaces the current state, re-arming the countdown if the
// restored state has one running.
func (s *Session) Restore(st game.State) {
	st = copyState(st)

	s.mu.Lock()
	s.stopTimer()
	s.state = st
	if st.Timer.Active {
		s.startTimer()
	}
	s.mu.Unlock()
}

// Close 停止倒计时，之后的 tick 都会被丢弃
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.stopTimer()
}

// applyStarted runs check and op when a game is in progress.
func (s *Session) applyStarted(check func(game.State) error, op func(game.State) (game.State, []game.Event)) error {
	var err error
	s.apply(func(st game.State) (game.State, []game.Event) {
		if !st.Started() {
			err = apperrors.ErrGameNotStarted
			return st, nil
		}
		if check != nil {
			if err = check(st); err != nil {
				return st, nil
			}
		}
		return op(st)
	})
	return err
}

// apply runs one transition under the lock, keeps the countdown in step with
// the new state and delivers the events after unlocking.
func (s *Session) apply(op func(game.State) (game.State, []game.Event)) {
	s.mu.Lock()
	prev := s.state
	next, events := op(prev)
	s.state = next
	s.syncTimer(prev, next, events)

	if len(events) == 0 {
		s.mu.Unlock()
		return
	}
	snapshot := copyState(next)
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.notify(events, snapshot)
}

func (s *Session) notify(events []game.Event, st game.State) {
	if s.listener != nil {
		s.listener(events, st)
	}
}

// syncTimer starts or stops the countdown task to match next. Must hold mu.
func (s *Session) syncTimer(prev, next game.State, events []game.Event) {
	switch {
	case !next.Timer.Active && prev.Timer.Active:
		s.stopTimer()
	case next.Timer.Active && (!prev.Timer.Active || startedTimer(events)):
		s.stopTimer()
		s.startTimer()
	}
}

func startedTimer(events []game.Event) bool {
	return slices.ContainsFunc(events, func(e game.Event) bool {
		return e.Kind == game.EventTimerStarted
	})
}

func copyState(st game.State) game.State {
	st.Players = slices.Clone(st.Players)
	st.Revealed = slices.Clone(st.Revealed)
	return st
}
