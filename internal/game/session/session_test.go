package session

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/math-battle/internal/apperrors"
	"github.com/palemoky/math-battle/internal/game"
	"github.com/palemoky/math-battle/internal/game/card"
)

// recorder collects delivered events.
type recorder struct {
	mu     sync.Mutex
	events []game.Event
	last   game.State
}

func (r *recorder) listen(events []game.Event, st game.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	r.last = st
}

func (r *recorder) count(kind game.EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) kinds() []game.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]game.EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func newTestSession(t *testing.T, tick time.Duration) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(
		WithTickInterval(tick),
		WithRand(rand.New(rand.NewPCG(7, 7))),
		WithListener(rec.listen),
	)
	t.Cleanup(s.Close)
	return s, rec
}

// startWithDeck starts an n-player game and swaps in cards as the deck.
func startWithDeck(t *testing.T, s *Session, n int, cards ...card.Card) {
	t.Helper()
	require.NoError(t, s.Start([]string{"Alice", "Bob", "Carol"}[:n]))
	st := s.Snapshot()
	st.Deck = cards
	s.Restore(st)
}

func question(limit int) card.Card {
	return card.Card{Type: card.Question, Value: "Q1", TimeLimit: limit}
}

func pts(v string) card.Card { return card.Card{Type: card.Points, Value: v} }

func TestStart_InvalidPlayers(t *testing.T) {
	t.Parallel()

	s, rec := newTestSession(t, time.Millisecond)
	err := s.Start([]string{"solo"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPlayers)
	assert.False(t, s.Snapshot().Started())
	assert.Empty(t, rec.kinds())
}

func TestActions_BeforeStart(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, time.Millisecond)
	assert.ErrorIs(t, s.Flip(0), apperrors.ErrGameNotStarted)
	assert.ErrorIs(t, s.AdjustScore(0, 1), apperrors.ErrGameNotStarted)
	assert.ErrorIs(t, s.ChooseTarget(1), apperrors.ErrGameNotStarted)
	assert.ErrorIs(t, s.SkipTimer(), apperrors.ErrGameNotStarted)
	assert.ErrorIs(t, s.ConfirmLastCard(), apperrors.ErrGameNotStarted)
}

func TestFlip_Validation(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, time.Millisecond)
	require.NoError(t, s.Start([]string{"Alice", "Bob"}))

	assert.ErrorIs(t, s.Flip(-1), apperrors.ErrInvalidCard)
	assert.ErrorIs(t, s.Flip(card.DeckSize), apperrors.ErrInvalidCard)
	assert.NoError(t, s.Flip(0))
	// Already revealed is a silent no-op.
	assert.NoError(t, s.Flip(0))
	assert.Equal(t, []int{0}, s.Snapshot().Revealed)
}

func TestChooseTarget(t *testing.T) {
	t.Parallel()

	s, rec := newTestSession(t, time.Millisecond)
	startWithDeck(t, s, 3, card.Card{Type: card.Steal}, pts("+1"), pts("+1"))
	require.NoError(t, s.AdjustScore(1, 2))
	require.NoError(t, s.Flip(0))

	assert.ErrorIs(t, s.ChooseTarget(0), apperrors.ErrInvalidTarget)
	assert.ErrorIs(t, s.ChooseTarget(3), apperrors.ErrInvalidTarget)
	require.NoError(t, s.ChooseTarget(1))

	st := s.Snapshot()
	assert.Equal(t, 1, st.Players[0].Score)
	assert.Equal(t, 1, st.Players[1].Score)
	assert.Equal(t, 1, st.Current)
	assert.Equal(t, 1, rec.count(game.EventPointStolen))
}

func TestCountdown_ExpiresAndAdvancesOnce(t *testing.T) {
	t.Parallel()

	s, rec := newTestSession(t, 2*time.Millisecond)
	startWithDeck(t, s, 2, question(3), pts("+1"), pts("+1"))
	require.NoError(t, s.Flip(0))

	assert.Eventually(t, func() bool {
		return rec.count(game.EventTimeExpired) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	st := s.Snapshot()
	assert.False(t, st.Timer.Active)
	assert.Equal(t, 1, st.Current)
	assert.Equal(t, 3, rec.count(game.EventTimerTick))
	assert.Equal(t, 1, rec.count(game.EventTimeExpired))
	assert.Equal(t, 1, rec.count(game.EventTurnChanged))
}

func TestSkipTimer_StopsTicks(t *testing.T) {
	t.Parallel()

	s, rec := newTestSession(t, 5*time.Millisecond)
	startWithDeck(t, s, 2, question(1000), pts("+1"), pts("+1"))
	require.NoError(t, s.Flip(0))

	assert.Eventually(t, func() bool {
		return rec.count(game.EventTimerTick) >= 2
	}, time.Second, time.Millisecond)

	gen := s.timerGeneration()
	require.NoError(t, s.SkipTimer())
	assert.Greater(t, s.timerGeneration(), gen)

	ticks := rec.count(game.EventTimerTick)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, ticks, rec.count(game.EventTimerTick))
	assert.Equal(t, 1, rec.count(game.EventTurnChanged))
	assert.Equal(t, 1, s.Snapshot().Current)
}

func TestReset_StopsTicks(t *testing.T) {
	t.Parallel()

	s, rec := newTestSession(t, 5*time.Millisecond)
	startWithDeck(t, s, 2, question(1000), pts("+1"), pts("+1"))
	require.NoError(t, s.Flip(0))

	s.Reset()
	ticks := rec.count(game.EventTimerTick)
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, ticks, rec.count(game.EventTimerTick))
	assert.Equal(t, game.PhaseSetup, s.Snapshot().Phase())
	assert.Equal(t, 1, rec.count(game.EventReset))
}

func TestClose_StopsTicks(t *testing.T) {
	t.Parallel()

	s, rec := newTestSession(t, 5*time.Millisecond)
	startWithDeck(t, s, 2, question(1000), pts("+1"), pts("+1"))
	require.NoError(t, s.Flip(0))

	s.Close()
	ticks := rec.count(game.EventTimerTick)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, ticks, rec.count(game.EventTimerTick))
	assert.True(t, s.Snapshot().Timer.Active)
}

func TestRestore_ResumesCountdown(t *testing.T) {
	t.Parallel()

	s, rec := newTestSession(t, 2*time.Millisecond)
	require.NoError(t, s.Start([]string{"Alice", "Bob"}))

	st := s.Snapshot()
	st.Timer = game.Timer{Active: true, Remaining: 2}
	s.Restore(st)

	assert.Eventually(t, func() bool {
		return rec.count(game.EventTimeExpired) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, s.Snapshot().Current)
}

func TestSnapshot_IsACopy(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, time.Millisecond)
	require.NoError(t, s.Start([]string{"Alice", "Bob"}))

	st := s.Snapshot()
	st.Players[0].Score = 99
	assert.Zero(t, s.Snapshot().Players[0].Score)
}

func TestListener_ReceivesEventsInOrder(t *testing.T) {
	t.Parallel()

	s, rec := newTestSession(t, time.Millisecond)
	startWithDeck(t, s, 2, pts("+2"), pts("+1"), pts("+1"))
	require.NoError(t, s.Flip(0))

	assert.Equal(t, []game.EventKind{
		game.EventGameStarted,
		game.EventCardFlipped, game.EventScoreChanged, game.EventTurnChanged,
	}, rec.kinds())
	assert.Equal(t, 2, rec.last.Players[0].Score)
}
