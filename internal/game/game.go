package game

import (
	"math/rand/v2"
	"slices"

	"github.com/palemoky/math-battle/internal/game/card"
)

// Start begins a new game for names. rng drives the deck shuffle and may be
// nil. An invalid player count leaves the setup state untouched.
func Start(names []string, rng *rand.Rand) (State, []Event) {
	if !ValidPlayerCount(len(names)) {
		return State{}, nil
	}

	s := State{
		Players: NewRoster(names),
		Deck:    card.NewDeck(rng),
	}
	return s, []Event{newEvent(EventGameStarted, 0)}
}

// Flip reveals the card at index and resolves its effect. Flipping the final
// card defers the effect until ConfirmLastCard.
func (s State) Flip(index int) (State, []Event) {
	if !s.CanFlip(index) {
		return s, nil
	}

	next := s.clone()
	next.Revealed = append(next.Revealed, index)

	c := next.Deck[index]
	flipped := newEvent(EventCardFlipped, next.Current)
	flipped.Index = index
	flipped.Card = c
	flipped.Sound = SoundFlip
	events := []Event{flipped}

	if len(next.Revealed) >= len(next.Deck) {
		next.LastCardPending = true
		pending := newEvent(EventLastCardPending, next.Current)
		pending.Index = index
		pending.Card = c
		return next, append(events, pending)
	}

	return next.resolve(c, events)
}

// resolve applies c for the current player. The receiver must already be a
// clone owned by the caller.
func (s State) resolve(c card.Card, events []Event) (State, []Event) {
	if c.Type.Timed() {
		if c.TimeLimit > 0 {
			s.Timer = Timer{Active: true, Remaining: c.TimeLimit}
			e := newEvent(EventTimerStarted, s.Current)
			e.Remaining = c.TimeLimit
			e.Card = c
			events = append(events, e)
		}
		return s, events
	}

	switch c.Type {
	case card.Points:
		delta := c.Points()
		s.Players[s.Current].Score += delta
		e := newEvent(EventScoreChanged, s.Current)
		e.Delta = delta
		e.Score = s.Players[s.Current].Score
		e.Sound = SoundScore
		events = append(events, e)
		events = s.advance(events)

	case card.Steal:
		s.Mode = ModeSteal
		e := newEvent(EventActionPending, s.Current)
		e.Mode = ModeSteal
		events = append(events, e)

	case card.Swap:
		if len(s.Players) == 2 {
			return s.swap(1-s.Current, events)
		}
		s.Mode = ModeSwap
		e := newEvent(EventActionPending, s.Current)
		e.Mode = ModeSwap
		events = append(events, e)

	case card.Extra:
		// No second flip is granted; the turn simply does not advance.
		events = append(events, newEvent(EventExtraTurn, s.Current))

	default:
		events = s.advance(events)
	}
	return s, events
}

// advance moves the turn to the next seat. Callers own s.
func (s *State) advance(events []Event) []Event {
	s.Current = (s.Current + 1) % len(s.Players)
	return append(events, newEvent(EventTurnChanged, s.Current))
}

// ResolveSteal takes one point from target for the current player.
func (s State) ResolveSteal(target int) (State, []Event) {
	if s.Phase() != PhasePendingTarget || s.Mode != ModeSteal || !s.validTarget(target) {
		return s, nil
	}

	next := s.clone()
	var events []Event
	if next.Players[target].Score <= 0 {
		e := newEvent(EventStealBlocked, next.Current)
		e.Target = target
		events = append(events, e)
	} else {
		next.Players[target].Score--
		next.Players[next.Current].Score++

		stolen := newEvent(EventPointStolen, next.Current)
		stolen.Target = target
		stolen.Sound = SoundScore
		events = append(events, stolen,
			scoreChanged(next, target, -1),
			scoreChanged(next, next.Current, 1),
		)
	}

	next.Mode = ModeNormal
	events = next.advance(events)
	return next, events
}

// ResolveSwap exchanges scores between the current player and target.
func (s State) ResolveSwap(target int) (State, []Event) {
	if s.Phase() != PhasePendingTarget || s.Mode != ModeSwap || !s.validTarget(target) {
		return s, nil
	}
	return s.clone().swap(target, nil)
}

// swap exchanges scores in one step, clears the pending mode and advances.
// Callers own s.
func (s State) swap(target int, events []Event) (State, []Event) {
	if !s.validTarget(target) {
		return s, events
	}

	cur := s.Current
	before := s.Players[cur].Score
	s.Players[cur].Score, s.Players[target].Score = s.Players[target].Score, s.Players[cur].Score

	swapped := newEvent(EventScoresSwapped, cur)
	swapped.Target = target
	swapped.Sound = SoundScore
	events = append(events, swapped,
		scoreChanged(s, cur, s.Players[cur].Score-before),
		scoreChanged(s, target, before-s.Players[cur].Score),
	)

	s.Mode = ModeNormal
	events = s.advance(events)
	return s, events
}

func scoreChanged(s State, seat, delta int) Event {
	e := newEvent(EventScoreChanged, seat)
	e.Delta = delta
	e.Score = s.Players[seat].Score
	return e
}

func (s State) validTarget(target int) bool {
	return target >= 0 && target < len(s.Players) && target != s.Current
}

// Tick advances the countdown by one second. Reaching zero expires the timer
// and passes the turn.
func (s State) Tick() (State, []Event) {
	if !s.Started() || !s.Timer.Active {
		return s, nil
	}

	next := s.clone()
	var events []Event
	if next.Timer.Remaining > 0 {
		next.Timer.Remaining--
		e := newEvent(EventTimerTick, next.Current)
		e.Remaining = next.Timer.Remaining
		events = append(events, e)
	}
	if next.Timer.Remaining == 0 {
		next.Timer.Active = false
		e := newEvent(EventTimeExpired, next.Current)
		e.Sound = SoundTimeUp
		events = append(events, e)
		events = next.advance(events)
	}
	return next, events
}

// SkipTimer ends an active countdown early and passes the turn.
func (s State) SkipTimer() (State, []Event) {
	if !s.Started() || !s.Timer.Active {
		return s, nil
	}

	next := s.clone()
	next.Timer = Timer{}
	e := newEvent(EventTimerSkipped, next.Current)
	e.Sound = SoundTimeUp
	events := next.advance([]Event{e})
	return next, events
}

// ConfirmLastCard resolves the deferred final card and ends the game.
// Whatever the card schedules afterwards is superseded by game over.
func (s State) ConfirmLastCard() (State, []Event) {
	last := s.LastRevealed()
	if !s.LastCardPending || s.GameOver || last < 0 || last >= len(s.Deck) {
		return s, nil
	}

	seat := s.Current
	next, resolved := s.clone().resolve(s.Deck[last], nil)

	// 游戏结束取代轮转
	events := slices.DeleteFunc(resolved, func(e Event) bool {
		return e.Kind == EventTurnChanged
	})
	next.Current = seat
	next.LastCardPending = false
	next.GameOver = true
	next.Timer = Timer{}
	next.Mode = ModeNormal

	over := newEvent(EventGameOver, next.Current)
	if winners := Winners(next.Players); len(winners) == 1 {
		over.Target = winners[0].Seat
		over.Score = winners[0].Score
	}
	return next, append(events, over)
}

// AdjustScore applies a manual score correction. It never moves the turn.
func (s State) AdjustScore(seat, delta int) (State, []Event) {
	if !s.CanAdjustScore() || seat < 0 || seat >= len(s.Players) || delta == 0 {
		return s, nil
	}

	next := s.clone()
	next.Players[seat].Score += delta
	e := scoreChanged(next, seat, delta)
	e.Sound = SoundScore
	return next, []Event{e}
}

// Reset discards the game and returns to setup.
func (s State) Reset() (State, []Event) {
	return State{}, []Event{newEvent(EventReset, -1)}
}
