package game

import (
	"fmt"
	"strings"

	"github.com/palemoky/math-battle/internal/game/card"
)

// EventKind 事件类型
type EventKind string

const (
	EventGameStarted     EventKind = "game_started"
	EventCardFlipped     EventKind = "card_flipped"
	EventScoreChanged    EventKind = "score_changed"
	EventTurnChanged     EventKind = "turn_changed"
	EventTimerStarted    EventKind = "timer_started"
	EventTimerTick       EventKind = "timer_tick"
	EventTimeExpired     EventKind = "time_expired"
	EventTimerSkipped    EventKind = "timer_skipped"
	EventActionPending   EventKind = "action_pending"
	EventPointStolen     EventKind = "point_stolen"
	EventStealBlocked    EventKind = "steal_blocked"
	EventScoresSwapped   EventKind = "scores_swapped"
	EventExtraTurn       EventKind = "extra_turn"
	EventLastCardPending EventKind = "last_card_pending"
	EventGameOver        EventKind = "game_over"
	EventReset           EventKind = "reset"
)

// Sound is a best-effort audio cue attached to an event.
type Sound string

const (
	SoundNone   Sound = ""
	SoundFlip   Sound = "flip"
	SoundScore  Sound = "score"
	SoundTimeUp Sound = "timeup"
)

// Event is an outward notification produced by a transition.
// Player and Target are seat indexes, -1 when not applicable.
type Event struct {
	Kind      EventKind
	Player    int
	Target    int
	Delta     int
	Score     int
	Remaining int
	Index     int
	Mode      Mode
	Card      card.Card
	Sound     Sound
}

func newEvent(kind EventKind, player int) Event {
	return Event{Kind: kind, Player: player, Target: -1, Index: -1}
}

// Describe renders a short human-readable line for the event,
// resolving seats against players.
//
//nolint:gocyclo // Simple mapping function with many cases
func (e Event) Describe(players []Player) string {
	name := func(seat int) string {
		if seat < 0 || seat >= len(players) {
			return "?"
		}
		return players[seat].Name
	}

	switch e.Kind {
	case EventGameStarted:
		return fmt.Sprintf("Game started with %d players", len(players))
	case EventCardFlipped:
		return fmt.Sprintf("%s flipped %s", name(e.Player), e.Card)
	case EventScoreChanged:
		if e.Delta >= 0 {
			return fmt.Sprintf("%s gained %s", name(e.Player), pointsText(e.Delta))
		}
		return fmt.Sprintf("%s lost %s", name(e.Player), pointsText(-e.Delta))
	case EventTurnChanged:
		return fmt.Sprintf("%s's turn", name(e.Player))
	case EventTimerStarted:
		return fmt.Sprintf("Question for %s: %s", name(e.Player), e.Card.Description)
	case EventTimerTick:
		return fmt.Sprintf("%s remaining", FormatClock(e.Remaining))
	case EventTimeExpired:
		return "Time's up! Check answers and update scores."
	case EventTimerSkipped:
		return "Time skipped, moving to next turn"
	case EventActionPending:
		if e.Mode == ModeSwap {
			return fmt.Sprintf("%s must choose a player to swap scores with", name(e.Player))
		}
		return fmt.Sprintf("%s must choose a player to steal from", name(e.Player))
	case EventPointStolen:
		return fmt.Sprintf("%s stole 1 point from %s!", name(e.Player), name(e.Target))
	case EventStealBlocked:
		return fmt.Sprintf("%s has no points to steal!", name(e.Target))
	case EventScoresSwapped:
		return fmt.Sprintf("%s swapped scores with %s!", name(e.Player), name(e.Target))
	case EventExtraTurn:
		return fmt.Sprintf("%s gets an extra turn!", name(e.Player))
	case EventLastCardPending:
		return "Last card! Confirm to see who won"
	case EventGameOver:
		return describeWinners(players)
	case EventReset:
		return "Game reset"
	}
	return string(e.Kind)
}

func pointsText(n int) string {
	if n == 1 {
		return "1 point"
	}
	return fmt.Sprintf("%d points", n)
}

func describeWinners(players []Player) string {
	winners := Winners(players)
	switch len(winners) {
	case 0:
		return "Game over"
	case 1:
		return fmt.Sprintf("Game over! %s wins with %d", winners[0].Name, winners[0].Score)
	}
	names := make([]string, len(winners))
	for i, w := range winners {
		names[i] = w.Name
	}
	return fmt.Sprintf("Game over! It's a tie: %s (%d)", strings.Join(names, ", "), winners[0].Score)
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
