package game

import (
	"slices"

	"github.com/palemoky/math-battle/internal/game/card"
)

// Mode 待处理动作模式
type Mode int

const (
	ModeNormal Mode = iota
	ModeSteal       // 等待选择偷分目标
	ModeSwap        // 等待选择换分目标
)

var modeNames = map[Mode]string{
	ModeNormal: "normal",
	ModeSteal:  "steal",
	ModeSwap:   "swap",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode is the inverse of Mode.String. Unknown names map to ModeNormal.
func ParseMode(s string) Mode {
	for m, name := range modeNames {
		if name == s {
			return m
		}
	}
	return ModeNormal
}

// Phase is the derived position of a State in the turn/action machine.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseNormal
	PhaseTimer
	PhasePendingTarget
	PhaseLastCard
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseSetup:         "setup",
	PhaseNormal:        "active-normal",
	PhaseTimer:         "active-timer",
	PhasePendingTarget: "active-pending-target",
	PhaseLastCard:      "last-card-pending",
	PhaseGameOver:      "game-over",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Timer 倒计时状态
type Timer struct {
	Active    bool
	Remaining int // 剩余秒数
}

// State is the complete game state. The zero value is the setup state.
//
// State is treated as a value: transitions return a new State and never
// mutate the receiver's slices.
type State struct {
	Players         []Player
	Deck            card.Deck
	Current         int   // 当前玩家下标
	Revealed        []int // 已翻开的牌下标，按翻开顺序
	Mode            Mode
	Timer           Timer
	GameOver        bool
	LastCardPending bool
}

// Started reports whether a game has been started and not reset.
func (s State) Started() bool {
	return len(s.Players) > 0
}

// Phase derives the machine state.
func (s State) Phase() Phase {
	switch {
	case !s.Started():
		return PhaseSetup
	case s.GameOver:
		return PhaseGameOver
	case s.LastCardPending:
		return PhaseLastCard
	case s.Mode != ModeNormal:
		return PhasePendingTarget
	case s.Timer.Active:
		return PhaseTimer
	default:
		return PhaseNormal
	}
}

// CurrentPlayer returns the player whose turn it is.
func (s State) CurrentPlayer() (Player, bool) {
	if !s.Started() {
		return Player{}, false
	}
	return s.Players[s.Current], true
}

// IsRevealed reports whether the card at index has been flipped.
func (s State) IsRevealed(index int) bool {
	return slices.Contains(s.Revealed, index)
}

// LastRevealed returns the index of the most recently flipped card, or -1.
func (s State) LastRevealed() int {
	if len(s.Revealed) == 0 {
		return -1
	}
	return s.Revealed[len(s.Revealed)-1]
}

// CanFlip reports whether Flip(index) would take effect.
func (s State) CanFlip(index int) bool {
	return s.Phase() == PhaseNormal &&
		index >= 0 && index < len(s.Deck) &&
		!s.IsRevealed(index)
}

// CanAdjustScore reports whether manual score edits are accepted.
func (s State) CanAdjustScore() bool {
	return s.Started() && !s.GameOver && s.Mode == ModeNormal
}

// Targets returns the seats the current player may pick for steal or swap.
func (s State) Targets() []int {
	targets := make([]int, 0, len(s.Players))
	for i := range s.Players {
		if i != s.Current {
			targets = append(targets, i)
		}
	}
	return targets
}

// clone copies the mutable slices so the receiver stays untouched.
// The deck is immutable once generated and is shared.
func (s State) clone() State {
	s.Players = slices.Clone(s.Players)
	s.Revealed = slices.Clone(s.Revealed)
	return s
}
