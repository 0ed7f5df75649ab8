// Package model contains the Bubble Tea model of the hot-seat client.
package model

import (
	"github.com/palemoky/math-battle/internal/game"
)

// Screen is the screen currently shown.
type Screen int

const (
	ScreenSetup Screen = iota
	ScreenBoard
)

// SoundPlayer plays a named sound effect. Failures are ignored.
type SoundPlayer interface {
	Play(name string)
}

type noSound struct{}

func (noSound) Play(string) {}

// --- Tea Messages ---

// EventsMsg carries session events delivered since the last one.
type EventsMsg struct {
	Batches []Batch
}

// Batch is the events of one transition with the state they produced.
// A batch carrying Err has no state.
type Batch struct {
	Seq    uint64 // 递增序号，旧的批次会被丢弃
	Events []game.Event
	State  game.State
	Err    error
}

// ClearErrorMsg clears the error line.
type ClearErrorMsg struct {
	seq int
}
