package codec

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/palemoky/math-battle/internal/game"
)

func playedState(t *testing.T) game.State {
	t.Helper()

	s, _ := game.Start([]string{"Alice", "Bob", "Carol"}, rand.New(rand.NewPCG(3, 4)))
	s.Players[1].Score = -2
	s.Players[2].Score = 5
	s.Revealed = []int{4, 0, 19}
	s.Current = 2
	s.Mode = game.ModeSwap
	s.Timer = game.Timer{Active: true, Remaining: 42}
	return s
}

func TestSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	saved := time.UnixMilli(1_700_000_000_123)
	snap := Snapshot{RoomCode: "123456", SavedAt: saved, State: playedState(t)}

	decoded, err := DecodeSnapshot(EncodeSnapshot(snap))
	require.NoError(t, err)

	assert.Equal(t, "123456", decoded.RoomCode)
	assert.True(t, saved.Equal(decoded.SavedAt))
	assert.Equal(t, snap.State, decoded.State)
}

func TestSnapshot_SetupState(t *testing.T) {
	t.Parallel()

	decoded, err := DecodeSnapshot(EncodeSnapshot(Snapshot{RoomCode: "000001"}))
	require.NoError(t, err)
	assert.False(t, decoded.State.Started())
	assert.Equal(t, game.PhaseSetup, decoded.State.Phase())
}

func TestSnapshot_SkipsUnknownFields(t *testing.T) {
	t.Parallel()

	data := EncodeSnapshot(Snapshot{RoomCode: "654321", State: playedState(t)})
	data = protowire.AppendTag(data, 99, protowire.BytesType)
	data = protowire.AppendString(data, "from a newer server")
	data = protowire.AppendTag(data, 100, protowire.Fixed32Type)
	data = protowire.AppendFixed32(data, 7)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, "654321", decoded.RoomCode)
	assert.Len(t, decoded.State.Players, 3)
}

func TestSnapshot_Truncated(t *testing.T) {
	t.Parallel()

	// A player field claiming more bytes than remain.
	data := protowire.AppendTag(nil, snapPlayers, protowire.BytesType)
	data = protowire.AppendVarint(data, 50)
	data = append(data, 1, 2, 3)

	_, err := DecodeSnapshot(data)
	assert.ErrorIs(t, err, errInvalidSnapshot)
}

func TestSnapshot_RejectsBrokenState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*game.State)
	}{
		{"current out of range", func(s *game.State) { s.Current = 3 }},
		{"revealed out of range", func(s *game.State) { s.Revealed = append(s.Revealed, 20) }},
		{"revealed twice", func(s *game.State) { s.Revealed = append(s.Revealed, 4) }},
		{"too many players", func(s *game.State) { s.Players = append(s.Players, s.Players[0]) }},
		{"unknown mode", func(s *game.State) { s.Mode = 9 }},
		{"last card pending with cards left", func(s *game.State) { s.LastCardPending = true }},
		{"last card pending after game over", func(s *game.State) {
			s.Revealed = allRevealed(len(s.Deck))
			s.LastCardPending = true
			s.GameOver = true
		}},
		{"active timer without time", func(s *game.State) { s.Timer = game.Timer{Active: true} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := playedState(t)
			tt.mutate(&s)
			_, err := DecodeSnapshot(EncodeSnapshot(Snapshot{RoomCode: "123456", State: s}))
			assert.ErrorIs(t, err, errInvalidSnapshot)
		})
	}
}

func allRevealed(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestSnapshot_LastCardPendingRoundTrip(t *testing.T) {
	t.Parallel()

	s := playedState(t)
	s.Revealed = allRevealed(len(s.Deck))
	s.Mode = game.ModeNormal
	s.Timer = game.Timer{}
	s.LastCardPending = true

	decoded, err := DecodeSnapshot(EncodeSnapshot(Snapshot{RoomCode: "123456", State: s}))
	require.NoError(t, err)
	assert.True(t, decoded.State.LastCardPending)
	assert.Len(t, decoded.State.Revealed, len(s.Deck))
}
