package codec

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/palemoky/math-battle/internal/game"
	"github.com/palemoky/math-battle/internal/game/card"
)

// Snapshot 房间快照，用于 Redis 存储和恢复
type Snapshot struct {
	RoomCode string
	SavedAt  time.Time
	State    game.State
}

// 快照字段编号，只能追加不能复用
const (
	snapRoomCode        protowire.Number = 1
	snapSavedAt         protowire.Number = 2
	snapPlayers         protowire.Number = 3
	snapDeck            protowire.Number = 4
	snapCurrent         protowire.Number = 5
	snapRevealed        protowire.Number = 6
	snapMode            protowire.Number = 7
	snapTimerActive     protowire.Number = 8
	snapTimerRemaining  protowire.Number = 9
	snapGameOver        protowire.Number = 10
	snapLastCardPending protowire.Number = 11

	playerID    protowire.Number = 1
	playerSeat  protowire.Number = 2
	playerName  protowire.Number = 3
	playerScore protowire.Number = 4 // zigzag
	playerColor protowire.Number = 5

	cardType        protowire.Number = 1
	cardValue       protowire.Number = 2
	cardDescription protowire.Number = 3
	cardTimeLimit   protowire.Number = 4
)

var errInvalidSnapshot = errors.New("invalid snapshot")

// EncodeSnapshot 将快照编码为 protobuf wire 格式
func EncodeSnapshot(snap Snapshot) []byte {
	s := snap.State

	var b []byte
	b = appendString(b, snapRoomCode, snap.RoomCode)
	b = appendVarint(b, snapSavedAt, uint64(snap.SavedAt.UnixMilli()))
	for _, p := range s.Players {
		b = protowire.AppendTag(b, snapPlayers, protowire.BytesType)
		b = protowire.AppendBytes(b, encodePlayer(p))
	}
	for _, c := range s.Deck {
		b = protowire.AppendTag(b, snapDeck, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeCard(c))
	}
	b = appendVarint(b, snapCurrent, uint64(s.Current))
	if len(s.Revealed) > 0 {
		var packed []byte
		for _, idx := range s.Revealed {
			packed = protowire.AppendVarint(packed, uint64(idx))
		}
		b = protowire.AppendTag(b, snapRevealed, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	b = appendVarint(b, snapMode, uint64(s.Mode))
	b = appendVarint(b, snapTimerActive, protowire.EncodeBool(s.Timer.Active))
	b = appendVarint(b, snapTimerRemaining, uint64(s.Timer.Remaining))
	b = appendVarint(b, snapGameOver, protowire.EncodeBool(s.GameOver))
	b = appendVarint(b, snapLastCardPending, protowire.EncodeBool(s.LastCardPending))
	return b
}

func encodePlayer(p game.Player) []byte {
	var b []byte
	b = appendVarint(b, playerID, uint64(p.ID))
	b = appendVarint(b, playerSeat, uint64(p.Seat))
	b = appendString(b, playerName, p.Name)
	b = appendVarint(b, playerScore, protowire.EncodeZigZag(int64(p.Score)))
	b = appendString(b, playerColor, p.Color)
	return b
}

func encodeCard(c card.Card) []byte {
	var b []byte
	b = appendString(b, cardType, string(c.Type))
	b = appendString(b, cardValue, c.Value)
	b = appendString(b, cardDescription, c.Description)
	b = appendVarint(b, cardTimeLimit, uint64(c.TimeLimit))
	return b
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// DecodeSnapshot 从 protobuf wire 格式解码快照，未知字段会被跳过
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var (
		snap Snapshot
		s    game.State
		err  error
	)
	decodeErr := consumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return n
			}
			switch num {
			case snapSavedAt:
				snap.SavedAt = time.UnixMilli(int64(v))
			case snapCurrent:
				s.Current = int(v)
			case snapRevealed:
				s.Revealed = append(s.Revealed, int(v))
			case snapMode:
				s.Mode = game.Mode(v)
			case snapTimerActive:
				s.Timer.Active = protowire.DecodeBool(v)
			case snapTimerRemaining:
				s.Timer.Remaining = int(v)
			case snapGameOver:
				s.GameOver = protowire.DecodeBool(v)
			case snapLastCardPending:
				s.LastCardPending = protowire.DecodeBool(v)
			}
			return n
		}

		if typ != protowire.BytesType {
			return protowire.ConsumeFieldValue(num, typ, b)
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n
		}
		switch num {
		case snapRoomCode:
			snap.RoomCode = string(v)
		case snapPlayers:
			var p game.Player
			if p, err = decodePlayer(v); err == nil {
				s.Players = append(s.Players, p)
			}
		case snapDeck:
			var c card.Card
			if c, err = decodeCard(v); err == nil {
				s.Deck = append(s.Deck, c)
			}
		case snapRevealed:
			s.Revealed, err = decodePacked(v, s.Revealed)
		}
		if err != nil {
			return -1
		}
		return n
	})
	if err != nil {
		return Snapshot{}, err
	}
	if decodeErr != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", errInvalidSnapshot, decodeErr)
	}

	if err := validateState(s); err != nil {
		return Snapshot{}, err
	}
	snap.State = s
	return snap, nil
}

func decodePlayer(data []byte) (game.Player, error) {
	var p game.Player
	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			switch num {
			case playerID:
				p.ID = int(v)
			case playerSeat:
				p.Seat = int(v)
			case playerScore:
				p.Score = int(protowire.DecodeZigZag(v))
			}
			return n
		case typ == protowire.BytesType && (num == playerName || num == playerColor):
			v, n := protowire.ConsumeString(b)
			if num == playerName {
				p.Name = v
			} else {
				p.Color = v
			}
			return n
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
	if err != nil {
		return game.Player{}, fmt.Errorf("%w: player: %w", errInvalidSnapshot, err)
	}
	return p, nil
}

func decodeCard(data []byte) (card.Card, error) {
	var c card.Card
	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case typ == protowire.VarintType && num == cardTimeLimit:
			v, n := protowire.ConsumeVarint(b)
			c.TimeLimit = int(v)
			return n
		case typ == protowire.BytesType && num <= cardDescription:
			v, n := protowire.ConsumeString(b)
			switch num {
			case cardType:
				c.Type = card.Type(v)
			case cardValue:
				c.Value = v
			case cardDescription:
				c.Description = v
			}
			return n
		}
		return protowire.ConsumeFieldValue(num, typ, b)
	})
	if err != nil {
		return card.Card{}, fmt.Errorf("%w: card: %w", errInvalidSnapshot, err)
	}
	return c, nil
}

func decodePacked(data []byte, out []int) ([]int, error) {
	for len(data) > 0 {
		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: revealed: %w", errInvalidSnapshot, protowire.ParseError(n))
		}
		out = append(out, int(v))
		data = data[n:]
	}
	return out, nil
}

// consumeFields walks every field in b. fn consumes the value of one field
// and returns the number of bytes read, negative on error.
func consumeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n = fn(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

// validateState rejects snapshots that would break the state machine.
func validateState(s game.State) error {
	if !s.Started() {
		return nil
	}
	if !game.ValidPlayerCount(len(s.Players)) {
		return fmt.Errorf("%w: %d players", errInvalidSnapshot, len(s.Players))
	}
	if s.Current < 0 || s.Current >= len(s.Players) {
		return fmt.Errorf("%w: current seat %d", errInvalidSnapshot, s.Current)
	}
	seen := make(map[int]bool, len(s.Revealed))
	for _, idx := range s.Revealed {
		if idx < 0 || idx >= len(s.Deck) || seen[idx] {
			return fmt.Errorf("%w: revealed index %d", errInvalidSnapshot, idx)
		}
		seen[idx] = true
	}
	if s.Mode < game.ModeNormal || s.Mode > game.ModeSwap {
		return fmt.Errorf("%w: mode %d", errInvalidSnapshot, s.Mode)
	}
	if s.LastCardPending && (s.GameOver || len(s.Revealed) != len(s.Deck)) {
		return fmt.Errorf("%w: last card pending with %d/%d revealed", errInvalidSnapshot, len(s.Revealed), len(s.Deck))
	}
	if s.Timer.Active && s.Timer.Remaining <= 0 {
		return fmt.Errorf("%w: active timer with %ds left", errInvalidSnapshot, s.Timer.Remaining)
	}
	return nil
}
