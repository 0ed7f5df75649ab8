package convert

import (
	"slices"

	"github.com/palemoky/math-battle/internal/game"
	"github.com/palemoky/math-battle/internal/game/card"
	"github.com/palemoky/math-battle/internal/protocol"
)

// PlayerToInfo 将 game.Player 转换为 protocol.PlayerInfo
func PlayerToInfo(p game.Player) protocol.PlayerInfo {
	return protocol.PlayerInfo{
		ID:    p.ID,
		Name:  p.Name,
		Seat:  p.Seat,
		Score: p.Score,
		Color: p.Color,
	}
}

// PlayersToInfos 将 []game.Player 转换为 []protocol.PlayerInfo
func PlayersToInfos(players []game.Player) []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, len(players))
	for i, p := range players {
		infos[i] = PlayerToInfo(p)
	}
	return infos
}

// StateToDTO 将 game.State 转换为客户端可见的状态
func StateToDTO(s game.State) protocol.GameStateDTO {
	dto := protocol.GameStateDTO{
		Phase:           s.Phase().String(),
		Players:         PlayersToInfos(s.Players),
		Cards:           DeckToInfos(s.Deck, s.IsRevealed),
		Current:         s.Current,
		Revealed:        append([]int{}, s.Revealed...),
		Mode:            s.Mode.String(),
		Timer:           protocol.TimerInfo{Active: s.Timer.Active, Remaining: s.Timer.Remaining},
		GameOver:        s.GameOver,
		LastCardPending: s.LastCardPending,
	}
	if s.GameOver {
		for _, w := range game.Winners(s.Players) {
			dto.Winners = append(dto.Winners, w.Seat)
		}
	}
	return dto
}

// EventToPayload 将 game.Event 转换为 protocol.EventPayload
func EventToPayload(e game.Event, players []game.Player) protocol.EventPayload {
	p := protocol.EventPayload{
		Kind:      string(e.Kind),
		Player:    e.Player,
		Target:    e.Target,
		Delta:     e.Delta,
		Score:     e.Score,
		Remaining: e.Remaining,
		Index:     e.Index,
		Sound:     string(e.Sound),
		Message:   e.Describe(players),
	}
	if e.Index >= 0 {
		info := CardToInfo(e.Index, e.Card, true)
		p.Card = &info
	}
	if e.Mode != game.ModeNormal {
		p.Mode = e.Mode.String()
	}
	return p
}

// InfoToPlayer 将 protocol.PlayerInfo 还原为 game.Player
func InfoToPlayer(info protocol.PlayerInfo) game.Player {
	return game.Player{
		ID:    info.ID,
		Seat:  info.Seat,
		Name:  info.Name,
		Score: info.Score,
		Color: info.Color,
	}
}

// DTOToState 将服务器下发的状态还原为 game.State
// 未翻开的牌只有位置，还原后是零值牌
func DTOToState(dto protocol.GameStateDTO) game.State {
	s := game.State{
		Current:         dto.Current,
		Mode:            game.ParseMode(dto.Mode),
		Timer:           game.Timer{Active: dto.Timer.Active, Remaining: dto.Timer.Remaining},
		GameOver:        dto.GameOver,
		LastCardPending: dto.LastCardPending,
	}
	// 未开局时保持 nil，和本地的零值状态一致
	if len(dto.Players) > 0 {
		s.Players = make([]game.Player, len(dto.Players))
		for i, info := range dto.Players {
			s.Players[i] = InfoToPlayer(info)
		}
	}
	if len(dto.Cards) > 0 {
		s.Deck = make(card.Deck, len(dto.Cards))
		for _, info := range dto.Cards {
			if info.Index >= 0 && info.Index < len(s.Deck) {
				s.Deck[info.Index] = InfoToCard(info)
			}
		}
	}
	if len(dto.Revealed) > 0 {
		s.Revealed = slices.Clone(dto.Revealed)
	}
	return s
}

// PayloadToEvent 将 protocol.EventPayload 还原为 game.Event
func PayloadToEvent(p protocol.EventPayload) game.Event {
	e := game.Event{
		Kind:      game.EventKind(p.Kind),
		Player:    p.Player,
		Target:    p.Target,
		Delta:     p.Delta,
		Score:     p.Score,
		Remaining: p.Remaining,
		Index:     p.Index,
		Mode:      game.ParseMode(p.Mode),
		Sound:     game.Sound(p.Sound),
	}
	if p.Card != nil {
		e.Card = InfoToCard(*p.Card)
	}
	return e
}
