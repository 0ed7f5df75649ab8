package convert

import (
	"github.com/palemoky/math-battle/internal/game/card"
	"github.com/palemoky/math-battle/internal/protocol"
)

// CardToInfo 将牌桌位置 index 上的 card.Card 转换为 protocol.CardInfo
// 未翻开的牌只暴露位置
func CardToInfo(index int, c card.Card, revealed bool) protocol.CardInfo {
	if !revealed {
		return protocol.CardInfo{Index: index}
	}
	return protocol.CardInfo{
		Index:       index,
		Revealed:    true,
		Type:        c.Type.String(),
		Value:       c.Value,
		Description: c.Description,
		Icon:        c.Icon(),
		TimeLimit:   c.TimeLimit,
	}
}

// DeckToInfos 将整副牌转换为 []protocol.CardInfo
func DeckToInfos(deck card.Deck, isRevealed func(int) bool) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(deck))
	for i, c := range deck {
		infos[i] = CardToInfo(i, c, isRevealed(i))
	}
	return infos
}

// InfoToCard 将 protocol.CardInfo 还原为 card.Card，未翻开的牌为零值
func InfoToCard(info protocol.CardInfo) card.Card {
	if !info.Revealed {
		return card.Card{}
	}
	return card.Card{
		Type:        card.Type(info.Type),
		Value:       info.Value,
		Description: info.Description,
		TimeLimit:   info.TimeLimit,
	}
}
