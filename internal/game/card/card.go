package card

import (
	"strconv"
)

// Type 定义卡牌类型
type Type string

const (
	Question  Type = "question"
	Challenge Type = "challenge"
	Points    Type = "points"
	Steal     Type = "steal"
	Swap      Type = "swap"
	Extra     Type = "extra"
)

// typeIcons 卡牌类型图标映射表
var typeIcons = map[Type]string{
	Question:  "❓",
	Challenge: "🏆",
	Steal:     "🎯",
	Swap:      "🔄",
	Extra:     "🎲",
}

// Icon returns the face-up icon shown for the type.
// Points cards depend on their sign, see Card.Icon.
func (t Type) Icon() string {
	if icon, ok := typeIcons[t]; ok {
		return icon
	}
	return "📝"
}

func (t Type) String() string {
	return string(t)
}

// Timed reports whether cards of this type may carry a countdown.
func (t Type) Timed() bool {
	return t == Question || t == Challenge
}

// Card 定义一张卡牌
type Card struct {
	Type        Type
	Value       string // 分数牌为带符号整数文本，其余为描述性文本
	Description string
	TimeLimit   int // 倒计时（秒），0 表示无
}

// Points parses the signed integer value of a points card.
// Non-numeric values yield 0.
func (c Card) Points() int {
	n, err := strconv.Atoi(c.Value)
	if err != nil {
		return 0
	}
	return n
}

// Icon returns the face-up icon for the card.
func (c Card) Icon() string {
	if c.Type == Points {
		if c.Points() > 0 {
			return "🎁"
		}
		return "💔"
	}
	return c.Type.Icon()
}

func (c Card) String() string {
	return c.Icon() + " " + c.Value
}
