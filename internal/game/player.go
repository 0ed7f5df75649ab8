package game

import (
	"fmt"
	"strings"
)

const (
	MinPlayers = 2
	MaxPlayers = 3
)

// seatColors 座位颜色，按座位号分配
var seatColors = [MaxPlayers]string{"#3B82F6", "#22C55E", "#F59E0B"}

// Player 定义一个玩家
type Player struct {
	ID    int    // 座位号 + 1，整局不变
	Seat  int    // 座位号 0-2，决定默认名称、颜色和出场顺序
	Name  string // 非空
	Score int    // 可以为负
	Color string
}

// ValidPlayerCount reports whether n players can start a game.
func ValidPlayerCount(n int) bool {
	return n >= MinPlayers && n <= MaxPlayers
}

// DefaultName returns the positional name used when a seat has no name.
func DefaultName(seat int) string {
	return fmt.Sprintf("Player %d", seat+1)
}

// SeatColor returns the display color for a seat.
func SeatColor(seat int) string {
	if seat < 0 || seat >= len(seatColors) {
		return "#6B7280"
	}
	return seatColors[seat]
}

// NewRoster builds the seated players for names. Blank names fall back to
// the seat default. The caller is responsible for the player count.
func NewRoster(names []string) []Player {
	players := make([]Player, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = DefaultName(i)
		}
		players[i] = Player{
			ID:    i + 1,
			Seat:  i,
			Name:  name,
			Color: SeatColor(i),
		}
	}
	return players
}
