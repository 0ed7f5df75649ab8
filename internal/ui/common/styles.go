// Package common provides shared styles and utilities for the UI.
package common

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/math-battle/internal/game/card"
)

// Card dimensions
const (
	CardWidth   = 14
	CardHeight  = 4
	GridColumns = 5
)

// Lipgloss Styles
var (
	DocStyle    = lipgloss.NewStyle().Margin(1, 2)
	TitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	PromptStyle = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	TimerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	FaceDownStyle = lipgloss.NewStyle().
			Width(CardWidth).Height(CardHeight).
			Align(lipgloss.Center, lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6366F1")).
			Foreground(lipgloss.Color("#A5B4FC")).Bold(true)
	FaceUpStyle = lipgloss.NewStyle().
			Width(CardWidth).Height(CardHeight).
			Align(lipgloss.Center, lipgloss.Center).
			Border(lipgloss.NormalBorder())
	CursorBorder = lipgloss.ThickBorder()
)

// cardColors 翻开后按类型着色
var cardColors = map[card.Type]lipgloss.Color{
	card.Question:  "#60A5FA",
	card.Challenge: "#F472B6",
	card.Points:    "#34D399",
	card.Steal:     "#F87171",
	card.Swap:      "#FBBF24",
	card.Extra:     "#A78BFA",
}

// CardColor returns the accent color of a revealed card.
func CardColor(t card.Type) lipgloss.Color {
	if c, ok := cardColors[t]; ok {
		return c
	}
	return lipgloss.Color("250")
}

// SeatStyle returns a bold style in the seat's display color.
func SeatStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}
