// Package view provides UI rendering functions.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/math-battle/internal/game"
	"github.com/palemoky/math-battle/internal/ui/common"
)

// Setup is everything the setup screen shows.
type Setup struct {
	Room        string
	PlayerCount int
	Inputs      []string // 已渲染的名字输入框
	Focus       int      // 0 为人数行，1..n 为名字输入框
	Error       string
	Help        string
	Width       int
}

// SetupView renders the player setup screen.
func SetupView(s Setup) string {
	var sb strings.Builder

	sb.WriteString(lipgloss.PlaceHorizontal(s.Width, lipgloss.Center, common.TitleStyle("🧮 Math Battle")))
	sb.WriteString("\n")
	if s.Room != "" {
		sb.WriteString(lipgloss.PlaceHorizontal(s.Width, lipgloss.Center, RenderRoom(s.Room)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	var form strings.Builder
	form.WriteString(focusMarker(s.Focus == 0))
	form.WriteString("Players: ")
	for n := game.MinPlayers; n <= game.MaxPlayers; n++ {
		label := fmt.Sprintf(" %d ", n)
		if n == s.PlayerCount {
			label = "[" + strings.TrimSpace(label) + "]"
		}
		form.WriteString(label)
	}
	form.WriteString("\n\n")

	for i, input := range s.Inputs {
		name := common.SeatStyle(game.SeatColor(i)).Render(game.DefaultName(i))
		fmt.Fprintf(&form, "%s%s  %s\n", focusMarker(s.Focus == i+1), name, input)
	}

	sb.WriteString(lipgloss.PlaceHorizontal(s.Width, lipgloss.Center, common.BoxStyle.Render(form.String())))
	sb.WriteString("\n")

	if s.Error != "" {
		sb.WriteString(lipgloss.PlaceHorizontal(s.Width, lipgloss.Center, common.ErrorStyle.Render(s.Error)))
		sb.WriteString("\n")
	}

	hint := "←/→ players • ↑/↓ move • enter start"
	sb.WriteString(common.PromptStyle.Render(lipgloss.PlaceHorizontal(s.Width, lipgloss.Center, common.MutedStyle.Render(hint))))
	if s.Help != "" {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.PlaceHorizontal(s.Width, lipgloss.Center, s.Help))
	}

	return sb.String()
}

func focusMarker(focused bool) string {
	if focused {
		return "▸ "
	}
	return "  "
}
