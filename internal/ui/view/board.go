package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/math-battle/internal/game"
	"github.com/palemoky/math-battle/internal/game/card"
	"github.com/palemoky/math-battle/internal/ui/common"
)

// Board is everything the game screen shows.
type Board struct {
	Room   string // 远程模式的房间号
	State  game.State
	Cursor int // 光标所在的牌
	Focus  int // 手动加减分的座位
	Notice string
	Error  string
	Help   string
	Width  int
}

// BoardView renders the scoreboard, the card grid and the status lines.
func BoardView(b Board) string {
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(b.Width, lipgloss.Center, s)
	}

	var sb strings.Builder
	sb.WriteString(center(common.TitleStyle("🧮 Math Battle")))
	sb.WriteString("\n")
	if b.Room != "" {
		sb.WriteString(center(RenderRoom(b.Room)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(center(RenderScoreboard(b.State, b.Focus)))
	sb.WriteString("\n\n")

	if b.State.GameOver {
		sb.WriteString(center(RenderStandings(b.State.Players)))
	} else {
		sb.WriteString(center(RenderGrid(b.State, b.Cursor)))
	}
	sb.WriteString("\n")
	sb.WriteString(center(RenderStatus(b.State)))

	if b.Notice != "" {
		sb.WriteString("\n")
		sb.WriteString(center(common.MutedStyle.Render(b.Notice)))
	}
	if b.Error != "" {
		sb.WriteString("\n")
		sb.WriteString(center(common.ErrorStyle.Render(b.Error)))
	}
	if b.Help != "" {
		sb.WriteString("\n\n")
		sb.WriteString(center(b.Help))
	}
	return sb.String()
}

// RenderRoom renders the code another terminal uses to resume the room.
func RenderRoom(code string) string {
	return common.MutedStyle.Render("Room " + code)
}

// RenderScoreboard renders one box per player. The current player carries
// the turn marker, the focused seat is underlined for score edits.
func RenderScoreboard(st game.State, focus int) string {
	boxes := make([]string, 0, len(st.Players))
	for i, p := range st.Players {
		marker := "  "
		if i == st.Current && !st.GameOver {
			marker = "▶ "
		}

		name := common.SeatStyle(p.Color).Underline(i == focus).
			Render(fmt.Sprintf("%d. %s", p.Seat+1, common.TruncateName(p.Name, 12)))
		box := common.BoxStyle.BorderForeground(lipgloss.Color(p.Color)).
			Render(fmt.Sprintf("%s%s\n  %s", marker, name, common.FormatScore(p.Score)))
		boxes = append(boxes, box)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// RenderGrid renders the deck in rows of common.GridColumns.
func RenderGrid(st game.State, cursor int) string {
	var rows []string
	for start := 0; start < len(st.Deck); start += common.GridColumns {
		end := min(start+common.GridColumns, len(st.Deck))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, RenderCard(i, st.Deck[i], st.IsRevealed(i), i == cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderCard renders a single card, face down as its number.
func RenderCard(index int, c card.Card, revealed, selected bool) string {
	var style lipgloss.Style
	var body string

	if revealed {
		style = common.FaceUpStyle.BorderForeground(common.CardColor(c.Type))
		body = c.String() + "\n" + common.TruncateName(c.Description, common.CardWidth*2)
		if c.TimeLimit > 0 {
			body += "\n⏱ " + game.FormatClock(c.TimeLimit)
		}
	} else {
		style = common.FaceDownStyle
		body = fmt.Sprintf("?\n#%d", index+1)
	}

	if selected {
		style = style.Border(common.CursorBorder).BorderForeground(lipgloss.Color("#FACC15"))
	}
	return style.Render(body)
}

// RenderStatus renders the line telling the table what happens next.
func RenderStatus(st game.State) string {
	current, ok := st.CurrentPlayer()
	if !ok {
		return ""
	}
	name := common.SeatStyle(current.Color).Render(current.Name)

	switch st.Phase() {
	case game.PhaseTimer:
		clock := common.TimerStyle.Render("⏱ " + game.FormatClock(st.Timer.Remaining))
		return fmt.Sprintf("%s  %s is answering • s to skip", clock, name)
	case game.PhasePendingTarget:
		prompt := game.Event{Kind: game.EventActionPending, Player: st.Current, Mode: st.Mode}.Describe(st.Players)
		var targets []string
		for _, seat := range st.Targets() {
			p := st.Players[seat]
			targets = append(targets, common.SeatStyle(p.Color).Render(fmt.Sprintf("[%d] %s", seat+1, p.Name)))
		}
		return prompt + "\n" + strings.Join(targets, "  ")
	case game.PhaseLastCard:
		return "🏁 Last card revealed! Press c to finish the game"
	case game.PhaseGameOver:
		return game.Event{Kind: game.EventGameOver}.Describe(st.Players) + "\nPress r to play again"
	default:
		return fmt.Sprintf("%s's turn • pick a card", name)
	}
}

// RenderStandings renders the final ranking.
func RenderStandings(players []game.Player) string {
	var sb strings.Builder
	sb.WriteString("🏆 Final standings\n\n")

	winners := game.Winners(players)
	for rank, p := range game.Standings(players) {
		crown := "  "
		for _, w := range winners {
			if w.ID == p.ID {
				crown = "👑"
			}
		}
		fmt.Fprintf(&sb, "%s %d. %s  %s\n", crown, rank+1,
			common.SeatStyle(p.Color).Render(p.Name), common.FormatScore(p.Score))
	}
	return common.BoxStyle.Render(strings.TrimSuffix(sb.String(), "\n"))
}
