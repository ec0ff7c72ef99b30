package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mc2048/internal/game"
	"github.com/vovakirdan/mc2048/internal/grid"
	"github.com/vovakirdan/mc2048/internal/search"
)

const cellWidth = 7

// tileColors maps tile values to 256-colour backgrounds.
var tileColors = map[int]lipgloss.Color{
	2:    lipgloss.Color("255"),
	4:    lipgloss.Color("230"),
	8:    lipgloss.Color("215"),
	16:   lipgloss.Color("209"),
	32:   lipgloss.Color("203"),
	64:   lipgloss.Color("196"),
	128:  lipgloss.Color("228"),
	256:  lipgloss.Color("227"),
	512:  lipgloss.Color("226"),
	1024: lipgloss.Color("220"),
	2048: lipgloss.Color("214"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	emptyCellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("238"))

	deltaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// tileStyle returns the style of a non-empty cell.
func tileStyle(value int, fresh bool) lipgloss.Style {
	bg, ok := tileColors[value]
	if !ok {
		bg = lipgloss.Color("93") // Past 2048
	}
	fg := lipgloss.Color("235")
	if value > 2048 {
		fg = lipgloss.Color("231")
	}

	s := lipgloss.NewStyle().
		Width(cellWidth).
		Align(lipgloss.Center).
		Bold(true).
		Background(bg).
		Foreground(fg)
	if fresh {
		s = s.Underline(true)
	}
	return s
}

// renderBoard draws the snapshot as a 4x4 block of coloured cells.
func renderBoard(snap game.Snapshot) string {
	var cells [grid.Size][grid.Size]*game.TileView
	for i := range snap.Tiles {
		t := &snap.Tiles[i]
		cells[t.Row][t.Col] = t
	}

	rows := make([]string, 0, grid.Size*2-1)
	for r := range grid.Size {
		line := make([]string, 0, grid.Size)
		for c := range grid.Size {
			t := cells[r][c]
			if t == nil {
				line = append(line, emptyCellStyle.Render("·"))
				continue
			}
			line = append(line, tileStyle(t.Value, t.IsNew).Render(strconv.Itoa(t.Value)))
		}
		rows = append(rows, strings.Join(line, " "))
		if r < grid.Size-1 {
			rows = append(rows, "")
		}
	}

	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderHUD draws the score line above the board.
func renderHUD(snap game.Snapshot, best int) string {
	score := fmt.Sprintf("Score: %d", snap.Score)
	if snap.LastDelta > 0 && snap.Moves > 0 {
		score += " " + deltaStyle.Render(fmt.Sprintf("+%d", snap.LastDelta))
	}
	info := fmt.Sprintf("Max: %d  Moves: %d", snap.MaxTile, snap.Moves)
	if best > 0 {
		info += fmt.Sprintf("  Best: %d", best)
	}
	return score + "   " + info
}

// renderAdvice summarizes the last decision per direction.
func renderAdvice(d search.Decision) string {
	if !d.Found {
		return ""
	}
	parts := make([]string, 0, len(d.Stats))
	for _, s := range d.Stats {
		mark := " "
		if s.Direction == d.Direction {
			mark = "*"
		}
		if !s.Viable {
			parts = append(parts, fmt.Sprintf("%s%-5s   -", mark, s.Direction))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s%-5s %.0f", mark, s.Direction, s.AvgScore))
	}
	return statusStyle.Render(strings.Join(parts, "  "))
}

// centerText pads text so it appears centred in width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
