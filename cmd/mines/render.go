package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

var (
	mineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	flagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	wrongStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Strikethrough(true)
	hiddenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	numStyles   = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	statusStyle = lipgloss.NewStyle().Italic(true)
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	loseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func cellStyle(v mines.CellView) lipgloss.Style {
	switch {
	case v.IsNumber():
		return numStyles[v]
	case v == mines.ViewFlagged, v == mines.ViewCorrectlyFlagged:
		return flagStyle
	case v == mines.ViewFalselyFlagged:
		return wrongStyle
	case v == mines.ViewExplodedMine, v == mines.ViewUnflaggedMine:
		return mineStyle
	default:
		return hiddenStyle
	}
}

func cellText(v mines.CellView) string {
	if v == 0 {
		return "."
	}
	return v.String()
}

// renderGrid draws the grid with row and column numbers. Columns are two
// characters wide so boards up to 30 wide keep aligned headers.
func renderGrid(grid mines.Grid, width int, color bool) string {
	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString("   ")
	for col := range width {
		b.WriteString(style(headerStyle, fmt.Sprintf("%2d", col)))
		b.WriteString(" ")
	}
	b.WriteString("\n")
	for row := range len(grid) / width {
		b.WriteString(style(headerStyle, fmt.Sprintf("%2d", row)))
		b.WriteString(" ")
		for col := range width {
			v := grid.At(width, row, col)
			b.WriteString(style(cellStyle(v), fmt.Sprintf("%2s", cellText(v))))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderStatus(s *mines.Session) string {
	return fmt.Sprintf(
		"%s | mines left: %d | moves: %d | time: %s",
		s.State(), s.MinesLeft(), s.MovesCount(), s.Elapsed().Truncate(time.Second),
	)
}

func renderSession(s *mines.Session, color bool) string {
	title := s.Difficulty().String()
	grid := renderGrid(s.View(), s.Width(), color)
	status := renderStatus(s)
	if !color {
		return title + "\n" + grid + "\n" + status
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		boardStyle.Render(grid),
		statusStyle.Render(status),
	)
}

func renderBanner(msg string, won bool, color bool) string {
	if !color {
		return msg
	}
	if won {
		return winStyle.Render(msg)
	}
	return loseStyle.Render(msg)
}

func renderStatistics(st mines.Statistics, seed string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "session:  %s\n", st.SessionID)
	fmt.Fprintf(&b, "board:    %s %s\n", st.Difficulty, seed)
	fmt.Fprintf(&b, "state:    %s\n", st.State)
	fmt.Fprintf(&b, "moves:    %d (%d flags)\n", st.MovesCount, st.FlagsUsed)
	fmt.Fprintf(&b, "revealed: %d of %d\n", st.RevealedCount, st.Width*st.Height-st.MineCount)
	fmt.Fprintf(&b, "flagged:  %d of %d\n", st.FlaggedCount, st.MineCount)
	fmt.Fprintf(&b, "time:     %s", st.Duration.Truncate(time.Millisecond))
	return b.String()
}

func renderHighscores(scores []repository.Highscore) string {
	if len(scores) == 0 {
		return "no highscores yet"
	}
	var b strings.Builder
	for i, hs := range scores {
		playtime := time.Duration(hs.PlaytimeMs) * time.Millisecond
		fmt.Fprintf(&b, "%2d. %-12s %dx%d(%d) %8s %4d moves\n",
			i+1, hs.Difficulty, hs.Width, hs.Height, hs.MineCount, playtime, hs.MovesCount)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
