package lotto

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ticketTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#67e8f9"))
	ticketWish  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d8b4fe"))
	ticketWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#facc15"))
	ticketPlus  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Padding(0, 1)
	ticketBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#22d3ee")).
			Padding(1, 2)
)

func ballStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(hex)).
		Width(4).
		Align(lipgloss.Center)
}

// Ball renders a single coloured ball.
func Ball(n int) string {
	return ballStyle(BallColor(n)).Render(fmt.Sprintf("%d", n))
}

// Ticket renders the draw as a boxed, coloured terminal ticket.
func Ticket(d Draw) string {
	balls := make([]string, 0, Picks+2)
	for _, n := range d.Numbers {
		balls = append(balls, Ball(n), " ")
	}
	balls = append(balls, ticketPlus.Render("+"), ballStyle(ColorBonus).Render(fmt.Sprintf("%d", d.Bonus)))

	var b strings.Builder
	b.WriteString(ticketTitle.Render("This is the one!"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, balls...))
	b.WriteString("\n\n")
	b.WriteString(ticketWish.Render("Good luck!"))
	b.WriteString("\n")
	b.WriteString(ticketWarn.Render("Play responsibly."))
	return ticketBox.Render(b.String())
}
