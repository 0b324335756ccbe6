package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"efficiensa/internal/kitchen"
	"efficiensa/internal/models"
)

const cardWidth = 30

// Styling
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#162570")).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff4444")).
			Padding(0, 1)

	tierColors = map[kitchen.Tier]lipgloss.Color{
		kitchen.TierSuccess:  lipgloss.Color("#4CAF50"),
		kitchen.TierWarning:  lipgloss.Color("#FF9800"),
		kitchen.TierCritical: lipgloss.Color("#ff4444"),
		kitchen.TierInfo:     lipgloss.Color("#2B9EDE"),
		kitchen.TierMuted:    lipgloss.Color("#94A3B8"),
	}
)

func cardStyle(border kitchen.Tier, selected bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Width(cardWidth).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tierColors[border])
	if selected {
		style = style.Border(lipgloss.ThickBorder())
	}
	return style
}

func badgeStyle(tier kitchen.Tier) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(tierColors[tier]).
		Padding(0, 1)
}

// renderCard draws one order ticket
func renderCard(card kitchen.Card, selected bool) string {
	var b strings.Builder

	header := "#" + card.OrderNumber
	if card.Priority != models.PriorityNormal {
		header += " " + strings.ToUpper(string(card.Priority))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", badgeStyle(card.Badge.Tier).Render(card.Badge.Label)))
	b.WriteString("\n")

	where := string(card.OrderType)
	if card.TableName != "" {
		where = card.TableName + " · " + where
	}
	b.WriteString(mutedStyle.Render(where + " · " + string(card.Status)))
	b.WriteString("\n")

	for _, item := range card.Items {
		mark := " "
		switch item.Status {
		case models.ItemDone:
			mark = "✓"
		case models.ItemInProgress:
			mark = "~"
		}
		fmt.Fprintf(&b, "%s %dx %s\n", mark, item.Quantity, item.Name)
		for _, m := range item.Modifiers {
			b.WriteString(mutedStyle.Render("    + "+m) + "\n")
		}
	}
	if card.Notes != "" {
		b.WriteString(mutedStyle.Render("note: "+card.Notes) + "\n")
	}

	return cardStyle(card.Badge.Border, selected).Render(strings.TrimRight(b.String(), "\n"))
}

// renderBoard lays cards out in rows that fit the terminal width
func renderBoard(board kitchen.Board, selected, width int) string {
	title := titleStyle.Render(fmt.Sprintf("%s · %d orders", strings.ToUpper(string(board.View)), len(board.Cards)))
	if board.Station != "" {
		title += " " + mutedStyle.Render("station "+board.Station)
	}
	if len(board.Cards) == 0 {
		return title + "\n\n" + mutedStyle.Render("No orders")
	}

	perRow := width / (cardWidth + 4)
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	for start := 0; start < len(board.Cards); start += perRow {
		end := start + perRow
		if end > len(board.Cards) {
			end = len(board.Cards)
		}
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(board.Cards[i], i == selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return title + "\n\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}
