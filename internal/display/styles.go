package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack-advisor/internal/strategy"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B7F3B")).
			Bold(true).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4"))

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	DetailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")).
			Italic(true)

	GainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	LossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)
)

var actionColors = map[strategy.Action]lipgloss.Color{
	strategy.Wait:      "#626262",
	strategy.Blackjack: "#FFD700",
	strategy.Bust:      "#FF6B6B",
	strategy.Split:     "#C39BD3",
	strategy.Double:    "#74B9FF",
	strategy.Stand:     "#FFEAA7",
	strategy.Hit:       "#96CEB4",
	strategy.Surrender: "#FFA94D",
}

// ActionStyle is the headline style for an action.
func ActionStyle(a strategy.Action) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(actionColors[a]).Bold(true)
}

// MoneyStyle colors an amount by sign.
func MoneyStyle(v float64) lipgloss.Style {
	if v < 0 {
		return LossStyle
	}
	return GainStyle
}

// Recommendation renders an action headline, its rationale and any
// insurance advice, one per line.
func Recommendation(rec strategy.Recommendation) string {
	lines := []string{ActionStyle(rec.Action).Render(ActionLabel(rec.Action))}
	if d := rec.Details(); d != "" && rec.Action != strategy.Blackjack && rec.Action != strategy.Bust {
		lines = append(lines, DetailStyle.Render(d))
	}
	if label := InsuranceLabel(rec.Insurance); label != "" {
		style := GainStyle
		if rec.Insurance == strategy.DeclineInsurance {
			style = LossStyle
		}
		lines = append(lines, style.Render(label), DetailStyle.Render(rec.InsuranceDetails()))
	}
	return strings.Join(lines, "\n")
}

// Field renders "label: value".
func Field(label, value string) string {
	return fmt.Sprintf("%s %s", LabelStyle.Render(label+":"), ValueStyle.Render(value))
}
