package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(46)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusStopped = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))
)

// GradientText colors each rune of text along a gradient from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	from := hexOr(start, colorful.Color{R: 1, G: 1, B: 1})
	to := hexOr(end, colorful.Color{R: 1, G: 1, B: 1})

	var result strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := from.BlendLab(to, t).Clamped()
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return result.String()
}

// Separator is a decorative horizontal rule.
func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
