package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
}

// Available themes
var (
	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Primary:    lipgloss.Color("#ff00ff"),
		Secondary:  lipgloss.Color("#00ffff"),
		Accent:     lipgloss.Color("#ffff00"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"), // Green phosphor
		Secondary:  lipgloss.Color("#00cc00"),
		Accent:     lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Primary:    lipgloss.Color("#ffffff"),
		Secondary:  lipgloss.Color("#cccccc"),
		Accent:     lipgloss.Color("#0088ff"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Primary:    lipgloss.Color("#0077be"),
		Secondary:  lipgloss.Color("#00a8cc"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Primary:    lipgloss.Color("#ff6b6b"), // Coral
		Secondary:  lipgloss.Color("#feca57"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Background: lipgloss.Color("#2d1b2e"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
	}

	// All available themes
	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Tint blends c into the theme background by opacity. A zero color means no
// tint has been picked yet and stands for the theme's text color.
func (t Theme) Tint(c colorful.Color, opacity float64) colorful.Color {
	bg := hexOr(t.Background, colorful.Color{})
	if c == (colorful.Color{}) {
		c = hexOr(t.Text, colorful.Color{R: 1, G: 1, B: 1})
	}
	return bg.BlendRgb(c, clamp01(opacity)).Clamped()
}

func hexOr(c lipgloss.Color, fallback colorful.Color) colorful.Color {
	v, err := colorful.Hex(string(c))
	if err != nil {
		return fallback
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
