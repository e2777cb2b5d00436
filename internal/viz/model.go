package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/symcycle/internal/anim"
	"github.com/san-kum/symcycle/internal/glyph"
)

const (
	canvasWidth     = 32
	canvasHeight    = 16
	historyCapacity = 120
	defaultFPS      = 30
)

// Source is the engine surface the view needs.
type Source interface {
	Start()
	Stop()
	Snapshot() anim.State
}

type TickMsg time.Time

// Model renders the live engine state at a fixed frame rate.
type Model struct {
	src      Source
	fps      int
	state    anim.State
	theme    Theme
	canvas   *Canvas
	progress progress.Model
	help     help.Model
	history  []float64
	width    int
}

// NewModel builds a view over src. The engine is started by Init.
func NewModel(src Source, fps int, theme string) Model {
	if fps <= 0 {
		fps = defaultFPS
	}
	m := Model{
		src:     src,
		fps:     fps,
		state:   src.Snapshot(),
		theme:   GetTheme(theme),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		help:    help.New(),
		history: make([]float64, 0, historyCapacity),
	}
	m.progress = m.newProgress()
	return m
}

func (m Model) newProgress() progress.Model {
	p := progress.New(
		progress.WithGradient(string(m.theme.Secondary), string(m.theme.Primary)),
		progress.WithoutPercentage(),
	)
	p.Width = 36
	return p
}

func (m Model) Init() tea.Cmd {
	m.src.Start()
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.src.Stop()
			return m, tea.Quit
		case key.Matches(msg, keys.Theme):
			m.theme = NextTheme(m.theme.Name)
			m.progress = m.newProgress()
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case TickMsg:
		m.state = m.src.Snapshot()
		m.history = append(m.history, m.state.Opacity)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
		return m, m.tick()
	}
	return m, nil
}

// Theme returns the active theme.
func (m Model) Theme() Theme { return m.theme }

// State returns the snapshot drawn by the last frame.
func (m Model) State() anim.State { return m.state }

func (m Model) View() string {
	s := m.state

	m.canvas.Clear()
	if o, ok := glyph.Lookup(s.SymbolName()); ok {
		m.canvas.DrawOutline(o.Scale(s.Scale))
	}
	tint := m.theme.Tint(s.Color, s.Opacity)
	art := lipgloss.NewStyle().Foreground(lipgloss.Color(tint.Hex())).Render(m.canvas.String())
	canvasView := canvasStyle.Render(art)

	var b strings.Builder
	b.WriteString(GradientText("SYMCYCLE", m.theme.Primary, m.theme.Secondary) + "\n")
	if s.Running {
		b.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		b.WriteString(StatusStopped.Render("STOPPED") + "\n\n")
	}

	b.WriteString(valueStyle.Render(fmt.Sprintf("Time: %.1fs", s.Elapsed)) + "\n")
	b.WriteString(valueStyle.Render("State: "+s.Phase.String()) + "\n\n")

	if s.Symbol == nil {
		b.WriteString(valueStyle.Render("No Symbol") + "\n")
	} else {
		b.WriteString(labelStyle.Render("Symbol") + valueStyle.Render(s.Symbol.Description) + "\n")
		b.WriteString(labelStyle.Render("Name") + Subtle.Render(s.Symbol.Name) + "\n")
		b.WriteString(labelStyle.Render("Cycle") + valueStyle.Render(fmt.Sprintf("%d", s.Cycle)) + "\n")
	}
	b.WriteString(labelStyle.Render("Opacity") + valueStyle.Render(fmt.Sprintf("%.2f", s.Opacity)) + "\n")
	b.WriteString(labelStyle.Render("Scale") + valueStyle.Render(fmt.Sprintf("%.2f", s.Scale)) + "\n")
	b.WriteString(labelStyle.Render("Color") + lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color.Hex())).Render("■ "+s.Color.Hex()) + "\n\n")

	b.WriteString(m.progress.ViewAs(s.Progress) + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Caption("Opacity"),
		)
		b.WriteString(graphStyle.Render(chart) + "\n")
	}

	b.WriteString("\n" + Separator(40) + "\n")
	b.WriteString(m.help.View(keys))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(b.String()))
}
