package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/symcycle/internal/anim"
	"github.com/san-kum/symcycle/internal/glyph"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const (
	telemetryCapacity = 200
	strokeWidth       = 4
)

// Source is the engine surface the window needs.
type Source interface {
	Start()
	Stop()
	Snapshot() anim.State
}

type App struct {
	src       Source
	Width     int32
	Height    int32
	FPS       int32
	State     anim.State
	Telemetry []float64 // opacity history for the strip chart
}

func NewApp(src Source, width, height, fps int) *App {
	if width <= 0 {
		width = 480
	}
	if height <= 0 {
		height = 480
	}
	if fps <= 0 {
		fps = 60
	}
	return &App{
		src:       src,
		Width:     int32(width),
		Height:    int32(height),
		FPS:       int32(fps),
		State:     src.Snapshot(),
		Telemetry: make([]float64, 0, telemetryCapacity),
	}
}

// Run opens the window, starts the engine and blocks until the window is
// closed. The engine is stopped on return.
func (a *App) Run() {
	rl.InitWindow(a.Width, a.Height, "symcycle")
	defer rl.CloseWindow()
	rl.SetTargetFPS(a.FPS)
	rl.SetExitKey(rl.KeyQ)

	a.src.Start()
	defer a.src.Stop()

	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	a.State = a.src.Snapshot()
	a.Telemetry = append(a.Telemetry, a.State.Opacity)
	if len(a.Telemetry) > telemetryCapacity {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawSymbol()
	a.DrawHUD()
	a.DrawTelemetry()

	rl.EndDrawing()
}

func (a *App) drawSymbol() {
	s := a.State
	o, ok := glyph.Lookup(s.SymbolName())
	if !ok {
		text := "No Symbol"
		w := rl.MeasureText(text, 20)
		rl.DrawText(text, (a.Width-w)/2, a.Height/2-10, 20, ColTextDim)
		return
	}

	col := symbolColor(s.Color, s.Opacity)
	cx, cy := float32(a.Width)/2, float32(a.Height)/2
	r := float32(min(a.Width, a.Height)) * 0.3

	o.Scale(s.Scale).Segments(func(p, q glyph.Point) {
		from := rl.NewVector2(cx+float32(p.X)*r, cy-float32(p.Y)*r)
		to := rl.NewVector2(cx+float32(q.X)*r, cy-float32(q.Y)*r)
		rl.DrawLineEx(from, to, strokeWidth, col)
	})

	desc := s.Symbol.Description
	w := rl.MeasureText(desc, 20)
	rl.DrawText(desc, (a.Width-w)/2, int32(cy+r+20), 20, rl.ColorAlpha(ColAccent, float32(s.Opacity)))
}

// DrawHUD shows the elapsed counter and phase in the top-right corner.
func (a *App) DrawHUD() {
	rl.DrawText("symcycle", 20, 20, 20, ColSelect)

	timeText := fmt.Sprintf("Time: %.1fs", a.State.Elapsed)
	stateText := "State: " + a.State.Phase.String()
	for i, text := range []string{timeText, stateText} {
		w := rl.MeasureText(text, 16)
		rl.DrawText(text, a.Width-w-20, 20+int32(i)*22, 16, ColText)
	}

	status, col := "RUNNING", ColSelect
	if !a.State.Running {
		status, col = "STOPPED", ColTextDim
	}
	rl.DrawText(status, 20, 46, 14, col)
	rl.DrawText("[Q] QUIT", 20, a.Height-24, 14, ColTextDim)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := float32(20), float32(a.Height-90)
	width, height := float32(a.Width-40), float32(50)

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := rectX + (float32(i)/float32(telemetryCapacity))*width
		py := rectY + height - float32(val)*height
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
}

// symbolColor converts the snapshot color to raylib, using opacity as alpha.
// Before the first pick the color is black, which is drawn in the accent
// color so it stays visible on the dark background.
func symbolColor(c colorful.Color, opacity float64) rl.Color {
	if c == (colorful.Color{}) {
		return rl.ColorAlpha(ColSelect, float32(opacity))
	}
	r, g, b := c.Clamped().RGB255()
	return rl.ColorAlpha(rl.NewColor(r, g, b, 255), float32(opacity))
}
