package viz

import (
	"math"
	"strings"

	"github.com/san-kum/symcycle/internal/glyph"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells, each holding 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Pixels returns the canvas size in sub-pixels.
func (c *Canvas) Pixels() (w, h int) {
	return c.Width * 2, c.Height * 4
}

// Set sets the sub-pixel at (x, y). Out of range coordinates are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// Empty reports whether no sub-pixel is set.
func (c *Canvas) Empty() bool {
	for _, row := range c.Grid {
		for _, r := range row {
			if r != brailleBlank {
				return false
			}
		}
	}
	return true
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawOutline draws o centred on the canvas. A unit of glyph space maps to
// half the shorter canvas side, less a one pixel margin.
func (c *Canvas) DrawOutline(o glyph.Outline) {
	w, h := c.Pixels()
	cx, cy := float64(w-1)/2, float64(h-1)/2
	r := math.Min(cx, cy) - 1
	if r <= 0 {
		return
	}
	o.Segments(func(a, b glyph.Point) {
		c.DrawLine(
			int(math.Round(cx+a.X*r)), int(math.Round(cy-a.Y*r)),
			int(math.Round(cx+b.X*r)), int(math.Round(cy-b.Y*r)),
		)
	})
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
