package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/symcycle/internal/glyph"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	assert.Equal(t, rune(0x2801), c.Grid[0][0])
	assert.Equal(t, rune(0x2880), c.Grid[0][1])
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for _, r := range c.Grid[0] {
		assert.Equal(t, rune(0x2809), r)
	}

	c.Clear()
	assert.True(t, c.Empty())
}

func TestCanvasDrawOutline(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawOutline(glyph.Outline{{{X: -1, Y: 0}, {X: 1, Y: 0}}})

	lines := strings.Split(c.String(), "\n")
	assert.Len(t, lines, 5)
	assert.False(t, c.Empty())
	// The horizontal line crosses the middle row only.
	assert.NotEqual(t, strings.Repeat(string(rune(brailleBlank)), 10), lines[2])
	assert.Equal(t, strings.Repeat(string(rune(brailleBlank)), 10), lines[0])
}
