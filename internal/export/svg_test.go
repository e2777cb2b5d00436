package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/symcycle/internal/anim"
	"github.com/san-kum/symcycle/internal/trace"
)

func TestFrameToSVG(t *testing.T) {
	s := trace.Sample{Symbol: "house.fill", Phase: anim.Stable, Opacity: 1, Scale: 1, R: 1}
	svg := FrameToSVG(s, 200)

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, `stroke="#ff0000"`)
	assert.Contains(t, svg, `stroke-opacity="1.000"`)
	assert.Equal(t, 3, strings.Count(svg, "<path"))
	// The roof's left corner sits at the canvas edge less the margin.
	assert.Contains(t, svg, "M20.0,")
}

func TestFrameToSVGUnpickedColor(t *testing.T) {
	svg := FrameToSVG(trace.Sample{Symbol: "pencil", Opacity: 0.5, Scale: 0.2}, 100)
	assert.Contains(t, svg, `stroke="#ffffff"`)
	assert.Contains(t, svg, `stroke-opacity="0.500"`)
}

func TestFrameToSVGWithoutSymbol(t *testing.T) {
	svg := FrameToSVG(trace.Sample{}, 100)
	assert.NotContains(t, svg, "<path")
	assert.Contains(t, svg, "<rect")
}

func TestCurveToSVG(t *testing.T) {
	assert.Empty(t, CurveToSVG([]float64{1}, 100, 50, "#00ff00"))

	svg := CurveToSVG([]float64{0, 0.5, 1}, 100, 50, "#00ff00")
	assert.Contains(t, svg, `stroke="#00ff00"`)
	assert.Contains(t, svg, "M0.0,")
	assert.Contains(t, svg, " L100.0,")
	assert.Equal(t, 2, strings.Count(svg, " L"))
}

func TestSampleAt(t *testing.T) {
	samples := []trace.Sample{{Time: 0}, {Time: 0.5}, {Time: 1.0}}

	s, ok := SampleAt(samples, 0.7)
	assert.True(t, ok)
	assert.Equal(t, 0.5, s.Time)

	s, _ = SampleAt(samples, 1.0)
	assert.Equal(t, 1.0, s.Time)

	s, _ = SampleAt(samples, -1)
	assert.Equal(t, 0.0, s.Time)

	_, ok = SampleAt(nil, 0)
	assert.False(t, ok)
}
