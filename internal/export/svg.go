package export

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/symcycle/internal/glyph"
	"github.com/san-kum/symcycle/internal/trace"
)

const (
	background  = "#0a0a0a"
	defaultInk  = "#ffffff"
	strokeWidth = 3.0
)

// FrameToSVG draws one recorded sample: the symbol outline scaled and tinted
// as it appeared, on a size x size canvas. Samples without a symbol yield an
// empty canvas.
func FrameToSVG(s trace.Sample, size int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, background)

	if o, ok := glyph.Lookup(s.Symbol); ok {
		ink := defaultInk
		if c := (colorful.Color{R: s.R, G: s.G, B: s.B}); c != (colorful.Color{}) {
			ink = c.Clamped().Hex()
		}

		half := float64(size) / 2
		r := half * 0.8
		fmt.Fprintf(&sb, `<g fill="none" stroke="%s" stroke-width="%.1f" stroke-opacity="%.3f" stroke-linejoin="round">
`, ink, strokeWidth, s.Opacity)
		for _, p := range o.Scale(s.Scale) {
			if len(p) < 2 {
				continue
			}
			sb.WriteString(`<path d="`)
			for i, pt := range p {
				cmd := " L"
				if i == 0 {
					cmd = "M"
				}
				fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, half+pt.X*r, half-pt.Y*r)
			}
			sb.WriteString("\"/>\n")
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CurveToSVG plots values against their index as a single polyline. Fewer
// than two values produce an empty string.
func CurveToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	// Add padding
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor)

	last := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// SampleAt returns the last sample recorded at or before t, or the first
// sample when t precedes the run.
func SampleAt(samples []trace.Sample, t float64) (trace.Sample, bool) {
	if len(samples) == 0 {
		return trace.Sample{}, false
	}
	best := samples[0]
	for _, s := range samples {
		if s.Time > t+1e-9 {
			break
		}
		best = s
	}
	return best, true
}
