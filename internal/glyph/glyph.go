// Package glyph holds vector outlines for the catalog symbols, shared by the
// terminal and desktop views. Coordinates are unit space: the origin is the
// glyph centre, both axes span [-1, 1] and y points up.
package glyph

import "math"

type Point struct{ X, Y float64 }

// Path is a polyline. It is closed when its first and last points match.
type Path []Point

type Outline []Path

// Scale returns o scaled about the origin.
func (o Outline) Scale(s float64) Outline {
	out := make(Outline, len(o))
	for i, p := range o {
		q := make(Path, len(p))
		for j, pt := range p {
			q[j] = Point{pt.X * s, pt.Y * s}
		}
		out[i] = q
	}
	return out
}

// Segments calls fn for each line segment of the outline.
func (o Outline) Segments(fn func(a, b Point)) {
	for _, p := range o {
		for i := 1; i < len(p); i++ {
			fn(p[i-1], p[i])
		}
	}
}

// Bounds returns the bounding box of all points.
func (o Outline) Bounds() (min, max Point) {
	first := true
	for _, p := range o {
		for _, pt := range p {
			if first {
				min, max = pt, pt
				first = false
				continue
			}
			min.X, min.Y = math.Min(min.X, pt.X), math.Min(min.Y, pt.Y)
			max.X, max.Y = math.Max(max.X, pt.X), math.Max(max.Y, pt.Y)
		}
	}
	return min, max
}

// Lookup returns the outline for a catalog symbol name.
func Lookup(name string) (Outline, bool) {
	o, ok := outlines[name]
	return o, ok
}

// Names lists every symbol with an outline.
func Names() []string {
	return []string{"person.fill", "airplane", "house.fill", "car.fill", "flame.fill", "pencil"}
}

// Circle approximates a circle with n segments.
func Circle(cx, cy, r float64, n int) Path {
	p := make(Path, 0, n+1)
	for i := 0; i <= n; i++ {
		a := float64(i%n) * 2 * math.Pi / float64(n)
		p = append(p, Point{cx + r*math.Cos(a), cy + r*math.Sin(a)})
	}
	return p
}

func poly(pts ...float64) Path {
	p := make(Path, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		p = append(p, Point{pts[i], pts[i+1]})
	}
	return p
}

var outlines = map[string]Outline{
	"person.fill": {
		Circle(0, 0.55, 0.3, 24),
		poly(-0.7, -0.9, -0.6, -0.3, -0.3, 0.1, 0.3, 0.1, 0.6, -0.3, 0.7, -0.9, -0.7, -0.9),
	},
	"airplane": {
		// fuselage
		poly(0, 1, 0.1, 0.85, 0.1, -0.6, 0.3, -0.85, 0.3, -0.95, 0, -0.85, -0.3, -0.95, -0.3, -0.85, -0.1, -0.6, -0.1, 0.85, 0, 1),
		// wings
		poly(0.1, 0.3, 0.95, -0.2, 0.95, -0.35, 0.1, -0.1),
		poly(-0.1, 0.3, -0.95, -0.2, -0.95, -0.35, -0.1, -0.1),
	},
	"house.fill": {
		poly(-1, 0.05, 0, 0.95, 1, 0.05),
		poly(-0.7, 0.3, -0.7, -0.9, 0.7, -0.9, 0.7, 0.3),
		poly(-0.2, -0.9, -0.2, -0.35, 0.2, -0.35, 0.2, -0.9),
	},
	"car.fill": {
		poly(-0.95, -0.45, -0.95, 0, -0.6, 0.1, -0.4, 0.5, 0.4, 0.5, 0.6, 0.1, 0.95, 0, 0.95, -0.45, -0.95, -0.45),
		poly(-0.3, 0.1, -0.25, 0.38, 0.25, 0.38, 0.3, 0.1, -0.3, 0.1),
		Circle(-0.55, -0.45, 0.2, 16),
		Circle(0.55, -0.45, 0.2, 16),
	},
	"flame.fill": {
		poly(0, 1, 0.35, 0.5, 0.6, 0.05, 0.65, -0.4, 0.45, -0.8, 0, -0.98, -0.45, -0.8, -0.65, -0.4, -0.55, 0.1, -0.3, 0.35, -0.2, 0.1, 0, 1),
		poly(0, 0.2, 0.25, -0.25, 0.2, -0.6, 0, -0.75, -0.2, -0.6, -0.25, -0.3, 0, 0.2),
	},
	"pencil": {
		poly(0.6, 0.95, 0.95, 0.6, -0.55, -0.9, -0.95, -0.95, -0.9, -0.55, 0.6, 0.95),
		poly(0.4, 0.75, 0.75, 0.4),
		poly(-0.55, -0.9, -0.9, -0.55),
	},
}
