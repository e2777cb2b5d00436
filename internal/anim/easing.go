package anim

import "math"

// cubicBezier is a CSS-style timing curve through (0,0), (x1,y1), (x2,y2), (1,1).
type cubicBezier struct {
	x1, y1, x2, y2 float64
}

var (
	easeInCurve  = cubicBezier{0.42, 0, 1, 1}
	easeOutCurve = cubicBezier{0, 0, 0.58, 1}
)

// EaseIn starts slow and ends at full speed.
func EaseIn(p float64) float64 { return easeInCurve.at(p) }

// EaseOut starts at full speed and settles slowly.
func EaseOut(p float64) float64 { return easeOutCurve.at(p) }

func (c cubicBezier) at(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return bezier(c.y1, c.y2, c.solveX(p))
}

// solveX finds the curve parameter whose x equals p.
func (c cubicBezier) solveX(p float64) float64 {
	const eps = 1e-7

	t := p
	for i := 0; i < 8; i++ {
		dx := bezier(c.x1, c.x2, t) - p
		if math.Abs(dx) < eps {
			return t
		}
		d := bezierSlope(c.x1, c.x2, t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t -= dx / d
	}

	lo, hi := 0.0, 1.0
	t = p
	for i := 0; i < 64; i++ {
		x := bezier(c.x1, c.x2, t)
		if math.Abs(x-p) < eps {
			break
		}
		if x < p {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return t
}

func bezier(a1, a2, t float64) float64 {
	return ((1-3*a2+3*a1)*t+(3*a2-6*a1))*t*t + 3*a1*t
}

func bezierSlope(a1, a2, t float64) float64 {
	return 3*(1-3*a2+3*a1)*t*t + 2*(3*a2-6*a1)*t + 3*a1
}

func lerp(a, b, e float64) float64 {
	return a*(1-e) + b*e
}

// Interpolate returns opacity and scale for a phase at the given progress.
func Interpolate(phase Phase, progress float64) (opacity, scale float64) {
	switch phase {
	case FadeIn:
		e := EaseIn(progress)
		return lerp(0, 1, e), lerp(MinScale, 1, e)
	case FadeOut:
		e := EaseOut(progress)
		return lerp(1, 0, e), lerp(1, MinScale, e)
	default:
		return 1, 1
	}
}
