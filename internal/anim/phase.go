package anim

import (
	"fmt"
	"time"
)

// Fixed timeline of one display cycle.
const (
	FadeInTime       = 2 * time.Second
	FadeOutTime      = 2 * time.Second
	TotalDisplayTime = 10 * time.Second
	StableTime       = TotalDisplayTime - FadeInTime - FadeOutTime

	// TickPeriod drives the free-running elapsed-time counter.
	TickPeriod = 100 * time.Millisecond

	// ColorChanges is the number of color picks during each Stable phase.
	ColorChanges = 3

	MinScale = 0.2
)

const ticksPerDisplay = int(TotalDisplayTime / TickPeriod)

// Phase is the animation sub-state of the symbol on display.
type Phase uint8

const (
	FadeIn Phase = iota
	Stable
	FadeOut
)

// Phases lists every phase in cycle order.
var Phases = []Phase{FadeIn, Stable, FadeOut}

// Next returns the cyclic successor: FadeIn -> Stable -> FadeOut -> FadeIn.
func (p Phase) Next() Phase {
	switch p {
	case FadeIn:
		return Stable
	case Stable:
		return FadeOut
	default:
		return FadeIn
	}
}

func (p Phase) Duration() time.Duration {
	switch p {
	case FadeIn:
		return FadeInTime
	case Stable:
		return StableTime
	default:
		return FadeOutTime
	}
}

func (p Phase) String() string {
	switch p {
	case FadeIn:
		return "Fade In"
	case Stable:
		return "Stable"
	case FadeOut:
		return "Fade Out"
	default:
		return "Unknown"
	}
}

// ParsePhase is the inverse of String.
func ParsePhase(s string) (Phase, bool) {
	for _, p := range Phases {
		if p.String() == s {
			return p, true
		}
	}
	return 0, false
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	v, ok := ParsePhase(string(b))
	if !ok {
		return fmt.Errorf("anim: unknown phase %q", b)
	}
	*p = v
	return nil
}
