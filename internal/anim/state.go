package anim

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// EventKind says why a snapshot was published.
type EventKind uint8

const (
	EventPoll EventKind = iota
	EventStart
	EventPhase
	EventColor
	EventTick
	EventStop
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventPhase:
		return "phase"
	case EventColor:
		return "color"
	case EventTick:
		return "tick"
	case EventStop:
		return "stop"
	default:
		return "poll"
	}
}

var eventKinds = []EventKind{EventPoll, EventStart, EventPhase, EventColor, EventTick, EventStop}

// ParseEventKind is the inverse of String.
func ParseEventKind(s string) (EventKind, bool) {
	for _, k := range eventKinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *EventKind) UnmarshalText(b []byte) error {
	v, ok := ParseEventKind(string(b))
	if !ok {
		return fmt.Errorf("anim: unknown event kind %q", b)
	}
	*k = v
	return nil
}

// State is a read-only snapshot of the engine.
type State struct {
	Symbol   *Symbol // nil until the first FadeIn
	Index    int     // catalog index of Symbol, -1 before start
	Phase    Phase
	Progress float64 // fraction of the current phase elapsed, 0..1
	Opacity  float64
	Scale    float64
	Color    colorful.Color
	Elapsed  float64 // seconds on the free-running display clock
	Cycle    int     // number of FadeIn entries so far
	Seq      uint64
	Event    EventKind
	Running  bool
	At       time.Time
}

// SymbolName returns the current symbol's name, or "" before start.
func (s State) SymbolName() string {
	if s.Symbol == nil {
		return ""
	}
	return s.Symbol.Name
}

// Observer receives every published snapshot. OnState runs while the
// engine's notification lock is held, so it must not call Start, Stop,
// AddObserver or Subscribe on the same engine.
type Observer interface {
	OnState(s State)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(s State)

func (f ObserverFunc) OnState(s State) { f(s) }
