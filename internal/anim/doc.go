// Package anim implements the symbol display cycle.
//
// An [Engine] shows each [Symbol] of the fixed catalog in turn, moving it
// through three [Phase] values on a 10 second timeline:
//
//	FadeIn  2s  opacity 0 -> 1, scale 0.2 -> 1 (ease-in)
//	Stable  6s  opacity 1, scale 1, three random colors 2s apart
//	FadeOut 2s  opacity 1 -> 0, scale 1 -> 0.2 (ease-out)
//
// A separate ticker counts display time in 0.1s steps and wraps at 10s.
//
// # Consuming state
//
// Consumers poll [Engine.Snapshot], register an [Observer], or read the
// latest-wins channel from [Engine.Subscribe]. The engine never depends on a
// particular UI toolkit.
//
// # Scheduling
//
// All timers go through a [clock.Clock]. Each phase entry cancels the timers
// armed by the previous phase, and callbacks that fire late are discarded, so
// a drifting timer cannot move the cycle twice.
package anim
