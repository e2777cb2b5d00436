package trace

import (
	"errors"

	"github.com/san-kum/symcycle/internal/anim"
)

var ErrInvalidConfig = errors.New("trace: invalid config")

type Config struct {
	SampleDt float64 // seconds between samples
	Duration float64 // seconds of animation to run
	Seed     int64
}

// Sample is the engine state at one sampling instant.
type Sample struct {
	Time     float64    `json:"time"`
	Index    int        `json:"index"`
	Symbol   string     `json:"symbol"`
	Phase    anim.Phase `json:"phase"`
	Progress float64    `json:"progress"`
	Opacity  float64    `json:"opacity"`
	Scale    float64    `json:"scale"`
	R        float64    `json:"r"`
	G        float64    `json:"g"`
	B        float64    `json:"b"`
	Elapsed  float64    `json:"elapsed"`
}

// Event is a structural change published by the engine.
type Event struct {
	Time   float64        `json:"time"`
	Kind   anim.EventKind `json:"kind"`
	Phase  anim.Phase     `json:"phase"`
	Index  int            `json:"index"`
	Symbol string         `json:"symbol"`
	Cycle  int            `json:"cycle"`
}

type Result struct {
	Samples    []Sample
	Events     []Event
	Metrics    map[string]float64
	StepsTaken int
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}
