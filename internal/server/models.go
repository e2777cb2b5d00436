package server

import (
	"time"

	"github.com/san-kum/symcycle/internal/anim"
)

// ApiResponse is the envelope of every JSON reply.
type ApiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type StateResponse struct {
	Symbol   *anim.Symbol   `json:"symbol"`
	Index    int            `json:"index"`
	Phase    anim.Phase     `json:"phase"`
	Progress float64        `json:"progress"`
	Opacity  float64        `json:"opacity"`
	Scale    float64        `json:"scale"`
	Color    string         `json:"color"`
	RGB      [3]float64     `json:"rgb"`
	Elapsed  float64        `json:"elapsed"`
	Cycle    int            `json:"cycle"`
	Seq      uint64         `json:"seq"`
	Event    anim.EventKind `json:"event"`
	Running  bool           `json:"running"`
	At       time.Time      `json:"at"`
}

func newStateResponse(s anim.State) StateResponse {
	return StateResponse{
		Symbol:   s.Symbol,
		Index:    s.Index,
		Phase:    s.Phase,
		Progress: s.Progress,
		Opacity:  s.Opacity,
		Scale:    s.Scale,
		Color:    s.Color.Clamped().Hex(),
		RGB:      [3]float64{s.Color.R, s.Color.G, s.Color.B},
		Elapsed:  s.Elapsed,
		Cycle:    s.Cycle,
		Seq:      s.Seq,
		Event:    s.Event,
		Running:  s.Running,
		At:       s.At,
	}
}

type SymbolsResponse struct {
	Symbols []anim.Symbol `json:"symbols"`
	Total   int           `json:"total"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Running   bool      `json:"running"`
	Timestamp time.Time `json:"timestamp"`
}
