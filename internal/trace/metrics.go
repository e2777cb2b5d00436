package trace

import (
	"strings"

	"github.com/san-kum/symcycle/internal/anim"
)

type MeanOpacity struct {
	sum   float64
	count int
}

func NewMeanOpacity() *MeanOpacity { return &MeanOpacity{} }

func (m *MeanOpacity) Name() string { return "mean_opacity" }

func (m *MeanOpacity) Observe(s Sample) {
	m.sum += s.Opacity
	m.count++
}

func (m *MeanOpacity) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

func (m *MeanOpacity) Reset() { m.sum, m.count = 0, 0 }

type MeanScale struct {
	sum   float64
	count int
}

func NewMeanScale() *MeanScale { return &MeanScale{} }

func (m *MeanScale) Name() string { return "mean_scale" }

func (m *MeanScale) Observe(s Sample) {
	m.sum += s.Scale
	m.count++
}

func (m *MeanScale) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

func (m *MeanScale) Reset() { m.sum, m.count = 0, 0 }

// PhaseShare is the fraction of samples spent in one phase.
type PhaseShare struct {
	phase anim.Phase
	hits  int
	count int
}

func NewPhaseShare(p anim.Phase) *PhaseShare { return &PhaseShare{phase: p} }

func (m *PhaseShare) Name() string {
	return "share_" + strings.ReplaceAll(strings.ToLower(m.phase.String()), " ", "_")
}

func (m *PhaseShare) Observe(s Sample) {
	if s.Phase == m.phase {
		m.hits++
	}
	m.count++
}

func (m *PhaseShare) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return float64(m.hits) / float64(m.count)
}

func (m *PhaseShare) Reset() { m.hits, m.count = 0, 0 }

// DefaultMetrics returns one of each built-in metric.
func DefaultMetrics() []Metric {
	ms := []Metric{NewMeanOpacity(), NewMeanScale()}
	for _, p := range anim.Phases {
		ms = append(ms, NewPhaseShare(p))
	}
	return ms
}
