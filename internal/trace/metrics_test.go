package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/symcycle/internal/anim"
)

func TestMetricNames(t *testing.T) {
	var names []string
	for _, m := range DefaultMetrics() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"mean_opacity", "mean_scale", "share_fade_in", "share_stable", "share_fade_out"}, names)
}

func TestMetricsObserveAndReset(t *testing.T) {
	op, share := NewMeanOpacity(), NewPhaseShare(anim.FadeOut)
	assert.Zero(t, op.Value())
	assert.Zero(t, share.Value())

	for _, s := range []Sample{
		{Phase: anim.FadeIn, Opacity: 0},
		{Phase: anim.Stable, Opacity: 1},
		{Phase: anim.FadeOut, Opacity: 0.5},
		{Phase: anim.FadeOut, Opacity: 0.5},
	} {
		op.Observe(s)
		share.Observe(s)
	}
	assert.InDelta(t, 0.5, op.Value(), 1e-12)
	assert.InDelta(t, 0.5, share.Value(), 1e-12)

	op.Reset()
	share.Reset()
	assert.Zero(t, op.Value())
	assert.Zero(t, share.Value())
}
