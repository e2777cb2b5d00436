package trace

import (
	"context"
	"testing"

	"github.com/san-kum/symcycle/internal/anim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSamplesWholeCycle(t *testing.T) {
	r := New(nil)
	for _, m := range DefaultMetrics() {
		r.AddMetric(m)
	}

	result, err := r.Run(context.Background(), Config{SampleDt: 0.5, Duration: 10.0, Seed: 1})
	require.NoError(t, err)

	require.Len(t, result.Samples, 21)
	assert.Equal(t, 20, result.StepsTaken)

	first := result.Samples[0]
	assert.Equal(t, 0.0, first.Time)
	assert.Equal(t, "person.fill", first.Symbol)
	assert.Equal(t, anim.FadeIn, first.Phase)
	assert.Equal(t, 0.0, first.Opacity)

	atTwo := result.Samples[4]
	assert.InDelta(t, 2.0, atTwo.Time, 1e-9)
	assert.Equal(t, anim.Stable, atTwo.Phase)

	last := result.Samples[20]
	assert.InDelta(t, 10.0, last.Time, 1e-9)
	assert.Equal(t, 1, last.Index)
	assert.Equal(t, anim.FadeIn, last.Phase)
	assert.Equal(t, 0.0, last.Elapsed)

	assert.Equal(t, 3.0, result.Metrics["color_changes"])
	assert.Equal(t, 2.0, result.Metrics["fade_in_entries"])
	assert.Equal(t, 3.0, result.Metrics["phase_changes"])
	assert.InDelta(t, 12.0/21.0, result.Metrics["share_stable"], 1e-9)
	assert.Contains(t, result.Metrics, "mean_opacity")
	assert.Contains(t, result.Metrics, "share_fade_in")
}

func TestRunStopsAtDuration(t *testing.T) {
	result, err := New(nil).Run(context.Background(), Config{SampleDt: 0.4, Duration: 1.0})
	require.NoError(t, err)

	require.Len(t, result.Samples, 3)
	assert.Equal(t, 2, result.StepsTaken)
	last := result.Samples[len(result.Samples)-1]
	assert.InDelta(t, 0.8, last.Time, 1e-9)
	for _, s := range result.Samples {
		assert.LessOrEqual(t, s.Time, 1.0)
	}
}

func TestRunRecordsStartAndStop(t *testing.T) {
	result, err := New(nil).Run(context.Background(), Config{SampleDt: 1, Duration: 3})
	require.NoError(t, err)

	require.NotEmpty(t, result.Events)
	assert.Equal(t, anim.EventStart, result.Events[0].Kind)
	assert.Equal(t, anim.EventStop, result.Events[len(result.Events)-1].Kind)
	for _, ev := range result.Events {
		assert.NotEqual(t, anim.EventTick, ev.Kind)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := Config{SampleDt: 0.25, Duration: 20, Seed: 42}

	a, err := New(nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	b, err := New(nil).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Samples, b.Samples)
	assert.Equal(t, a.Events, b.Events)

	cfg.Seed = 43
	c, err := New(nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Samples, c.Samples)
}

func TestRunWrapsCatalog(t *testing.T) {
	result, err := New(nil).Run(context.Background(), Config{SampleDt: 10, Duration: 60})
	require.NoError(t, err)

	var indices []int
	for _, s := range result.Samples {
		indices = append(indices, s.Index)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 0}, indices)
}

func TestRunInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{SampleDt: 0, Duration: 1.0}},
		{"negative dt", Config{SampleDt: -0.1, Duration: 1.0}},
		{"zero duration", Config{SampleDt: 0.1, Duration: 0}},
		{"dt beyond duration", Config{SampleDt: 2, Duration: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Run(context.Background(), tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(nil).Run(ctx, Config{SampleDt: 0.1, Duration: 10})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Len(t, result.Samples, 1)
	assert.Equal(t, 0, result.StepsTaken)
}
