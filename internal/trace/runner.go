package trace

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/symcycle/internal/anim"
	"github.com/san-kum/symcycle/internal/clock"
	"github.com/san-kum/symcycle/internal/logging"
)

// origin is the manual clock's start; sample and event times are relative to it.
var origin = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Runner drives an engine on a manual clock and records what it publishes.
type Runner struct {
	metrics []Metric
	log     *slog.Logger
}

func New(log *slog.Logger) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{log: log}
}

func (r *Runner) AddMetric(m Metric) { r.metrics = append(r.metrics, m) }

// Run samples the engine every cfg.SampleDt seconds for cfg.Duration seconds.
// The same seed always yields the same result.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	// Never sample past Duration; the epsilon absorbs float error in exact multiples.
	steps := int(math.Floor(cfg.Duration/cfg.SampleDt + 1e-9))
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Events:  make([]Event, 0),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	clk := clock.NewManual(origin)
	eng := anim.New(
		anim.WithClock(clk),
		anim.WithRand(rand.New(rand.NewSource(cfg.Seed))),
		anim.WithLogger(r.log),
		anim.WithObserver(anim.ObserverFunc(func(s anim.State) {
			if s.Event == anim.EventTick {
				return
			}
			result.Events = append(result.Events, eventFrom(s))
		})),
	)
	eng.Start()
	r.record(result, eng.Snapshot())

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			eng.Stop()
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		clk.Set(origin.Add(seconds(float64(i) * cfg.SampleDt)))
		r.record(result, eng.Snapshot())
		result.StepsTaken++
	}

	eng.Stop()
	r.finish(result)

	r.log.Debug("trace finished", "samples", len(result.Samples), "events", len(result.Events))
	return result, nil
}

func (r *Runner) record(result *Result, s anim.State) {
	sample := sampleFrom(s)
	for _, m := range r.metrics {
		m.Observe(sample)
	}
	result.Samples = append(result.Samples, sample)
}

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	var fadeIns, colors, phases int
	for _, ev := range result.Events {
		switch ev.Kind {
		case anim.EventColor:
			colors++
		case anim.EventPhase:
			phases++
		}
		if (ev.Kind == anim.EventStart || ev.Kind == anim.EventPhase) && ev.Phase == anim.FadeIn {
			fadeIns++
		}
	}
	result.Metrics["fade_in_entries"] = float64(fadeIns)
	result.Metrics["color_changes"] = float64(colors)
	result.Metrics["phase_changes"] = float64(phases)
}

func validateConfig(cfg Config) error {
	if cfg.SampleDt <= 0 {
		return fmt.Errorf("%w: sample dt must be positive, got %f", ErrInvalidConfig, cfg.SampleDt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.SampleDt > cfg.Duration {
		return fmt.Errorf("%w: sample dt %f exceeds duration %f", ErrInvalidConfig, cfg.SampleDt, cfg.Duration)
	}
	return nil
}

func sampleFrom(s anim.State) Sample {
	return Sample{
		Time:     s.At.Sub(origin).Seconds(),
		Index:    s.Index,
		Symbol:   s.SymbolName(),
		Phase:    s.Phase,
		Progress: s.Progress,
		Opacity:  s.Opacity,
		Scale:    s.Scale,
		R:        s.Color.R,
		G:        s.Color.G,
		B:        s.Color.B,
		Elapsed:  s.Elapsed,
	}
}

func eventFrom(s anim.State) Event {
	return Event{
		Time:   s.At.Sub(origin).Seconds(),
		Kind:   s.Event,
		Phase:  s.Phase,
		Index:  s.Index,
		Symbol: s.SymbolName(),
		Cycle:  s.Cycle,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
