package storage

import (
	"io"

	"github.com/san-kum/symcycle/internal/trace"
)

type ExportData struct {
	ID       string             `json:"id,omitempty"`
	Preset   string             `json:"preset"`
	Seed     int64              `json:"seed"`
	SampleDt float64            `json:"sample_dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Samples  []trace.Sample     `json:"samples"`
	Events   []trace.Event      `json:"events"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run and its recorded data as one indented document.
func ExportJSON(w io.Writer, meta *RunMetadata, result *trace.Result) error {
	data := ExportData{
		ID:       meta.ID,
		Preset:   meta.Preset,
		Seed:     meta.Seed,
		SampleDt: meta.SampleDt,
		Duration: meta.Duration,
		Steps:    len(result.Samples),
		Samples:  result.Samples,
		Events:   result.Events,
		Metrics:  result.Metrics,
	}
	if data.Samples == nil {
		data.Samples = []trace.Sample{}
	}
	if data.Events == nil {
		data.Events = []trace.Event{}
	}
	if data.Metrics == nil {
		data.Metrics = meta.Metrics
	}
	return encodeJSON(w, data)
}

// LoadResult reassembles the recorded data of a saved run.
func (s *Store) LoadResult(runID string) (*RunMetadata, *trace.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.LoadEvents(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &trace.Result{
		Samples:    samples,
		Events:     events,
		Metrics:    meta.Metrics,
		StepsTaken: max(len(samples)-1, 0),
	}, nil
}
