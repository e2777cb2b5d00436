package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/symcycle/internal/anim"
	"github.com/san-kum/symcycle/internal/trace"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	eventsFile   = "events.csv"
)

var (
	sampleHeader = []string{"time", "index", "symbol", "phase", "progress", "opacity", "scale", "r", "g", "b", "elapsed"}
	eventHeader  = []string{"time", "kind", "phase", "index", "symbol", "cycle"}
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	SampleDt  float64            `json:"sample_dt"`
	Duration  float64            `json:"duration"`
	Samples   int                `json:"samples"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory and returns its id.
func (s *Store) Save(preset string, cfg trace.Config, result *trace.Result) (string, error) {
	ts := s.now()
	if preset == "" {
		preset = "custom"
	}
	if err := s.Init(); err != nil {
		return "", err
	}
	runID, runDir, err := s.makeRunDir(fmt.Sprintf("%s_%d", preset, ts.UnixNano()))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: ts,
		Seed:      cfg.Seed,
		SampleDt:  cfg.SampleDt,
		Duration:  cfg.Duration,
		Samples:   len(result.Samples),
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, samplesFile), func(w *csv.Writer) error {
		return WriteSamplesCSV(w, result.Samples)
	}); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, eventsFile), func(w *csv.Writer) error {
		return WriteEventsCSV(w, result.Events)
	}); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.path(runID, metadataFile))
	if err != nil {
		return nil, s.wrap(runID, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]trace.Sample, error) {
	records, err := s.readCSV(runID, samplesFile)
	if err != nil {
		return nil, err
	}

	samples := make([]trace.Sample, 0, len(records))
	for _, rec := range records {
		if len(rec) < len(sampleHeader) {
			continue
		}
		phase, ok := anim.ParsePhase(rec[3])
		if !ok {
			continue
		}
		var f [8]float64
		cols := []int{0, 4, 5, 6, 7, 8, 9, 10}
		if !parseFloats(rec, cols, f[:]) {
			continue
		}
		index, err := strconv.Atoi(rec[1])
		if err != nil {
			continue
		}
		samples = append(samples, trace.Sample{
			Time:     f[0],
			Index:    index,
			Symbol:   rec[2],
			Phase:    phase,
			Progress: f[1],
			Opacity:  f[2],
			Scale:    f[3],
			R:        f[4],
			G:        f[5],
			B:        f[6],
			Elapsed:  f[7],
		})
	}
	return samples, nil
}

func (s *Store) LoadEvents(runID string) ([]trace.Event, error) {
	records, err := s.readCSV(runID, eventsFile)
	if err != nil {
		return nil, err
	}

	events := make([]trace.Event, 0, len(records))
	for _, rec := range records {
		if len(rec) < len(eventHeader) {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		kind, ok := anim.ParseEventKind(rec[1])
		if !ok {
			continue
		}
		phase, ok := anim.ParsePhase(rec[2])
		if !ok {
			continue
		}
		index, err := strconv.Atoi(rec[3])
		if err != nil {
			continue
		}
		cycle, err := strconv.Atoi(rec[5])
		if err != nil {
			continue
		}
		events = append(events, trace.Event{
			Time:   t,
			Kind:   kind,
			Phase:  phase,
			Index:  index,
			Symbol: rec[4],
			Cycle:  cycle,
		})
	}
	return events, nil
}

// WriteSamplesCSV writes a header and one row per sample.
func WriteSamplesCSV(w *csv.Writer, samples []trace.Sample) error {
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			formatFloat(smp.Time),
			strconv.Itoa(smp.Index),
			smp.Symbol,
			smp.Phase.String(),
			formatFloat(smp.Progress),
			formatFloat(smp.Opacity),
			formatFloat(smp.Scale),
			formatFloat(smp.R),
			formatFloat(smp.G),
			formatFloat(smp.B),
			formatFloat(smp.Elapsed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WriteEventsCSV(w *csv.Writer, events []trace.Event) error {
	if err := w.Write(eventHeader); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			formatFloat(ev.Time),
			ev.Kind.String(),
			ev.Phase.String(),
			strconv.Itoa(ev.Index),
			ev.Symbol,
			strconv.Itoa(ev.Cycle),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// makeRunDir creates a fresh directory for base, adding a numeric suffix if
// base is taken.
func (s *Store) makeRunDir(base string) (string, string, error) {
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func (s *Store) path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

func (s *Store) wrap(runID string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}

// readCSV returns every record after the header.
func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(s.path(runID, name))
	if err != nil {
		return nil, s.wrap(runID, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodeJSON(f, v)
}

func writeCSV(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fill(csv.NewWriter(f))
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func parseFloats(rec []string, cols []int, out []float64) bool {
	for i, c := range cols {
		v, err := strconv.ParseFloat(rec[c], 64)
		if err != nil {
			return false
		}
		out[i] = v
	}
	return true
}
