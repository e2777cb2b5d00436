package config

import "sort"

// Presets are named trace profiles for the run command.
var Presets = map[string]TraceConfig{
	// one full display cycle
	"single": {SampleDt: 0.1, Duration: 10.0},
	// every symbol once, back at the first
	"catalog": {SampleDt: 0.1, Duration: 60.0},
	// two cycles at 50 samples per second
	"fine": {SampleDt: 0.02, Duration: 20.0},
}

func GetPreset(name string) (TraceConfig, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
