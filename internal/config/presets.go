package config

import (
	"sort"
	"time"

	"github.com/san-kum/sonicsecurum/internal/waveform"
)

// Presets tune how lively the waveforms feel.
var Presets = map[string]WaveformConfig{
	"default": {
		Interval: DefaultInterval, HeaderBars: DefaultHeaderBars, FooterBars: DefaultFooterBars, LiveBars: DefaultLiveBars,
		Params: waveform.DefaultParams(),
	},
	"calm": {
		Interval: 300 * time.Millisecond, HeaderBars: DefaultHeaderBars, FooterBars: DefaultFooterBars, LiveBars: DefaultLiveBars,
		Params: waveform.Params{
			Base: 10, Jitter: 20, Floor: 10, WaveAmplitude: 12, WaveOffset: 25,
			Frequency: 0.8, PhaseStep: 0.15, NoiseBase: 2, NoiseJitter: 5,
		},
	},
	"hyper": {
		Interval: 60 * time.Millisecond, HeaderBars: DefaultHeaderBars, FooterBars: DefaultFooterBars, LiveBars: DefaultLiveBars,
		Params: waveform.Params{
			Base: 10, Jitter: 50, Floor: 10, WaveAmplitude: 25, WaveOffset: 25,
			Frequency: 4, PhaseStep: 0.5, NoiseBase: 5, NoiseJitter: 25,
		},
	},
}

func GetPreset(name string) *WaveformConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
