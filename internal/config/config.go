// Package config holds the tunable parameters of the chamber pipeline and loads
// them from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/ch4flux/internal/events"
	"github.com/chrissnell/ch4flux/internal/flux"
	"gopkg.in/yaml.v3"
)

// Preset names.
const (
	PresetAdaptive = "adaptive"
	PresetFixed    = "fixed"
)

// Detection strategies.
const (
	StrategyAdaptive = "adaptive"
	StrategyFixed    = "fixed"
)

// Event summary sources.
const (
	SourceFinal = "final"
	SourceRaw   = "raw"
)

// Config is the complete pipeline configuration.
type Config struct {
	Preset       string        `yaml:"preset"`
	Conditioning Conditioning  `yaml:"conditioning"`
	Detection    Detection     `yaml:"detection"`
	Baseline     Baseline      `yaml:"baseline"`
	Flux         Flux          `yaml:"flux"`
	Chamber      flux.Chamber  `yaml:"chamber"`
	Events       Events        `yaml:"events"`
	Report       Report        `yaml:"report"`
	Output       Output        `yaml:"output"`
	Workers      int           `yaml:"workers"`
	FileTimeout  time.Duration `yaml:"file_timeout"`
}

// Conditioning configures the band-pass and smoothing stage.
type Conditioning struct {
	Order         int     `yaml:"order"`
	LowCutHz      float64 `yaml:"low_cut_hz"`
	HighCutHz     float64 `yaml:"high_cut_hz"`
	WindowDivisor int     `yaml:"window_divisor"`
	DespikeKernel int     `yaml:"despike_kernel"`
}

// Detection selects and tunes the peak detector.
type Detection struct {
	Strategy        string  `yaml:"strategy"`
	FixedDistance   int     `yaml:"fixed_distance"`
	FixedProminence float64 `yaml:"fixed_prominence"`
}

// Baseline configures the step correction.
type Baseline struct {
	WindowDivisor  int   `yaml:"window_divisor"`
	ManualDivisors []int `yaml:"manual_divisors"`
	AutoDivisor    int   `yaml:"auto_divisor"`
	FillNeighbors  int   `yaml:"fill_neighbors"`
}

// Flux configures segment regression.
type Flux struct {
	Guard        int     `yaml:"guard"`
	MinRSquared  float64 `yaml:"min_r_squared"`
	PositiveOnly bool    `yaml:"positive_only"`
}

// Events configures the event summary.
type Events struct {
	Window int    `yaml:"window"`
	Source string `yaml:"source"`
}

// Report configures the emitted artifacts.
type Report struct {
	Precision int  `yaml:"precision"` // decimals in the processed table, -1 for shortest exact
	Plots     bool `yaml:"plots"`
}

// Output configures where artifacts go.
type Output struct {
	Dir string `yaml:"dir"`
}

// Default returns the adaptive preset.
func Default() Config {
	return Config{
		Preset: PresetAdaptive,
		Conditioning: Conditioning{
			Order:         4,
			LowCutHz:      0.01,
			HighCutHz:     0.15,
			WindowDivisor: 50,
		},
		Detection: Detection{
			Strategy:        StrategyAdaptive,
			FixedDistance:   30,
			FixedProminence: 0.5,
		},
		Baseline: Baseline{
			WindowDivisor:  50,
			ManualDivisors: []int{50, 25, 50, 100},
			AutoDivisor:    25,
			FillNeighbors:  5,
		},
		Flux: Flux{
			Guard:        10,
			MinRSquared:  0.7,
			PositiveOnly: true,
		},
		Chamber: flux.DefaultChamber,
		Events: Events{
			Window: events.DefaultWindow,
			Source: SourceFinal,
		},
		Report: Report{
			Precision: -1,
			Plots:     true,
		},
		Workers: 1,
	}
}

// Preset returns the named configuration preset.
func Preset(name string) (Config, error) {
	cfg := Default()
	switch name {
	case "", PresetAdaptive:
	case PresetFixed:
		cfg.Preset = PresetFixed
		cfg.Detection.Strategy = StrategyFixed
	default:
		return Config{}, fmt.Errorf("unknown preset %q (want %q or %q)", name, PresetAdaptive, PresetFixed)
	}
	return cfg, nil
}

// Load reads a YAML file and overlays it on the preset the file names (adaptive
// when it names none).
func Load(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse overlays YAML data on its preset.
func Parse(data []byte) (Config, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}

	cfg, err := Preset(head.Preset)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Conditioning.Order < 1:
		return fmt.Errorf("conditioning.order must be positive, got %d", c.Conditioning.Order)
	case c.Conditioning.LowCutHz <= 0 || c.Conditioning.HighCutHz <= c.Conditioning.LowCutHz:
		return fmt.Errorf("conditioning band %g-%g Hz is invalid", c.Conditioning.LowCutHz, c.Conditioning.HighCutHz)
	case c.Conditioning.WindowDivisor < 1:
		return fmt.Errorf("conditioning.window_divisor must be positive, got %d", c.Conditioning.WindowDivisor)
	case c.Conditioning.DespikeKernel != 0 && (c.Conditioning.DespikeKernel < 3 || c.Conditioning.DespikeKernel%2 == 0):
		return fmt.Errorf("conditioning.despike_kernel must be 0 or an odd number >= 3, got %d", c.Conditioning.DespikeKernel)
	case c.Detection.Strategy != StrategyAdaptive && c.Detection.Strategy != StrategyFixed:
		return fmt.Errorf("detection.strategy must be %q or %q, got %q", StrategyAdaptive, StrategyFixed, c.Detection.Strategy)
	case c.Baseline.WindowDivisor < 1 || c.Baseline.AutoDivisor < 1:
		return fmt.Errorf("baseline divisors must be positive")
	case c.Flux.Guard < 0:
		return fmt.Errorf("flux.guard must not be negative, got %d", c.Flux.Guard)
	case c.Flux.MinRSquared < 0 || c.Flux.MinRSquared >= 1:
		return fmt.Errorf("flux.min_r_squared must be in [0, 1), got %g", c.Flux.MinRSquared)
	case c.Chamber.VolumeM3 <= 0 || c.Chamber.AreaM2 <= 0:
		return fmt.Errorf("chamber volume and area must be positive")
	case c.Events.Window < 0:
		return fmt.Errorf("events.window must not be negative, got %d", c.Events.Window)
	case c.Events.Source != SourceFinal && c.Events.Source != SourceRaw:
		return fmt.Errorf("events.source must be %q or %q, got %q", SourceFinal, SourceRaw, c.Events.Source)
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.FileTimeout < 0:
		return fmt.Errorf("file_timeout must not be negative")
	}
	for _, d := range c.Baseline.ManualDivisors {
		if d < 1 {
			return fmt.Errorf("baseline.manual_divisors must be positive, got %d", d)
		}
	}
	return nil
}
