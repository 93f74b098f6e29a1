// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Species   SpeciesTable    `yaml:"species"`
	Resource  ResourceConfig  `yaml:"resource"`
	Run       RunConfig       `yaml:"run"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the grid dimensions in cells.
type WorldConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// SpeciesConfig holds the constants of one species.
type SpeciesConfig struct {
	Initial            int `yaml:"initial"`             // Random placement draws at start-up
	InitialEnergy      int `yaml:"initial_energy"`      // Exclusive upper bound of a fresh entity's energy
	ReproduceThreshold int `yaml:"reproduce_threshold"` // Energy at which the entity splits
	MoveRate           int `yaml:"move_rate"`           // Movement attempts per tick (0 = stationary)
}

// SpeciesTable holds per-species constants.
type SpeciesTable struct {
	Vegetation SpeciesConfig `yaml:"vegetation"`
	Herbivore  SpeciesConfig `yaml:"herbivore"`
	Carnivore  SpeciesConfig `yaml:"carnivore"`
}

// ResourceConfig holds exogenous energy injection parameters.
type ResourceConfig struct {
	InjectionCount int `yaml:"injection_count"` // Vegetation spawn attempts per tick
}

// RunConfig holds driver parameters. The engine never reads these.
type RunConfig struct {
	TickIntervalMS int `yaml:"tick_interval_ms"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	HerbivoreCrash  HerbivoreCrashConfig  `yaml:"herbivore_crash"`
	StableEcosystem StableEcosystemConfig `yaml:"stable_ecosystem"`
}

// HerbivoreCrashConfig holds herbivore crash detection parameters.
type HerbivoreCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinHerbivores int     `yaml:"min_herbivores"`
	MinCarnivores int     `yaml:"min_carnivores"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells        int           // World.Cols * World.Rows
	TickInterval time.Duration // Run.TickIntervalMS as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Default returns the embedded defaults. Panics if they fail to parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Validate reports every out-of-range value in the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Cols <= 0 || c.World.Rows <= 0 {
		errs = append(errs, fmt.Errorf("world must be at least 1x1, got %dx%d", c.World.Cols, c.World.Rows))
	}
	for name, sp := range map[string]SpeciesConfig{
		"vegetation": c.Species.Vegetation,
		"herbivore":  c.Species.Herbivore,
		"carnivore":  c.Species.Carnivore,
	} {
		if sp.Initial < 0 || sp.InitialEnergy < 0 || sp.ReproduceThreshold < 0 || sp.MoveRate < 0 {
			errs = append(errs, fmt.Errorf("species %s: values must be non-negative", name))
		}
	}
	if c.Resource.InjectionCount < 0 {
		errs = append(errs, errors.New("resource.injection_count must be non-negative"))
	}
	if c.Run.TickIntervalMS < 0 {
		errs = append(errs, errors.New("run.tick_interval_ms must be non-negative"))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Cells = c.World.Cols * c.World.Rows
	c.Derived.TickInterval = time.Duration(c.Run.TickIntervalMS) * time.Millisecond
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
