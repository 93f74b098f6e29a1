// Package game runs the habitat simulation: the entity store, the spatial index
// and the per-tick pipeline over them.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/systems"
	"github.com/pthm-cable/habitat/telemetry"
)

// Options configures a Game beyond the simulation constants.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string

	// OnStats, if set, receives every flushed stats window.
	OnStats func(telemetry.WindowStats)
}

// Game is the simulation engine. It owns every entity (through the ECS world)
// and the spatial index, and advances both one tick at a time.
//
// Game holds no locks: Tick, Snapshot and the other accessors must not be
// called concurrently.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	entityMapper *ecs.Map3[components.Position, components.Traits, components.Vitals]
	entityFilter *ecs.Filter3[components.Position, components.Traits, components.Vitals]

	// Insertion-ordered live population; phases iterate in this order.
	population []ecs.Entity
	grid       *systems.SpatialIndex
	species    [components.NumSpecies]config.SpeciesConfig

	tick   int32
	counts [components.NumSpecies]int

	// Scratch buffers reused across phases
	emptyBuf []systems.Cell
	deadBuf  []ecs.Entity

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGame creates an empty world sized and tuned by cfg. Call Initialize to
// populate it.
func NewGame(cfg *config.Config, opts Options) *Game {
	world := ecs.NewWorld()

	g := &Game{
		cfg:          cfg,
		world:        world,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		entityMapper: ecs.NewMap3[components.Position, components.Traits, components.Vitals](world),
		entityFilter: ecs.NewFilter3[components.Position, components.Traits, components.Vitals](world),
		grid:         systems.NewSpatialIndex(cfg.World.Cols, cfg.World.Rows),
		emptyBuf:     make([]systems.Cell, 0, 8),

		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		logStats:         opts.LogStats,
		statsCallback:    opts.OnStats,
	}

	g.species[components.Vegetation] = cfg.Species.Vegetation
	g.species[components.Herbivore] = cfg.Species.Herbivore
	g.species[components.Carnivore] = cfg.Species.Carnivore

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "dir", opts.OutputDir, "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config snapshot", "error", err)
			}
		}
	}

	return g
}

// Tick advances the simulation by one step: feed, reproduce, move, reap, inject.
// Each phase runs over the whole population before the next begins.
func (g *Game) Tick() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseFeed)
	g.updateFeeding()

	g.perfCollector.StartPhase(telemetry.PhaseReproduce)
	g.updateReproduction()

	g.perfCollector.StartPhase(telemetry.PhaseMove)
	g.updateMovement()

	g.perfCollector.StartPhase(telemetry.PhaseReap)
	g.cleanupDead()

	g.perfCollector.StartPhase(telemetry.PhaseInject)
	g.injectResources()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// TickCount returns the number of completed ticks.
func (g *Game) TickCount() int32 {
	return g.tick
}

// Size returns the grid dimensions in cells.
func (g *Game) Size() (cols, rows int) {
	return g.grid.Cols(), g.grid.Rows()
}

// Population returns the number of live entities.
func (g *Game) Population() int {
	return len(g.population)
}

// Counts returns the live population of each species.
func (g *Game) Counts() (vegetation, herbivores, carnivores int) {
	return g.counts[components.Vegetation], g.counts[components.Herbivore], g.counts[components.Carnivore]
}

// Close flushes and closes any telemetry output.
func (g *Game) Close() error {
	return g.outputManager.Close()
}
