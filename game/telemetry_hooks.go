package game

import (
	"log/slog"

	"github.com/pthm-cable/habitat/components"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.counts, g.sampleEnergyDistributions())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// sampleEnergyDistributions collects live energy values per species.
func (g *Game) sampleEnergyDistributions() [components.NumSpecies][]float64 {
	var energies [components.NumSpecies][]float64

	query := g.entityFilter.Query()
	for query.Next() {
		_, traits, vitals := query.Get()
		if !vitals.Alive {
			continue
		}
		energies[traits.Species] = append(energies[traits.Species], float64(vitals.Energy))

		// Update lifetime peak energy
		g.lifetimeTracker.UpdateEnergy(query.Entity().ID(), vitals.Energy)
	}

	return energies
}
