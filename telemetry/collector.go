package telemetry

import "github.com/pthm-cable/habitat/components"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	births      [components.NumSpecies]int
	deaths      [components.NumSpecies]int
	grazes      int
	kills       int
	starvations int
	injections  int

	// Ages at death, by species
	lifespans [components.NumSpecies][]float64
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int32(windowTicks)}
}

// RecordBirth records an entity born by reproduction.
func (c *Collector) RecordBirth(s components.Species) {
	c.births[s]++
}

// RecordDeath records an entity removed by the reap phase.
func (c *Collector) RecordDeath(s components.Species) {
	c.deaths[s]++
}

// RecordLifespan records the age of a reaped entity.
func (c *Collector) RecordLifespan(s components.Species, ticks int32) {
	c.lifespans[s] = append(c.lifespans[s], float64(ticks))
}

// RecordFeed records a successful feed by the given eater.
func (c *Collector) RecordFeed(eater components.Species) {
	if eater == components.Carnivore {
		c.kills++
	} else {
		c.grazes++
	}
}

// RecordStarvation records an entity whose energy ran out while moving.
func (c *Collector) RecordStarvation() {
	c.starvations++
}

// RecordInjection records a vegetation spawn from resource injection.
func (c *Collector) RecordInjection() {
	c.injections++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// counts and energies are indexed by species and sampled by the caller at window end.
func (c *Collector) Flush(
	currentTick int32,
	counts [components.NumSpecies]int,
	energies [components.NumSpecies][]float64,
) WindowStats {
	vegMean, _, _, _ := ComputeEnergyStats(energies[components.Vegetation])
	herbMean, herbP10, herbP50, herbP90 := ComputeEnergyStats(energies[components.Herbivore])
	carnMean, carnP10, carnP50, carnP90 := ComputeEnergyStats(energies[components.Carnivore])

	var total float64
	for _, es := range energies {
		for _, e := range es {
			total += e
		}
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Vegetation: counts[components.Vegetation],
		Herbivores: counts[components.Herbivore],
		Carnivores: counts[components.Carnivore],

		VegetationBirths: c.births[components.Vegetation],
		HerbivoreBirths:  c.births[components.Herbivore],
		CarnivoreBirths:  c.births[components.Carnivore],
		VegetationDeaths: c.deaths[components.Vegetation],
		HerbivoreDeaths:  c.deaths[components.Herbivore],
		CarnivoreDeaths:  c.deaths[components.Carnivore],
		Grazes:           c.grazes,
		Kills:            c.kills,
		Starvations:      c.starvations,
		Injections:       c.injections,

		VegetationEnergyMean: vegMean,
		HerbivoreEnergyMean:  herbMean,
		HerbivoreEnergyP10:   herbP10,
		HerbivoreEnergyP50:   herbP50,
		HerbivoreEnergyP90:   herbP90,
		CarnivoreEnergyMean:  carnMean,
		CarnivoreEnergyP10:   carnP10,
		CarnivoreEnergyP50:   carnP50,
		CarnivoreEnergyP90:   carnP90,

		TotalEnergy: total,

		HerbivoreLifespanMean: meanOrZero(c.lifespans[components.Herbivore]),
		CarnivoreLifespanMean: meanOrZero(c.lifespans[components.Carnivore]),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = [components.NumSpecies]int{}
	c.deaths = [components.NumSpecies]int{}
	c.grazes = 0
	c.kills = 0
	c.starvations = 0
	c.injections = 0
	for i := range c.lifespans {
		c.lifespans[i] = c.lifespans[i][:0]
	}

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int32 {
	return c.windowTicks
}
