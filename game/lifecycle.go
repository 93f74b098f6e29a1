package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/systems"
)

// Initialize places the configured starting population at random cells.
// Each species gets as many draws as its initial count; a draw that lands on
// an occupied cell is skipped, so the actual population may fall short.
// Call once, before the first Tick.
func (g *Game) Initialize() {
	cols, rows := g.Size()
	for _, s := range components.AllSpecies {
		for i := 0; i < g.species[s].Initial; i++ {
			g.spawnRandom(s, g.rng.Intn(cols), g.rng.Intn(rows))
		}
	}

	veg, herb, carn := g.Counts()
	slog.Info("population initialized",
		"cols", cols,
		"rows", rows,
		"vegetation", veg,
		"herbivores", herb,
		"carnivores", carn,
	)
}

// Spawn creates an entity of the given species with the given energy at a cell,
// using the species' threshold and move rate. Coordinates are wrapped onto the
// grid. Returns false without side effects if the cell is occupied.
func (g *Game) Spawn(s components.Species, col, row, energy int) (ecs.Entity, bool) {
	c := g.grid.Wrap(col, row)
	if !g.grid.IsEmpty(c.Col, c.Row) {
		return ecs.Entity{}, false
	}
	return g.spawnEntity(g.traitsFor(s), c, energy), true
}

// spawnRandom spawns s at an in-bounds cell with a fresh random energy.
// The energy is only drawn when the cell is free.
func (g *Game) spawnRandom(s components.Species, col, row int) bool {
	if !g.grid.IsEmpty(col, row) {
		return false
	}
	g.spawnEntity(g.traitsFor(s), systems.Cell{Col: col, Row: row}, g.randomEnergy(s))
	return true
}

// spawnEntity registers a new live entity in the world, the population and the index.
// The cell must be empty. Component pointers obtained before this call may be invalidated.
func (g *Game) spawnEntity(traits components.Traits, c systems.Cell, energy int) ecs.Entity {
	pos := components.Position{Col: c.Col, Row: c.Row}
	vitals := components.Vitals{Energy: energy, Alive: true}

	entity := g.entityMapper.NewEntity(&pos, &traits, &vitals)
	g.population = append(g.population, entity)
	g.grid.Place(entity, c)
	g.counts[traits.Species]++
	g.lifetimeTracker.Register(entity.ID(), g.tick, traits.Species, energy)

	return entity
}

// traitsFor resolves the species table entry for s.
func (g *Game) traitsFor(s components.Species) components.Traits {
	sp := g.species[s]
	return components.Traits{
		Species:        s,
		ReproThreshold: sp.ReproduceThreshold,
		MoveRate:       sp.MoveRate,
	}
}

// randomEnergy draws a starting energy in [0, initial_energy).
func (g *Game) randomEnergy(s components.Species) int {
	bound := g.species[s].InitialEnergy
	if bound <= 0 {
		return 0
	}
	return g.rng.Intn(bound)
}

// cleanupDead removes every entity marked dead during this tick from the
// population, the index and the world. Population order is preserved.
func (g *Game) cleanupDead() {
	live := g.population[:0]
	dead := g.deadBuf[:0]

	for _, entity := range g.population {
		pos, traits, vitals := g.entityMapper.Get(entity)
		if vitals.Alive {
			live = append(live, entity)
			continue
		}

		// A prey's cell already belongs to the eater that moved into it
		if occ, ok := g.grid.Occupant(pos.Col, pos.Row); ok && occ == entity {
			g.grid.Clear(pos.Col, pos.Row)
		}

		g.counts[traits.Species]--
		g.collector.RecordDeath(traits.Species)
		if ls := g.lifetimeTracker.Remove(entity.ID()); ls != nil {
			g.collector.RecordLifespan(traits.Species, ls.Age(g.tick))
		}
		dead = append(dead, entity)
	}

	clear(g.population[len(live):])
	g.population = live

	// Structural changes only after iteration is complete
	for _, entity := range dead {
		g.world.RemoveEntity(entity)
	}
	g.deadBuf = dead[:0]
}

// injectResources tries to seed new vegetation at random cells, skipping
// occupied picks. This is the only energy entering the system from outside.
func (g *Game) injectResources() {
	cols, rows := g.Size()
	for i := 0; i < g.cfg.Resource.InjectionCount; i++ {
		if g.spawnRandom(components.Vegetation, g.rng.Intn(cols), g.rng.Intn(rows)) {
			g.collector.RecordInjection()
		}
	}
}
