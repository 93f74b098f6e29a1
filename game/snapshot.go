package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

// EntityView is a read-only copy of one live entity, for display and inspection.
type EntityView struct {
	ID      uint32
	Species components.Species
	Col     int
	Row     int
	Energy  int
}

// LogValue implements slog.LogValuer.
func (v EntityView) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("id", v.ID),
		slog.String("species", v.Species.String()),
		slog.Int("col", v.Col),
		slog.Int("row", v.Row),
		slog.Int("energy", v.Energy),
	)
}

// Snapshot copies every live entity in population order. Call between ticks.
func (g *Game) Snapshot() []EntityView {
	views := make([]EntityView, 0, len(g.population))
	for _, entity := range g.population {
		if v, ok := g.view(entity); ok {
			views = append(views, v)
		}
	}
	return views
}

// Inspect returns the occupant of a cell, if any. Coordinates are wrapped.
func (g *Game) Inspect(col, row int) (EntityView, bool) {
	c := g.grid.Wrap(col, row)
	entity, ok := g.grid.Occupant(c.Col, c.Row)
	if !ok {
		return EntityView{}, false
	}
	return g.view(entity)
}

func (g *Game) view(entity ecs.Entity) (EntityView, bool) {
	if !g.world.Alive(entity) {
		return EntityView{}, false
	}
	pos, traits, vitals := g.entityMapper.Get(entity)
	if !vitals.Alive {
		return EntityView{}, false
	}
	return EntityView{
		ID:      entity.ID(),
		Species: traits.Species,
		Col:     pos.Col,
		Row:     pos.Row,
		Energy:  vitals.Energy,
	}, true
}

// Lifetime returns the lifetime record of a live entity, or nil.
func (g *Game) Lifetime(id uint32) *telemetry.LifetimeStats {
	return g.lifetimeTracker.Get(id)
}

// LogPopulation writes every live entity to the log, one record each.
func (g *Game) LogPopulation() {
	for _, v := range g.Snapshot() {
		slog.Info("entity", "tick", g.tick, "entity", v)
	}
}
