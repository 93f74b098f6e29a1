package game

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/habitat/systems"
)

// ErrInconsistent is wrapped by every error Validate returns.
var ErrInconsistent = errors.New("inconsistent simulation state")

// Validate checks that the population, the spatial index and the ECS world
// agree: every live entity occupies exactly the cell the index records for it,
// no two entities share a cell, no dead entity survives a tick, and nothing
// else is stored. Call between ticks.
func (g *Game) Validate() error {
	if len(g.population) > g.grid.Len() {
		return fmt.Errorf("%w: population %d exceeds %d cells",
			ErrInconsistent, len(g.population), g.grid.Len())
	}

	seen := make(map[systems.Cell]ecs.Entity, len(g.population))

	for _, entity := range g.population {
		if !g.world.Alive(entity) {
			return fmt.Errorf("%w: entity %d listed but removed from world", ErrInconsistent, entity.ID())
		}

		pos, traits, vitals := g.entityMapper.Get(entity)
		if !vitals.Alive {
			return fmt.Errorf("%w: dead %s %d not reaped", ErrInconsistent, traits.Species, entity.ID())
		}

		c := systems.Cell{Col: pos.Col, Row: pos.Row}
		if c.Col < 0 || c.Col >= g.grid.Cols() || c.Row < 0 || c.Row >= g.grid.Rows() {
			return fmt.Errorf("%w: entity %d out of bounds at (%d,%d)", ErrInconsistent, entity.ID(), c.Col, c.Row)
		}
		if other, dup := seen[c]; dup {
			return fmt.Errorf("%w: entities %d and %d share (%d,%d)",
				ErrInconsistent, other.ID(), entity.ID(), c.Col, c.Row)
		}
		seen[c] = entity

		occ, ok := g.grid.Occupant(c.Col, c.Row)
		if !ok || occ != entity {
			return fmt.Errorf("%w: index cell (%d,%d) does not record entity %d",
				ErrInconsistent, c.Col, c.Row, entity.ID())
		}
	}

	if n := g.grid.Count(); n != len(g.population) {
		return fmt.Errorf("%w: index has %d occupied cells, population is %d",
			ErrInconsistent, n, len(g.population))
	}

	var stored int
	query := g.entityFilter.Query()
	for query.Next() {
		stored++
	}
	if stored != len(g.population) {
		return fmt.Errorf("%w: world stores %d entities, population is %d",
			ErrInconsistent, stored, len(g.population))
	}

	var counted int
	for _, n := range g.counts {
		counted += n
	}
	if counted != len(g.population) {
		return fmt.Errorf("%w: species counts sum to %d, population is %d",
			ErrInconsistent, counted, len(g.population))
	}

	return nil
}
