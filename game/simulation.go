package game

// updateFeeding runs the feed phase. Vegetation photosynthesizes one unit of
// energy. Animals scan their eight neighbours in fixed order and eat the first
// live prey found, taking its energy and its cell.
func (g *Game) updateFeeding() {
	for _, entity := range g.population {
		pos, traits, vitals := g.entityMapper.Get(entity)
		if !vitals.Alive {
			continue
		}

		prey, eats := traits.Species.Prey()
		if !eats {
			vitals.Energy++
			continue
		}

		for _, c := range g.grid.Neighbors8(pos.Col, pos.Row) {
			target, ok := g.grid.Occupant(c.Col, c.Row)
			if !ok || target == entity {
				continue
			}
			_, targetTraits, targetVitals := g.entityMapper.Get(target)
			if targetTraits.Species != prey || !targetVitals.Alive {
				continue
			}

			vitals.Energy += targetVitals.Energy
			targetVitals.Alive = false

			// Eater migrates into the prey's cell; the prey is reaped later
			g.grid.Clear(pos.Col, pos.Row)
			pos.Col, pos.Row = c.Col, c.Row
			g.grid.Place(entity, c)

			g.collector.RecordFeed(traits.Species)
			g.lifetimeTracker.RecordMeal(entity.ID(), vitals.Energy)
			break
		}
	}
}

// updateReproduction runs the reproduce phase over the entities present when
// it starts. A parent at or above its threshold with a free neighbour halves
// its energy and places a child with the halved amount in a random free neighbour.
func (g *Game) updateReproduction() {
	n := len(g.population)
	for i := 0; i < n; i++ {
		entity := g.population[i]
		pos, traits, vitals := g.entityMapper.Get(entity)
		if !vitals.Alive || vitals.Energy < traits.ReproThreshold {
			continue
		}

		g.emptyBuf = g.grid.EmptyNeighborsInto(g.emptyBuf, pos.Col, pos.Row)
		if len(g.emptyBuf) == 0 {
			continue
		}
		cell := g.emptyBuf[g.rng.Intn(len(g.emptyBuf))]

		vitals.Energy /= 2
		childTraits := *traits
		childEnergy := vitals.Energy

		// Pointers above are invalid past this point
		g.spawnEntity(childTraits, cell, childEnergy)
		g.collector.RecordBirth(childTraits.Species)
		g.lifetimeTracker.RecordChild(entity.ID())
	}
}

// updateMovement runs the move phase. Every step costs one unit of energy;
// an entity that reaches zero dies where it stands. Otherwise it steps to a
// random free neighbour, or stays put if there is none.
func (g *Game) updateMovement() {
	for _, entity := range g.population {
		pos, traits, vitals := g.entityMapper.Get(entity)
		if !vitals.Alive || traits.MoveRate <= 0 {
			continue
		}

		for step := 0; step < traits.MoveRate; step++ {
			vitals.Energy--
			if vitals.Energy <= 0 {
				vitals.Alive = false
				g.collector.RecordStarvation()
				break
			}

			g.emptyBuf = g.grid.EmptyNeighborsInto(g.emptyBuf, pos.Col, pos.Row)
			if len(g.emptyBuf) == 0 {
				continue
			}
			cell := g.emptyBuf[g.rng.Intn(len(g.emptyBuf))]

			g.grid.Clear(pos.Col, pos.Row)
			pos.Col, pos.Row = cell.Col, cell.Row
			g.grid.Place(entity, cell)
		}
	}
}
