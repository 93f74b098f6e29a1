// Package components defines ECS components for the simulation.
package components

// Position is an entity's grid cell. Always within the world bounds.
type Position struct {
	Col, Row int
}

// Traits holds per-entity constants copied from the species table at creation
// and inherited unchanged by offspring.
type Traits struct {
	Species        Species
	ReproThreshold int // Energy at which the entity may reproduce
	MoveRate       int // Movement attempts per tick (0 = stationary)
}

// Vitals holds the mutable state of a living entity.
type Vitals struct {
	Energy int
	Alive  bool // False once eaten or starved; reaped at the end of the tick
}
