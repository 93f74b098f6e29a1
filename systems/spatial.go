// Package systems provides the spatial structures the simulation runs on.
package systems

import "github.com/mlange-42/ark/ecs"

// Cell is a grid coordinate.
type Cell struct {
	Col, Row int
}

// noEntity marks an empty cell. The zero Entity is reserved by ark and never
// handed out for a live entity.
var noEntity ecs.Entity

// neighborOffsets lists the Moore neighborhood clockwise from north.
// The order is the tie-break priority for food and free-space scans.
var neighborOffsets = [8]Cell{
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
}

// SpatialIndex maps each cell of a toroidal grid to at most one entity.
// Occupancy tests are O(1) via a dense row-major array.
type SpatialIndex struct {
	cols  int
	rows  int
	cells []ecs.Entity
	count int
}

// NewSpatialIndex creates an empty index covering cols x rows cells.
func NewSpatialIndex(cols, rows int) *SpatialIndex {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &SpatialIndex{
		cols:  cols,
		rows:  rows,
		cells: make([]ecs.Entity, cols*rows),
	}
}

// Cols returns the grid width.
func (g *SpatialIndex) Cols() int { return g.cols }

// Rows returns the grid height.
func (g *SpatialIndex) Rows() int { return g.rows }

// Len returns the total number of cells.
func (g *SpatialIndex) Len() int { return len(g.cells) }

// Count returns the number of occupied cells.
func (g *SpatialIndex) Count() int { return g.count }

// Reset marks every cell empty.
func (g *SpatialIndex) Reset() {
	for i := range g.cells {
		g.cells[i] = noEntity
	}
	g.count = 0
}

// Wrap folds any coordinate onto the torus.
func (g *SpatialIndex) Wrap(col, row int) Cell {
	col %= g.cols
	if col < 0 {
		col += g.cols
	}
	row %= g.rows
	if row < 0 {
		row += g.rows
	}
	return Cell{Col: col, Row: row}
}

// Occupant returns the entity recorded at a cell. Coordinates must already be wrapped.
func (g *SpatialIndex) Occupant(col, row int) (ecs.Entity, bool) {
	e := g.cells[col+row*g.cols]
	return e, e != noEntity
}

// IsEmpty reports whether a cell holds no entity.
func (g *SpatialIndex) IsEmpty(col, row int) bool {
	return g.cells[col+row*g.cols] == noEntity
}

// Place records e at c, overwriting whatever was there.
// Callers must ensure the cell is empty; a previous occupant is silently lost.
func (g *SpatialIndex) Place(e ecs.Entity, c Cell) {
	idx := c.Col + c.Row*g.cols
	if g.cells[idx] == noEntity {
		g.count++
	}
	g.cells[idx] = e
}

// Clear marks a cell empty.
func (g *SpatialIndex) Clear(col, row int) {
	idx := col + row*g.cols
	if g.cells[idx] != noEntity {
		g.count--
	}
	g.cells[idx] = noEntity
}

// Neighbors8 returns the wrapped Moore neighborhood of a cell in the order
// N, NE, E, SE, S, SW, W, NW. On grids narrower than three cells a neighbor
// may repeat or be the cell itself.
func (g *SpatialIndex) Neighbors8(col, row int) [8]Cell {
	var out [8]Cell
	for i, off := range neighborOffsets {
		out[i] = g.Wrap(col+off.Col, row+off.Row)
	}
	return out
}

// EmptyNeighbors returns the empty cells of Neighbors8 in the same order.
func (g *SpatialIndex) EmptyNeighbors(col, row int) []Cell {
	return g.EmptyNeighborsInto(nil, col, row)
}

// EmptyNeighborsInto appends the empty cells of Neighbors8 to dst[:0] and returns it.
// Reuse dst across calls to avoid allocations.
func (g *SpatialIndex) EmptyNeighborsInto(dst []Cell, col, row int) []Cell {
	dst = dst[:0]
	for _, c := range g.Neighbors8(col, row) {
		if g.IsEmpty(c.Col, c.Row) {
			dst = append(dst, c)
		}
	}
	return dst
}
