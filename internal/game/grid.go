package game

import "fmt"

// GridSize is the width and height of every board.
const GridSize = 10

// Coord addresses a single cell. Valid coordinates are 0..GridSize-1 on both axes.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) Valid() bool {
	return c.X >= 0 && c.X < GridSize && c.Y >= 0 && c.Y < GridSize
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// index maps a valid coordinate to its slot in a flat grid.
func (c Coord) index() int { return c.Y*GridSize + c.X }

// Grid records the outcome of every shot received, one slot per cell.
// It is a value type, so copying a Grid copies the whole record.
type Grid [GridSize * GridSize]Outcome

// At returns the outcome recorded at c, or OutcomeNone if c was never shot
// or lies outside the grid.
func (g Grid) At(c Coord) Outcome {
	if !c.Valid() {
		return OutcomeNone
	}
	return g[c.index()]
}

func (g *Grid) set(c Coord, o Outcome) { g[c.index()] = o }

// Each calls fn for every shot cell in row-major order.
func (g Grid) Each(fn func(Coord, Outcome)) {
	for i, o := range g {
		if o != OutcomeNone {
			fn(Coord{X: i % GridSize, Y: i / GridSize}, o)
		}
	}
}
