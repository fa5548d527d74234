package models

// ReverseCell maps a cell back to its occupants
type ReverseCell struct {
	Actor Index
	Train Index
}

// Empty reports whether nothing stands on the cell
func (c ReverseCell) Empty() bool {
	return !c.Actor.Valid() && !c.Train.Valid()
}

// ReverseGrid is the per-floor cell -> occupant lookup. It is runtime
// state rebuilt from the actor list and trains, never persisted.
type ReverseGrid struct {
	Width, Height int
	Cells         []ReverseCell
}

// NewReverseGrid creates an empty reverse grid
func NewReverseGrid(width, height int) ReverseGrid {
	cells := make([]ReverseCell, width*height)
	for i := range cells {
		cells[i] = ReverseCell{Actor: NoIndex, Train: NoIndex}
	}
	return ReverseGrid{Width: width, Height: height, Cells: cells}
}

// InBounds checks if a point is within the grid
func (g *ReverseGrid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// At returns the cell at a position, p must be in bounds
func (g *ReverseGrid) At(p Point) *ReverseCell {
	return &g.Cells[p.Y*g.Width+p.X]
}

// Get returns a copy of the cell, an empty cell when out of bounds
func (g *ReverseGrid) Get(p Point) ReverseCell {
	if !g.InBounds(p) {
		return ReverseCell{Actor: NoIndex, Train: NoIndex}
	}
	return g.Cells[p.Y*g.Width+p.X]
}
