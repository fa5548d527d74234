package models

// Biome is the coarse terrain class of a cell
type Biome uint8

const (
	BiomeNone Biome = iota
	BiomePrairie
	BiomeDesert
	BiomeForest
	BiomeMountain
	BiomeWater
	BiomeUnderground
	BiomeBuilding
)

func (b Biome) String() string {
	switch b {
	case BiomePrairie:
		return "prairie"
	case BiomeDesert:
		return "desert"
	case BiomeForest:
		return "forest"
	case BiomeMountain:
		return "mountain"
	case BiomeWater:
		return "water"
	case BiomeUnderground:
		return "underground"
	case BiomeBuilding:
		return "building"
	}
	return "none"
}

// Decoration is the fine-grained feature sitting on a cell
type Decoration uint8

const (
	DecorationNone Decoration = iota
	DecorationFloorDown
	DecorationFloorUp
	DecorationHerb
	DecorationCactus
	DecorationTree
	DecorationCliff
	DecorationWall
	DecorationRock
)

// Walkable reports whether an actor may stand on the decoration
func (d Decoration) Walkable() bool {
	switch d {
	case DecorationNone, DecorationFloorDown, DecorationFloorUp, DecorationHerb:
		return true
	}
	return false
}

// Transparent reports whether the decoration lets sight through
func (d Decoration) Transparent() bool {
	switch d {
	case DecorationCliff, DecorationWall, DecorationRock:
		return false
	}
	return true
}

func (d Decoration) String() string {
	switch d {
	case DecorationFloorDown:
		return "floor_down"
	case DecorationFloorUp:
		return "floor_up"
	case DecorationHerb:
		return "herb"
	case DecorationCactus:
		return "cactus"
	case DecorationTree:
		return "tree"
	case DecorationCliff:
		return "cliff"
	case DecorationWall:
		return "wall"
	case DecorationRock:
		return "rock"
	}
	return "none"
}

// CellFlags are runtime-only view flags
type CellFlags uint8

const (
	CellVisible CellFlags = 1 << iota
	CellExplored
)

// Cell is one entry of a floor map
type Cell struct {
	Biome      Biome
	Decoration Decoration
	Flags      CellFlags
}

// Floor identifies one of the two vertical layers
type Floor uint8

const (
	FloorGround Floor = iota
	FloorUnderground
)

// Other returns the floor reached through stairs
func (f Floor) Other() Floor {
	if f == FloorGround {
		return FloorUnderground
	}
	return FloorGround
}

func (f Floor) String() string {
	if f == FloorUnderground {
		return "underground"
	}
	return "ground"
}

// FloorMap is a dense row-major grid of cells
type FloorMap struct {
	Width, Height int
	Cells         []Cell
}

// NewFloorMap creates a floor map filled with a default cell
func NewFloorMap(width, height int, fill Cell) FloorMap {
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = fill
	}
	return FloorMap{Width: width, Height: height, Cells: cells}
}

// InBounds checks if a point is within the map
func (m *FloorMap) InBounds(p Point) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// At returns the cell at a position, p must be in bounds
func (m *FloorMap) At(p Point) *Cell {
	return &m.Cells[p.Y*m.Width+p.X]
}

// Get returns a copy of the cell at a position, or the zero cell out of bounds
func (m *FloorMap) Get(p Point) Cell {
	if !m.InBounds(p) {
		return Cell{}
	}
	return m.Cells[p.Y*m.Width+p.X]
}

// SetDecoration changes the decoration of an in-bounds cell
func (m *FloorMap) SetDecoration(p Point, d Decoration) {
	if m.InBounds(p) {
		m.At(p).Decoration = d
	}
}

// Bounds returns the full extent of the map
func (m *FloorMap) Bounds() Bounds {
	return Bounds{0, 0, m.Width - 1, m.Height - 1}
}

// ClearFlags resets the given flags on every cell
func (m *FloorMap) ClearFlags(flags CellFlags) {
	for i := range m.Cells {
		m.Cells[i].Flags &^= flags
	}
}

// MapState holds both floors of the world
type MapState struct {
	Ground      FloorMap
	Underground FloorMap
}

// FromFloor returns the floor map for a floor
func (m *MapState) FromFloor(f Floor) *FloorMap {
	if f == FloorUnderground {
		return &m.Underground
	}
	return &m.Ground
}
