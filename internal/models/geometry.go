package models

// Point represents a 2D cell coordinate, y grows downward
type Point struct {
	X, Y int
}

// Add returns a new point offset by dx, dy
func (p Point) Add(dx, dy int) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Plus returns the component-wise sum of two points
func (p Point) Plus(o Point) Point {
	return Point{p.X + o.X, p.Y + o.Y}
}

// Minus returns the component-wise difference of two points
func (p Point) Minus(o Point) Point {
	return Point{p.X - o.X, p.Y - o.Y}
}

// Scale multiplies both coordinates by k
func (p Point) Scale(k int) Point {
	return Point{p.X * k, p.Y * k}
}

// Sign returns the sign of each coordinate
func (p Point) Sign() Point {
	return Point{sign(p.X), sign(p.Y)}
}

// Adjacent returns the 4 cardinal neighbors
func (p Point) Adjacent() []Point {
	return []Point{
		{p.X, p.Y - 1}, // N
		{p.X + 1, p.Y}, // E
		{p.X, p.Y + 1}, // S
		{p.X - 1, p.Y}, // W
	}
}

// Neighbors8 returns the 8 surrounding cells
func (p Point) Neighbors8() []Point {
	out := make([]Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out = append(out, Point{p.X + dx, p.Y + dy})
		}
	}
	return out
}

// Manhattan returns the L1 distance between two points
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Chebyshev returns the L-infinity distance between two points
func Chebyshev(a, b Point) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

// SquareDistance returns the squared euclidean distance
func SquareDistance(a, b Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// Direction represents cardinal directions
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the x,y offset for moving in this direction
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "unknown"
}

// DirectionToward returns the dominant cardinal direction of a vector
func DirectionToward(v Point) Direction {
	if abs(v.X) > abs(v.Y) {
		if v.X > 0 {
			return East
		}
		return West
	}
	if v.Y > 0 {
		return South
	}
	return North
}

// Bounds represents a rectangular region, both corners inclusive
type Bounds struct {
	MinX, MinY, MaxX, MaxY int
}

// BoundsAround returns the square of the given radius centered on p
func BoundsAround(p Point, radius int) Bounds {
	return Bounds{p.X - radius, p.Y - radius, p.X + radius, p.Y + radius}
}

// Width returns the width of the bounds
func (b Bounds) Width() int {
	return b.MaxX - b.MinX + 1
}

// Height returns the height of the bounds
func (b Bounds) Height() int {
	return b.MaxY - b.MinY + 1
}

// Contains checks if a point is within bounds
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Overlaps checks if two bounds intersect
func (b Bounds) Overlaps(other Bounds) bool {
	return b.MinX <= other.MaxX && b.MaxX >= other.MinX &&
		b.MinY <= other.MaxY && b.MaxY >= other.MinY
}

// Expand returns bounds grown by n tiles in each direction
func (b Bounds) Expand(n int) Bounds {
	return Bounds{b.MinX - n, b.MinY - n, b.MaxX + n, b.MaxY + n}
}

// Center returns the center point of the bounds
func (b Bounds) Center() Point {
	return Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

// Corners returns the NW, NE, SE and SW corners
func (b Bounds) Corners() (nw, ne, se, sw Point) {
	return Point{b.MinX, b.MinY}, Point{b.MaxX, b.MinY}, Point{b.MaxX, b.MaxY}, Point{b.MinX, b.MaxY}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
