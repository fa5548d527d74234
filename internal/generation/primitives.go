package generation

import (
	"container/heap"
	"math"

	"frontier.dev/internal/models"
)

type Point = models.Point

// ---- Routing grid ----

// RouteGrid is a reduced-resolution grid used to lay rails and roads.
// Walkable cells can be crossed, blocked cells cost a penalty.
type RouteGrid struct {
	Width, Height int
	walkable      []bool
	blocked       []bool
}

// NewRouteGrid creates a fully walkable grid
func NewRouteGrid(width, height int) *RouteGrid {
	walkable := make([]bool, width*height)
	for i := range walkable {
		walkable[i] = true
	}
	return &RouteGrid{Width: width, Height: height, walkable: walkable, blocked: make([]bool, width*height)}
}

// InBounds checks if a point is within the grid
func (g *RouteGrid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// SetWalkable sets the walkability of a cell, ignoring out of bounds cells
func (g *RouteGrid) SetWalkable(p Point, walkable bool) {
	if g.InBounds(p) {
		g.walkable[p.Y*g.Width+p.X] = walkable
	}
}

// IsWalkable checks if a position is walkable
func (g *RouteGrid) IsWalkable(p Point) bool {
	if g.InBounds(p) {
		return g.walkable[p.Y*g.Width+p.X]
	}
	return false
}

// SetBlocked flags a cell as costly to cross
func (g *RouteGrid) SetBlocked(p Point) {
	if g.InBounds(p) {
		g.blocked[p.Y*g.Width+p.X] = true
	}
}

// IsBlocked reports whether a cell is flagged as costly
func (g *RouteGrid) IsBlocked(p Point) bool {
	if g.InBounds(p) {
		return g.blocked[p.Y*g.Width+p.X]
	}
	return false
}

// Rect sets the walkability of a rectangular area
func (g *RouteGrid) Rect(b models.Bounds, walkable bool) {
	for y := b.MinY; y <= b.MaxY; y++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			g.SetWalkable(Point{X: x, Y: y}, walkable)
		}
	}
}

// BlockRect flags a rectangular area as costly
func (g *RouteGrid) BlockRect(b models.Bounds) {
	for y := b.MinY; y <= b.MaxY; y++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			g.SetBlocked(Point{X: x, Y: y})
		}
	}
}

// ---- A* Pathfinding ----

// CostFunc returns the cost of stepping between two adjacent cells
type CostFunc func(from, to Point) float64

// astarNode represents a node in the A* priority queue
type astarNode struct {
	cell   int
	fScore float64 // gScore + heuristic
	index  int
}

// priorityQueue implements heap.Interface for A*
type priorityQueue []*astarNode

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].fScore < pq[j].fScore }
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}
func (pq *priorityQueue) Push(x interface{}) {
	n := x.(*astarNode)
	n.index = len(*pq)
	*pq = append(*pq, n)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*pq = old[:len(old)-1]
	return n
}

// FindRoute uses A* over 4-neighbors to find the cheapest path between
// two points. The target is reachable even when it is not walkable.
// minStep must not exceed the cheapest possible step cost.
// Returns nil if no path found.
func (g *RouteGrid) FindRoute(from, to Point, cost CostFunc, minStep float64) []Point {
	if !g.InBounds(from) || !g.InBounds(to) {
		return nil
	}
	if from == to {
		return []Point{from}
	}

	size := g.Width * g.Height
	gScore := make([]float64, size)
	cameFrom := make([]int32, size)
	closed := make([]bool, size)
	for i := range gScore {
		gScore[i] = math.Inf(1)
		cameFrom[i] = -1
	}

	h := func(p Point) float64 {
		return minStep * float64(models.Manhattan(p, to))
	}
	cellOf := func(p Point) int { return p.Y*g.Width + p.X }
	pointOf := func(c int) Point { return Point{X: c % g.Width, Y: c / g.Width} }

	start, target := cellOf(from), cellOf(to)
	gScore[start] = 0

	openSet := &priorityQueue{}
	heap.Init(openSet)
	heap.Push(openSet, &astarNode{cell: start, fScore: h(from)})

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*astarNode)
		if closed[current.cell] {
			continue
		}
		closed[current.cell] = true

		if current.cell == target {
			// Reconstruct path
			path := []Point{}
			for c := target; c != -1; c = int(cameFrom[c]) {
				path = append(path, pointOf(c))
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		p := pointOf(current.cell)
		for _, neighbor := range p.Adjacent() {
			if !g.InBounds(neighbor) {
				continue
			}
			if !g.IsWalkable(neighbor) && neighbor != to {
				continue
			}
			n := cellOf(neighbor)
			if closed[n] {
				continue
			}

			tentativeG := gScore[current.cell] + cost(p, neighbor)
			if tentativeG < gScore[n] {
				gScore[n] = tentativeG
				cameFrom[n] = int32(current.cell)
				heap.Push(openSet, &astarNode{cell: n, fScore: tentativeG + h(neighbor)})
			}
		}
	}

	return nil // No path found
}

// ---- Rasterization ----

// Line returns the cells between two points using Bresenham's algorithm
func Line(from, to Point) []Point {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx := 1
	if from.X > to.X {
		sx = -1
	}
	sy := 1
	if from.Y > to.Y {
		sy = -1
	}
	err := dx + dy

	cells := make([]Point, 0, max(dx, -dy)+1)
	x, y := from.X, from.Y
	for {
		cells = append(cells, Point{X: x, Y: y})
		if x == to.X && y == to.Y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return cells
}

// Interpolate expands a 4-adjacent reduced path into 4-adjacent map
// cells, factor cells per reduced step
func Interpolate(path []Point, s Settings, closed bool) []Point {
	if len(path) == 0 {
		return nil
	}
	out := make([]Point, 0, len(path)*s.ReducedFactor)
	steps := len(path) - 1
	if closed {
		steps = len(path)
	}
	for i := 0; i < steps; i++ {
		a := s.ToMap(path[i])
		b := s.ToMap(path[(i+1)%len(path)])
		d := b.Minus(a).Sign()
		for k := 0; k < s.ReducedFactor; k++ {
			out = append(out, a.Plus(d.Scale(k)))
		}
	}
	if !closed {
		out = append(out, s.ToMap(path[len(path)-1]))
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ---- Seeded RNG ----

// RNG is a simple seeded random number generator (LCG with a mixed output)
type RNG struct {
	state uint64
}

// NewRNG creates a new RNG with the given seed
func NewRNG(seed uint64) *RNG {
	return &RNG{state: seed}
}

// Uint64 returns a pseudo-random uint64
func (r *RNG) Uint64() uint64 {
	// LCG parameters from Numerical Recipes
	r.state = r.state*6364136223846793005 + 1442695040888963407
	x := r.state
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	return x
}

// Float64 returns a pseudo-random float64 in [0, 1)
func (r *RNG) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// FloatRange returns a pseudo-random float64 in [min, max)
func (r *RNG) FloatRange(min, max float64) float64 {
	return min + (max-min)*r.Float64()
}

// Bernoulli returns true with probability p
func (r *RNG) Bernoulli(p float64) bool {
	return r.Float64() < p
}

// Intn returns a pseudo-random int in [0, n)
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// IntRange returns a pseudo-random int in [min, max]
func (r *RNG) IntRange(min, max int) int {
	if min >= max {
		return min
	}
	return min + r.Intn(max-min+1)
}

// Position returns a random point inside bounds
func (r *RNG) Position(b models.Bounds) Point {
	return Point{X: r.IntRange(b.MinX, b.MaxX), Y: r.IntRange(b.MinY, b.MaxY)}
}

// Choice returns a random element from a slice
func (r *RNG) Choice(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[r.Intn(len(items))]
}

// Shuffle randomly reorders any slice
func Shuffle[T any](r *RNG, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
