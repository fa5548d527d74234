package generation

import (
	"fmt"
	"log"

	"frontier.dev/internal/models"
)

// DayTime is the length of a day in seconds
const DayTime = 24 * 60 * 60

// CostWithSlope returns the cost of stepping between two reduced cells,
// penalizing altitude changes
func CostWithSlope(raw *RawField, s Settings) CostFunc {
	return func(from, to Point) float64 {
		delta := raw.At(s.ToMap(from)).Altitude - raw.At(s.ToMap(to)).Altitude
		return 1.0 + SlopeFactor*delta*delta
	}
}

// BasicRouteGrid builds the reduced grid where a cell is walkable when few
// cliffs surround its map center
func BasicRouteGrid(ground *models.FloorMap, s Settings) *RouteGrid {
	size := s.ReducedSize()
	grid := NewRouteGrid(size, size)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			center := s.ToMap(Point{X: x, Y: y})
			cliffs := 0
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					n := center.Add(dx, dy)
					if ground.InBounds(n) && ground.At(n).Decoration == models.DecorationCliff {
						cliffs++
					}
				}
			}
			grid.SetWalkable(Point{X: x, Y: y}, cliffs <= CliffThreshold)
		}
	}
	return grid
}

// stationSegment returns the reduced cells strictly between the arrival
// and the departure of a town
func stationSegment(town PlacedTown) []Point {
	step := town.Departure.Minus(town.Arrival).Sign()
	segment := make([]Point, 0)
	for p := town.Arrival.Plus(step); p != town.Departure; p = p.Plus(step) {
		segment = append(segment, p)
	}
	return segment
}

// RailBuilder lays the railway loop through all the towns
type RailBuilder struct {
	settings Settings
	raw      *RawField
	ground   *models.FloorMap
	rng      *RNG
	logger   *log.Logger
}

// NewRailBuilder creates a rail builder over a carved ground floor
func NewRailBuilder(s Settings, raw *RawField, ground *models.FloorMap, rng *RNG, logger *log.Logger) *RailBuilder {
	return &RailBuilder{settings: s, raw: raw, ground: ground, rng: rng, logger: logger}
}

// BuildRails routes the closed reduced loop visiting every station in
// town order, possibly reversed
func (rb *RailBuilder) BuildRails(places *Places) ([]Point, error) {
	s := rb.settings
	grid := BasicRouteGrid(rb.ground, s)

	for _, town := range places.Towns {
		grid.Rect(townFootprint(s, town.Center), false)
		for _, p := range stationSegment(town) {
			grid.SetWalkable(p, false)
		}
	}
	for _, locality := range places.Localities {
		grid.Rect(localityFootprint(s, locality.Center).Expand(1), false)
	}

	cost := CostWithSlope(rb.raw, s)
	loop := make([]Point, 0)

	for i, town := range places.Towns {
		loop = append(loop, stationSegment(town)...)

		j := (i + 1) % len(places.Towns)
		path := grid.FindRoute(town.Departure, places.Towns[j].Arrival, cost, 1.0)
		if path == nil {
			return nil, fmt.Errorf("rail from town %d to town %d: %w", i, j, ErrNoRoute)
		}

		for _, p := range path {
			grid.SetWalkable(p, false)
			for _, n := range p.Neighbors8() {
				grid.SetWalkable(n, false)
			}
		}

		rb.logger.Printf("[GEN] Points between %d and %d: %d", i, j, len(path))
		loop = append(loop, path...)
	}

	if err := checkLoop(loop); err != nil {
		return nil, err
	}

	if rb.rng.Bernoulli(0.5) {
		for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
			loop[i], loop[j] = loop[j], loop[i]
		}
	}
	return loop, nil
}

// checkLoop verifies that consecutive cells of a closed loop are 4-adjacent
func checkLoop(loop []Point) error {
	if len(loop) < 4 {
		return fmt.Errorf("railway of %d cells: %w", len(loop), ErrInvariant)
	}
	for i := range loop {
		next := loop[(i+1)%len(loop)]
		if models.Manhattan(loop[i], next) != 1 {
			return fmt.Errorf("railway broken between %v and %v: %w", loop[i], next, ErrInvariant)
		}
	}
	return nil
}

// BuildStations expands the reduced loop into the map railway, computes
// station indices and stop times, then puts one train in each station
func (rb *RailBuilder) BuildStations(loop []Point, places *Places) (models.NetworkState, error) {
	s := rb.settings
	network := models.NewNetworkState()
	network.Railway = Interpolate(loop, s, true)

	travel := len(network.Railway) * TrainTime
	totalStop := max(DayTime-travel, 0)
	stopTime := totalStop / len(places.Towns)
	remaining := totalStop % len(places.Towns)
	rb.logger.Printf("[GEN] Train stop time: %d (%d)", stopTime, stopTime+remaining)

	for i, town := range places.Towns {
		station := town.Station()
		index := -1
		for k, p := range loop {
			if p == station {
				index = k * s.ReducedFactor
				break
			}
		}
		if index < 0 {
			return network, fmt.Errorf("station of town %d not on the railway: %w", i, ErrInvariant)
		}

		stop := stopTime
		if len(network.Stations) == 0 {
			stop += remaining
		}
		network.Stations = append(network.Stations, models.StationState{Index: index, StopTime: stop})
	}

	for _, station := range network.Stations {
		network.Trains = append(network.Trains, models.TrainState{RailwayIndex: station.Index})
	}

	for _, p := range network.Railway {
		for _, n := range p.Neighbors8() {
			rb.ground.SetDecoration(n, models.DecorationNone)
		}
	}

	rb.logger.Printf("[GEN] Railway length: %d", len(network.Railway))
	return network, nil
}

// BuildRoads routes the candidate roads of the settlement graph and stores
// their map cells in the network. Rails and settlements are costly but
// not forbidden.
func (rb *RailBuilder) BuildRoads(graph *Graph, network *models.NetworkState) {
	s := rb.settings
	grid := BasicRouteGrid(rb.ground, s)

	footprints := make([]models.Bounds, 0, len(graph.Nodes))
	for _, node := range graph.NodesOfType(NodeTown) {
		grid.BlockRect(node.Bounds)
		footprints = append(footprints, node.Bounds)
	}
	for _, node := range graph.NodesOfType(NodeLocality) {
		grid.BlockRect(node.Bounds.Expand(1))
		footprints = append(footprints, node.Bounds)
	}
	for _, p := range network.Railway {
		grid.SetBlocked(s.ToReduced(p))
	}

	slope := CostWithSlope(rb.raw, s)
	cost := func(from, to Point) float64 {
		d := slope(from, to)
		if grid.IsBlocked(to) {
			if grid.IsBlocked(from) {
				return DoubleRailBlockPenalty * d
			}
			return RailBlockPenalty * d
		}
		return d
	}

	routed := 0
	for _, edge := range graph.Edges {
		from, to := graph.Nodes[edge.From], graph.Nodes[edge.To]
		edge.Path = grid.FindRoute(from.Position, to.Position, cost, 1.0)
		if edge.Path == nil {
			rb.logger.Printf("[GEN] No road between %s and %s", edge.From, edge.To)
			continue
		}
		routed++

		for _, p := range Interpolate(edge.Path, s, false) {
			if insideAny(footprints, s.ToReduced(p)) {
				continue
			}
			network.Roads.Put(p)
		}
	}

	network.Roads.Each(func(p Point) {
		rb.ground.SetDecoration(p, models.DecorationNone)
	})

	if len(graph.Nodes) > 0 {
		if start := townID(0); !graph.IsConnected(start) {
			rb.logger.Printf("[GEN] Settlements without road: %v", graph.FindUnreachable(start))
		}
	}
	rb.logger.Printf("[GEN] Roads: %d routes, %d cells", routed, network.Roads.Size())
}

func insideAny(bounds []models.Bounds, p Point) bool {
	for _, b := range bounds {
		if b.Contains(p) {
			return true
		}
	}
	return false
}
