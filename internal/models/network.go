package models

import (
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// TrainLength is the number of cars of every train
const TrainLength = 12

// TrainCarSpacing is the number of rail cells between two cars
const TrainCarSpacing = 3

// StationState is a stop on the rail loop
type StationState struct {
	Index    int // into NetworkState.Railway
	StopTime int // dwell time in seconds
}

// TrainState is a train running on the loop
type TrainState struct {
	RailwayIndex int
}

// NetworkState holds the rail loop and the road cells
type NetworkState struct {
	Railway  []Point
	Stations []StationState
	Trains   []TrainState
	Roads    mapset.Set[Point] `json:"-"`
}

// NewNetworkState creates an empty network
func NewNetworkState() NetworkState {
	return NetworkState{Roads: mapset.New[Point]()}
}

// NextPosition returns the loop index offset cells ahead of index
func (n *NetworkState) NextPosition(index, offset int) int {
	return (index + offset) % len(n.Railway)
}

// PrevPosition returns the loop index just behind index
func (n *NetworkState) PrevPosition(index int) int {
	return (index + len(n.Railway) - 1) % len(n.Railway)
}

// StationAt returns the station sitting on a loop index
func (n *NetworkState) StationAt(index int) (StationState, bool) {
	for _, s := range n.Stations {
		if s.Index == index {
			return s, true
		}
	}
	return StationState{}, false
}

// TrainCars returns the loop cells occupied by the cars of a train
func (n *NetworkState) TrainCars(train TrainState) []Point {
	cars := make([]Point, 0, TrainLength)
	for k := 0; k < TrainLength; k++ {
		cars = append(cars, n.Railway[n.NextPosition(train.RailwayIndex, k*TrainCarSpacing)])
	}
	return cars
}

// RoadList returns the road cells in a stable row-major order
func (n *NetworkState) RoadList() []Point {
	roads := make([]Point, 0, n.Roads.Size())
	n.Roads.Each(func(p Point) {
		roads = append(roads, p)
	})
	slices.SortFunc(roads, func(a, b Point) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return roads
}
