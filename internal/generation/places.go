package generation

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"frontier.dev/internal/models"
)

// PlacedTown is a town candidate accepted by the placement stage. All
// points are reduced cells.
type PlacedTown struct {
	Center    Point
	Facing    models.Direction // toward the world center
	Arrival   Point            // rail anchor where trains come in
	Departure Point            // rail anchor where trains leave
}

// Station returns the reduced cell in the middle of the station segment
func (t PlacedTown) Station() Point {
	return Point{X: (t.Arrival.X + t.Departure.X) / 2, Y: (t.Arrival.Y + t.Departure.Y) / 2}
}

// PlacedLocality is an accepted locality candidate, in reduced cells
type PlacedLocality struct {
	Center   Point
	Type     models.LocalityType
	distance int
}

// Places is the output of settlement placement
type Places struct {
	Towns      []PlacedTown
	Localities []PlacedLocality

	// effective thresholds after relaxation, in map cells
	TownThreshold     int
	LocalityThreshold int
	TownRounds        int
	LocalityRounds    int
}

// reducedTownRadius and reducedLocalityRadius are footprint radii in reduced cells
func reducedTownRadius(s Settings) int     { return (models.TownDiameter / s.ReducedFactor) / 2 }
func reducedLocalityRadius(s Settings) int { return (models.LocalityDiameter / s.ReducedFactor) / 2 }

// townSpacing is the smallest center distance, in map cells, at which two
// towns and their rail rings cannot overlap
func townSpacing(s Settings) int {
	return 2*(models.TownRadius+RailSpacing*s.ReducedFactor) + s.ReducedFactor
}

// localitySpacing is the same bound between a locality and a town
func localitySpacing(s Settings) int {
	return models.TownRadius + RailSpacing*s.ReducedFactor + models.LocalityRadius + s.ReducedFactor
}

func townFootprint(s Settings, center Point) models.Bounds {
	return models.BoundsAround(center, reducedTownRadius(s))
}

func localityFootprint(s Settings, center Point) models.Bounds {
	return models.BoundsAround(center, reducedLocalityRadius(s))
}

// canHavePlace checks that a full square around a map cell is prairie
func canHavePlace(ground *models.FloorMap, center Point, radius int) bool {
	area := models.BoundsAround(center, radius)
	if !ground.InBounds(Point{X: area.MinX, Y: area.MinY}) || !ground.InBounds(Point{X: area.MaxX, Y: area.MaxY}) {
		return false
	}
	for y := area.MinY; y <= area.MaxY; y++ {
		for x := area.MinX; x <= area.MaxX; x++ {
			if ground.At(Point{X: x, Y: y}).Biome != models.BiomePrairie {
				return false
			}
		}
	}
	return true
}

// Placer runs the rejection sampling of towns and localities
type Placer struct {
	settings Settings
	ground   *models.FloorMap
	rng      *RNG
	logger   *log.Logger
}

// NewPlacer creates a placer over a classified ground floor
func NewPlacer(s Settings, ground *models.FloorMap, rng *RNG, logger *log.Logger) *Placer {
	return &Placer{settings: s, ground: ground, rng: rng, logger: logger}
}

func (pl *Placer) drawCandidate(radius int) (Point, bool) {
	s := pl.settings
	reduced := models.Bounds{MinX: 0, MinY: 0, MaxX: s.ReducedSize() - 1, MaxY: s.ReducedSize() - 1}
	for tries := 0; tries < s.MaxCandidateTries; tries++ {
		center := pl.rng.Position(reduced)
		if canHavePlace(pl.ground, s.ToMap(center), radius) {
			return center, true
		}
	}
	return Point{}, false
}

// PlaceTowns draws towns until their pairwise separation exceeds the
// threshold, relaxing it after MaxPlacementRounds unsuccessful rounds. The
// threshold never drops below townSpacing; stalling there is ErrNoPlace.
func (pl *Placer) PlaceTowns(ctx context.Context, places *Places) error {
	s := pl.settings
	radius := models.TownRadius + RailSpacing*s.ReducedFactor
	floor := townSpacing(s)
	threshold := max(s.TownSeparation, floor)
	towns := make([]PlacedTown, s.TownsCount)

	rounds, stalled := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("towns at round %d: %w", rounds, err)
		}
		for i := range towns {
			center, ok := pl.drawCandidate(radius)
			if !ok {
				return fmt.Errorf("town %d after %d tries: %w", i, s.MaxCandidateTries, ErrNoPlace)
			}
			towns[i] = PlacedTown{Center: center}
		}
		rounds++
		stalled++

		if minDistanceBetweenTowns(towns)*s.ReducedFactor > threshold && townsApart(s, towns) {
			break
		}
		if stalled >= s.MaxPlacementRounds {
			if threshold == floor {
				return fmt.Errorf("towns stalled after %d rounds at separation %d: %w", rounds, threshold, ErrNoPlace)
			}
			threshold = max(threshold*9/10, floor)
			stalled = 0
			pl.logger.Printf("[GEN] Relaxing town separation to %d after %d rounds", threshold, rounds)
		}
	}
	pl.logger.Printf("[GEN] Towns generated after %d rounds", rounds)

	worldCenter := s.WorldCenter()
	for i := range towns {
		towns[i].Facing = models.DirectionToward(worldCenter.Minus(s.ToMap(towns[i].Center)))
		towns[i].Arrival, towns[i].Departure = railAnchors(townFootprint(s, towns[i].Center), towns[i].Facing)
	}

	reducedCenter := s.ToReduced(worldCenter)
	sort.SliceStable(towns, func(i, j int) bool {
		return angle(towns[i].Center.Minus(reducedCenter)) < angle(towns[j].Center.Minus(reducedCenter))
	})

	places.Towns = towns
	places.TownThreshold = threshold
	places.TownRounds = rounds
	return nil
}

// railAnchors returns the arrival and departure cells of a town. Both lie
// on the side of the footprint facing the world center, RailSpacing cells
// out of its corners.
func railAnchors(town models.Bounds, facing models.Direction) (arrival, departure Point) {
	nw, ne, se, sw := town.Corners()
	at := func(corner Point, dx, dy int) Point {
		return corner.Add(RailSpacing*dx, RailSpacing*dy)
	}

	switch facing {
	case models.North:
		return at(ne, 1, -1), at(nw, -1, -1)
	case models.East:
		return at(se, 1, 1), at(ne, 1, -1)
	case models.South:
		return at(sw, -1, 1), at(se, 1, 1)
	default:
		return at(nw, -1, -1), at(sw, -1, 1)
	}
}

// PlaceLocalities draws localities away from each other and from towns,
// then tags villages and camps. Relaxation stops at localitySpacing.
func (pl *Placer) PlaceLocalities(ctx context.Context, places *Places) error {
	s := pl.settings
	floor := localitySpacing(s)
	threshold := max(s.LocalitySeparation, floor)
	localities := make([]PlacedLocality, s.TownsCount*s.LocalitiesPerTown)

	rounds, stalled := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("localities at round %d: %w", rounds, err)
		}
		for i := range localities {
			center, ok := pl.drawCandidate(models.LocalityRadius)
			if !ok {
				return fmt.Errorf("locality %d after %d tries: %w", i, s.MaxCandidateTries, ErrNoPlace)
			}
			localities[i] = PlacedLocality{Center: center}
		}
		rounds++
		stalled++

		if minDistanceAroundLocalities(localities, places.Towns)*s.ReducedFactor > threshold && localitiesApart(s, localities, places.Towns) {
			break
		}
		if stalled >= s.MaxPlacementRounds {
			if threshold == floor {
				return fmt.Errorf("localities stalled after %d rounds at separation %d: %w", rounds, threshold, ErrNoPlace)
			}
			threshold = max(threshold*9/10, floor)
			stalled = 0
			pl.logger.Printf("[GEN] Relaxing locality separation to %d after %d rounds", threshold, rounds)
		}
	}
	pl.logger.Printf("[GEN] Localities generated after %d rounds", rounds)

	// villages are the farthest from any town
	for i := range localities {
		localities[i].distance = math.MaxInt
		for _, town := range places.Towns {
			localities[i].distance = min(localities[i].distance, models.Manhattan(localities[i].Center, town.Center))
		}
	}
	sort.SliceStable(localities, func(i, j int) bool {
		return localities[i].distance > localities[j].distance
	})
	for i := 0; i < s.TownsCount && i < len(localities); i++ {
		localities[i].Type = models.LocalityVillage
	}

	// camps are the nearest to each town
	for _, town := range places.Towns {
		best := -1
		for i := range localities {
			if localities[i].Type == models.LocalityVillage {
				continue
			}
			if best == -1 || models.Manhattan(town.Center, localities[i].Center) < models.Manhattan(town.Center, localities[best].Center) {
				best = i
			}
		}
		if best != -1 {
			localities[best].Type = models.LocalityCamp
		}
	}

	places.Localities = localities
	places.LocalityThreshold = threshold
	places.LocalityRounds = rounds
	return nil
}

func minDistanceBetweenTowns(towns []PlacedTown) int {
	best := math.MaxInt
	for i := range towns {
		for j := i + 1; j < len(towns); j++ {
			best = min(best, models.Manhattan(towns[i].Center, towns[j].Center))
		}
	}
	return best
}

func minDistanceAroundLocalities(localities []PlacedLocality, towns []PlacedTown) int {
	best := math.MaxInt
	for i := range localities {
		for j := i + 1; j < len(localities); j++ {
			best = min(best, models.Manhattan(localities[i].Center, localities[j].Center))
		}
		for _, town := range towns {
			best = min(best, models.Manhattan(localities[i].Center, town.Center))
		}
	}
	return best
}

// townsApart reports whether no two town footprints overlap
func townsApart(s Settings, towns []PlacedTown) bool {
	for i := range towns {
		for j := i + 1; j < len(towns); j++ {
			if models.Chebyshev(towns[i].Center, towns[j].Center)*s.ReducedFactor <= townSpacing(s) {
				return false
			}
		}
	}
	return true
}

func localitiesApart(s Settings, localities []PlacedLocality, towns []PlacedTown) bool {
	for i := range localities {
		for j := i + 1; j < len(localities); j++ {
			if models.Chebyshev(localities[i].Center, localities[j].Center)*s.ReducedFactor <= models.LocalityDiameter+s.ReducedFactor {
				return false
			}
		}
		for _, town := range towns {
			if models.Chebyshev(localities[i].Center, town.Center)*s.ReducedFactor <= localitySpacing(s) {
				return false
			}
		}
	}
	return true
}

func angle(v Point) float64 {
	return math.Atan2(float64(v.Y), float64(v.X))
}
