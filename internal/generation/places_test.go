package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontier.dev/internal/models"
)

func placeAll(t *testing.T, s Settings, ground *models.FloorMap, seed uint64) *Places {
	t.Helper()
	placer := NewPlacer(s, ground, NewRNG(seed), silentLogger())
	places := &Places{}
	require.NoError(t, placer.PlaceTowns(context.Background(), places))
	require.NoError(t, placer.PlaceLocalities(context.Background(), places))
	return places
}

func TestPlaceTowns_Separation(t *testing.T) {
	s := testSettings()
	ground := prairie(s.WorldSize)
	places := placeAll(t, s, &ground, 1)

	require.Len(t, places.Towns, s.TownsCount)
	assert.Equal(t, s.TownSeparation, places.TownThreshold)
	assert.Greater(t, minDistanceBetweenTowns(places.Towns)*s.ReducedFactor, places.TownThreshold)

	center := s.ToReduced(s.WorldCenter())
	for i := 1; i < len(places.Towns); i++ {
		assert.LessOrEqual(t,
			angle(places.Towns[i-1].Center.Minus(center)),
			angle(places.Towns[i].Center.Minus(center)),
			"towns sorted by angle")
	}

	for _, town := range places.Towns {
		assert.True(t, canHavePlace(&ground, s.ToMap(town.Center), models.TownRadius))
		assert.Equal(t, models.DirectionToward(s.WorldCenter().Minus(s.ToMap(town.Center))), town.Facing)
		assert.Contains(t, stationSegment(town), town.Station())
	}
}

func TestPlaceLocalities_Types(t *testing.T) {
	s := testSettings()
	ground := prairie(s.WorldSize)
	places := placeAll(t, s, &ground, 2)

	require.Len(t, places.Localities, s.TownsCount*s.LocalitiesPerTown)
	assert.Greater(t, minDistanceAroundLocalities(places.Localities, places.Towns)*s.ReducedFactor, places.LocalityThreshold)

	counts := map[models.LocalityType]int{}
	for _, locality := range places.Localities {
		counts[locality.Type]++
	}
	assert.Equal(t, s.TownsCount, counts[models.LocalityVillage])
	assert.GreaterOrEqual(t, counts[models.LocalityCamp], 1)
	assert.LessOrEqual(t, counts[models.LocalityCamp], s.TownsCount)

	// villages are the farthest from towns
	for _, village := range places.Localities[:s.TownsCount] {
		for _, other := range places.Localities[s.TownsCount:] {
			assert.GreaterOrEqual(t, village.distance, other.distance)
		}
	}
}

func TestPlaceTowns_RelaxesImpossibleThreshold(t *testing.T) {
	s := testSettings()
	s.TownSeparation = 5000
	s.MaxPlacementRounds = 5
	ground := prairie(s.WorldSize)

	places := &Places{}
	require.NoError(t, NewPlacer(s, &ground, NewRNG(3), silentLogger()).PlaceTowns(context.Background(), places))

	assert.Less(t, places.TownThreshold, s.TownSeparation)
	assert.Greater(t, minDistanceBetweenTowns(places.Towns)*s.ReducedFactor, places.TownThreshold)
	assert.Greater(t, places.TownRounds, s.MaxPlacementRounds)
}

func TestPlaceTowns_NoPrairie(t *testing.T) {
	s := testSettings()
	s.MaxCandidateTries = 20
	ground := models.NewFloorMap(s.WorldSize, s.WorldSize, models.Cell{Biome: models.BiomeDesert})

	err := NewPlacer(s, &ground, NewRNG(4), silentLogger()).PlaceTowns(context.Background(), &Places{})

	assert.ErrorIs(t, err, ErrNoPlace)
}

func TestPlaceTowns_StallsAtFloor(t *testing.T) {
	s := testSettings()
	s.TownsCount = 2
	s.MaxPlacementRounds = 5
	s.MaxCandidateTries = 200000
	s.TownSeparation = townSpacing(s) + 10

	// a single prairie square only fits one town at a time
	ground := models.NewFloorMap(s.WorldSize, s.WorldSize, models.Cell{Biome: models.BiomeDesert})
	for y := 250; y < 350; y++ {
		for x := 250; x < 350; x++ {
			ground.At(Point{X: x, Y: y}).Biome = models.BiomePrairie
		}
	}

	err := NewPlacer(s, &ground, NewRNG(5), silentLogger()).PlaceTowns(context.Background(), &Places{})

	assert.ErrorIs(t, err, ErrNoPlace)
}

func TestPlaceTowns_ThresholdFloorKeepsFootprintsApart(t *testing.T) {
	s := testSettings()
	s.TownsCount = 4
	s.TownSeparation = 10
	ground := prairie(s.WorldSize)

	places := &Places{}
	require.NoError(t, NewPlacer(s, &ground, NewRNG(6), silentLogger()).PlaceTowns(context.Background(), places))

	assert.Equal(t, townSpacing(s), places.TownThreshold)
	assert.True(t, townsApart(s, places.Towns))
	for i := range places.Towns {
		for j := i + 1; j < len(places.Towns); j++ {
			a := models.BoundsAround(s.ToMap(places.Towns[i].Center), models.TownRadius)
			b := models.BoundsAround(s.ToMap(places.Towns[j].Center), models.TownRadius)
			assert.False(t, a.Overlaps(b), "towns %d and %d overlap", i, j)
		}
	}
}

func TestPlaceLocalities_ThresholdFloor(t *testing.T) {
	s := testSettings()
	s.LocalitySeparation = 10
	ground := prairie(s.WorldSize)

	places := &Places{}
	placer := NewPlacer(s, &ground, NewRNG(7), silentLogger())
	require.NoError(t, placer.PlaceTowns(context.Background(), places))
	require.NoError(t, placer.PlaceLocalities(context.Background(), places))

	assert.Equal(t, localitySpacing(s), places.LocalityThreshold)
	assert.True(t, localitiesApart(s, places.Localities, places.Towns))
}

func TestPlace_Cancelled(t *testing.T) {
	s := testSettings()
	ground := prairie(s.WorldSize)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	placer := NewPlacer(s, &ground, NewRNG(8), silentLogger())
	assert.ErrorIs(t, placer.PlaceTowns(ctx, &Places{}), context.Canceled)
	assert.ErrorIs(t, placer.PlaceLocalities(ctx, &Places{}), context.Canceled)
}

func TestRailAnchors_FaceTheCenter(t *testing.T) {
	town := models.BoundsAround(Point{X: 50, Y: 50}, 13)

	arrival, departure := railAnchors(town, models.North)
	assert.Equal(t, Point{X: 65, Y: 35}, arrival)
	assert.Equal(t, Point{X: 35, Y: 35}, departure)

	arrival, departure = railAnchors(town, models.East)
	assert.Equal(t, Point{X: 65, Y: 65}, arrival)
	assert.Equal(t, Point{X: 65, Y: 35}, departure)

	arrival, departure = railAnchors(town, models.South)
	assert.Equal(t, Point{X: 35, Y: 65}, arrival)
	assert.Equal(t, Point{X: 65, Y: 65}, departure)

	arrival, departure = railAnchors(town, models.West)
	assert.Equal(t, Point{X: 35, Y: 35}, arrival)
	assert.Equal(t, Point{X: 35, Y: 65}, departure)
}

func TestStationSegment_ExcludesAnchors(t *testing.T) {
	town := PlacedTown{Arrival: Point{X: 65, Y: 35}, Departure: Point{X: 35, Y: 35}}
	segment := stationSegment(town)

	require.Len(t, segment, 29)
	assert.Equal(t, Point{X: 64, Y: 35}, segment[0])
	assert.Equal(t, Point{X: 36, Y: 35}, segment[len(segment)-1])
	assert.Equal(t, Point{X: 50, Y: 35}, town.Station())
}
