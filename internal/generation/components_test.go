package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontier.dev/internal/models"
)

func TestPlans_Embedded(t *testing.T) {
	for _, building := range townBuildingPool {
		if !building.Standing() {
			continue
		}
		plan, ok := townPlans[building.String()]
		require.True(t, ok, "missing plan for %s", building)
		assert.Equal(t, models.TownBuildingSize, plan.Size)
	}
	for _, locality := range []models.LocalityType{models.LocalityFarm, models.LocalityCamp, models.LocalityVillage} {
		plan, ok := localityPlans[locality.String()]
		require.True(t, ok, "missing plan for %s", locality)
		assert.Equal(t, models.LocalityDiameter, plan.Size)
	}
}

func TestPlan_RotationMovesTheDoor(t *testing.T) {
	plan := townPlans[models.BuildingHouse3.String()]
	last := plan.Size - 1
	middle := plan.Size / 2

	assert.Equal(t, PartFloor, plan.Part(middle, last, models.South))
	assert.Equal(t, PartFloor, plan.Part(middle, 0, models.North))
	assert.Equal(t, PartFloor, plan.Part(last, middle, models.East))
	assert.Equal(t, PartFloor, plan.Part(0, middle, models.West))

	for _, facing := range []models.Direction{models.North, models.East, models.South, models.West} {
		assert.Equal(t, PartWall, plan.Part(0, 0, facing))
		assert.Equal(t, PartWall, plan.Part(last, last, facing))
	}
	assert.Equal(t, PartWall, plan.Part(middle, last, models.North))
}

func TestLayoutTown_StreetsAndFacing(t *testing.T) {
	s := testSettings()
	rng := NewRNG(5)

	for run := 0; run < 20; run++ {
		town, err := LayoutTown(PlacedTown{Center: Point{X: 100, Y: 100}}, s, rng)
		require.NoError(t, err)

		assert.Equal(t, s.ToMap(Point{X: 100, Y: 100}).Add(-models.TownRadius, -models.TownRadius), town.Position)
		require.GreaterOrEqual(t, town.HorizontalStreet, 2)
		require.LessOrEqual(t, town.HorizontalStreet, 5)
		require.GreaterOrEqual(t, town.VerticalStreet, 2)
		require.LessOrEqual(t, town.VerticalStreet, 5)

		up, down := town.HorizontalStreet-1, town.HorizontalStreet
		left, right := town.VerticalStreet-1, town.VerticalStreet
		standing, vacant := 0, 0

		for row := 0; row < models.TownsBlockSize; row++ {
			for column := 0; column < models.TownsBlockSize; column++ {
				slot := town.Slot(column, row)
				onStreet := row == up || row == down || column == left || column == right
				if !onStreet {
					assert.Equal(t, models.BuildingEmpty, slot.Type)
					continue
				}
				if slot.Type == models.BuildingNone {
					vacant++
					continue
				}
				standing++

				switch {
				case column == left:
					assert.Equal(t, models.East, slot.Facing)
				case column == right:
					assert.Equal(t, models.West, slot.Facing)
				case row == up:
					assert.Equal(t, models.South, slot.Facing)
				default:
					assert.Equal(t, models.North, slot.Facing)
				}
			}
		}
		assert.Equal(t, 14, standing)
		assert.Equal(t, 6, vacant)
	}
}

func TestStackBuildings_PacksTowardStart(t *testing.T) {
	town := models.TownState{}
	kinds := []models.BuildingType{models.BuildingNone, models.BuildingBank, models.BuildingNone, models.BuildingSaloon, models.BuildingNone, models.BuildingNone}
	for column, kind := range kinds {
		town.Slot(column, 2).Type = kind
	}

	stackBuildings(&town, Point{X: 0, Y: 2}, Point{X: 1, Y: 0})

	assert.Equal(t, models.BuildingBank, town.Slot(0, 2).Type)
	assert.Equal(t, models.BuildingSaloon, town.Slot(1, 2).Type)
	for column := 2; column < models.TownsBlockSize; column++ {
		assert.Equal(t, models.BuildingNone, town.Slot(column, 2).Type)
	}
}

func TestBuildTown_WallsInsideFootprint(t *testing.T) {
	s := testSettings()
	ground := prairie(200)
	for i := range ground.Cells {
		ground.Cells[i].Decoration = models.DecorationHerb
	}

	town, err := LayoutTown(PlacedTown{Center: Point{X: 33, Y: 33}}, s, NewRNG(8))
	require.NoError(t, err)
	BuildTown(&ground, &town)

	footprint := town.Footprint()
	walls := 0
	for y := 0; y < ground.Height; y++ {
		for x := 0; x < ground.Width; x++ {
			p := Point{X: x, Y: y}
			decoration := ground.Get(p).Decoration
			if !footprint.Contains(p) {
				assert.Equal(t, models.DecorationHerb, decoration)
				continue
			}
			assert.NotEqual(t, models.DecorationHerb, decoration)
			if decoration == models.DecorationWall {
				walls++
			}
		}
	}
	assert.Greater(t, walls, 14*30)

	// streets stay open
	street := town.Position.Y + town.HorizontalStreet*(models.TownBuildingSize+models.StreetSize) - 2
	for x := footprint.MinX; x <= footprint.MaxX; x++ {
		assert.Equal(t, models.DecorationNone, ground.Get(Point{X: x, Y: street}).Decoration)
	}
}

func TestBuildLocality_Walls(t *testing.T) {
	ground := prairie(100)
	locality := models.LocalityState{Position: Point{X: 50, Y: 50}, Type: models.LocalityCamp, Facing: models.West}

	BuildLocality(&ground, locality)

	walls := 0
	for _, cell := range ground.Cells {
		if cell.Decoration == models.DecorationWall {
			walls++
		}
	}
	assert.Greater(t, walls, 0)
	assert.Equal(t, models.DecorationNone, ground.Get(Point{X: 50 - models.LocalityRadius - 1, Y: 50}).Decoration)
}
