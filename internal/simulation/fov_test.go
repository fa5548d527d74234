package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"frontier.dev/internal/models"
)

func visibleAt(floor *models.FloorMap, x, y int) bool {
	return floor.Get(models.Point{X: x, Y: y}).Flags&models.CellVisible != 0
}

func TestComputeFOV_OpenField(t *testing.T) {
	floor := models.NewFloorMap(41, 41, models.Cell{Biome: models.BiomePrairie})

	explored := ComputeFOV(&floor, models.Point{X: 20, Y: 20}, 5)

	assert.True(t, visibleAt(&floor, 20, 20))
	assert.True(t, visibleAt(&floor, 25, 20))
	assert.True(t, visibleAt(&floor, 20, 15))
	assert.True(t, visibleAt(&floor, 23, 24))
	assert.False(t, visibleAt(&floor, 24, 24))
	assert.False(t, visibleAt(&floor, 26, 20))

	visible := 0
	for _, cell := range floor.Cells {
		if cell.Flags&models.CellVisible != 0 {
			visible++
		}
	}
	assert.Equal(t, visible, len(explored))
	assert.Equal(t, 81, visible, "every cell within the radius")
}

func TestComputeFOV_WallCastsShadow(t *testing.T) {
	floor := models.NewFloorMap(41, 41, models.Cell{Biome: models.BiomePrairie})
	floor.SetDecoration(models.Point{X: 22, Y: 20}, models.DecorationWall)

	ComputeFOV(&floor, models.Point{X: 20, Y: 20}, 8)

	assert.True(t, visibleAt(&floor, 22, 20), "the wall itself is seen")
	assert.False(t, visibleAt(&floor, 23, 20))
	assert.False(t, visibleAt(&floor, 26, 20))
	assert.True(t, visibleAt(&floor, 26, 22))
}

func TestComputeFOV_KeepsExplored(t *testing.T) {
	floor := models.NewFloorMap(41, 41, models.Cell{Biome: models.BiomePrairie})

	first := ComputeFOV(&floor, models.Point{X: 5, Y: 5}, 4)
	second := ComputeFOV(&floor, models.Point{X: 35, Y: 35}, 4)
	again := ComputeFOV(&floor, models.Point{X: 35, Y: 35}, 4)

	assert.NotEmpty(t, first)
	assert.Len(t, second, len(first))
	assert.Empty(t, again)

	cell := floor.Get(models.Point{X: 5, Y: 5})
	assert.Zero(t, cell.Flags&models.CellVisible)
	assert.NotZero(t, cell.Flags&models.CellExplored)
}

func TestComputeFOV_OutsideFloor(t *testing.T) {
	floor := models.NewFloorMap(10, 10, models.Cell{Biome: models.BiomePrairie})

	assert.Empty(t, ComputeFOV(&floor, models.Point{X: -1, Y: 4}, 3))
}

func TestComputeFOV_CornerOrigin(t *testing.T) {
	floor := models.NewFloorMap(10, 10, models.Cell{Biome: models.BiomePrairie})

	explored := ComputeFOV(&floor, models.Point{X: 0, Y: 0}, 3)

	assert.True(t, visibleAt(&floor, 3, 0))
	assert.True(t, visibleAt(&floor, 2, 2))
	assert.Len(t, explored, 11)
}
