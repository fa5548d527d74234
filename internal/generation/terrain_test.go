package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontier.dev/internal/models"
)

func TestSampleField_NormalizedWithPadding(t *testing.T) {
	s := testSettings()
	raw := SampleField(testPlateau(), s)

	require.Equal(t, s.WorldSize*s.WorldSize, len(raw.Cells))
	for _, cell := range raw.Cells {
		require.GreaterOrEqual(t, cell.Altitude, 0.0)
		require.LessOrEqual(t, cell.Altitude, 1.0)
		require.GreaterOrEqual(t, cell.Moisture, 0.0)
		require.LessOrEqual(t, cell.Moisture, 1.0)
	}

	assert.InDelta(t, 1.0, raw.At(Point{X: 0, Y: 300}).Altitude, 1e-9)
	assert.InDelta(t, 0.0, raw.At(Point{X: 100, Y: 100}).Altitude, 1e-9)
	assert.InDelta(t, 1.0, raw.At(Point{X: 300, Y: 300}).Altitude, 1e-9)
	assert.Greater(t, raw.At(Point{X: 5, Y: 300}).Altitude, raw.At(Point{X: 15, Y: 300}).Altitude)
}

func TestNoiseField_Deterministic(t *testing.T) {
	a := NewNoiseField(9, 4, 600)
	b := NewNoiseField(9, 4, 600)

	for i := 0; i < 50; i++ {
		x, y := float64(i*11), float64(i*7)
		assert.Equal(t, a.Altitude(x, y), b.Altitude(x, y))
		assert.Equal(t, a.Moisture(x, y), b.Moisture(x, y))
	}
	assert.NotEqual(t, a.Altitude(10, 20), a.Moisture(10, 20))
}

func TestClassifyBiomes_Plateau(t *testing.T) {
	s := testSettings()
	ground := ClassifyBiomes(SampleField(testPlateau(), s), NewRNG(1))

	assert.Equal(t, models.BiomePrairie, ground.Get(Point{X: 100, Y: 100}).Biome)
	assert.Equal(t, models.BiomeMountain, ground.Get(Point{X: 300, Y: 300}).Biome)
	assert.Equal(t, models.BiomeForest, ground.Get(Point{X: 0, Y: 300}).Biome)
	assert.Equal(t, models.DecorationTree, ground.Get(Point{X: 0, Y: 300}).Decoration)

	for _, cell := range ground.Cells {
		if cell.Biome == models.BiomePrairie {
			assert.Contains(t, []models.Decoration{models.DecorationNone, models.DecorationHerb}, cell.Decoration)
		}
	}
}

func TestCarveMountains_OnlyMountainCells(t *testing.T) {
	ground := prairie(60)
	for y := 10; y < 50; y++ {
		for x := 10; x < 50; x++ {
			ground.At(Point{X: x, Y: y}).Biome = models.BiomeMountain
		}
	}

	CarveMountains(&ground, NewRNG(2))

	cliffs := 0
	for y := 0; y < ground.Height; y++ {
		for x := 0; x < ground.Width; x++ {
			cell := ground.Get(Point{X: x, Y: y})
			if cell.Decoration != models.DecorationCliff {
				continue
			}
			require.Equal(t, models.BiomeMountain, cell.Biome, "cliff outside mountains at %d,%d", x, y)
			cliffs++
		}
	}
	assert.Greater(t, cliffs, 0)

	// remaining ground cells always have a passable neighbor
	for y := 10; y < 50; y++ {
		for x := 10; x < 50; x++ {
			p := Point{X: x, Y: y}
			if ground.Get(p).Decoration == models.DecorationCliff {
				continue
			}
			open := false
			for _, n := range p.Adjacent() {
				if ground.Get(n).Decoration != models.DecorationCliff {
					open = true
				}
			}
			assert.True(t, open, "isolated cell %v", p)
		}
	}
}

func TestComputeRegions_SizesAndBounds(t *testing.T) {
	ground := prairie(40)
	for y := 5; y < 25; y++ {
		for x := 5; x < 25; x++ {
			ground.At(Point{X: x, Y: y}).Biome = models.BiomeMountain
		}
	}
	for y := 30; y < 33; y++ {
		for x := 30; x < 33; x++ {
			ground.At(Point{X: x, Y: y}).Biome = models.BiomeDesert
		}
	}

	regions := ComputeRegions(&ground, 50, silentLogger())

	require.Len(t, regions[models.BiomeMountain], 1)
	mountain := regions[models.BiomeMountain][0]
	assert.Len(t, mountain.Points, 400)
	assert.Equal(t, models.Bounds{MinX: 5, MinY: 5, MaxX: 24, MaxY: 24}, mountain.Bounds)

	assert.Empty(t, regions[models.BiomeDesert], "small regions are dropped")
	require.Len(t, regions[models.BiomePrairie], 1)
	assert.Len(t, regions[models.BiomePrairie][0].Points, 40*40-400-9)
}

func TestTunnel_ContiguousWithinLimits(t *testing.T) {
	limits := models.Bounds{MinX: 5, MinY: 5, MaxX: 94, MaxY: 94}
	rng := NewRNG(3)

	for run := 0; run < 20; run++ {
		from, to := Point{X: 10, Y: 20}, Point{X: 80, Y: 70}
		tunnel := Tunnel(from, to, limits, rng)

		require.Equal(t, from, tunnel[0])
		require.Equal(t, to, tunnel[len(tunnel)-1])
		for i := 1; i < len(tunnel); i++ {
			require.LessOrEqual(t, models.Chebyshev(tunnel[i-1], tunnel[i]), 1)
			require.True(t, limits.Contains(tunnel[i]), "%v out of limits", tunnel[i])
		}
	}
}

func TestCaveDigger_Dig(t *testing.T) {
	s := testSettings()
	s.WorldSize = 120
	mapState := models.MapState{Ground: prairie(s.WorldSize)}
	for y := 30; y < 90; y++ {
		for x := 30; x < 90; x++ {
			cell := mapState.Ground.At(Point{X: x, Y: y})
			cell.Biome = models.BiomeMountain
			if (x+y)%3 != 0 {
				cell.Decoration = models.DecorationCliff
			}
		}
	}

	regions := ComputeRegions(&mapState.Ground, 100, silentLogger())
	count := NewCaveDigger(s, &mapState, NewRNG(4), silentLogger()).Dig(regions)

	require.GreaterOrEqual(t, count, 1)
	assert.Equal(t, s.WorldSize, mapState.Underground.Width)

	down, up, open := 0, 0, 0
	for _, cell := range mapState.Ground.Cells {
		if cell.Decoration == models.DecorationFloorDown {
			down++
		}
	}
	for _, cell := range mapState.Underground.Cells {
		require.Equal(t, models.BiomeUnderground, cell.Biome)
		switch cell.Decoration {
		case models.DecorationFloorUp:
			up++
		case models.DecorationNone:
			open++
		}
	}
	assert.Equal(t, count, down)
	assert.Equal(t, count, up)
	assert.Greater(t, open, 8)

	// the border of the underground is never dug
	for x := 0; x < s.WorldSize; x++ {
		assert.Equal(t, models.DecorationRock, mapState.Underground.Get(Point{X: x, Y: 0}).Decoration)
	}
}
