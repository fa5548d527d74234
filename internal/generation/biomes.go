package generation

import "frontier.dev/internal/models"

// Biome classification thresholds
const (
	AltitudeThreshold   = 0.55
	MoistureLoThreshold = 0.45
	MoistureHiThreshold = 0.55

	PrairieHerbProbability  = 0.2
	DesertCactusProbability = 0.02
	ForestTreeProbability   = 0.25
)

// ClassifyBiomes converts the raw field into the ground floor.
//
//	         1 +----------+--------+
//	           | mountain | forest |
//	altitude   +--------+-+--------+
//	           | desert | prairie  |
//	         0 +--------+----------+
//	           0    moisture      1
func ClassifyBiomes(raw *RawField, rng *RNG) models.FloorMap {
	ground := models.NewFloorMap(raw.Size, raw.Size, models.Cell{})

	for y := 0; y < raw.Size; y++ {
		for x := 0; x < raw.Size; x++ {
			p := Point{X: x, Y: y}
			r := raw.At(p)
			cell := ground.At(p)

			if r.Altitude < AltitudeThreshold {
				if r.Moisture < MoistureLoThreshold {
					cell.Biome = models.BiomeDesert
					if rng.Bernoulli(DesertCactusProbability * r.Moisture / MoistureLoThreshold) {
						cell.Decoration = models.DecorationCactus
					}
				} else {
					cell.Biome = models.BiomePrairie
					if rng.Bernoulli(PrairieHerbProbability * r.Moisture) {
						cell.Decoration = models.DecorationHerb
					}
				}
				continue
			}

			if r.Moisture < MoistureHiThreshold {
				// cliffs are put by the mountain automaton
				cell.Biome = models.BiomeMountain
			} else {
				cell.Biome = models.BiomeForest
				if onSide(p, raw.Size) || rng.Bernoulli(ForestTreeProbability*r.Moisture) {
					cell.Decoration = models.DecorationTree
				}
			}
		}
	}

	return ground
}

// onSide reports whether a cell lies on the world border
func onSide(p Point, size int) bool {
	return p.X == 0 || p.Y == 0 || p.X == size-1 || p.Y == size-1
}
