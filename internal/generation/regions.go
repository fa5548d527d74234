package generation

import (
	"log"
	"sort"

	"frontier.dev/internal/models"
)

// Region is a 4-connected area of a single biome
type Region struct {
	Biome  models.Biome
	Points []Point
	Bounds models.Bounds
}

// Regions groups the large regions of the ground by biome, largest first
type Regions map[models.Biome][]Region

// ComputeRegions flood fills the ground and keeps the regions of more than
// minSize cells
func ComputeRegions(ground *models.FloorMap, minSize int, logger *log.Logger) Regions {
	visited := make([]bool, len(ground.Cells))
	regions := make(Regions)

	for y := 0; y < ground.Height; y++ {
		for x := 0; x < ground.Width; x++ {
			start := Point{X: x, Y: y}
			if visited[y*ground.Width+x] {
				continue
			}

			biome := ground.At(start).Biome
			visited[y*ground.Width+x] = true
			queue := []Point{start}
			region := Region{Biome: biome, Bounds: models.Bounds{MinX: x, MinY: y, MaxX: x, MaxY: y}}

			for len(queue) > 0 {
				current := queue[0]
				queue = queue[1:]
				region.Points = append(region.Points, current)
				region.Bounds = extend(region.Bounds, current)

				for _, n := range current.Adjacent() {
					if !ground.InBounds(n) || visited[n.Y*ground.Width+n.X] {
						continue
					}
					if ground.At(n).Biome != biome {
						continue
					}
					visited[n.Y*ground.Width+n.X] = true
					queue = append(queue, n)
				}
			}

			if len(region.Points) > minSize {
				regions[biome] = append(regions[biome], region)
			}
		}
	}

	for _, biome := range []models.Biome{models.BiomePrairie, models.BiomeDesert, models.BiomeForest, models.BiomeMountain} {
		list := regions[biome]
		sort.SliceStable(list, func(i, j int) bool {
			return len(list[i].Points) > len(list[j].Points)
		})
		logger.Printf("[GEN] Regions %s: %d", biome, len(list))
	}

	return regions
}

func extend(b models.Bounds, p Point) models.Bounds {
	return models.Bounds{
		MinX: min(b.MinX, p.X), MinY: min(b.MinY, p.Y),
		MaxX: max(b.MaxX, p.X), MaxY: max(b.MaxY, p.Y),
	}
}
