package generation

import "frontier.dev/internal/models"

// Mountain automaton parameters
const (
	MountainCliffProbability  = 0.4
	MountainSurvivalThreshold = 6
	MountainBirthThreshold    = 8
	MountainIterations        = 7
)

//	    X
//	  X X X
//	X X P X X
//	  X X X
//	    X
var twelveNeighbors = [...]Point{
	{X: 0, Y: -2},
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -2, Y: 0}, {X: -1, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
	{X: 0, Y: 2},
}

// CarveMountains runs the cliff automaton on mountain cells. Cells outside
// mountains count as passable ground and are never modified.
func CarveMountains(ground *models.FloorMap, rng *RNG) {
	size := ground.Width * ground.Height
	cliff := make([]bool, size)
	next := make([]bool, size)

	for i, cell := range ground.Cells {
		if cell.Biome == models.BiomeMountain && rng.Bernoulli(MountainCliffProbability) {
			cliff[i] = true
		}
	}

	for iteration := 0; iteration < MountainIterations; iteration++ {
		for y := 0; y < ground.Height; y++ {
			for x := 0; x < ground.Width; x++ {
				i := y*ground.Width + x
				if ground.Cells[i].Biome != models.BiomeMountain {
					next[i] = false
					continue
				}

				count := 0
				for _, d := range twelveNeighbors {
					n := Point{X: x + d.X, Y: y + d.Y}
					if ground.InBounds(n) && !cliff[n.Y*ground.Width+n.X] {
						count++
					}
				}

				if !cliff[i] {
					next[i] = count < MountainSurvivalThreshold
				} else {
					next[i] = count < MountainBirthThreshold
				}
			}
		}
		cliff, next = next, cliff
	}

	// isolated ground pockets become cliffs
	for y := 0; y < ground.Height; y++ {
		for x := 0; x < ground.Width; x++ {
			i := y*ground.Width + x
			if ground.Cells[i].Biome != models.BiomeMountain || cliff[i] {
				continue
			}
			isolated := true
			for _, n := range (Point{X: x, Y: y}).Adjacent() {
				if ground.InBounds(n) && !cliff[n.Y*ground.Width+n.X] {
					isolated = false
					break
				}
			}
			if isolated {
				cliff[i] = true
			}
		}
	}

	for y := 0; y < ground.Height; y++ {
		for x := 0; x < ground.Width; x++ {
			p := Point{X: x, Y: y}
			cell := ground.At(p)
			if cell.Biome != models.BiomeMountain {
				continue
			}
			if cliff[y*ground.Width+x] || onSide(p, ground.Width) {
				cell.Decoration = models.DecorationCliff
			}
		}
	}
}
