package generation

import (
	"log"
	"math"

	"frontier.dev/internal/models"
)

const tunnelIterations = 5

// CaveAccess links a surface cliff to the underground floor
type CaveAccess struct {
	Entrance Point // ground cliff turned into stairs down
	Exit     Point // underground cell with stairs up
}

// CaveDigger carves the underground floor below mountain regions
type CaveDigger struct {
	settings Settings
	mapState *models.MapState
	rng      *RNG
	logger   *log.Logger
}

// NewCaveDigger creates a digger for a map whose ground is complete
func NewCaveDigger(s Settings, mapState *models.MapState, rng *RNG, logger *log.Logger) *CaveDigger {
	return &CaveDigger{settings: s, mapState: mapState, rng: rng, logger: logger}
}

// Dig fills the underground with rock then opens caves for every large
// mountain region
func (cd *CaveDigger) Dig(regions Regions) int {
	size := cd.settings.WorldSize
	cd.mapState.Underground = models.NewFloorMap(size, size, models.Cell{
		Biome:      models.BiomeUnderground,
		Decoration: models.DecorationRock,
	})

	ground := &cd.mapState.Ground
	underground := &cd.mapState.Underground
	limits := ground.Bounds().Expand(-5)
	linkDistance := cd.settings.CaveLinkDistance

	total := 0
	for _, region := range regions[models.BiomeMountain] {
		accesses := cd.accesses(region)
		total += len(accesses)

		for _, access := range accesses {
			for _, n := range access.Exit.Neighbors8() {
				underground.SetDecoration(n, models.DecorationNone)
			}
		}

		// dead ends
		for _, access := range accesses {
			radius := cd.rng.FloatRange(0.5*float64(linkDistance), 0.8*float64(linkDistance))
			angle := cd.rng.FloatRange(0, 2*math.Pi)
			fake := access.Entrance.Add(int(radius*math.Cos(angle)), int(radius*math.Sin(angle)))
			if limits.Contains(fake) {
				cd.digTunnel(access.Entrance, fake)
			}
		}

		for i := range accesses {
			for j := i + 1; j < len(accesses); j++ {
				if models.Manhattan(accesses[i].Entrance, accesses[j].Entrance) < linkDistance {
					cd.digTunnel(accesses[i].Entrance, accesses[j].Entrance)
				}
			}
		}

		// stairs last so tunnels never cover them
		for _, access := range accesses {
			underground.SetDecoration(access.Exit, models.DecorationFloorUp)
			ground.SetDecoration(access.Entrance, models.DecorationFloorDown)
		}
	}

	cd.logger.Printf("[GEN] Cave accesses: %d", total)
	return total
}

// accesses draws 1+size/quota accesses at least CaveAccessMinDistance
// apart, dropping one after too many failed rounds
func (cd *CaveDigger) accesses(region Region) []CaveAccess {
	s := cd.settings
	count := 1 + len(region.Points)/s.CaveAccessQuota

	tries := 0
	for count > 0 {
		accesses := make([]CaveAccess, 0, count)
		for len(accesses) < count {
			access, ok := cd.access(region)
			if !ok {
				return accesses
			}
			accesses = append(accesses, access)
		}

		if count == 1 || minEntranceDistance(accesses) >= s.CaveAccessMinDistance {
			return accesses
		}

		tries++
		if tries > s.CaveAccessRetries {
			count--
			tries = 0
		}
	}
	return nil
}

// access picks a cliff of the region with a passable ground neighbor
func (cd *CaveDigger) access(region Region) (CaveAccess, bool) {
	ground := &cd.mapState.Ground
	size := ground.Width

	for tries := 0; tries < cd.settings.MaxCandidateTries; tries++ {
		entrance := region.Points[cd.rng.Intn(len(region.Points))]
		if onSide(entrance, size) || ground.At(entrance).Decoration != models.DecorationCliff {
			continue
		}
		for _, exit := range entrance.Adjacent() {
			if ground.InBounds(exit) && !onSide(exit, size) && ground.At(exit).Decoration != models.DecorationCliff {
				return CaveAccess{Entrance: entrance, Exit: exit}, true
			}
		}
	}
	return CaveAccess{}, false
}

func minEntranceDistance(accesses []CaveAccess) int {
	best := math.MaxInt
	for i := range accesses {
		for j := i + 1; j < len(accesses); j++ {
			best = min(best, models.Manhattan(accesses[i].Entrance, accesses[j].Entrance))
		}
	}
	return best
}

// Tunnel returns a wobbly polyline between two cells using midpoint
// displacement, rasterized into contiguous cells
func Tunnel(from, to Point, limits models.Bounds, rng *RNG) []Point {
	size := 1 << tunnelIterations
	points := make([]Point, size+1)
	points[0] = from
	points[size] = to

	// perpendicular of from-to
	dx, dy := float64(to.Y-from.Y), float64(from.X-to.X)

	for step := size / 2; step > 0; step /= 2 {
		for i := step; i < size; i += 2 * step {
			prev, next := points[i-step], points[i+step]
			t := rng.FloatRange(-0.5, 0.5)
			middle := Point{
				X: (prev.X+next.X)/2 + int(t*dx),
				Y: (prev.Y+next.Y)/2 + int(t*dy),
			}
			points[i] = Point{
				X: min(max(middle.X, limits.MinX), limits.MaxX),
				Y: min(max(middle.Y, limits.MinY), limits.MaxY),
			}
		}
		dx /= 2
		dy /= 2
	}

	tunnel := make([]Point, 0)
	for i := 0; i < size; i++ {
		part := Line(points[i], points[i+1])
		if i > 0 {
			part = part[1:]
		}
		tunnel = append(tunnel, part...)
	}
	return tunnel
}

func (cd *CaveDigger) digTunnel(from, to Point) {
	underground := &cd.mapState.Underground
	inner := underground.Bounds().Expand(-1)

	for _, p := range Tunnel(from, to, underground.Bounds().Expand(-5), cd.rng) {
		underground.SetDecoration(p, models.DecorationNone)
		for _, n := range p.Neighbors8() {
			if inner.Contains(n) && underground.At(n).Decoration == models.DecorationRock {
				underground.At(n).Decoration = models.DecorationNone
			}
		}
	}
}
