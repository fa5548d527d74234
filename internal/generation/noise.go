package generation

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// FieldSource samples the two raw scalar fields of a world. Values need
// not be normalized, the terrain stage rescales them to [0,1].
type FieldSource interface {
	Altitude(x, y float64) float64
	Moisture(x, y float64) float64
}

// NoiseField is a FieldSource made of two octave simplex noises
type NoiseField struct {
	altitude opensimplex.Noise
	moisture opensimplex.Noise
	scale    float64
	octaves  int
}

// NewNoiseField creates the default noise-based field. Scale is the
// number of noise periods across the world side.
func NewNoiseField(seed int64, scale float64, worldSize int) *NoiseField {
	return &NoiseField{
		altitude: opensimplex.NewNormalized(seed),
		moisture: opensimplex.NewNormalized(seed + 1),
		scale:    scale / float64(worldSize),
		octaves:  6,
	}
}

func (f *NoiseField) Altitude(x, y float64) float64 {
	return octaveNoise(f.altitude, x, y, f.octaves, f.scale, 0.5)
}

func (f *NoiseField) Moisture(x, y float64) float64 {
	return octaveNoise(f.moisture, x, y, f.octaves, f.scale, 0.5)
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// RawCell is one sample of the raw field
type RawCell struct {
	Altitude float64
	Moisture float64
}

// RawField is the dense generation-only altitude/moisture array
type RawField struct {
	Size  int
	Cells []RawCell
}

// At returns the raw cell at a map position
func (r *RawField) At(p Point) RawCell {
	return r.Cells[p.Y*r.Size+p.X]
}

// SampleField builds the raw field of a world. Both layers are normalized
// to [0,1], then altitude is pulled toward 1 in the border padding band.
func SampleField(source FieldSource, s Settings) *RawField {
	size := s.WorldSize
	raw := &RawField{Size: size, Cells: make([]RawCell, size*size)}

	minA, maxA := math.Inf(1), math.Inf(-1)
	minM, maxM := math.Inf(1), math.Inf(-1)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			a := source.Altitude(float64(x), float64(y))
			m := source.Moisture(float64(x), float64(y))
			raw.Cells[y*size+x] = RawCell{Altitude: a, Moisture: m}
			minA, maxA = math.Min(minA, a), math.Max(maxA, a)
			minM, maxM = math.Min(minM, m), math.Max(maxM, m)
		}
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cell := &raw.Cells[y*size+x]
			cell.Altitude = normalize(cell.Altitude, minA, maxA)
			cell.Moisture = normalize(cell.Moisture, minM, maxM)

			factor := paddingFactor(x, size, s.Padding) * paddingFactor(y, size, s.Padding)
			cell.Altitude = 1.0 - (1.0-cell.Altitude)*easeOutCubic(factor)
		}
	}

	return raw
}

func normalize(v, lo, hi float64) float64 {
	if hi-lo <= 0 {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

func paddingFactor(v, size, padding int) float64 {
	if padding <= 0 {
		return 1.0
	}
	switch {
	case v < padding:
		return float64(v) / float64(padding)
	case v >= size-padding:
		return float64(size-v-1) / float64(padding)
	}
	return 1.0
}

func easeOutCubic(t float64) float64 {
	u := t - 1
	return u*u*u + 1
}
