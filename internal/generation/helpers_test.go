package generation

import (
	"io"
	"log"
	"time"

	"frontier.dev/internal/models"
)

// plateau is a flat prairie with a square mountain block in its middle
type plateau struct {
	block models.Bounds
}

func (p plateau) Altitude(x, y float64) float64 {
	if p.block.Contains(Point{X: int(x), Y: int(y)}) {
		return 0.9
	}
	return 0.3
}

func (p plateau) Moisture(x, y float64) float64 {
	if p.block.Contains(Point{X: int(x), Y: int(y)}) {
		return 0.2
	}
	return 0.7
}

func testSettings() Settings {
	return Settings{
		WorldSize:     600,
		Padding:       20,
		ReducedFactor: 3,
		NoiseScale:    4.0,

		TownsCount:         3,
		LocalitiesPerTown:  2,
		TownSeparation:     240,
		LocalitySeparation: 120,

		LocalityRoadCap: 300,
		TownRoadCap:     350,

		RegionMinSize:         400,
		CaveAccessQuota:       2000,
		CaveAccessMinDistance: 10,
		CaveAccessRetries:     20,
		CaveLinkDistance:      70,

		MaxCandidateTries:  10000,
		MaxPlacementRounds: 1000,
	}
}

func testPlateau() plateau {
	return plateau{block: models.Bounds{MinX: 260, MinY: 260, MaxX: 340, MaxY: 340}}
}

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func prairie(size int) models.FloorMap {
	return models.NewFloorMap(size, size, models.Cell{Biome: models.BiomePrairie})
}

func flatRaw(size int) *RawField {
	return &RawField{Size: size, Cells: make([]RawCell, size*size)}
}

// recordingSink keeps the stages in the order they were reported
type recordingSink struct {
	started  []Stage
	finished []Stage
}

func (r *recordingSink) StageStarted(stage Stage) {
	r.started = append(r.started, stage)
}

func (r *recordingSink) StageFinished(stage Stage, _ time.Duration) {
	r.finished = append(r.finished, stage)
}
