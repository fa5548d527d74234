package generation

import (
	"errors"
	"fmt"
	"time"

	"frontier.dev/internal/models"
)

var (
	// ErrNoRoute is returned when a rail leg cannot be routed
	ErrNoRoute = errors.New("no route found")
	// ErrInvariant is returned when a generated structure breaks its invariants
	ErrInvariant = errors.New("generation invariant violated")
	// ErrNoPlace is returned when no suitable area exists for a settlement
	ErrNoPlace = errors.New("no room for settlement")
)

// Rail and station layout constants
const (
	RailSpacing      = 2
	CliffThreshold   = 2
	SlopeFactor      = 225.0
	RailBlockPenalty = 1.5
	// DoubleRailBlockPenalty applies when both ends of a road step are blocked
	DoubleRailBlockPenalty = 5.0

	// TrainTime is the number of seconds a train needs to move one cell
	TrainTime = 5
)

// Settings holds the tunable parameters of a world generation
type Settings struct {
	WorldSize     int
	Padding       int
	ReducedFactor int
	NoiseScale    float64

	TownsCount         int
	LocalitiesPerTown  int
	TownSeparation     int // minimum manhattan distance between towns, in map cells
	LocalitySeparation int // minimum manhattan distance around localities, in map cells

	LocalityRoadCap int // max manhattan distance of a locality to locality road, reduced cells
	TownRoadCap     int // max manhattan distance of a town to locality road, reduced cells

	RegionMinSize         int
	CaveAccessQuota       int // region surface per cave access
	CaveAccessMinDistance int
	CaveAccessRetries     int
	CaveLinkDistance      int

	MaxCandidateTries  int // redraws per settlement candidate before giving up on it
	MaxPlacementRounds int // rounds per separation threshold before relaxing it
}

// DefaultSettings returns the settings of a full-size world
func DefaultSettings() Settings {
	return Settings{
		WorldSize:     4096,
		Padding:       150,
		ReducedFactor: 3,
		NoiseScale:    16.0,

		TownsCount:         5,
		LocalitiesPerTown:  5,
		TownSeparation:     1500,
		LocalitySeparation: 250,

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

// Validate checks that the settings can produce a world
func (s Settings) Validate() error {
	if s.ReducedFactor < 1 || s.ReducedFactor%2 == 0 {
		return fmt.Errorf("reduced factor must be odd and positive, got %d", s.ReducedFactor)
	}
	if s.TownsCount < 2 {
		return fmt.Errorf("at least 2 towns are needed for a rail loop, got %d", s.TownsCount)
	}
	if s.LocalitiesPerTown < 2 {
		return fmt.Errorf("at least 2 localities per town are needed, got %d", s.LocalitiesPerTown)
	}
	if s.WorldSize < 2*(models.TownDiameter+s.Padding) {
		return fmt.Errorf("world size %d too small for towns", s.WorldSize)
	}
	if s.MaxCandidateTries < 1 || s.MaxPlacementRounds < 1 {
		return fmt.Errorf("placement caps must be positive")
	}
	return nil
}

// ReducedSize returns the side of the reduced routing grid
func (s Settings) ReducedSize() int {
	return s.WorldSize / s.ReducedFactor
}

// ToMap converts a reduced cell to the map cell at its center
func (s Settings) ToMap(p models.Point) models.Point {
	half := s.ReducedFactor / 2
	return models.Point{X: p.X*s.ReducedFactor + half, Y: p.Y*s.ReducedFactor + half}
}

// ToReduced converts a map cell to its reduced cell
func (s Settings) ToReduced(p models.Point) models.Point {
	return models.Point{X: p.X / s.ReducedFactor, Y: p.Y / s.ReducedFactor}
}

// WorldCenter returns the central map cell
func (s Settings) WorldCenter() models.Point {
	return models.Point{X: s.WorldSize / 2, Y: s.WorldSize / 2}
}

// Stage is a named step of the generation pipeline
type Stage int32

const (
	StageNone Stage = iota
	StageStart
	StageDate
	StageTerrain
	StageBiomes
	StageMountains
	StageTowns
	StageLocalities
	StageRails
	StageStations
	StageRoads
	StageTownBuildings
	StageLocalityBuildings
	StageRegions
	StageUnderground
	StageHero
	StageActors
	StageScheduler
	StageData
	StageValidate
	StageEnd
)

var stageNames = [...]string{
	StageNone:              "none",
	StageStart:             "start",
	StageDate:              "date",
	StageTerrain:           "terrain",
	StageBiomes:            "biomes",
	StageMountains:         "mountains",
	StageTowns:             "towns",
	StageLocalities:        "localities",
	StageRails:             "rails",
	StageStations:          "stations",
	StageRoads:             "roads",
	StageTownBuildings:     "town_buildings",
	StageLocalityBuildings: "locality_buildings",
	StageRegions:           "regions",
	StageUnderground:       "underground",
	StageHero:              "hero",
	StageActors:            "actors",
	StageScheduler:         "scheduler",
	StageData:              "data",
	StageValidate:          "validate",
	StageEnd:               "end",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// ProgressSink receives the pipeline telemetry, in stage order
type ProgressSink interface {
	StageStarted(stage Stage)
	StageFinished(stage Stage, elapsed time.Duration)
}

// NopSink discards progress
type NopSink struct{}

func (NopSink) StageStarted(Stage)                 {}
func (NopSink) StageFinished(Stage, time.Duration) {}

// StageTiming is the recorded duration of a completed stage
type StageTiming struct {
	Stage   Stage
	Elapsed time.Duration
}
