package generation

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"frontier.dev/internal/data"
	"frontier.dev/internal/models"
)

// WorldGenerator runs the staged world generation pipeline
type WorldGenerator struct {
	settings Settings
	seed     uint64
	source   FieldSource
	catalog  *data.Catalog
	sink     ProgressSink
	logger   *log.Logger

	rng     *RNG
	raw     *RawField
	places  Places
	loop    []Point
	regions Regions
	timings []StageTiming
}

// Option customizes a WorldGenerator
type Option func(*WorldGenerator)

// WithFieldSource replaces the default simplex noise field
func WithFieldSource(source FieldSource) Option {
	return func(g *WorldGenerator) { g.source = source }
}

// WithCatalog sets the catalog used to bind data references
func WithCatalog(catalog *data.Catalog) Option {
	return func(g *WorldGenerator) { g.catalog = catalog }
}

// WithSink sets the receiver of stage telemetry
func WithSink(sink ProgressSink) Option {
	return func(g *WorldGenerator) { g.sink = sink }
}

// WithLogger sets the generation logger
func WithLogger(logger *log.Logger) Option {
	return func(g *WorldGenerator) { g.logger = logger }
}

// NewWorldGenerator creates a generator for a seed
func NewWorldGenerator(settings Settings, seed uint64, opts ...Option) *WorldGenerator {
	g := &WorldGenerator{
		settings: settings,
		seed:     seed,
		sink:     NopSink{},
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.source == nil {
		g.source = NewNoiseField(int64(seed), settings.NoiseScale, settings.WorldSize)
	}
	if g.catalog == nil {
		g.catalog = data.Default()
	}
	return g
}

// Timings returns the duration of every completed stage
func (g *WorldGenerator) Timings() []StageTiming {
	return g.timings
}

// Generate produces a complete world. The context is checked between stages.
func (g *WorldGenerator) Generate(ctx context.Context) (*models.WorldState, error) {
	if err := g.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	g.rng = NewRNG(g.seed)
	g.timings = g.timings[:0]
	state := &models.WorldState{Seed: g.seed}

	stages := []struct {
		stage Stage
		run   func(*models.WorldState) error
	}{
		{StageStart, g.start},
		{StageDate, g.date},
		{StageTerrain, g.terrain},
		{StageBiomes, g.biomes},
		{StageMountains, g.mountains},
		{StageTowns, func(state *models.WorldState) error { return g.towns(ctx, state) }},
		{StageLocalities, func(state *models.WorldState) error { return g.localities(ctx, state) }},
		{StageRails, g.rails},
		{StageStations, g.stations},
		{StageRoads, g.roads},
		{StageTownBuildings, g.townBuildings},
		{StageLocalityBuildings, g.localityBuildings},
		{StageRegions, g.computeRegions},
		{StageUnderground, g.underground},
		{StageHero, g.hero},
		{StageActors, g.actors},
		{StageScheduler, g.scheduler},
		{StageData, g.bind},
		{StageValidate, g.validate},
		{StageEnd, g.end},
	}

	begin := time.Now()
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation interrupted before %s: %w", s.stage, err)
		}

		g.sink.StageStarted(s.stage)
		started := time.Now()
		if err := s.run(state); err != nil {
			return nil, fmt.Errorf("stage %s: %w", s.stage, err)
		}
		elapsed := time.Since(started)
		g.timings = append(g.timings, StageTiming{Stage: s.stage, Elapsed: elapsed})
		g.sink.StageFinished(s.stage, elapsed)
		g.logger.Printf("[GEN] - %s (%.3fs)", s.stage, time.Since(begin).Seconds())
	}

	// generation-only data is dropped with the generator state
	g.raw, g.loop, g.regions = nil, nil, nil
	return state, nil
}

func (g *WorldGenerator) start(state *models.WorldState) error {
	state.ID = uuid.New()
	state.Network = models.NewNetworkState()
	g.logger.Printf("[GEN] Starting generation of world %s (seed %d)", state.ID, g.seed)
	return nil
}

func (g *WorldGenerator) date(state *models.WorldState) error {
	state.CurrentDate = models.RandomDate(g.rng)
	return nil
}

func (g *WorldGenerator) terrain(*models.WorldState) error {
	g.raw = SampleField(g.source, g.settings)
	return nil
}

func (g *WorldGenerator) biomes(state *models.WorldState) error {
	state.Map.Ground = ClassifyBiomes(g.raw, g.rng)
	return nil
}

func (g *WorldGenerator) mountains(state *models.WorldState) error {
	CarveMountains(&state.Map.Ground, g.rng)
	return nil
}

func (g *WorldGenerator) towns(ctx context.Context, state *models.WorldState) error {
	g.places = Places{}
	return NewPlacer(g.settings, &state.Map.Ground, g.rng, g.logger).PlaceTowns(ctx, &g.places)
}

func (g *WorldGenerator) localities(ctx context.Context, state *models.WorldState) error {
	return NewPlacer(g.settings, &state.Map.Ground, g.rng, g.logger).PlaceLocalities(ctx, &g.places)
}

func (g *WorldGenerator) railBuilder(state *models.WorldState) *RailBuilder {
	return NewRailBuilder(g.settings, g.raw, &state.Map.Ground, g.rng, g.logger)
}

func (g *WorldGenerator) rails(state *models.WorldState) error {
	loop, err := g.railBuilder(state).BuildRails(&g.places)
	if err != nil {
		return err
	}
	g.loop = loop
	return nil
}

func (g *WorldGenerator) stations(state *models.WorldState) error {
	network, err := g.railBuilder(state).BuildStations(g.loop, &g.places)
	if err != nil {
		return err
	}
	state.Network = network
	return nil
}

func (g *WorldGenerator) roads(state *models.WorldState) error {
	graph := NewSettlementGraph(&g.places, g.settings)
	g.railBuilder(state).BuildRoads(graph, &state.Network)
	return nil
}

func (g *WorldGenerator) townBuildings(state *models.WorldState) error {
	state.Towns = make([]models.TownState, 0, len(g.places.Towns))
	for _, placed := range g.places.Towns {
		town, err := LayoutTown(placed, g.settings, g.rng)
		if err != nil {
			return err
		}
		state.Towns = append(state.Towns, town)
	}
	for i := range state.Towns {
		BuildTown(&state.Map.Ground, &state.Towns[i])
	}
	return nil
}

func (g *WorldGenerator) localityBuildings(state *models.WorldState) error {
	state.Localities = make([]models.LocalityState, 0, len(g.places.Localities))
	for _, placed := range g.places.Localities {
		locality := LayoutLocality(placed, g.settings, g.rng)
		BuildLocality(&state.Map.Ground, locality)
		state.Localities = append(state.Localities, locality)
	}
	return nil
}

func (g *WorldGenerator) computeRegions(state *models.WorldState) error {
	g.regions = ComputeRegions(&state.Map.Ground, g.settings.RegionMinSize, g.logger)
	return nil
}

func (g *WorldGenerator) underground(state *models.WorldState) error {
	NewCaveDigger(g.settings, &state.Map, g.rng, g.logger).Dig(g.regions)
	return nil
}

func (g *WorldGenerator) hero(state *models.WorldState) error {
	position, err := StartingPosition(&state.Network, g.settings)
	if err != nil {
		return err
	}
	hero := NewHero(g.rng, position, state.CurrentDate)
	human, _ := hero.Human()
	g.logger.Printf("[GEN] Name: %s (Luck: %d)", human.Name, human.Attributes.Luck)
	state.Actors = append(state.Actors[:0], hero)
	return nil
}

func (g *WorldGenerator) actors(state *models.WorldState) error {
	cow, err := PlaceCow(&state.Map.Ground, state.Hero().Position)
	if err != nil {
		return err
	}
	state.Actors = append(state.Actors, cow)
	return nil
}

func (g *WorldGenerator) scheduler(state *models.WorldState) error {
	SeedScheduler(state)
	return nil
}

func (g *WorldGenerator) bind(state *models.WorldState) error {
	if unresolved := g.catalog.Bind(state, g.logger); unresolved > 0 {
		g.logger.Printf("[DATA] %d unresolved references", unresolved)
	}
	return nil
}

func (g *WorldGenerator) validate(state *models.WorldState) error {
	return Validate(state, g.settings)
}

func (g *WorldGenerator) end(state *models.WorldState) error {
	g.logger.Printf("[GEN] World ready: %d towns, %d localities, %d actors", len(state.Towns), len(state.Localities), len(state.Actors))
	return nil
}

// Validate checks the structural invariants of a generated world
func Validate(state *models.WorldState, s Settings) error {
	network := &state.Network
	if len(state.Towns) != s.TownsCount {
		return fmt.Errorf("%d towns, want %d: %w", len(state.Towns), s.TownsCount, ErrInvariant)
	}
	if len(network.Stations) != len(state.Towns) || len(network.Trains) != len(network.Stations) {
		return fmt.Errorf("%d stations and %d trains for %d towns: %w", len(network.Stations), len(network.Trains), len(state.Towns), ErrInvariant)
	}
	for i, p := range network.Railway {
		next := network.Railway[(i+1)%len(network.Railway)]
		if models.Manhattan(p, next) != 1 {
			return fmt.Errorf("railway broken at %d: %w", i, ErrInvariant)
		}
	}
	for _, station := range network.Stations {
		if station.Index < 0 || station.Index >= len(network.Railway) {
			return fmt.Errorf("station index %d out of railway: %w", station.Index, ErrInvariant)
		}
	}
	if len(state.Actors) == 0 {
		return fmt.Errorf("no hero: %w", ErrInvariant)
	}
	if _, ok := state.Hero().Human(); !ok {
		return fmt.Errorf("hero is not human: %w", ErrInvariant)
	}
	for i := range state.Actors {
		if !state.Map.Ground.InBounds(state.Actors[i].Position) {
			return fmt.Errorf("actor %d out of the map: %w", i, ErrInvariant)
		}
	}
	if state.Scheduler.Len() != len(state.Actors)+len(network.Trains) {
		return fmt.Errorf("%d tasks for %d actors and %d trains: %w", state.Scheduler.Len(), len(state.Actors), len(network.Trains), ErrInvariant)
	}
	return nil
}
