package services

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"frontier.dev/internal/data"
	"frontier.dev/internal/models"
	"frontier.dev/internal/persistence"
	"frontier.dev/internal/simulation"
)

var start = models.Date{Year: 1, Month: 3, Day: 2, Hours: 12}

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// smallWorld is a 60x60 prairie with the hero at (10,10) and a cow beside
func smallWorld() *models.WorldState {
	state := &models.WorldState{
		Seed:        3,
		CurrentDate: start,
		Map: models.MapState{
			Ground:      models.NewFloorMap(60, 60, models.Cell{Biome: models.BiomePrairie}),
			Underground: models.NewFloorMap(60, 60, models.Cell{Biome: models.BiomeUnderground, Decoration: models.DecorationRock}),
		},
		Network: models.NewNetworkState(),
		Actors: []models.ActorState{
			{
				Data:       models.NewDataRef("Hero"),
				Position:   models.Point{X: 10, Y: 10},
				Feature:    &models.HumanFeature{Name: "Ada Reed", Health: 9, Mounting: models.NoIndex},
				Weapon:     models.WeaponState{Data: models.NewDataRef("Colt Dragoon Revolver")},
				Ammunition: models.AmmunitionState{Data: models.NewDataRef(".44 Ammunitions"), Count: 32},
			},
			{
				Data:     models.NewDataRef("Cow"),
				Position: models.Point{X: 20, Y: 10},
				Feature:  &models.AnimalFeature{MountedBy: models.NoIndex},
			},
		},
	}
	state.Scheduler.Push(start, models.TaskActor, models.HeroIndex)
	state.Scheduler.Push(start.Plus(5000), models.TaskActor, 1)
	state.Journal.Add(start, "Hello Ada Reed!")
	return state
}

func boltStore(t *testing.T) persistence.Storage {
	t.Helper()
	store, err := persistence.NewBoltStore(filepath.Join(t.TempDir(), "saves.db"), silentLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newService(t *testing.T, store persistence.Storage) *WorldService {
	t.Helper()
	s := NewWorldService(Options{
		Simulation: simulation.DefaultSettings(),
		Catalog:    data.Default(),
		Store:      store,
		Logger:     silentLogger(),
	})
	t.Cleanup(s.Close)
	return s
}

// withWorld installs smallWorld into a new service
func withWorld(t *testing.T, store persistence.Storage) *WorldService {
	t.Helper()
	s := newService(t, store)
	state := smallWorld()
	require.Zero(t, s.opts.Catalog.Bind(state, silentLogger()))
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NoError(t, s.install(state))
	return s
}

// blockingStore holds every save until released
type blockingStore struct {
	persistence.Storage
	release chan struct{}
}

func (b *blockingStore) Save(ctx context.Context, slot string, state *models.WorldState) error {
	<-b.release
	return nil
}
