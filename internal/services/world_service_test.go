package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontier.dev/internal/generation"
	"frontier.dev/internal/models"
	"frontier.dev/internal/simulation"
)

func TestWorldService_NoWorld(t *testing.T) {
	s := newService(t, boltStore(t))

	_, err := s.Summary()
	assert.ErrorIs(t, err, ErrNoWorld)
	assert.ErrorIs(t, s.SubmitAction(simulation.IdleAction{}), ErrNoWorld)
	assert.ErrorIs(t, s.Save("alpha"), ErrNoWorld)
	assert.False(t, s.Tick(time.Second))
}

func TestWorldService_ActionThenTick(t *testing.T) {
	s := withWorld(t, boltStore(t))

	require.NoError(t, s.SubmitAction(simulation.MoveAction{Displacement: models.Point{X: 1, Y: 0}}))
	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, "move", summary.PendingTask)

	assert.True(t, s.Tick(0))

	summary, err = s.Summary()
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 11, Y: 10}, summary.Hero)
	assert.Equal(t, "ground", summary.HeroFloor)
	assert.True(t, summary.Cooldown)
	assert.Empty(t, summary.PendingTask)

	// the cooldown elapses, then the date jumps to the next hero turn
	assert.False(t, s.Tick(time.Second))
	assert.True(t, s.Tick(0))
	summary, _ = s.Summary()
	assert.Equal(t, start.Plus(simulation.StraightWalkTime).String(), summary.Date)
}

func TestWorldService_Views(t *testing.T) {
	s := withWorld(t, boltStore(t))

	viewport, err := s.Viewport("", nil, 11, 7)
	require.NoError(t, err)
	assert.Equal(t, "ground", viewport.Floor)
	require.Len(t, viewport.Tiles, 7)
	require.Len(t, viewport.Tiles[3], 11)
	assert.Equal(t, "@", viewport.Tiles[3][5].Character)
	assert.True(t, viewport.Tiles[3][5].Visible)

	corner, err := s.Viewport("ground", &models.Point{X: 0, Y: 0}, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, "?", corner.Tiles[0][0].Character)
	assert.Equal(t, ".", corner.Tiles[2][2].Character)

	underground, err := s.Viewport("underground", nil, 3, 3)
	require.NoError(t, err)
	assert.False(t, underground.Tiles[1][1].Explored)

	_, err = s.Viewport("attic", nil, 3, 3)
	assert.Error(t, err)

	actors, err := s.Actors()
	require.NoError(t, err)
	require.Len(t, actors, 2)
	assert.Equal(t, "Ada Reed", actors[0].Name)
	assert.Equal(t, "human", actors[0].Kind)
	assert.Equal(t, "animal", actors[1].Kind)
	assert.Nil(t, actors[1].MountedBy)

	network, err := s.Network()
	require.NoError(t, err)
	assert.Zero(t, network.RailwayLength)

	journal, err := s.Journal(10)
	require.NoError(t, err)
	require.Len(t, journal, 1)
	assert.Equal(t, "Hello Ada Reed!", journal[0].Message)
}

func TestWorldService_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := withWorld(t, boltStore(t))
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	require.NoError(t, s.Save("alpha"))
	require.NoError(t, s.WaitSave())

	event := <-events
	assert.Equal(t, EventSave, event.Type)
	assert.Equal(t, "alpha", event.Slot)
	assert.Empty(t, event.Error)

	require.NoError(t, s.SubmitAction(simulation.MoveAction{Displacement: models.Point{X: 0, Y: 1}}))
	s.Tick(0)
	summary, _ := s.Summary()
	require.Equal(t, models.Position{X: 10, Y: 11}, summary.Hero)

	require.NoError(t, s.LoadSave(ctx, "alpha"))
	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 10, Y: 10}, summary.Hero)
	assert.False(t, summary.Cooldown)

	saves, err := s.Saves(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, "alpha", saves[0].Slot)

	assert.Error(t, s.LoadSave(ctx, "missing"))
}

func TestWorldService_FrozenWhileSaving(t *testing.T) {
	store := &blockingStore{Storage: boltStore(t), release: make(chan struct{})}
	s := withWorld(t, store)

	require.NoError(t, s.Save("alpha"))
	assert.ErrorIs(t, s.Save("beta"), ErrBusy)
	assert.ErrorIs(t, s.SubmitAction(simulation.IdleAction{Time: 10}), ErrBusy)
	assert.ErrorIs(t, s.StartGeneration(1), ErrBusy)
	assert.False(t, s.Tick(time.Second))
	summary, _ := s.Summary()
	assert.True(t, summary.Saving)

	close(store.release)
	require.NoError(t, s.WaitSave())
	assert.NoError(t, s.SubmitAction(simulation.IdleAction{Time: 10}))
}

// plateau is a flat prairie with a mountain block in its middle
type plateau struct{}

func inBlock(x, y float64) bool {
	return models.Bounds{MinX: 260, MinY: 260, MaxX: 340, MaxY: 340}.Contains(models.Point{X: int(x), Y: int(y)})
}

func (plateau) Altitude(x, y float64) float64 {
	if inBlock(x, y) {
		return 0.9
	}
	return 0.3
}

func (plateau) Moisture(x, y float64) float64 {
	if inBlock(x, y) {
		return 0.2
	}
	return 0.7
}

func smallSettings() generation.Settings {
	s := generation.DefaultSettings()
	s.WorldSize = 600
	s.Padding = 20
	s.NoiseScale = 4.0
	s.TownsCount = 3
	s.LocalitiesPerTown = 2
	s.TownSeparation = 240
	s.LocalitySeparation = 120
	return s
}

func TestWorldService_Generation(t *testing.T) {
	s := NewWorldService(Options{
		Generation:       smallSettings(),
		Simulation:       simulation.DefaultSettings(),
		Store:            boltStore(t),
		Logger:           silentLogger(),
		GeneratorOptions: []generation.Option{generation.WithFieldSource(plateau{})},
	})
	defer s.Close()
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	require.NoError(t, s.StartGeneration(22))
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	require.NoError(t, s.WaitGeneration(ctx))

	status := s.GenerationStatus()
	assert.False(t, status.Running)
	assert.Equal(t, uint64(22), status.Seed)
	assert.Empty(t, status.Error)
	assert.Len(t, status.Timings, 20)

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.NotEmpty(t, summary.WorldID)
	assert.Equal(t, 2, summary.Actors)

	stages := 0
	for len(events) > 0 {
		event := <-events
		switch event.Type {
		case EventStage:
			stages++
		case EventWorld:
			assert.Empty(t, event.Error)
			assert.NotNil(t, event.State)
		}
	}
	assert.Equal(t, 40, stages)
}

func TestWorldService_SubmitPath(t *testing.T) {
	s := withWorld(t, boltStore(t))

	err := s.SubmitPath([]models.Point{{X: 12, Y: 10}})
	assert.Error(t, err)

	require.NoError(t, s.SubmitPath([]models.Point{{X: 11, Y: 10}, {X: 12, Y: 11}}))
	s.Tick(0)
	s.Tick(time.Second)
	s.Tick(0)
	s.Tick(time.Second)
	s.Tick(0)

	summary, _ := s.Summary()
	assert.Equal(t, models.Position{X: 12, Y: 11}, summary.Hero)
}
