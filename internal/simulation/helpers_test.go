package simulation

import (
	"io"
	"log"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"frontier.dev/internal/data"
	"frontier.dev/internal/models"
)

const worldSize = 60

var start = models.Date{Year: 10, Month: 4, Day: 12, Hours: 12}

func human(name string, position models.Point) models.ActorState {
	return models.ActorState{
		Data:     models.NewDataRef("Hero"),
		Position: position,
		Feature: &models.HumanFeature{
			Name:     name,
			Health:   models.MaxHealth,
			Mounting: models.NoIndex,
		},
		Weapon:     models.WeaponState{Data: models.NewDataRef("Colt Dragoon Revolver")},
		Ammunition: models.AmmunitionState{Data: models.NewDataRef(".44 Ammunitions")},
	}
}

func animal(label string, position models.Point) models.ActorState {
	return models.ActorState{
		Data:     models.NewDataRef(label),
		Position: position,
		Feature:  &models.AnimalFeature{MountedBy: models.NoIndex},
	}
}

// testWorld is an open prairie over solid rock, with no rails
func testWorld(actors ...models.ActorState) *models.WorldState {
	state := &models.WorldState{
		CurrentDate: start,
		Map: models.MapState{
			Ground:      models.NewFloorMap(worldSize, worldSize, models.Cell{Biome: models.BiomePrairie}),
			Underground: models.NewFloorMap(worldSize, worldSize, models.Cell{Biome: models.BiomeUnderground, Decoration: models.DecorationRock}),
		},
		Network: models.NewNetworkState(),
		Actors:  actors,
	}
	for i := range state.Actors {
		// only the hero plays soon, the others much later unless a test says otherwise
		date := start
		if i > 0 {
			date = start.Plus(10000 + i)
		}
		state.Scheduler.Push(date, models.TaskActor, models.Index(i))
	}
	return state
}

func newModel(t *testing.T, state *models.WorldState) *WorldModel {
	t.Helper()
	catalog := data.Default()
	require.Zero(t, catalog.Bind(state, log.New(io.Discard, "", 0)))
	model, err := NewWorldModel(state, catalog, rand.New(rand.NewSource(1)), DefaultSettings(), nil)
	require.NoError(t, err)
	return model
}

// heroTurn submits an action and runs the model until the hero has played it
func heroTurn(m *WorldModel, action Action) {
	m.SetHeroAction(action)
	if m.Cooldown() {
		m.Update(time.Second)
	}
	m.Update(0)
}

func taskOf(state *models.WorldState, kind models.TaskKind, index models.Index) models.Task {
	for _, task := range state.Scheduler.Queue {
		if task.Kind == kind && task.Index == index {
			return task
		}
	}
	return models.Task{}
}

// requireReverseConsistent checks that the reverse grids are the exact
// inverse of the actor positions
func requireReverseConsistent(t *testing.T, m *WorldModel) {
	t.Helper()
	state := m.State()
	for i := range state.Actors {
		actor := &state.Actors[i]
		if actor.Mounted() {
			continue
		}
		require.Equal(t, models.Index(i), m.Reverse(actor.Floor, actor.Position).Actor, "actor %d", i)
	}
	for _, floor := range []models.Floor{models.FloorGround, models.FloorUnderground} {
		grid := m.reverseGrid(floor)
		for y := 0; y < grid.Height; y++ {
			for x := 0; x < grid.Width; x++ {
				p := models.Point{X: x, Y: y}
				index := grid.Get(p).Actor
				if !index.Valid() {
					continue
				}
				actor := state.Actor(index)
				require.NotNil(t, actor)
				require.Equal(t, floor, actor.Floor)
				require.Equal(t, p, actor.Position)
			}
		}
	}
}
