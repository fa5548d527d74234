// Package simulation advances a generated world one scheduled turn at a time.
package simulation

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"frontier.dev/internal/data"
	"frontier.dev/internal/models"
)

// ErrOccupied is returned when two actors claim the same cell of a floor
var ErrOccupied = errors.New("cell already occupied")

// Settings tunes the pacing and the reach of the simulation
type Settings struct {
	VisionRange  int           // radius of the hero field of view
	IdleDistance int           // actors farther than this from the hero are fast-forwarded
	Cooldown     time.Duration // real-time pause after a visible change
}

// DefaultSettings returns the settings of a regular game
func DefaultSettings() Settings {
	return Settings{
		VisionRange:  25,
		IdleDistance: 100,
		Cooldown:     20 * time.Millisecond,
	}
}

// WorldModel owns a world state and resolves its scheduled tasks. It is
// not safe for concurrent use.
type WorldModel struct {
	state    *models.WorldState
	catalog  *data.Catalog
	rng      models.Random
	settings Settings
	logger   *log.Logger

	reverse [2]models.ReverseGrid

	heroAction Action
	heroPath   []models.Point

	cooling bool
	elapsed time.Duration
}

// NewWorldModel builds the runtime lookups of a bound world and computes
// the initial field of view of the hero
func NewWorldModel(state *models.WorldState, catalog *data.Catalog, rng models.Random, settings Settings, logger *log.Logger) (*WorldModel, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if len(state.Actors) == 0 {
		return nil, errors.New("world without hero")
	}

	m := &WorldModel{
		state:    state,
		catalog:  catalog,
		rng:      rng,
		settings: settings,
		logger:   logger,
	}
	if err := m.bindReverse(); err != nil {
		return nil, err
	}
	m.updateFOV()
	return m, nil
}

func (m *WorldModel) bindReverse() error {
	for _, floor := range []models.Floor{models.FloorGround, models.FloorUnderground} {
		floorMap := m.state.Map.FromFloor(floor)
		m.reverse[floor] = models.NewReverseGrid(floorMap.Width, floorMap.Height)
	}

	for i := range m.state.Actors {
		actor := &m.state.Actors[i]
		if actor.Mounted() {
			// riders share the cell of their mount
			continue
		}
		grid := m.reverseGrid(actor.Floor)
		if !grid.InBounds(actor.Position) {
			return fmt.Errorf("actor %d at %v: out of the map", i, actor.Position)
		}
		cell := grid.At(actor.Position)
		if cell.Actor.Valid() {
			return fmt.Errorf("actor %d at %v with actor %d: %w", i, actor.Position, cell.Actor, ErrOccupied)
		}
		cell.Actor = models.Index(i)
	}

	for i, train := range m.state.Network.Trains {
		m.setReverseTrain(train, models.Index(i))
	}
	return nil
}

func (m *WorldModel) reverseGrid(floor models.Floor) *models.ReverseGrid {
	return &m.reverse[floor]
}

// setReverseTrain marks the 3x3 area around every car of a train
func (m *WorldModel) setReverseTrain(train models.TrainState, index models.Index) {
	m.eachTrainCell(train, func(cell *models.ReverseCell) { cell.Train = index })
}

// clearReverseTrain unmarks the area of a train, leaving the marks of
// other trains sharing its neighbourhood
func (m *WorldModel) clearReverseTrain(train models.TrainState, index models.Index) {
	m.eachTrainCell(train, func(cell *models.ReverseCell) {
		if cell.Train == index {
			cell.Train = models.NoIndex
		}
	})
}

func (m *WorldModel) eachTrainCell(train models.TrainState, fn func(*models.ReverseCell)) {
	if len(m.state.Network.Railway) == 0 {
		return
	}
	grid := m.reverseGrid(models.FloorGround)
	for _, car := range m.state.Network.TrainCars(train) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				p := car.Add(dx, dy)
				if grid.InBounds(p) {
					fn(grid.At(p))
				}
			}
		}
	}
}

// State returns the simulated world
func (m *WorldModel) State() *models.WorldState {
	return m.state
}

// Settings returns the pacing settings of the model
func (m *WorldModel) Settings() Settings {
	return m.settings
}

// Cooldown reports whether the model is pausing after a visible change
func (m *WorldModel) Cooldown() bool {
	return m.cooling
}

// Reverse returns the occupants of a cell
func (m *WorldModel) Reverse(floor models.Floor, p models.Point) models.ReverseCell {
	return m.reverseGrid(floor).Get(p)
}

// IsWalkable reports whether an actor may step onto a cell
func (m *WorldModel) IsWalkable(floor models.Floor, p models.Point) bool {
	floorMap := m.state.Map.FromFloor(floor)
	if !floorMap.InBounds(p) {
		return false
	}
	if !floorMap.At(p).Decoration.Walkable() {
		return false
	}
	return m.reverseGrid(floor).Get(p).Empty()
}

// SetHeroAction replaces the pending action of the hero. It is consumed
// on the next hero turn.
func (m *WorldModel) SetHeroAction(action Action) {
	m.heroAction = action
}

// PendingHeroAction returns the action waiting for the hero turn, or nil
func (m *WorldModel) PendingHeroAction() Action {
	return m.heroAction
}

// SetHeroPath queues a walk along contiguous cells. Each hero turn
// without an explicit action takes the next step, a blocked step drops the
// rest of the path.
func (m *WorldModel) SetHeroPath(path []models.Point) {
	m.heroPath = append(m.heroPath[:0], path...)
}

// Update advances the simulation by a real-time delta. During a cooldown
// it only accumulates time. Otherwise it resolves every task due at the
// date of the earliest one, stopping at the hero turn when no action is
// pending.
func (m *WorldModel) Update(dt time.Duration) {
	if m.cooling {
		m.elapsed += dt
		if m.elapsed > m.settings.Cooldown {
			m.elapsed -= m.settings.Cooldown
			m.cooling = false
		}
		return
	}

	top, ok := m.state.Scheduler.Top()
	if !ok {
		return
	}
	m.state.CurrentDate = top.Date

	needCooldown := false
	for {
		task, ok := m.state.Scheduler.Top()
		if !ok || !task.Date.Equal(m.state.CurrentDate) {
			break
		}

		if task.Kind == models.TaskActor && task.Index == models.HeroIndex {
			if m.updateHero() {
				needCooldown = true
			}
			break
		}

		switch task.Kind {
		case models.TaskActor:
			if m.updateActor(task.Index) {
				needCooldown = true
			}
		case models.TaskTrain:
			if m.updateTrain(task.Index) {
				needCooldown = true
			}
		default:
			m.state.Scheduler.RescheduleTop(IdleTime)
		}
	}

	if needCooldown {
		m.cooling = true
	}
}

func (m *WorldModel) updateHero() bool {
	hero := m.state.Hero()
	if m.heroAction == nil && len(m.heroPath) > 0 {
		m.heroAction = MoveAction{Displacement: m.heroPath[0].Minus(hero.Position)}
		m.heroPath = m.heroPath[1:]
	}
	if m.heroAction == nil {
		return false
	}

	action := m.heroAction
	m.heroAction = nil

	m.logger.Printf("[SCHEDULER] %s: Update hero (%s)", m.state.CurrentDate, action.Kind())
	ok := m.compute(models.HeroIndex, action)

	if action.Kind() == ActionMove {
		if ok {
			m.updateFOV()
		} else {
			m.heroPath = m.heroPath[:0]
		}
	}
	if m.checkFloor(models.HeroIndex) {
		m.heroPath = m.heroPath[:0]
	}
	return ok
}

func (m *WorldModel) updateActor(index models.Index) bool {
	actor := m.state.Actor(index)
	if actor == nil {
		m.logger.Printf("[SCHEDULER] %s: no actor %d", m.state.CurrentDate, index)
		m.state.Scheduler.RescheduleTop(IdleTime)
		return false
	}

	hero := m.state.Hero()
	if distance := models.Chebyshev(actor.Position, hero.Position); distance > m.settings.IdleDistance {
		m.state.Scheduler.RescheduleTop(distance - m.settings.IdleDistance + IdleTime)
		return false
	}

	action := m.selectBehavior(actor)
	if !m.compute(index, action) {
		// a failed action keeps its task, the actor waits instead
		m.state.Scheduler.RescheduleTop(IdleTime)
		return false
	}
	m.checkFloor(index)

	return m.visible(actor)
}

// visible reports whether an actor stands in the field of view of the hero
func (m *WorldModel) visible(actor *models.ActorState) bool {
	if actor.Floor != m.state.Hero().Floor {
		return false
	}
	return m.state.Map.FromFloor(actor.Floor).Get(actor.Position).Flags&models.CellVisible != 0
}

func (m *WorldModel) updateTrain(index models.Index) bool {
	network := &m.state.Network
	if int(index) >= len(network.Trains) || len(network.Railway) == 0 {
		m.logger.Printf("[SCHEDULER] %s: no train %d", m.state.CurrentDate, index)
		m.state.Scheduler.RescheduleTop(TrainTime)
		return false
	}

	train := &network.Trains[index]
	m.clearReverseTrain(*train, index)
	train.RailwayIndex = network.PrevPosition(train.RailwayIndex)
	m.setReverseTrain(*train, index)

	if station, ok := network.StationAt(train.RailwayIndex); ok && station.StopTime > 0 {
		m.state.Scheduler.RescheduleTop(station.StopTime)
	} else {
		m.state.Scheduler.RescheduleTop(TrainTime)
	}

	position := network.Railway[train.RailwayIndex]
	return models.Chebyshev(position, m.state.Hero().Position) <= m.settings.IdleDistance
}

// checkFloor moves an actor standing on stairs to the other floor
func (m *WorldModel) checkFloor(index models.Index) bool {
	actor := m.state.Actor(index)
	switch m.state.Map.FromFloor(actor.Floor).Get(actor.Position).Decoration {
	case models.DecorationFloorDown:
		if actor.Floor == models.FloorGround {
			return m.changeFloor(index, actor.Floor.Other())
		}
	case models.DecorationFloorUp:
		if actor.Floor == models.FloorUnderground {
			return m.changeFloor(index, actor.Floor.Other())
		}
	}
	return false
}

func (m *WorldModel) changeFloor(index models.Index, floor models.Floor) bool {
	actor := m.state.Actor(index)
	// a mounted pair never splits across floors
	if actor.Floor == floor || actor.Mounted() || actor.Ridden() {
		return false
	}

	target := m.reverseGrid(floor)
	if !target.InBounds(actor.Position) || target.At(actor.Position).Actor.Valid() {
		return false
	}

	previous := actor.Floor
	m.reverseGrid(previous).At(actor.Position).Actor = models.NoIndex
	target.At(actor.Position).Actor = index
	actor.Floor = floor
	m.logger.Printf("[SCHEDULER] %s: actor %d goes %s", m.state.CurrentDate, index, floor)

	if index == models.HeroIndex {
		m.state.Map.FromFloor(previous).ClearFlags(models.CellVisible)
		m.updateFOV()
	}
	return true
}

func (m *WorldModel) updateFOV() []models.Point {
	hero := m.state.Hero()
	return ComputeFOV(m.state.Map.FromFloor(hero.Floor), hero.Position, m.settings.VisionRange)
}
