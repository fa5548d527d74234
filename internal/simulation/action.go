package simulation

import (
	"fmt"

	"frontier.dev/internal/data"
	"frontier.dev/internal/models"
)

// Durations of turns, in in-game seconds
const (
	TrainTime        = 5
	StraightWalkTime = 15
	DiagonalWalkTime = 21 // StraightWalkTime * sqrt(2)
	HeroIdleTime     = 60
	MountTime        = 10
	DismountTime     = 10
	GrazeTime        = 100
	IdleTime         = 100
)

// ActionKind tags the variants of Action
type ActionKind uint8

const (
	ActionIdle ActionKind = iota
	ActionMove
	ActionMount
	ActionDismount
	ActionReload
	ActionGraze
)

var actionNames = map[ActionKind]string{
	ActionIdle:     "idle",
	ActionMove:     "move",
	ActionMount:    "mount",
	ActionDismount: "dismount",
	ActionReload:   "reload",
	ActionGraze:    "graze",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return "unknown"
}

// Action is the closed set of intents an actor can resolve during its turn.
// Only the types of this file implement it.
type Action interface {
	Kind() ActionKind
	sealed()
}

// IdleAction waits for a number of seconds
type IdleAction struct {
	Time int
}

// MoveAction steps to a neighbor cell. Displacement is clamped to one cell.
type MoveAction struct {
	Displacement models.Point
}

// MountAction rides the first mountable neighbor
type MountAction struct{}

// DismountAction leaves the mount for a free neighbor cell
type DismountAction struct{}

// ReloadAction fills the weapon from the ammunition slot
type ReloadAction struct{}

// GrazeAction is the random wandering step of an animal
type GrazeAction struct {
	Displacement models.Point
}

func (IdleAction) Kind() ActionKind     { return ActionIdle }
func (MoveAction) Kind() ActionKind     { return ActionMove }
func (MountAction) Kind() ActionKind    { return ActionMount }
func (DismountAction) Kind() ActionKind { return ActionDismount }
func (ReloadAction) Kind() ActionKind   { return ActionReload }
func (GrazeAction) Kind() ActionKind    { return ActionGraze }

func (IdleAction) sealed()     {}
func (MoveAction) sealed()     {}
func (MountAction) sealed()    {}
func (DismountAction) sealed() {}
func (ReloadAction) sealed()   {}
func (GrazeAction) sealed()    {}

// ParseAction builds a hero action from its name and an optional displacement
func ParseAction(name string, dx, dy int) (Action, error) {
	switch name {
	case "idle":
		return IdleAction{Time: HeroIdleTime}, nil
	case "move":
		if dx == 0 && dy == 0 {
			return nil, fmt.Errorf("move without displacement")
		}
		return MoveAction{Displacement: models.Point{X: dx, Y: dy}}, nil
	case "mount":
		return MountAction{}, nil
	case "dismount":
		return DismountAction{}, nil
	case "reload":
		return ReloadAction{}, nil
	case "graze":
		return GrazeAction{Displacement: models.Point{X: dx, Y: dy}}, nil
	}
	return nil, fmt.Errorf("unknown action %q", name)
}

func clampDisplacement(d models.Point) models.Point {
	return models.Point{X: min(max(d.X, -1), 1), Y: min(max(d.Y, -1), 1)}
}

// compute resolves an action for the actor whose task is at the top of the
// queue. A successful action reschedules that task, a failed one leaves the
// world untouched.
func (m *WorldModel) compute(index models.Index, action Action) bool {
	actor := m.state.Actor(index)
	if actor == nil || action == nil {
		return false
	}

	switch a := action.(type) {
	case IdleAction:
		return m.computeIdle(a)
	case MoveAction:
		return m.computeMove(index, actor, a)
	case MountAction:
		return m.computeMount(index, actor)
	case DismountAction:
		return m.computeDismount(index, actor)
	case ReloadAction:
		return m.computeReload(actor)
	case GrazeAction:
		return m.computeGraze(index, actor, a)
	}
	return false
}

func (m *WorldModel) computeIdle(a IdleAction) bool {
	duration := a.Time
	if duration <= 0 {
		duration = IdleTime
	}
	m.state.Scheduler.RescheduleTop(duration)
	return true
}

// applyMove moves an actor to a neighbor cell of its floor, keeping the
// reverse grid in sync
func (m *WorldModel) applyMove(index models.Index, actor *models.ActorState, position models.Point) {
	if actor.Position == position {
		return
	}
	grid := m.reverseGrid(actor.Floor)
	grid.At(actor.Position).Actor = models.NoIndex
	grid.At(position).Actor = index
	actor.Position = position
}

func (m *WorldModel) computeMove(index models.Index, actor *models.ActorState, a MoveAction) bool {
	human, ok := actor.Human()
	if !ok {
		return false
	}

	position := actor.Position.Plus(clampDisplacement(a.Displacement))
	if position == actor.Position || !m.IsWalkable(actor.Floor, position) {
		return false
	}

	length := models.Manhattan(actor.Position, position)

	if human.Mounting.Valid() {
		mount := m.state.Actor(human.Mounting)
		m.applyMove(human.Mounting, mount, position)
		actor.Position = position
	} else {
		m.applyMove(index, actor, position)
	}

	if length == 2 {
		m.state.Scheduler.RescheduleTop(DiagonalWalkTime)
	} else {
		m.state.Scheduler.RescheduleTop(StraightWalkTime)
	}
	return true
}

func (m *WorldModel) computeMount(index models.Index, actor *models.ActorState) bool {
	human, ok := actor.Human()
	if !ok || human.Mounting.Valid() {
		return false
	}

	grid := m.reverseGrid(actor.Floor)
	for _, neighbor := range actor.Position.Adjacent() {
		other := grid.Get(neighbor).Actor
		if !other.Valid() {
			continue
		}
		animalActor := m.state.Actor(other)
		animal, ok := animalActor.Animal()
		if !ok || animal.MountedBy.Valid() {
			continue
		}
		info := m.catalog.Actor(animalActor.Data)
		if info == nil || !info.CanBeMounted {
			continue
		}

		human.Mounting = other
		animal.MountedBy = index
		grid.At(actor.Position).Actor = models.NoIndex
		actor.Position = animalActor.Position

		m.logger.Printf("[SCHEDULER] %s: actor %d mounts actor %d", m.state.CurrentDate, index, other)
		m.state.Scheduler.RescheduleTop(MountTime)
		return true
	}
	return false
}

func (m *WorldModel) computeDismount(index models.Index, actor *models.ActorState) bool {
	human, ok := actor.Human()
	if !ok || !human.Mounting.Valid() {
		return false
	}

	for _, neighbor := range actor.Position.Adjacent() {
		if !m.IsWalkable(actor.Floor, neighbor) {
			continue
		}

		actor.Position = neighbor
		m.reverseGrid(actor.Floor).At(neighbor).Actor = index
		if animal, ok := m.state.Actor(human.Mounting).Animal(); ok {
			animal.MountedBy = models.NoIndex
		}
		human.Mounting = models.NoIndex

		m.state.Scheduler.RescheduleTop(DismountTime)
		return true
	}
	return false
}

func (m *WorldModel) computeReload(actor *models.ActorState) bool {
	human, ok := actor.Human()
	if !ok {
		return false
	}

	weapon := m.catalog.Item(actor.Weapon.Data)
	ammunition := m.catalog.Item(actor.Ammunition.Data)
	if weapon == nil || ammunition == nil {
		return false
	}
	if weapon.Type != data.ItemFirearm || ammunition.Type != data.ItemAmmunition {
		return false
	}
	if weapon.Caliber != ammunition.Caliber {
		return false
	}

	needed := weapon.Capacity - actor.Weapon.Cartridges
	loaded := min(needed, actor.Ammunition.Count)
	if loaded <= 0 {
		return false
	}

	actor.Weapon.Cartridges += loaded
	actor.Ammunition.Count -= loaded
	m.state.Journal.Add(m.state.CurrentDate, fmt.Sprintf("%s reloads their weapon with %d cartridges.", human.Name, loaded))

	m.state.Scheduler.RescheduleTop(max(weapon.ReloadTime, 1))
	return true
}

// computeGraze never fails, a blocked step leaves the animal in place
func (m *WorldModel) computeGraze(index models.Index, actor *models.ActorState, a GrazeAction) bool {
	position := actor.Position.Plus(clampDisplacement(a.Displacement))
	if position != actor.Position && m.IsWalkable(actor.Floor, position) {
		m.applyMove(index, actor, position)
	}
	m.state.Scheduler.RescheduleTop(GrazeTime)
	return true
}
