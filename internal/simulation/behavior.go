package simulation

import (
	"frontier.dev/internal/data"
	"frontier.dev/internal/models"
)

// orientations are the nine graze steps, staying in place included
var orientations = [...]models.Point{
	{X: 0, Y: 0},
	{X: 0, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
	{X: 0, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: 0}, {X: -1, Y: -1},
}

// selectBehavior picks the action of a non-hero actor
func (m *WorldModel) selectBehavior(actor *models.ActorState) Action {
	info := m.catalog.Actor(actor.Data)
	if info == nil {
		return IdleAction{Time: IdleTime}
	}

	switch info.Type {
	case data.ActorAnimal:
		return m.animalBehavior(actor)
	}
	return IdleAction{Time: IdleTime}
}

// animalBehavior grazes around, or waits while ridden
func (m *WorldModel) animalBehavior(actor *models.ActorState) Action {
	if animal, ok := actor.Animal(); ok && animal.MountedBy.Valid() {
		return IdleAction{Time: IdleTime}
	}
	return GrazeAction{Displacement: orientations[m.rng.Intn(len(orientations))]}
}
