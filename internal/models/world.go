package models

import "github.com/google/uuid"

// WorldState is the whole simulated world. The actor list is the sole
// owner of actors, every other structure refers to them by Index.
type WorldState struct {
	ID          uuid.UUID
	Seed        uint64
	CurrentDate Date

	Map        MapState
	Towns      []TownState
	Localities []LocalityState
	Network    NetworkState

	Actors    []ActorState
	Debt      DebtState
	Scheduler SchedulerState
	Journal   JournalState
}

// Hero returns the player character
func (w *WorldState) Hero() *ActorState {
	return &w.Actors[HeroIndex]
}

// Actor returns the actor at an index, or nil for an invalid index
func (w *WorldState) Actor(index Index) *ActorState {
	if !index.Valid() || int(index) >= len(w.Actors) {
		return nil
	}
	return &w.Actors[index]
}
