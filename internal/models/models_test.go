package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoration_WalkableAndTransparent(t *testing.T) {
	cases := []struct {
		decoration  Decoration
		walkable    bool
		transparent bool
	}{
		{DecorationNone, true, true},
		{DecorationFloorDown, true, true},
		{DecorationFloorUp, true, true},
		{DecorationHerb, true, true},
		{DecorationCactus, false, true},
		{DecorationTree, false, true},
		{DecorationCliff, false, false},
		{DecorationWall, false, false},
		{DecorationRock, false, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.walkable, c.decoration.Walkable(), c.decoration.String())
		assert.Equal(t, c.transparent, c.decoration.Transparent(), c.decoration.String())
	}
}

func TestDate_AddSecondsRollsOverYear(t *testing.T) {
	d := Date{Year: 3, Month: 11, Day: 31, Weekday: 6, Hours: 23, Minutes: 59, Seconds: 50}
	d.AddSeconds(15)

	assert.Equal(t, Date{Year: 4, Month: 0, Day: 1, Weekday: 0, Hours: 0, Minutes: 0, Seconds: 5}, d)
}

func TestDate_AddSecondsWithinDay(t *testing.T) {
	d := Date{Month: 1, Day: 28, Hours: 12, Minutes: 10}
	d.AddSeconds(3600 + 61)

	assert.Equal(t, 13, d.Hours)
	assert.Equal(t, 11, d.Minutes)
	assert.Equal(t, 1, d.Seconds)
	assert.Equal(t, 28, d.Day)
}

func TestDate_Ordering(t *testing.T) {
	a := Date{Month: 2, Day: 3, Hours: 12}
	b := a.Plus(1)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
	assert.True(t, a.Equal(Date{Month: 2, Day: 3, Hours: 12, Weekday: 4}))
}

func TestDate_Phase(t *testing.T) {
	assert.Equal(t, PhaseNoon, Date{Month: 5, Day: 10, Hours: 12}.Phase())
	assert.Equal(t, PhaseNight, Date{Month: 5, Day: 10, Hours: 1}.Phase())
	assert.Equal(t, PhaseAfternoon, Date{Month: 5, Day: 10, Hours: 15}.Phase())
}

type fixedRandom struct{}

func (fixedRandom) Intn(n int) int { return n - 1 }

func TestRandomDate_IsAtNoon(t *testing.T) {
	d := RandomDate(fixedRandom{})

	assert.Equal(t, 12, d.Hours)
	assert.Equal(t, 11, d.Month)
	assert.Equal(t, 31, d.Day)
	assert.Equal(t, 59, d.Minutes)
}

func TestScheduler_PopsInDateOrder(t *testing.T) {
	var s SchedulerState
	base := Date{Month: 4, Day: 1, Hours: 12}

	s.Push(base.Plus(30), TaskActor, 1)
	s.Push(base, TaskActor, 0)
	s.Push(base.Plus(5), TaskTrain, 0)
	s.Push(base, TaskTrain, 1)

	var order []Task
	for s.Len() > 0 {
		task, ok := s.Pop()
		require.True(t, ok)
		order = append(order, task)
	}

	require.Len(t, order, 4)
	assert.Equal(t, TaskActor, order[0].Kind)
	assert.Equal(t, Index(0), order[0].Index)
	assert.Equal(t, TaskTrain, order[1].Kind, "equal dates resolve in insertion order")
	assert.Equal(t, TaskTrain, order[2].Kind)
	assert.Equal(t, Index(1), order[3].Index)
}

func TestScheduler_RescheduleTopKeepsOneTaskPerSubject(t *testing.T) {
	var s SchedulerState
	base := Date{Month: 4, Day: 1, Hours: 12}
	s.Push(base, TaskActor, 0)
	s.Push(base.Plus(10), TaskActor, 1)

	s.RescheduleTop(15)

	require.Equal(t, 2, s.Len())
	top, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, Index(1), top.Index)
	assert.True(t, top.Date.Equal(base.Plus(10)))
}

func TestNetwork_LoopNavigation(t *testing.T) {
	n := NewNetworkState()
	n.Railway = []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	assert.Equal(t, 3, n.PrevPosition(0))
	assert.Equal(t, 1, n.NextPosition(3, 2))
	n.Stations = []StationState{{Index: 2, StopTime: 100}}
	s, ok := n.StationAt(2)
	assert.True(t, ok)
	assert.Equal(t, 100, s.StopTime)
	_, ok = n.StationAt(1)
	assert.False(t, ok)
}

func TestIndex_NoIndexIsInvalid(t *testing.T) {
	assert.False(t, NoIndex.Valid())
	assert.True(t, HeroIndex.Valid())
	assert.False(t, NewDataRef("cow").Bound())
}
