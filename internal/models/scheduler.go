package models

import "container/heap"

// TaskKind is the subject kind of a scheduled task
type TaskKind uint8

const (
	TaskActor TaskKind = iota
	TaskTrain
)

// Task is a due-dated turn of an actor or a train. Seq breaks ties
// between equal dates in insertion order.
type Task struct {
	Date  Date
	Kind  TaskKind
	Index Index
	Seq   uint64
}

// taskQueue implements heap.Interface over tasks
type taskQueue []Task

func (q taskQueue) Len() int { return len(q) }
func (q taskQueue) Less(i, j int) bool {
	if q[i].Date.Equal(q[j].Date) {
		return q[i].Seq < q[j].Seq
	}
	return q[i].Date.Before(q[j].Date)
}
func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *taskQueue) Push(x interface{}) {
	*q = append(*q, x.(Task))
}
func (q *taskQueue) Pop() interface{} {
	old := *q
	t := old[len(old)-1]
	*q = old[:len(old)-1]
	return t
}

// SchedulerState is the min-priority queue of pending turns. Queue is
// stored in heap order and serialized verbatim.
type SchedulerState struct {
	Queue   []Task
	NextSeq uint64
}

// Len returns the number of pending tasks
func (s *SchedulerState) Len() int {
	return len(s.Queue)
}

// Push schedules a new task
func (s *SchedulerState) Push(date Date, kind TaskKind, index Index) {
	s.NextSeq++
	q := taskQueue(s.Queue)
	heap.Push(&q, Task{Date: date, Kind: kind, Index: index, Seq: s.NextSeq})
	s.Queue = q
}

// Top returns the earliest task without removing it
func (s *SchedulerState) Top() (Task, bool) {
	if len(s.Queue) == 0 {
		return Task{}, false
	}
	return s.Queue[0], true
}

// Pop removes and returns the earliest task
func (s *SchedulerState) Pop() (Task, bool) {
	if len(s.Queue) == 0 {
		return Task{}, false
	}
	q := taskQueue(s.Queue)
	t := heap.Pop(&q).(Task)
	s.Queue = q
	return t, true
}

// RescheduleTop moves the earliest task forward by a duration in seconds
func (s *SchedulerState) RescheduleTop(seconds int) {
	if len(s.Queue) == 0 {
		return
	}
	s.NextSeq++
	s.Queue[0].Date.AddSeconds(seconds)
	s.Queue[0].Seq = s.NextSeq
	q := taskQueue(s.Queue)
	heap.Fix(&q, 0)
}
