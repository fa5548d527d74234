package generation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"frontier.dev/internal/models"
)

// ErrRunning is returned when the result of an unfinished task is requested
var ErrRunning = errors.New("generation still running")

// Task is a world generation running in the background. Its stage can be
// polled from any goroutine.
type Task struct {
	stage  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	state   *models.WorldState
	err     error
	timings []StageTiming
}

// taskSink records the current stage then forwards to the caller's sink
type taskSink struct {
	task  *Task
	inner ProgressSink
}

func (s taskSink) StageStarted(stage Stage) {
	s.task.stage.Store(int32(stage))
	s.inner.StageStarted(stage)
}

func (s taskSink) StageFinished(stage Stage, elapsed time.Duration) {
	s.inner.StageFinished(stage, elapsed)
}

// StartTask launches a generation in its own goroutine
func StartTask(ctx context.Context, settings Settings, seed uint64, opts ...Option) *Task {
	ctx, cancel := context.WithCancel(ctx)
	task := &Task{cancel: cancel, done: make(chan struct{})}

	generator := NewWorldGenerator(settings, seed, opts...)
	generator.sink = taskSink{task: task, inner: generator.sink}

	go func() {
		defer close(task.done)
		defer cancel()

		state, err := generator.Generate(ctx)

		task.mu.Lock()
		task.state, task.err = state, err
		task.timings = append([]StageTiming(nil), generator.Timings()...)
		task.mu.Unlock()
	}()

	return task
}

// Stage returns the stage being run, or the last one once finished
func (t *Task) Stage() Stage {
	return Stage(t.stage.Load())
}

// Done reports whether the generation has finished, without blocking
func (t *Task) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the generation finishes or the context is cancelled
func (t *Task) Wait(ctx context.Context) (*models.WorldState, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the generated world once the task is done
func (t *Task) Result() (*models.WorldState, error) {
	if !t.Done() {
		return nil, ErrRunning
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.err
}

// Timings returns the stage durations of a finished task
func (t *Task) Timings() []StageTiming {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timings
}

// Cancel asks the generation to stop at the next stage boundary
func (t *Task) Cancel() {
	t.cancel()
}
