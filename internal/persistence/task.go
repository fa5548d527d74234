package persistence

import (
	"context"
	"log"
	"time"

	"frontier.dev/internal/models"
)

// SaveTask is a save running in the background. The world must not be
// modified until Done reports true.
type SaveTask struct {
	done    chan struct{}
	err     error
	elapsed time.Duration
}

// StartSave writes a world to a slot in its own goroutine
func StartSave(ctx context.Context, store Storage, slot string, state *models.WorldState, logger *log.Logger) *SaveTask {
	if logger == nil {
		logger = log.Default()
	}
	task := &SaveTask{done: make(chan struct{})}

	go func() {
		defer close(task.done)
		start := time.Now()
		task.err = store.Save(ctx, slot, state)
		task.elapsed = time.Since(start)
		if task.err != nil {
			logger.Printf("[SAVE] Slot %s failed: %v", slot, task.err)
			return
		}
		logger.Printf("[SAVE] Game saved in %.3fs to slot %s", task.elapsed.Seconds(), slot)
	}()

	return task
}

// Done reports whether the save has finished, without blocking
func (t *SaveTask) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the save finishes
func (t *SaveTask) Wait() error {
	<-t.done
	return t.err
}

// Err returns the result of a finished save, nil while running
func (t *SaveTask) Err() error {
	if !t.Done() {
		return nil
	}
	return t.err
}

// Elapsed returns the duration of a finished save
func (t *SaveTask) Elapsed() time.Duration {
	if !t.Done() {
		return 0
	}
	return t.elapsed
}
