// Package persistence stores world saves in named slots.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"frontier.dev/internal/models"
)

// ErrNotFound is returned when a slot holds no save
var ErrNotFound = errors.New("save not found")

// SaveInfo describes a stored save without decoding it
type SaveInfo struct {
	Slot      string    `json:"slot"`
	Version   int       `json:"version"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Storage defines the interface for world persistence
type Storage interface {
	Save(ctx context.Context, slot string, state *models.WorldState) error
	Load(ctx context.Context, slot string) (*models.WorldState, error)
	List(ctx context.Context) ([]SaveInfo, error)
	Delete(ctx context.Context, slot string) error
	Close() error
}

// Open selects a store by driver name: "postgres" connects to dsn, "bolt"
// opens the file at path
func Open(ctx context.Context, driver, path, dsn string, logger *log.Logger) (Storage, error) {
	switch driver {
	case "postgres":
		if dsn == "" {
			dsn = "host=localhost user=frontier password=frontier dbname=frontier sslmode=disable"
		}
		return NewPostgresStore(ctx, dsn, logger)
	case "bolt", "":
		return NewBoltStore(path, logger)
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}
