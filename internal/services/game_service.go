package services

import (
	"fmt"

	"frontier.dev/internal/models"
	"frontier.dev/internal/simulation"
)

// GameService turns player intents into hero actions
type GameService struct {
	world *WorldService
}

// NewGameService creates a new GameService
func NewGameService(ws *WorldService) *GameService {
	return &GameService{world: ws}
}

// Intent is a hero command as sent by a client
type Intent struct {
	Action    string            `json:"action"`
	Direction string            `json:"direction,omitempty"`
	DX        int               `json:"dx,omitempty"`
	DY        int               `json:"dy,omitempty"`
	Path      []models.Position `json:"path,omitempty"`
}

// directionDelta maps a direction name or key to a displacement
func directionDelta(direction string) (models.Point, error) {
	switch direction {
	case "north", "w", "W":
		return models.Point{X: 0, Y: -1}, nil
	case "south", "s", "S":
		return models.Point{X: 0, Y: 1}, nil
	case "east", "d", "D":
		return models.Point{X: 1, Y: 0}, nil
	case "west", "a", "A":
		return models.Point{X: -1, Y: 0}, nil
	case "northeast", "e", "E":
		return models.Point{X: 1, Y: -1}, nil
	case "northwest", "q", "Q":
		return models.Point{X: -1, Y: -1}, nil
	case "southeast", "c", "C":
		return models.Point{X: 1, Y: 1}, nil
	case "southwest", "z", "Z":
		return models.Point{X: -1, Y: 1}, nil
	}
	return models.Point{}, fmt.Errorf("invalid direction: %s", direction)
}

// ParseIntent builds the action of an intent
func ParseIntent(intent Intent) (simulation.Action, error) {
	dx, dy := intent.DX, intent.DY
	if intent.Direction != "" {
		delta, err := directionDelta(intent.Direction)
		if err != nil {
			return nil, err
		}
		dx, dy = delta.X, delta.Y
	}
	if intent.Action == "" && intent.Direction != "" {
		intent.Action = "move"
	}
	if intent.Action == "graze" {
		return nil, fmt.Errorf("the hero cannot graze")
	}
	return simulation.ParseAction(intent.Action, dx, dy)
}

// Act submits an intent for the next hero turn
func (s *GameService) Act(intent Intent) error {
	if len(intent.Path) > 0 {
		path := make([]models.Point, 0, len(intent.Path))
		for _, p := range intent.Path {
			path = append(path, models.Point{X: p.X, Y: p.Y})
		}
		return s.world.SubmitPath(path)
	}

	action, err := ParseIntent(intent)
	if err != nil {
		return err
	}
	return s.world.SubmitAction(action)
}
