package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontier.dev/internal/models"
	"frontier.dev/internal/simulation"
)

func TestParseIntent(t *testing.T) {
	action, err := ParseIntent(Intent{Direction: "w"})
	require.NoError(t, err)
	assert.Equal(t, simulation.MoveAction{Displacement: models.Point{X: 0, Y: -1}}, action)

	action, err = ParseIntent(Intent{Action: "move", Direction: "southeast"})
	require.NoError(t, err)
	assert.Equal(t, simulation.MoveAction{Displacement: models.Point{X: 1, Y: 1}}, action)

	action, err = ParseIntent(Intent{Action: "move", DX: -1})
	require.NoError(t, err)
	assert.Equal(t, simulation.MoveAction{Displacement: models.Point{X: -1, Y: 0}}, action)

	action, err = ParseIntent(Intent{Action: "reload"})
	require.NoError(t, err)
	assert.Equal(t, simulation.ActionReload, action.Kind())

	_, err = ParseIntent(Intent{Direction: "up"})
	assert.Error(t, err)
	_, err = ParseIntent(Intent{Action: "graze"})
	assert.Error(t, err)
	_, err = ParseIntent(Intent{})
	assert.Error(t, err)
}

func TestGameService_Act(t *testing.T) {
	s := withWorld(t, boltStore(t))
	game := NewGameService(s)

	require.NoError(t, game.Act(Intent{Direction: "d"}))
	s.Tick(0)

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 11, Y: 10}, summary.Hero)

	assert.Error(t, game.Act(Intent{Path: []models.Position{{X: 30, Y: 30}}}))
}
