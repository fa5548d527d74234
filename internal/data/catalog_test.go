package data

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontier.dev/internal/models"
)

func TestDefault_LooksUpByLabel(t *testing.T) {
	c := Default()

	index, err := c.FindItem("Colt Dragoon Revolver")
	require.NoError(t, err)
	revolver := c.Item(models.DataRef{Label: "Colt Dragoon Revolver", Index: index})
	require.NotNil(t, revolver)
	assert.Equal(t, ItemFirearm, revolver.Type)
	assert.Equal(t, 6, revolver.Capacity)

	index, err = c.FindActor("Horse")
	require.NoError(t, err)
	horse := c.Actor(models.DataRef{Label: "Horse", Index: index})
	require.NotNil(t, horse)
	assert.True(t, horse.CanBeMounted)
}

func TestParse_SortsByHashedLabel(t *testing.T) {
	c, err := Parse(strings.NewReader(`{"actors":[{"label":"B","type":"human"},{"label":"A","type":"animal"},{"label":"C","type":"human"}],"items":[]}`))
	require.NoError(t, err)

	for i := 1; i < len(c.Actors); i++ {
		assert.Less(t, uint64(c.Actors[i-1].id), uint64(c.Actors[i].id))
	}
	for _, label := range []string{"A", "B", "C"} {
		index, err := c.FindActor(label)
		require.NoError(t, err)
		assert.Equal(t, label, c.Actors[index].Label)
	}
}

func TestFind_UnknownLabel(t *testing.T) {
	c := Default()

	index, err := c.FindActor("Dragon")
	assert.ErrorIs(t, err, ErrUnknownLabel)
	assert.Equal(t, models.NoIndex, index)
	assert.Nil(t, c.Actor(models.NewDataRef("Dragon")))
}

func TestBind_LogsUnresolvedReferences(t *testing.T) {
	c := Default()
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	state := &models.WorldState{
		Actors: []models.ActorState{
			{
				Data:       models.NewDataRef("Hero"),
				Weapon:     models.WeaponState{Data: models.NewDataRef("Colt Dragoon Revolver")},
				Ammunition: models.AmmunitionState{Data: models.NewDataRef(".44 Ammunitions"), Count: 32},
			},
			{Data: models.NewDataRef("Unicorn")},
		},
	}

	unresolved := c.Bind(state, logger)

	assert.Equal(t, 1, unresolved)
	assert.True(t, state.Actors[0].Data.Bound())
	assert.True(t, state.Actors[0].Weapon.Data.Bound())
	assert.True(t, state.Actors[0].Ammunition.Data.Bound())
	assert.False(t, state.Actors[1].Data.Bound())
	assert.False(t, state.Actors[1].Weapon.Data.Bound())
	assert.Contains(t, buf.String(), "Unicorn")
}
