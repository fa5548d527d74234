package data

import (
	"log"

	"frontier.dev/internal/models"
)

// Bind resolves every string reference of a world into catalog indices.
// Unresolved references are logged and left unbound.
func (c *Catalog) Bind(state *models.WorldState, logger *log.Logger) int {
	if logger == nil {
		logger = log.Default()
	}
	unresolved := 0

	bindActor := func(ref *models.DataRef) {
		index, err := c.FindActor(ref.Label)
		if err != nil {
			logger.Printf("[DATA] Could not bind reference: %v", err)
			unresolved++
		}
		ref.Index = index
	}
	bindItem := func(ref *models.DataRef) {
		if ref.Label == "" {
			ref.Index = models.NoIndex
			return
		}
		index, err := c.FindItem(ref.Label)
		if err != nil {
			logger.Printf("[DATA] Could not bind reference: %v", err)
			unresolved++
		}
		ref.Index = index
	}

	for i := range state.Actors {
		actor := &state.Actors[i]
		bindActor(&actor.Data)
		bindItem(&actor.Weapon.Data)
		bindItem(&actor.Ammunition.Data)
		for j := range actor.Inventory.Items {
			bindItem(&actor.Inventory.Items[j].Data)
		}
	}

	return unresolved
}
