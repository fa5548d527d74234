package services

import (
	"frontier.dev/internal/data"
	"frontier.dev/internal/models"
	"frontier.dev/internal/simulation"
)

var biomeChars = map[models.Biome]string{
	models.BiomePrairie:     ".",
	models.BiomeDesert:      ",",
	models.BiomeForest:      ".",
	models.BiomeMountain:    "^",
	models.BiomeWater:       "~",
	models.BiomeUnderground: " ",
	models.BiomeBuilding:    "_",
}

var decorationChars = map[models.Decoration]string{
	models.DecorationFloorDown: ">",
	models.DecorationFloorUp:   "<",
	models.DecorationHerb:      "\"",
	models.DecorationCactus:    "!",
	models.DecorationTree:      "T",
	models.DecorationCliff:     "^",
	models.DecorationWall:      "#",
	models.DecorationRock:      "#",
}

// MapService renders floors of the running world for clients
type MapService struct {
	catalog *data.Catalog
}

// NewMapService creates a new MapService
func NewMapService(catalog *data.Catalog) *MapService {
	return &MapService{catalog: catalog}
}

// GetViewport returns the cells of a floor around a center position.
// Cells never explored are sent blank, actors are only drawn where the
// hero currently sees.
func (s *MapService) GetViewport(model *simulation.WorldModel, floor models.Floor, center models.Point, width, height int) *models.ViewportData {
	state := model.State()
	floorMap := state.Map.FromFloor(floor)
	origin := center.Add(-width/2, -height/2)

	viewport := &models.ViewportData{
		Floor:   floor.String(),
		OriginX: origin.X,
		OriginY: origin.Y,
		Tiles:   make([][]models.RenderedTile, height),
	}

	for y := 0; y < height; y++ {
		viewport.Tiles[y] = make([]models.RenderedTile, width)
		for x := 0; x < width; x++ {
			p := origin.Add(x, y)
			tile := s.getTileAt(floorMap, p)
			if tile.Visible {
				if actor := state.Actor(model.Reverse(floor, p).Actor); actor != nil {
					// a rider hides its mount
					if animal, ok := actor.Animal(); ok && animal.MountedBy.Valid() {
						actor = state.Actor(animal.MountedBy)
					}
					tile.Character = s.actorChar(actor)
				} else if model.Reverse(floor, p).Train.Valid() {
					tile.Character = "="
				}
			}
			viewport.Tiles[y][x] = tile
		}
	}

	return viewport
}

// getTileAt returns the rendered cell at a position
func (s *MapService) getTileAt(floorMap *models.FloorMap, p models.Point) models.RenderedTile {
	// ? marks cells outside the map
	if !floorMap.InBounds(p) {
		return models.RenderedTile{Character: "?", Biome: "void"}
	}

	cell := floorMap.Get(p)
	tile := models.RenderedTile{
		Biome:    cell.Biome.String(),
		Walkable: cell.Decoration.Walkable(),
		Visible:  cell.Flags&models.CellVisible != 0,
		Explored: cell.Flags&models.CellExplored != 0,
	}
	if !tile.Explored {
		tile.Character = " "
		return tile
	}

	if cell.Decoration != models.DecorationNone {
		tile.Decoration = cell.Decoration.String()
		tile.Character = decorationChars[cell.Decoration]
		return tile
	}
	if char, ok := biomeChars[cell.Biome]; ok {
		tile.Character = char
	} else {
		tile.Character = " "
	}
	return tile
}

func (s *MapService) actorChar(actor *models.ActorState) string {
	if info := s.catalog.Actor(actor.Data); info != nil && info.Picture != "" {
		return info.Picture
	}
	return "@"
}

// GetActors lists every actor with its catalog label
func (s *MapService) GetActors(state *models.WorldState) []models.ActorView {
	views := make([]models.ActorView, 0, len(state.Actors))
	for i := range state.Actors {
		actor := &state.Actors[i]
		view := models.ActorView{
			Index:    i,
			Label:    actor.Data.Label,
			Floor:    actor.Floor.String(),
			Position: models.PositionOf(actor.Position),
		}
		if info := s.catalog.Actor(actor.Data); info != nil {
			view.Kind = string(info.Type)
		}
		switch feature := actor.Feature.(type) {
		case *models.HumanFeature:
			view.Name = feature.Name
			if feature.Mounting.Valid() {
				mounting := int(feature.Mounting)
				view.Mounting = &mounting
			}
		case *models.AnimalFeature:
			if feature.MountedBy.Valid() {
				rider := int(feature.MountedBy)
				view.MountedBy = &rider
			}
		}
		views = append(views, view)
	}
	return views
}

// GetNetwork summarizes the rails and roads
func (s *MapService) GetNetwork(state *models.WorldState) *models.NetworkView {
	network := &state.Network
	view := &models.NetworkView{
		RailwayLength: len(network.Railway),
		Stations:      make([]models.Position, 0, len(network.Stations)),
		Trains:        make([]models.Position, 0, len(network.Trains)),
		RoadCells:     network.Roads.Size(),
	}
	if len(network.Railway) == 0 {
		return view
	}
	for _, station := range network.Stations {
		view.Stations = append(view.Stations, models.PositionOf(network.Railway[station.Index]))
	}
	for _, train := range network.Trains {
		view.Trains = append(view.Trains, models.PositionOf(network.Railway[train.RailwayIndex]))
	}
	return view
}

// GetJournal returns the latest entries, oldest first
func (s *MapService) GetJournal(state *models.WorldState, limit int) []models.JournalView {
	entries := state.Journal.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	views := make([]models.JournalView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, models.JournalView{
			ID:      entry.ID.String(),
			Date:    entry.Date.String(),
			Message: entry.Message,
		})
	}
	return views
}
