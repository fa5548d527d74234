package models

// GameState is the summary of the running world sent to clients
type GameState struct {
	WorldID     string   `json:"world_id"`
	Date        string   `json:"date"`
	Phase       string   `json:"phase"`
	Hero        Position `json:"hero"`
	HeroFloor   string   `json:"hero_floor"`
	Cooldown    bool     `json:"cooldown"`
	Saving      bool     `json:"saving"`
	Actors      int      `json:"actors"`
	Trains      int      `json:"trains"`
	PendingTask string   `json:"pending_task,omitempty"`
}

// Position represents a coordinate on the game map
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PositionOf converts a cell point for JSON output
func PositionOf(p Point) Position {
	return Position{X: p.X, Y: p.Y}
}

// RenderedTile represents a cell as sent to the client
type RenderedTile struct {
	Character  string `json:"char"`
	Biome      string `json:"biome"`
	Decoration string `json:"decoration,omitempty"`
	Walkable   bool   `json:"walkable"`
	Visible    bool   `json:"visible"`
	Explored   bool   `json:"explored"`
}

// ViewportData represents a rectangle of cells around a point
type ViewportData struct {
	Floor   string           `json:"floor"`
	OriginX int              `json:"origin_x"`
	OriginY int              `json:"origin_y"`
	Tiles   [][]RenderedTile `json:"tiles"`
}

// ActorView is an actor as sent to the client
type ActorView struct {
	Index     int      `json:"index"`
	Label     string   `json:"label"`
	Kind      string   `json:"kind"`
	Name      string   `json:"name,omitempty"`
	Floor     string   `json:"floor"`
	Position  Position `json:"position"`
	Mounting  *int     `json:"mounting,omitempty"`
	MountedBy *int     `json:"mounted_by,omitempty"`
}

// JournalView is a journal entry as sent to the client
type JournalView struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// NetworkView summarizes the rail and road network
type NetworkView struct {
	RailwayLength int        `json:"railway_length"`
	Stations      []Position `json:"stations"`
	Trains        []Position `json:"trains"`
	RoadCells     int        `json:"road_cells"`
}
