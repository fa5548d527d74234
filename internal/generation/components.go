package generation

import (
	"bufio"
	"embed"
	"fmt"
	"strings"

	"frontier.dev/internal/models"
)

//go:embed plans/*.txt
var planFiles embed.FS

// PlanPart is the kind of a cell in a building plan
type PlanPart uint8

const (
	PartOutside PlanPart = iota
	PartFloor
	PartWall
	PartFurniture
)

func planPart(c byte) PlanPart {
	switch c {
	case '#', '+':
		return PartWall
	case '=':
		return PartFurniture
	case '.':
		return PartOutside
	}
	return PartFloor
}

// Plan is a square building layout drawn with its entrance on the bottom row
type Plan struct {
	Size int
	rows []string
}

// Part returns the plan cell at a local position once the plan is turned
// so that its entrance is on the facing side
func (p *Plan) Part(x, y int, facing models.Direction) PlanPart {
	last := p.Size - 1
	switch facing {
	case models.North:
		return planPart(p.rows[last-y][last-x])
	case models.East:
		return planPart(p.rows[x][last-y])
	case models.West:
		return planPart(p.rows[last-x][y])
	}
	return planPart(p.rows[y][x])
}

// parsePlans reads a plan file made of [name] sections of size rows.
// Lines before the first section are comments.
func parsePlans(name string, size int) (map[string]*Plan, error) {
	f, err := planFiles.Open("plans/" + name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	plans := make(map[string]*Plan)
	var current *Plan
	var currentName string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentName = strings.Trim(line, "[]")
			current = &Plan{Size: size}
			plans[currentName] = current
			continue
		}
		if current == nil || line == "" {
			continue
		}
		if len(line) != size {
			return nil, fmt.Errorf("plan %s: row of %d cells, want %d", currentName, len(line), size)
		}
		current.rows = append(current.rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for planName, plan := range plans {
		if len(plan.rows) != size {
			return nil, fmt.Errorf("plan %s: %d rows, want %d", planName, len(plan.rows), size)
		}
	}
	return plans, nil
}

var (
	townPlans     = mustParsePlans("town.txt", models.TownBuildingSize)
	localityPlans = mustParsePlans("locality.txt", models.LocalityDiameter)
)

func mustParsePlans(name string, size int) map[string]*Plan {
	plans, err := parsePlans(name, size)
	if err != nil {
		panic(fmt.Sprintf("embedded plans %s: %v", name, err))
	}
	return plans
}

// Component is a structure stamped onto the ground floor
type Component interface {
	// Render writes the walls of the component
	Render(ground *models.FloorMap)
	// GetBounds returns the map cells covered by the component
	GetBounds() models.Bounds
}

// TownBuilding is one standing building of a town block
type TownBuilding struct {
	Origin   Point
	Building models.Building
}

func (b *TownBuilding) Render(ground *models.FloorMap) {
	renderPlan(ground, townPlans[b.Building.Type.String()], b.Origin, b.Building.Facing)
}

func (b *TownBuilding) GetBounds() models.Bounds {
	return models.Bounds{
		MinX: b.Origin.X, MinY: b.Origin.Y,
		MaxX: b.Origin.X + models.TownBuildingSize - 1, MaxY: b.Origin.Y + models.TownBuildingSize - 1,
	}
}

// Locality is the whole layout of a farm, camp or village
type Locality struct {
	State models.LocalityState
}

func (l *Locality) Render(ground *models.FloorMap) {
	b := l.GetBounds()
	renderPlan(ground, localityPlans[l.State.Type.String()], Point{X: b.MinX, Y: b.MinY}, l.State.Facing)
}

func (l *Locality) GetBounds() models.Bounds {
	return l.State.Footprint()
}

func renderPlan(ground *models.FloorMap, plan *Plan, origin Point, facing models.Direction) {
	if plan == nil {
		return
	}
	for y := 0; y < plan.Size; y++ {
		for x := 0; x < plan.Size; x++ {
			if plan.Part(x, y, facing) == PartWall {
				ground.SetDecoration(origin.Add(x, y), models.DecorationWall)
			}
		}
	}
}

// ---- Town layout ----

// townBuildingPool holds every building of a town plus the vacant street slots
var townBuildingPool = []models.BuildingType{
	models.BuildingBank,
	models.BuildingCasino,
	models.BuildingChurch,
	models.BuildingClothShop,
	models.BuildingFoodShop,
	models.BuildingHotel,
	models.BuildingHouse1,
	models.BuildingHouse2,
	models.BuildingHouse3,
	models.BuildingMarshalOffice,
	models.BuildingRestaurant,
	models.BuildingSaloon,
	models.BuildingSchool,
	models.BuildingWeaponShop,
	models.BuildingNone,
	models.BuildingNone,
	models.BuildingNone,
	models.BuildingNone,
	models.BuildingNone,
	models.BuildingNone,
}

// LayoutTown assigns the buildings of a town along its two main streets
func LayoutTown(placed PlacedTown, s Settings, rng *RNG) (models.TownState, error) {
	town := models.TownState{
		Position:         s.ToMap(placed.Center).Add(-models.TownRadius, -models.TownRadius),
		HorizontalStreet: rng.IntRange(2, 5),
		VerticalStreet:   rng.IntRange(2, 5),
	}

	pool := make([]models.BuildingType, len(townBuildingPool))
	copy(pool, townBuildingPool)
	Shuffle(rng, pool)

	up, down := town.HorizontalStreet-1, town.HorizontalStreet
	left, right := town.VerticalStreet-1, town.VerticalStreet

	next := 0
	assign := func(column, row int) {
		slot := town.Slot(column, row)
		if slot.Type == models.BuildingEmpty && next < len(pool) {
			slot.Type = pool[next]
			next++
		}
	}
	for i := 0; i < models.TownsBlockSize; i++ {
		assign(i, up)
		assign(i, down)
	}
	for j := 0; j < models.TownsBlockSize; j++ {
		assign(left, j)
		assign(right, j)
	}
	if next != len(pool) {
		return town, fmt.Errorf("town street slots: %d buildings placed out of %d: %w", next, len(pool), ErrInvariant)
	}

	// pack buildings toward the crossing
	stackBuildings(&town, Point{X: left, Y: up}, Point{X: -1, Y: 0})
	stackBuildings(&town, Point{X: left, Y: up}, Point{X: 0, Y: -1})
	stackBuildings(&town, Point{X: left, Y: down}, Point{X: -1, Y: 0})
	stackBuildings(&town, Point{X: left, Y: down}, Point{X: 0, Y: 1})
	stackBuildings(&town, Point{X: right, Y: up}, Point{X: 1, Y: 0})
	stackBuildings(&town, Point{X: right, Y: up}, Point{X: 0, Y: -1})
	stackBuildings(&town, Point{X: right, Y: down}, Point{X: 1, Y: 0})
	stackBuildings(&town, Point{X: right, Y: down}, Point{X: 0, Y: 1})

	for row := 0; row < models.TownsBlockSize; row++ {
		for column := 0; column < models.TownsBlockSize; column++ {
			slot := town.Slot(column, row)
			if !slot.Type.Standing() {
				continue
			}
			switch row {
			case up:
				slot.Facing = models.South
			case down:
				slot.Facing = models.North
			}
			switch column {
			case left:
				slot.Facing = models.East
			case right:
				slot.Facing = models.West
			}
		}
	}

	return town, nil
}

// stackBuildings moves standing buildings of a street line toward its start
func stackBuildings(town *models.TownState, start, step Point) {
	inside := func(p Point) bool {
		return p.X >= 0 && p.X < models.TownsBlockSize && p.Y >= 0 && p.Y < models.TownsBlockSize
	}
	position := start
	for current := start; inside(current); current = current.Plus(step) {
		if town.Slot(current.X, current.Y).Type == models.BuildingNone {
			continue
		}
		a, b := town.Slot(current.X, current.Y), town.Slot(position.X, position.Y)
		*a, *b = *b, *a
		position = position.Plus(step)
	}
}

// TownComponents returns one component per standing building
func TownComponents(town *models.TownState) []Component {
	components := make([]Component, 0)
	for row := 0; row < models.TownsBlockSize; row++ {
		for column := 0; column < models.TownsBlockSize; column++ {
			building := *town.Slot(column, row)
			if !building.Type.Standing() {
				continue
			}
			components = append(components, &TownBuilding{Origin: town.BuildingOrigin(column, row), Building: building})
		}
	}
	return components
}

// BuildTown clears the town area then raises its buildings
func BuildTown(ground *models.FloorMap, town *models.TownState) {
	clearDecorations(ground, town.Footprint())
	for _, component := range TownComponents(town) {
		component.Render(ground)
	}
}

// LayoutLocality turns a placed locality into its map state
func LayoutLocality(placed PlacedLocality, s Settings, rng *RNG) models.LocalityState {
	return models.LocalityState{
		Position: s.ToMap(placed.Center),
		Type:     placed.Type,
		Facing:   models.Direction(rng.Intn(4)),
	}
}

// BuildLocality clears the locality area then raises its walls
func BuildLocality(ground *models.FloorMap, locality models.LocalityState) {
	component := &Locality{State: locality}
	clearDecorations(ground, component.GetBounds())
	component.Render(ground)
}

func clearDecorations(ground *models.FloorMap, b models.Bounds) {
	for y := b.MinY; y <= b.MaxY; y++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			ground.SetDecoration(Point{X: x, Y: y}, models.DecorationNone)
		}
	}
}
