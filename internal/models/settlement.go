package models

// Town layout constants. A town is a block of TownsBlockSize² building
// slots separated by streets.
const (
	TownsBlockSize   = 6
	TownBuildingSize = 11
	StreetSize       = 3
	TownDiameter     = TownsBlockSize*TownBuildingSize + (TownsBlockSize-1)*StreetSize
	TownRadius       = TownDiameter / 2

	LocalityDiameter = 27
	LocalityRadius   = LocalityDiameter / 2
)

// BuildingType is the kind of building standing in a town slot
type BuildingType uint8

const (
	BuildingEmpty BuildingType = iota // slot away from the main streets
	BuildingNone                      // street-side slot left vacant
	BuildingBank
	BuildingCasino
	BuildingChurch
	BuildingClothShop
	BuildingFoodShop
	BuildingHotel
	BuildingHouse1
	BuildingHouse2
	BuildingHouse3
	BuildingMarshalOffice
	BuildingRestaurant
	BuildingSaloon
	BuildingSchool
	BuildingWeaponShop
)

// Standing reports whether the slot holds an actual building
func (b BuildingType) Standing() bool {
	return b != BuildingEmpty && b != BuildingNone
}

var buildingNames = map[BuildingType]string{
	BuildingEmpty:         "empty",
	BuildingNone:          "none",
	BuildingBank:          "bank",
	BuildingCasino:        "casino",
	BuildingChurch:        "church",
	BuildingClothShop:     "cloth_shop",
	BuildingFoodShop:      "food_shop",
	BuildingHotel:         "hotel",
	BuildingHouse1:        "house1",
	BuildingHouse2:        "house2",
	BuildingHouse3:        "house3",
	BuildingMarshalOffice: "marshal_office",
	BuildingRestaurant:    "restaurant",
	BuildingSaloon:        "saloon",
	BuildingSchool:        "school",
	BuildingWeaponShop:    "weapon_shop",
}

func (b BuildingType) String() string {
	return buildingNames[b]
}

// Building is one slot of a town block. Facing is the side holding the door.
type Building struct {
	Type   BuildingType
	Facing Direction
}

// TownState is a placed town. Position is the top-left corner of its footprint.
type TownState struct {
	Position         Point
	Buildings        [TownsBlockSize][TownsBlockSize]Building // [row][column]
	HorizontalStreet int
	VerticalStreet   int
}

// Slot returns the building at a block column/row
func (t *TownState) Slot(column, row int) *Building {
	return &t.Buildings[row][column]
}

// Footprint returns the cells covered by the town
func (t *TownState) Footprint() Bounds {
	return Bounds{t.Position.X, t.Position.Y, t.Position.X + TownDiameter - 1, t.Position.Y + TownDiameter - 1}
}

// BuildingOrigin returns the top-left cell of a building slot
func (t *TownState) BuildingOrigin(column, row int) Point {
	step := TownBuildingSize + StreetSize
	return t.Position.Add(column*step, row*step)
}

// LocalityType is the kind of a small settlement
type LocalityType uint8

const (
	LocalityFarm LocalityType = iota
	LocalityCamp
	LocalityVillage
)

func (l LocalityType) String() string {
	switch l {
	case LocalityCamp:
		return "camp"
	case LocalityVillage:
		return "village"
	}
	return "farm"
}

// LocalityState is a placed locality. Position is its center cell.
type LocalityState struct {
	Position Point
	Type     LocalityType
	Facing   Direction
}

// Footprint returns the cells covered by the locality
func (l *LocalityState) Footprint() Bounds {
	return BoundsAround(l.Position, LocalityRadius)
}
