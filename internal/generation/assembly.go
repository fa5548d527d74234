package generation

import (
	"fmt"

	"frontier.dev/internal/models"
)

// Starting equipment and stats of the hero
const (
	HeroLabel       = "Hero"
	HeroWeapon      = "Colt Dragoon Revolver"
	HeroAmmunition  = ".44 Ammunitions"
	HeroCartridges  = 32
	HeroIntensity   = 100
	HeroPrecision   = 90
	HeroEndurance   = 70
	CowLabel        = "Cow"
	CowOffset       = 10
	CowSearchRadius = 10
	heroMinAge      = 20
	heroMaxAge      = 40
	stationDistance = 2
)

// StartingPosition returns a cell next to the station closest to the world
// center, on the side away from the center
func StartingPosition(network *models.NetworkState, s Settings) (Point, error) {
	if len(network.Stations) == 0 {
		return Point{}, fmt.Errorf("no station: %w", ErrInvariant)
	}
	center := s.WorldCenter()

	best := network.Railway[network.Stations[0].Index]
	for _, station := range network.Stations[1:] {
		p := network.Railway[station.Index]
		if models.Manhattan(center, p) < models.Manhattan(center, best) {
			best = p
		}
	}
	return best.Plus(best.Minus(center).Sign().Scale(stationDistance)), nil
}

func randomGender(rng *RNG) models.Gender {
	roll := rng.Intn(100)
	switch {
	case roll < 50:
		return models.GenderMale
	case roll < 98:
		return models.GenderFemale
	}
	return models.GenderNonBinary
}

// randomAttribute rolls 3d6+2
func randomAttribute(rng *RNG) int {
	attribute := 2
	for i := 0; i < 3; i++ {
		attribute += rng.IntRange(1, 6)
	}
	return attribute
}

func randomBirthdate(rng *RNG, current models.Date) models.Date {
	age := rng.IntRange(heroMinAge, heroMaxAge)
	month := rng.Intn(models.MonthsInYear)
	return models.Date{
		Year:  current.Year - age,
		Month: month,
		Day:   rng.IntRange(1, models.DaysInMonth(month)),
	}
}

// NewHero creates the player character at a position
func NewHero(rng *RNG, position Point, date models.Date) models.ActorState {
	gender := randomGender(rng)
	human := &models.HumanFeature{
		Name:      RandomName(rng, gender),
		Gender:    gender,
		Birthdate: randomBirthdate(rng, date),
		Health:    models.MaxHealth - 1,
		Attributes: models.Attributes{
			Force:        randomAttribute(rng),
			Dexterity:    randomAttribute(rng),
			Constitution: randomAttribute(rng),
			Luck:         randomAttribute(rng),
		},
		Intensity: HeroIntensity,
		Precision: HeroPrecision,
		Endurance: HeroEndurance,
		Mounting:  models.NoIndex,
	}

	return models.ActorState{
		Data:       models.NewDataRef(HeroLabel),
		Floor:      models.FloorGround,
		Position:   position,
		Feature:    human,
		Weapon:     models.WeaponState{Data: models.NewDataRef(HeroWeapon)},
		Ammunition: models.AmmunitionState{Data: models.NewDataRef(HeroAmmunition), Count: HeroCartridges},
		Inventory:  models.Inventory{Items: []models.InventoryItem{}},
	}
}

// NewCow creates a free animal near a position
func NewCow(position Point) models.ActorState {
	return models.ActorState{
		Data:       models.NewDataRef(CowLabel),
		Floor:      models.FloorGround,
		Position:   position,
		Feature:    &models.AnimalFeature{MountedBy: models.NoIndex},
		Weapon:     models.WeaponState{Data: models.NewDataRef("")},
		Ammunition: models.AmmunitionState{Data: models.NewDataRef("")},
		Inventory:  models.Inventory{Items: []models.InventoryItem{}},
	}
}

// nearestWalkable searches rings of growing radius around a cell for a
// walkable ground cell not in taken
func nearestWalkable(ground *models.FloorMap, from Point, limit int, taken ...Point) (Point, bool) {
	free := func(p Point) bool {
		if !ground.InBounds(p) || !ground.At(p).Decoration.Walkable() {
			return false
		}
		for _, t := range taken {
			if t == p {
				return false
			}
		}
		return true
	}
	for r := 0; r <= limit; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				if p := from.Add(dx, dy); free(p) {
					return p, true
				}
			}
		}
	}
	return Point{}, false
}

// PlaceCow puts the cow on the walkable cell nearest to CowOffset cells
// east of the hero
func PlaceCow(ground *models.FloorMap, hero Point) (models.ActorState, error) {
	position, ok := nearestWalkable(ground, hero.Add(CowOffset, 0), CowSearchRadius, hero)
	if !ok {
		return models.ActorState{}, fmt.Errorf("cow near %v: %w", hero, ErrNoPlace)
	}
	return NewCow(position), nil
}

// SeedScheduler queues the first turn of every actor and train
func SeedScheduler(state *models.WorldState) {
	state.Scheduler.Push(state.CurrentDate, models.TaskActor, models.HeroIndex)
	for i := 1; i < len(state.Actors); i++ {
		state.Scheduler.Push(state.CurrentDate.Plus(i), models.TaskActor, models.Index(i))
	}
	for i := range state.Network.Trains {
		state.Scheduler.Push(state.CurrentDate.Plus(state.Network.Stations[i].StopTime), models.TaskTrain, models.Index(i))
	}

	if human, ok := state.Hero().Human(); ok {
		state.Journal.Add(state.CurrentDate, fmt.Sprintf("Hello %s!", human.Name))
	}
}
