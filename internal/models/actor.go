package models

import "math"

// Index addresses an entry of an index-owned list (actors, trains, catalog)
type Index uint32

// NoIndex is the only valid "absent" index
const NoIndex Index = math.MaxUint32

// Valid reports whether the index refers to something
func (i Index) Valid() bool {
	return i != NoIndex
}

// HeroIndex is the reserved actor slot of the player character
const HeroIndex Index = 0

// DataRef is a reference to a catalog entry, resolved by the data bind pass
type DataRef struct {
	Label string
	Index Index `json:"-"`
}

// NewDataRef creates an unresolved reference to a catalog label
func NewDataRef(label string) DataRef {
	return DataRef{Label: label, Index: NoIndex}
}

// Bound reports whether the reference has been resolved
func (r DataRef) Bound() bool {
	return r.Index.Valid()
}

// Gender of a human actor
type Gender uint8

const (
	GenderMale Gender = iota
	GenderFemale
	GenderNonBinary
)

// Attributes are the rolled characteristics of a human
type Attributes struct {
	Force        int
	Dexterity    int
	Constitution int
	Luck         int
}

// MaxHealth is the health ceiling of every human
const MaxHealth = 10

// ActorFeature is the closed set of species-specific payloads
type ActorFeature interface {
	actorFeature()
}

// HumanFeature holds the state specific to human actors
type HumanFeature struct {
	Name       string
	Gender     Gender
	Birthdate  Date
	Health     int
	Attributes Attributes
	Intensity  int
	Precision  int
	Endurance  int
	Mounting   Index
}

// AnimalFeature holds the state specific to animals
type AnimalFeature struct {
	MountedBy Index
}

func (*HumanFeature) actorFeature()  {}
func (*AnimalFeature) actorFeature() {}

// WeaponState is the weapon slot of an actor
type WeaponState struct {
	Data       DataRef
	Cartridges int
}

// AmmunitionState is the ammunition slot of an actor
type AmmunitionState struct {
	Data  DataRef
	Count int
}

// InventoryItem is a stack of items carried by an actor
type InventoryItem struct {
	Data  DataRef
	Count int
}

// Inventory is the bag of an actor
type Inventory struct {
	Cash  int
	Items []InventoryItem
}

// ActorState is one entry of the actor list
type ActorState struct {
	Data       DataRef
	Floor      Floor
	Position   Point
	Feature    ActorFeature
	Weapon     WeaponState
	Ammunition AmmunitionState
	Inventory  Inventory
}

// Human returns the human payload if the actor is a human
func (a *ActorState) Human() (*HumanFeature, bool) {
	h, ok := a.Feature.(*HumanFeature)
	return h, ok
}

// Animal returns the animal payload if the actor is an animal
func (a *ActorState) Animal() (*AnimalFeature, bool) {
	an, ok := a.Feature.(*AnimalFeature)
	return an, ok
}

// Mounted reports whether a human is riding something
func (a *ActorState) Mounted() bool {
	if h, ok := a.Human(); ok {
		return h.Mounting.Valid()
	}
	return false
}

// Ridden reports whether an animal carries a rider
func (a *ActorState) Ridden() bool {
	if an, ok := a.Animal(); ok {
		return an.MountedBy.Valid()
	}
	return false
}
