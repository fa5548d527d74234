// Package data holds the static catalog of actor and item definitions.
package data

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"sort"

	"frontier.dev/internal/models"
)

// ErrUnknownLabel is returned when a label has no catalog entry
var ErrUnknownLabel = errors.New("unknown data label")

//go:embed catalog.json
var defaultCatalog []byte

// ID is the hashed form of a data label
type ID uint64

// HashLabel computes the FNV-1a hash of a label
func HashLabel(label string) ID {
	h := fnv.New64a()
	h.Write([]byte(label))
	return ID(h.Sum64())
}

// ActorType is the species class of an actor definition
type ActorType string

const (
	ActorHuman  ActorType = "human"
	ActorAnimal ActorType = "animal"
)

// ActorData is a static actor definition
type ActorData struct {
	Label        string    `json:"label"`
	Color        string    `json:"color"`
	Picture      string    `json:"picture"`
	Type         ActorType `json:"type"`
	CanBeMounted bool      `json:"can_be_mounted,omitempty"`

	id ID
}

// ItemType is the class of an item definition
type ItemType string

const (
	ItemFirearm    ItemType = "firearm"
	ItemAmmunition ItemType = "ammunition"
)

// ItemData is a static item definition. Capacity and ReloadTime only
// apply to firearms.
type ItemData struct {
	Label      string   `json:"label"`
	Color      string   `json:"color"`
	Picture    string   `json:"picture"`
	Type       ItemType `json:"type"`
	Caliber    int      `json:"caliber,omitempty"`
	Capacity   int      `json:"capacity,omitempty"`
	ReloadTime int      `json:"reload_time,omitempty"`

	id ID
}

// Catalog is the lookup table of definitions, sorted by hashed label
type Catalog struct {
	Actors []ActorData `json:"actors"`
	Items  []ItemData  `json:"items"`
}

// Parse decodes a catalog from JSON with "actors" and "items" keys
func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	c.sort()
	return &c, nil
}

// Load reads a catalog file
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Default returns the built-in catalog
func Default() *Catalog {
	var c Catalog
	if err := json.Unmarshal(defaultCatalog, &c); err != nil {
		panic("Failed to parse built-in catalog: " + err.Error())
	}
	c.sort()
	return &c
}

func (c *Catalog) sort() {
	for i := range c.Actors {
		c.Actors[i].id = HashLabel(c.Actors[i].Label)
	}
	for i := range c.Items {
		c.Items[i].id = HashLabel(c.Items[i].Label)
	}
	sort.Slice(c.Actors, func(i, j int) bool { return c.Actors[i].id < c.Actors[j].id })
	sort.Slice(c.Items, func(i, j int) bool { return c.Items[i].id < c.Items[j].id })
}

// FindActor returns the index of an actor definition by label
func (c *Catalog) FindActor(label string) (models.Index, error) {
	id := HashLabel(label)
	i := sort.Search(len(c.Actors), func(i int) bool { return c.Actors[i].id >= id })
	if i == len(c.Actors) || c.Actors[i].id != id {
		return models.NoIndex, fmt.Errorf("actor %q: %w", label, ErrUnknownLabel)
	}
	return models.Index(i), nil
}

// FindItem returns the index of an item definition by label
func (c *Catalog) FindItem(label string) (models.Index, error) {
	id := HashLabel(label)
	i := sort.Search(len(c.Items), func(i int) bool { return c.Items[i].id >= id })
	if i == len(c.Items) || c.Items[i].id != id {
		return models.NoIndex, fmt.Errorf("item %q: %w", label, ErrUnknownLabel)
	}
	return models.Index(i), nil
}

// Actor dereferences a bound actor reference, nil when unbound
func (c *Catalog) Actor(ref models.DataRef) *ActorData {
	if !ref.Bound() || int(ref.Index) >= len(c.Actors) {
		return nil
	}
	return &c.Actors[ref.Index]
}

// Item dereferences a bound item reference, nil when unbound
func (c *Catalog) Item(ref models.DataRef) *ItemData {
	if !ref.Bound() || int(ref.Index) >= len(c.Items) {
		return nil
	}
	return &c.Items[ref.Index]
}
