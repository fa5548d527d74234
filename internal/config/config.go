package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"frontier.dev/internal/generation"
	"frontier.dev/internal/simulation"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	World   WorldConfig   `yaml:"world"`
	Data    DataConfig    `yaml:"data"`
}

// ServerConfig holds the HTTP and tick loop settings
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	CooldownMs int    `yaml:"cooldown_ms"`
	TickMs     int    `yaml:"tick_ms"`
}

// StorageConfig selects where saves are kept
type StorageConfig struct {
	Driver string `yaml:"driver"` // bolt or postgres
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// WorldConfig holds the generation and simulation parameters
type WorldConfig struct {
	Size          int     `yaml:"size"`
	Padding       int     `yaml:"padding"`
	ReducedFactor int     `yaml:"reduced_factor"`
	NoiseScale    float64 `yaml:"noise_scale"`

	Towns              int `yaml:"towns"`
	LocalitiesPerTown  int `yaml:"localities_per_town"`
	TownSeparation     int `yaml:"town_separation"`
	LocalitySeparation int `yaml:"locality_separation"`
	LocalityRoadCap    int `yaml:"locality_road_cap"`
	TownRoadCap        int `yaml:"town_road_cap"`

	RegionMinSize         int `yaml:"region_min_size"`
	CaveAccessQuota       int `yaml:"cave_access_quota"`
	CaveAccessMinDistance int `yaml:"cave_access_min_distance"`
	CaveAccessRetries     int `yaml:"cave_access_retries"`
	CaveLinkDistance      int `yaml:"cave_link_distance"`

	VisionRange  int `yaml:"vision_range"`
	IdleDistance int `yaml:"idle_distance"`
}

// DataConfig points to the catalog of definitions, the built-in one when empty
type DataConfig struct {
	CatalogPath string `yaml:"catalog_path"`
}

func (s *ServerConfig) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.CooldownMs == 0 {
		s.CooldownMs = 20
	}
	if s.TickMs == 0 {
		s.TickMs = 16
	}
}

func (s *StorageConfig) ApplyDefaults() {
	if s.Driver == "" {
		s.Driver = "bolt"
	}
	if s.Path == "" {
		s.Path = "saves.db"
	}
}

func (w *WorldConfig) ApplyDefaults() {
	defaults := generation.DefaultSettings()
	sim := simulation.DefaultSettings()

	setInt := func(v *int, def int) {
		if *v == 0 {
			*v = def
		}
	}
	setInt(&w.Size, defaults.WorldSize)
	setInt(&w.Padding, defaults.Padding)
	setInt(&w.ReducedFactor, defaults.ReducedFactor)
	if w.NoiseScale == 0 {
		w.NoiseScale = defaults.NoiseScale
	}
	setInt(&w.Towns, defaults.TownsCount)
	setInt(&w.LocalitiesPerTown, defaults.LocalitiesPerTown)
	setInt(&w.TownSeparation, defaults.TownSeparation)
	setInt(&w.LocalitySeparation, defaults.LocalitySeparation)
	setInt(&w.LocalityRoadCap, defaults.LocalityRoadCap)
	setInt(&w.TownRoadCap, defaults.TownRoadCap)
	setInt(&w.RegionMinSize, defaults.RegionMinSize)
	setInt(&w.CaveAccessQuota, defaults.CaveAccessQuota)
	setInt(&w.CaveAccessMinDistance, defaults.CaveAccessMinDistance)
	setInt(&w.CaveAccessRetries, defaults.CaveAccessRetries)
	setInt(&w.CaveLinkDistance, defaults.CaveLinkDistance)
	setInt(&w.VisionRange, sim.VisionRange)
	setInt(&w.IdleDistance, sim.IdleDistance)
}

func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.World.ApplyDefaults()
}

// applyEnv lets the deployment override the file
func (c *Config) applyEnv() {
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if driver := os.Getenv("DB_TYPE"); driver != "" {
		c.Storage.Driver = driver
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Storage.DSN = dsn
	}
}

// Default returns the configuration used without a file
func Default() *Config {
	var c Config
	c.applyEnv()
	c.ApplyDefaults()
	return &c
}

// Load reads a YAML configuration file. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	c.applyEnv()
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// Validate checks the values a file may have set wrong
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "bolt", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return c.GenerationSettings().Validate()
}

// GenerationSettings converts the world section for the generator
func (c *Config) GenerationSettings() generation.Settings {
	s := generation.DefaultSettings()
	w := c.World
	s.WorldSize = w.Size
	s.Padding = w.Padding
	s.ReducedFactor = w.ReducedFactor
	s.NoiseScale = w.NoiseScale
	s.TownsCount = w.Towns
	s.LocalitiesPerTown = w.LocalitiesPerTown
	s.TownSeparation = w.TownSeparation
	s.LocalitySeparation = w.LocalitySeparation
	s.LocalityRoadCap = w.LocalityRoadCap
	s.TownRoadCap = w.TownRoadCap
	s.RegionMinSize = w.RegionMinSize
	s.CaveAccessQuota = w.CaveAccessQuota
	s.CaveAccessMinDistance = w.CaveAccessMinDistance
	s.CaveAccessRetries = w.CaveAccessRetries
	s.CaveLinkDistance = w.CaveLinkDistance
	return s
}

// SimulationSettings converts the pacing values for the world model
func (c *Config) SimulationSettings() simulation.Settings {
	return simulation.Settings{
		VisionRange:  c.World.VisionRange,
		IdleDistance: c.World.IdleDistance,
		Cooldown:     time.Duration(c.Server.CooldownMs) * time.Millisecond,
	}
}

// TickInterval is the period of the server update loop
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Server.TickMs) * time.Millisecond
}
