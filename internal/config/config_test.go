package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontier.dev/internal/generation"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frontier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("DB_TYPE", "")
	t.Setenv("DATABASE_URL", "")

	c := Default()

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "bolt", c.Storage.Driver)
	assert.Equal(t, generation.DefaultSettings(), c.GenerationSettings())
	assert.Equal(t, 20*time.Millisecond, c.SimulationSettings().Cooldown)
	assert.Equal(t, 25, c.SimulationSettings().VisionRange)
	assert.Equal(t, 100, c.SimulationSettings().IdleDistance)
	assert.NoError(t, c.Validate())
}

func TestLoad_FillsMissingValues(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("DB_TYPE", "")
	path := writeConfig(t, `
server:
  addr: ":9000"
storage:
  path: /tmp/frontier.db
world:
  size: 2048
  towns: 4
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Server.Addr)
	assert.Equal(t, 16*time.Millisecond, c.TickInterval())
	assert.Equal(t, "/tmp/frontier.db", c.Storage.Path)
	assert.Equal(t, "bolt", c.Storage.Driver)

	s := c.GenerationSettings()
	assert.Equal(t, 2048, s.WorldSize)
	assert.Equal(t, 4, s.TownsCount)
	assert.Equal(t, 150, s.Padding)
	assert.Equal(t, 5, s.LocalitiesPerTown)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://frontier@localhost/frontier")
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.Server.Addr)
	assert.Equal(t, "postgres", c.Storage.Driver)
	assert.Equal(t, "postgres://frontier@localhost/frontier", c.Storage.DSN)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DB_TYPE", "")

	_, err := Load(writeConfig(t, "storage:\n  driver: sqlite\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "world:\n  reduced_factor: 2\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "world: [unclosed"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Server.Addr)
}
