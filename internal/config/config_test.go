package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "todos", cfg.Storage.Key)
	assert.Equal(t, "all", cfg.Filters.Status)
	assert.Equal(t, "all", cfg.Filters.Date)
	assert.True(t, cfg.Filters.DateBuckets)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: file
  key: work
filters:
  status: pending
  date_buckets: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "work", cfg.Storage.Key)
	assert.Equal(t, "pending", cfg.Filters.Status)
	assert.Equal(t, "all", cfg.Filters.Date)
	assert.False(t, cfg.Filters.DateBuckets)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TODO_STORAGE_BACKEND", "memory")
	t.Setenv("TODO_FILTERS_DATE", "today")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "today", cfg.Filters.Date)
}

func TestLoad_InvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "redis")
}

func TestLoad_InvalidFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filters:\n  status: done\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "filters.status")

	require.NoError(t, os.WriteFile(path, []byte("filters:\n  date: tomorrow\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "filters.date")

	t.Setenv("TODO_FILTERS_STATUS", "Pending")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Pending", cfg.Filters.Status)
}

func TestWriteDefault_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo", "config.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestMarshal(t *testing.T) {
	out, err := DefaultConfig().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "backend: sqlite")
	assert.Contains(t, string(out), "date_buckets: true")
}
