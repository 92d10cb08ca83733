package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"

	"github.com/nikbrunner/placemarks/internal/config"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "placemarks")

	cfg, err := config.Load(dir)
	assert.NilError(t, err)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NilError(t, err)

	assert.Equal(t, cfg.Backend, "sqlite")
	assert.Equal(t, cfg.DataDir, dir)
	assert.Equal(t, cfg.ShareDir, filepath.Join(dir, "shared"))
	assert.Equal(t, cfg.ImportDir, filepath.Join(dir, "inbox"))
	assert.Equal(t, cfg.TempDir(), filepath.Join(dir, "tmp"))
	assert.Equal(t, cfg.LoadWorkers, 4)
	assert.Equal(t, cfg.Log.Level, "info")
	assert.Equal(t, cfg.Log.Format, "text")
	assert.Check(t, !cfg.Position.Known)
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := fs.NewDir(t, "placemarks", fs.WithFile("config.yaml", `
backend: json
data_dir: /srv/places
load_workers: 8
log:
  level: debug
  format: json
position:
  known: true
  lat: 38.7223
  lon: -9.1393
`))

	cfg, err := config.Load(dir.Path())
	assert.NilError(t, err)

	assert.Equal(t, cfg.Backend, "json")
	assert.Equal(t, cfg.DataDir, "/srv/places")
	assert.Equal(t, cfg.ShareDir, "/srv/places/shared")
	assert.Equal(t, cfg.LoadWorkers, 8)
	assert.Equal(t, cfg.Log.Level, "debug")
	assert.Equal(t, cfg.Log.Format, "json")
	assert.Check(t, cfg.Position.Known)
	assert.Equal(t, cfg.Position.Lat, 38.7223)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := fs.NewDir(t, "placemarks", fs.WithFile("config.yaml", "backend: sqlite\n"))
	t.Setenv("PLACEMARKS_BACKEND", "json")
	t.Setenv("PLACEMARKS_LOG_LEVEL", "warn")

	cfg, err := config.Load(dir.Path())
	assert.NilError(t, err)
	assert.Equal(t, cfg.Backend, "json")
	assert.Equal(t, cfg.Log.Level, "warn")
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := fs.NewDir(t, "placemarks",
		fs.WithFile("config.yaml", ""),
		fs.WithFile(".env", "PLACEMARKS_LOAD_WORKERS=2\n"))
	t.Cleanup(func() { os.Unsetenv("PLACEMARKS_LOAD_WORKERS") })

	cfg, err := config.Load(dir.Path())
	assert.NilError(t, err)
	assert.Equal(t, cfg.LoadWorkers, 2)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown backend", "backend: postgres\n", "unknown backend"},
		{"position out of range", "position:\n  lat: 120\n", "out of range"},
		{"broken yaml", "backend: [\n", "read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := fs.NewDir(t, "placemarks", fs.WithFile("config.yaml", tt.content))
			_, err := config.Load(dir.Path())
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
