package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.modrinth.com/v2", cfg.Modrinth.APIURL)
	assert.Equal(t, "https://api.curseforge.com/v1", cfg.CurseForge.APIURL)
	assert.Empty(t, cfg.CurseForge.APIKey)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "modpilot", cfg.HTTP.UserAgent)
	assert.Equal(t, 4, cfg.Updates.Concurrency)
}

func TestLoadUserTOMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
[curseforge]
api_key = "secret-key"

[updates]
concurrency = 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.CurseForge.APIKey)
	assert.Equal(t, 8, cfg.Updates.Concurrency)
	// Untouched keys keep their defaults.
	assert.Equal(t, "https://api.modrinth.com/v2", cfg.Modrinth.APIURL)
}

func TestLoadUserYAML(t *testing.T) {
	dir := t.TempDir()
	content := `
modrinth:
  api_url: "https://staging-api.modrinth.com/v2"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://staging-api.modrinth.com/v2", cfg.Modrinth.APIURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[curseforge]
api_key = "from-file"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))
	t.Setenv("MODPILOT_CURSEFORGE_API_KEY", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.CurseForge.APIKey)
}

func TestLoadClampsConcurrency(t *testing.T) {
	dir := t.TempDir()
	content := `
[updates]
concurrency = 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Updates.Concurrency)
}
