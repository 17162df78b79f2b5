package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanillatweaks/mobheads/internal/loot"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mobheads.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingOptional(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"), true)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_MissingRequired(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), false)
	assert.ErrorContains(t, err, "read config")
}

func TestLoad_Overlay(t *testing.T) {
	path := writeConfig(t, `
[extract]
workers = 4

[output]
path = "out/heads.yaml"
format = "yaml"

[overrides."goat.json"]
requires_customization = true

[logging]
level = "debug"
`)
	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Extract.Workers)
	assert.Equal(t, "sheep", cfg.Extract.GroupMarker)
	assert.Equal(t, []string{"shulker.json", "ender_dragon.json"}, cfg.Extract.ExpectedEmpty)
	assert.Equal(t, "out/heads.yaml", cfg.Output.Path)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	assert.Equal(t, loot.Override{RequiresCustomization: true}, cfg.Overrides["goat.json"])
	assert.Equal(t, loot.Override{RequiresCustomization: true}, cfg.Overrides["wither.json"])
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"syntax":  "[extract\nworkers = 1",
		"format":  "[output]\nformat = \"xml\"",
		"workers": "[extract]\nworkers = 0",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body), false)
			assert.Error(t, err)
		})
	}
}
