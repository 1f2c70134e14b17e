package shaderlab

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/shaderlab/render/lighting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 1080, cfg.Window.Height)
	assert.True(t, cfg.Window.Fullscreen)
	assert.Equal(t, "IrrlichtShaders", cfg.Window.Title)
	assert.Equal(t, lighting.DefaultCapacity, cfg.Lights)
	assert.Equal(t, "media", cfg.MediaRoot)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
media_root = "assets"
debug = true

[window]
width = 800
height = 600
fullscreen = false

[lights]
point = 4
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.False(t, cfg.Window.Fullscreen)
	assert.Equal(t, "IrrlichtShaders", cfg.Window.Title, "unset keys keep their defaults")
	assert.Equal(t, "assets", cfg.MediaRoot)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 4, cfg.Lights.Point)
	assert.Equal(t, lighting.DefaultCapacity.Directional, cfg.Lights.Directional)
}

func TestLoadConfigNormalizesInvalidValues(t *testing.T) {
	path := writeConfig(t, `
media_root = ""
font_size = -1

[window]
width = 0
height = -5

[lights]
directional = 0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 1080, cfg.Window.Height)
	assert.Equal(t, "media", cfg.MediaRoot)
	assert.Equal(t, 18.0, cfg.FontSize)
	assert.Equal(t, lighting.DefaultCapacity.Directional, cfg.Lights.Directional)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, "[window\nwidth = ")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	assert.Equal(t, DefaultConfigFile, ConfigPath())

	t.Setenv(ConfigEnv, "/etc/shaderlab.toml")
	assert.Equal(t, "/etc/shaderlab.toml", ConfigPath())
}

func TestConfigModule(t *testing.T) {
	path := writeConfig(t, "caption = \"hello\"\n")
	app, err := NewAppBuilder().UseModule(ConfigModule{Path: path}).Build()
	require.NoError(t, err)

	cfg, ok := Resource[Config](app)
	require.True(t, ok)
	assert.Equal(t, "hello", cfg.Caption)
}

func TestConfigModulePreset(t *testing.T) {
	preset := DefaultConfig()
	preset.MediaRoot = "elsewhere"
	app, err := NewAppBuilder().UseModule(ConfigModule{Preset: &preset}).Build()
	require.NoError(t, err)

	cfg, ok := Resource[Config](app)
	require.True(t, ok)
	assert.Equal(t, "elsewhere", cfg.MediaRoot)
	assert.NotSame(t, &preset, cfg)
}

func TestConfigModuleMalformedIsConfigFailure(t *testing.T) {
	path := writeConfig(t, "debug = maybe")
	_, err := NewAppBuilder().UseModule(ConfigModule{Path: path}).Build()

	var ie *InitError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "config", ie.Step)
	assert.Equal(t, ReasonConfig, ie.Reason)
}

func TestLoadConfigRejectsLightsBeyondShaderArrays(t *testing.T) {
	path := writeConfig(t, "[lights]\npoint = 60\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "60 point lights, shaders hold 50")

	_, err = NewAppBuilder().UseModule(ConfigModule{Path: path}).Build()
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ReasonConfig, ie.Reason)
}

func TestConfigModulePresetIsNormalized(t *testing.T) {
	preset := DefaultConfig()
	preset.MediaRoot = ""
	preset.FontSize = 0
	preset.Window.Width = -1
	preset.Lights = lighting.Capacity{Point: 10}
	app, err := NewAppBuilder().UseModule(ConfigModule{Preset: &preset}).Build()
	require.NoError(t, err)

	cfg, ok := Resource[Config](app)
	require.True(t, ok)
	assert.Equal(t, "media", cfg.MediaRoot)
	assert.Equal(t, 18.0, cfg.FontSize)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, lighting.Capacity{Directional: lighting.MaxDirectionalLights, Point: 10, Spot: lighting.MaxSpotLights}, cfg.Lights)
	assert.Equal(t, "", preset.MediaRoot, "the preset itself is left alone")

	preset.Lights.Point = 60
	_, err = NewAppBuilder().UseModule(ConfigModule{Preset: &preset}).Build()
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "config", ie.Step)
	assert.Equal(t, ReasonConfig, ie.Reason)
}
