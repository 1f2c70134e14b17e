package shaderlab

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gekko3d/shaderlab/render/lighting"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFile = "shaderlab.toml"
	ConfigEnv         = "SHADERLAB_CONFIG"
)

type WindowConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Fullscreen bool   `toml:"fullscreen"`
	Title      string `toml:"title"`
	VSync      bool   `toml:"vsync"`
}

type Config struct {
	Window     WindowConfig      `toml:"window"`
	Lights     lighting.Capacity `toml:"lights"`
	MediaRoot  string            `toml:"media_root"`
	Debug      bool              `toml:"debug"`
	ClearColor [4]float32        `toml:"clear_color"`
	Caption    string            `toml:"caption"`
	FontSize   float64           `toml:"font_size"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:      1920,
			Height:     1080,
			Fullscreen: true,
			Title:      "IrrlichtShaders",
			VSync:      true,
		},
		Lights:     lighting.DefaultCapacity,
		MediaRoot:  "media",
		ClearColor: [4]float32{0, 0, 0, 1},
		Caption:    "Irrlicht Shader Tutorial 01 (GLSL)",
		FontSize:   18,
	}
}

// ConfigPath is $SHADERLAB_CONFIG when set, otherwise shaderlab.toml in the
// working directory.
func ConfigPath() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}
	return DefaultConfigFile
}

// LoadConfig decodes path over the defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.normalize(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// normalize replaces unset values with their defaults and rejects light
// capacities the shaders cannot hold.
func (c *Config) normalize() error {
	c.Lights = c.Lights.Normalized()
	if c.Window.Width <= 0 {
		c.Window.Width = 1920
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 1080
	}
	if c.MediaRoot == "" {
		c.MediaRoot = "media"
	}
	if c.FontSize <= 0 {
		c.FontSize = 18
	}
	return c.Lights.Validate()
}

// ConfigModule loads the configuration and stores it as a resource. A
// preset Config skips the file but is normalized the same way.
type ConfigModule struct {
	Path   string
	Preset *Config
}

func (m ConfigModule) Step() string { return "config" }

func (m ConfigModule) Install(app *App, cmd *Commands) error {
	if m.Preset != nil {
		cfg := *m.Preset
		if err := cfg.normalize(); err != nil {
			return initError("config", ReasonConfig, err)
		}
		cmd.AddResources(&cfg)
		return nil
	}

	path := m.Path
	if path == "" {
		path = ConfigPath()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return initError("config", ReasonConfig, err)
	}
	cmd.AddResources(&cfg)
	return nil
}
