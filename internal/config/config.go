// Package config holds runtime settings: built-in defaults, an optional
// YAML file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

type Config struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Brightness float64 `yaml:"brightness"`
	Speed      int     `yaml:"speed"`

	Window timeline.Window `yaml:"window"`

	// Export
	FPS            int    `yaml:"fps"`
	Frames         int    `yaml:"frames"`
	MinutesPerStep int    `yaml:"minutesPerFrame"`
	CellSize       int    `yaml:"cellSize"`
	Gap            int    `yaml:"gap"`
	Workers        int    `yaml:"workers"`
	VideoEncoder   string `yaml:"videoEncoder"`
	Quality        int    `yaml:"quality"`
	ShowLabel      bool   `yaml:"showLabel"`

	// Generator
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"`
	ProjectID string `yaml:"projectId"`
	Region    string `yaml:"region"`

	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Width:          8,
		Height:         8,
		Brightness:     100,
		Speed:          100,
		Window:         timeline.DefaultWindow,
		FPS:            30,
		Frames:         720,
		MinutesPerStep: 2,
		CellSize:       32,
		Gap:            2,
		VideoEncoder:   "auto",
		Quality:        23,
		ShowLabel:      true,
		Model:          "gemini-2.5-flash",
	}
}

// Path returns the config file location: $LEDSYNTH_CONFIG, or
// ~/.config/ledsynth/config.yaml.
func Path() (string, error) {
	if p := os.Getenv("LEDSYNTH_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ledsynth", "config.yaml"), nil
}

// Load reads path over the defaults and applies environment overrides. An
// empty path means Path(); a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.APIKey = envOr("GEMINI_API_KEY", cfg.APIKey)
	cfg.ProjectID = envOr("GCP_PROJECT_ID", cfg.ProjectID)
	cfg.Region = envOr("GCP_REGION", cfg.Region)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings that cannot produce output. Out-of-range values
// that have a natural clamp (brightness, speed, window) are clamped instead.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Width > grid.MaxSide || c.Height > grid.MaxSide {
		return fmt.Errorf("invalid grid size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Frames <= 0 || c.MinutesPerStep <= 0 {
		return fmt.Errorf("frames and minutesPerFrame must be positive")
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("cellSize must be positive, got %d", c.CellSize)
	}
	if c.Gap < 0 {
		c.Gap = 0
	}
	c.Window = timeline.NewWindow(c.Window.Start, c.Window.End)
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
