// Package config holds the tunables read from snake.yaml and the command line.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"snake-arcade/game/types"
	"snake-arcade/input"
	"snake-arcade/pace"
	"snake-arcade/theme"
)

type Config struct {
	UI        string  `yaml:"ui"`
	GridSize  int     `yaml:"grid_size"` // 0 picks one from the window size
	BaseSpeed int     `yaml:"base_speed"`
	Accel     float64 `yaml:"accel_percent"`
	Seed      uint64  `yaml:"seed"` // 0 seeds from the clock

	// Theme and Speed override the stored preferences when set.
	Theme string    `yaml:"theme"`
	Speed pace.Tier `yaml:"speed"`

	Store   string `yaml:"store"`
	DataDir string `yaml:"data_dir"`
	Record  string `yaml:"record"`

	Window         Window            `yaml:"window"`
	SwipeThreshold float64           `yaml:"swipe_threshold"`
	Keys           map[string]string `yaml:"keys"`
	Autopilot      Autopilot         `yaml:"autopilot"`
}

type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Autopilot struct {
	Enabled bool    `yaml:"enabled"`
	QTable  string  `yaml:"qtable"`
	Alpha   float64 `yaml:"alpha"`
	Gamma   float64 `yaml:"gamma"`
	Epsilon float64 `yaml:"epsilon"`
}

func Default() Config {
	return Config{
		UI:             "window",
		BaseSpeed:      pace.DefaultBaseSpeed,
		Store:          "json",
		DataDir:        "data",
		Window:         Window{Width: 800, Height: 600},
		SwipeThreshold: input.DefaultSwipeThreshold,
		Autopilot: Autopilot{
			QTable:  "data/qtable.json",
			Alpha:   0.1,
			Gamma:   0.9,
			Epsilon: 0.1,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate rejects values that cannot be run and normalises the rest.
func (c *Config) Validate() error {
	switch c.UI {
	case "window", "terminal":
	default:
		return fmt.Errorf("ui: unknown frontend %q", c.UI)
	}
	switch c.Store {
	case "json", "sqlite":
	default:
		return fmt.Errorf("store: unknown kind %q", c.Store)
	}
	if c.GridSize != 0 && c.GridSize < types.MinGridSize {
		return fmt.Errorf("grid_size: %d is below %d", c.GridSize, types.MinGridSize)
	}
	if c.BaseSpeed <= 0 {
		c.BaseSpeed = pace.DefaultBaseSpeed
	}
	if c.Accel < 0 {
		return fmt.Errorf("accel_percent: negative")
	}
	if c.Theme != "" && !theme.Valid(c.Theme) {
		c.Theme = theme.Default
	}
	if c.Speed != "" && !c.Speed.Valid() {
		c.Speed = pace.Normal
	}
	if c.SwipeThreshold <= 0 {
		c.SwipeThreshold = input.DefaultSwipeThreshold
	}
	if _, err := c.KeyMap(); err != nil {
		return err
	}
	return nil
}

// KeyMap is the default key map with the keys section applied on top.
func (c Config) KeyMap() (input.KeyMap, error) {
	km := input.DefaultKeyMap()
	for key, name := range c.Keys {
		if name == "" || name == "none" {
			km.Bind(key, input.Action{})
			continue
		}
		a, err := input.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("keys.%s: %w", key, err)
		}
		km.Bind(key, a)
	}
	return km, nil
}

// Tuning resolves the grid size and base speed, auto-tuning from the window
// when no grid size is configured.
func (c Config) Tuning() pace.Tuning {
	if c.GridSize == 0 {
		t := pace.AutoTune(c.Window.Width, c.Window.Height)
		if c.BaseSpeed != pace.DefaultBaseSpeed {
			t.BaseSpeed = c.BaseSpeed
		}
		return t
	}
	return pace.Tuning{GridSize: c.GridSize, BaseSpeed: c.BaseSpeed}
}

// Interval is the move interval for tier at the configured base speed.
func (c Config) Interval(tier pace.Tier) time.Duration {
	return pace.Interval(c.Tuning().BaseSpeed, tier)
}
