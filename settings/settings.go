package settings

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"snake-arcade/pace"
	"snake-arcade/stats"
	"snake-arcade/theme"
)

// Keys under which values are persisted.
const (
	KeyHighScore = "snake_highscore"
	KeyTheme     = "snake_theme"
	KeySpeed     = "snake_speed"
	KeySound     = "snake_sound"
	KeyVibrate   = "snake_vibrate"
)

// ErrNotFound is returned by stores for a key that was never written.
var ErrNotFound = errors.New("settings: key not found")

// Preferences are the user-facing toggles that survive restarts.
type Preferences struct {
	Theme   string    `json:"theme" yaml:"theme"`
	Speed   pace.Tier `json:"speed" yaml:"speed"`
	Sound   bool      `json:"sound" yaml:"sound"`
	Vibrate bool      `json:"vibrate" yaml:"vibrate"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:   theme.Default,
		Speed:   pace.Normal,
		Sound:   true,
		Vibrate: false,
	}
}

// Normalize replaces unknown enumerated values with defaults.
func (p Preferences) Normalize() Preferences {
	if !theme.Valid(p.Theme) {
		p.Theme = theme.Default
	}
	if !p.Speed.Valid() {
		p.Speed = pace.Normal
	}
	return p
}

// Store persists the high score, preferences and finished games.
type Store interface {
	LoadPreferences() (Preferences, error)
	SavePreferences(p Preferences) error
	HighScore() (int, error)
	SetHighScore(score int) error
	RecordGame(record stats.GameRecord) error
	Games() ([]stats.GameRecord, error)
	Close() error
}

// Open returns a store of the given kind rooted in dir.
func Open(kind, dir string) (Store, error) {
	switch kind {
	case "json", "":
		return OpenFileStore(filepath.Join(dir, "snake.json"))
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "snake.db"))
	}
	return nil, fmt.Errorf("unknown store %q", kind)
}

// decodePreferences applies the stored key/value pairs over the defaults,
// skipping values that do not parse.
func decodePreferences(values map[string]string) Preferences {
	p := DefaultPreferences()
	if v, ok := values[KeyTheme]; ok && theme.Valid(v) {
		p.Theme = v
	}
	if v, ok := values[KeySpeed]; ok && pace.Tier(v).Valid() {
		p.Speed = pace.Tier(v)
	}
	if v, ok := values[KeySound]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			p.Sound = b
		}
	}
	if v, ok := values[KeyVibrate]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			p.Vibrate = b
		}
	}
	return p
}

func encodePreferences(p Preferences) map[string]string {
	p = p.Normalize()
	return map[string]string{
		KeyTheme:   p.Theme,
		KeySpeed:   string(p.Speed),
		KeySound:   strconv.FormatBool(p.Sound),
		KeyVibrate: strconv.FormatBool(p.Vibrate),
	}
}

// parseHighScore reads a stored high score; garbage counts as zero.
func parseHighScore(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
