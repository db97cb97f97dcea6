// Package input maps keys and touch gestures to game actions. It knows
// nothing about windows or terminals; frontends translate their own events
// into key names and pointer coordinates.
package input

import (
	"fmt"
	"strings"

	"snake-arcade/game/types"
)

type Kind int

const (
	None Kind = iota
	Turn
	Restart
	Quit
	CycleTheme
	CycleSpeed
	ToggleSound
	ToggleVibrate
	TogglePause
)

var kindNames = [...]string{
	None:          "none",
	Turn:          "turn",
	Restart:       "restart",
	Quit:          "quit",
	CycleTheme:    "theme",
	CycleSpeed:    "speed",
	ToggleSound:   "sound",
	ToggleVibrate: "vibrate",
	TogglePause:   "pause",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Action is one user intent. Direction is set for Turn, Step (+1 or -1) for
// CycleSpeed.
type Action struct {
	Kind      Kind
	Direction types.Direction
	Step      int
}

func (a Action) String() string {
	switch a.Kind {
	case Turn:
		return fmt.Sprintf("turn %s", a.Direction)
	case CycleSpeed:
		return fmt.Sprintf("speed %+d", a.Step)
	}
	return a.Kind.String()
}

func TurnTo(d types.Direction) Action {
	return Action{Kind: Turn, Direction: d}
}

// KeyMap binds key names to actions. Names are lower case: letters as
// themselves, plus "up", "down", "left", "right", "space", "enter", "esc".
type KeyMap map[string]Action

func DefaultKeyMap() KeyMap {
	km := KeyMap{
		"space": {Kind: Restart},
		"enter": {Kind: Restart},
		"t":     {Kind: CycleTheme},
		"+":     {Kind: CycleSpeed, Step: 1},
		"=":     {Kind: CycleSpeed, Step: 1},
		"-":     {Kind: CycleSpeed, Step: -1},
		"m":     {Kind: ToggleSound},
		"v":     {Kind: ToggleVibrate},
		"p":     {Kind: TogglePause},
		"q":     {Kind: Quit},
		"esc":   {Kind: Quit},
	}
	for _, set := range [][4]string{
		{"up", "right", "down", "left"},
		{"w", "d", "s", "a"},
		{"k", "l", "j", "h"},
	} {
		for i, name := range set {
			km[name] = TurnTo(types.Directions[i])
		}
	}
	return km
}

// Lookup finds the action bound to name, ignoring case.
func (km KeyMap) Lookup(name string) (Action, bool) {
	if a, ok := km[name]; ok {
		return a, true
	}
	a, ok := km[strings.ToLower(name)]
	return a, ok
}

// Bind replaces the binding for name. An action of kind None removes it.
func (km KeyMap) Bind(name string, a Action) {
	name = strings.ToLower(name)
	if a.Kind == None {
		delete(km, name)
		return
	}
	km[name] = a
}

// ParseAction reads the names used in config files: "turn:up", "restart",
// "speed:+1", "quit" and so on.
func ParseAction(s string) (Action, error) {
	name, arg, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	for k, n := range kindNames {
		if n != name || Kind(k) == None {
			continue
		}
		a := Action{Kind: Kind(k)}
		switch a.Kind {
		case Turn:
			a.Direction = types.ParseDirection(arg)
			if !a.Direction.Valid() {
				return Action{}, fmt.Errorf("action %q: bad direction", s)
			}
		case CycleSpeed:
			switch arg {
			case "", "+", "+1", "up":
				a.Step = 1
			case "-", "-1", "down":
				a.Step = -1
			default:
				return Action{}, fmt.Errorf("action %q: bad step", s)
			}
		}
		return a, nil
	}
	return Action{}, fmt.Errorf("unknown action %q", s)
}

// Tap is what a tap or click on the board means.
func Tap() Action {
	return Action{Kind: Restart}
}
