package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"snake-arcade/input"
)

// namedKeys are the non-printable keys the key map knows by name. Printable
// keys arrive through GetCharPressed.
var namedKeys = []struct {
	key  int32
	name string
}{
	{rl.KeyUp, "up"},
	{rl.KeyDown, "down"},
	{rl.KeyLeft, "left"},
	{rl.KeyRight, "right"},
	{rl.KeyEnter, "enter"},
	{rl.KeyKpEnter, "enter"},
	{rl.KeyEscape, "esc"},
}

// charName maps a typed character to its key map name.
func charName(r rune) string {
	if r == ' ' {
		return "space"
	}
	return string(r)
}

// PollInput collects this frame's key presses and pointer gestures as actions.
func PollInput(keys input.KeyMap, ptr *input.Pointer) []input.Action {
	var actions []input.Action
	add := func(name string) {
		if a, ok := keys.Lookup(name); ok {
			actions = append(actions, a)
		}
	}

	for _, k := range namedKeys {
		if rl.IsKeyPressed(k.key) {
			add(k.name)
		}
	}
	for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
		add(charName(rune(c)))
	}

	var pos rl.Vector2
	down := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	if rl.GetTouchPointCount() > 0 {
		pos, down = rl.GetTouchPosition(0), true
	} else {
		pos = rl.GetMousePosition()
	}
	if a, ok := ptr.Update(float64(pos.X), float64(pos.Y), down); ok {
		actions = append(actions, a)
	}
	return actions
}
