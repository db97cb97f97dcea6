// Package ui plays the game in a raylib window.
package ui

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"snake-arcade/config"
	"snake-arcade/input"
	"snake-arcade/session"
)

const title = "Snake"

// Run opens a window sized by cfg and drives sess until the player quits
// or closes the window.
func Run(cfg config.Config, sess *session.Session, keys input.KeyMap) {
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), title)
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	// Escape goes through the key map like every other key
	rl.SetExitKey(rl.KeyNull)

	ptr := input.NewPointer(cfg.SwipeThreshold)
	renderer := NewRenderer()

	for !rl.WindowShouldClose() {
		now := time.Now()
		for _, a := range PollInput(keys, ptr) {
			if a.Kind == input.Quit {
				return
			}
			sess.Handle(a, now)
		}

		if rl.IsWindowResized() {
			renderer.UpdateDimensions()
		}
		sess.Step(now)
		renderer.Draw(sess)
	}
}
