// Package tui plays the game in a terminal. Each board cell is two columns
// wide so the board looks square.
package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"snake-arcade/input"
	"snake-arcade/session"
)

const frameInterval = 16 * time.Millisecond

// SwipeThreshold is measured in terminal cells.
const SwipeThreshold = 2

type App struct {
	screen tcell.Screen
	sess   *session.Session
	keys   input.KeyMap
	ptr    *input.Pointer
}

func New(screen tcell.Screen, sess *session.Session, keys input.KeyMap) *App {
	if keys == nil {
		keys = input.DefaultKeyMap()
	}
	return &App{
		screen: screen,
		sess:   sess,
		keys:   keys,
		ptr:    input.NewPointer(SwipeThreshold),
	}
}

// Run drives the session until the player quits. The screen must already be
// initialised; Run does not finalise it.
func (a *App) Run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	a.Draw()
	for {
		select {
		case ev := <-events:
			if !a.HandleEvent(ev, time.Now()) {
				return
			}
			a.Draw()

		case now := <-ticker.C:
			if a.sess.Step(now) {
				a.Draw()
			}
		}
	}
}

// HandleEvent applies one terminal event and reports whether to keep running.
func (a *App) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		action, ok := a.keys.Lookup(KeyName(ev))
		if !ok {
			return true
		}
		if action.Kind == input.Quit {
			return false
		}
		a.sess.Handle(action, now)

	case *tcell.EventMouse:
		a.handleMouse(ev, now)

	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// handleMouse treats a drag as a swipe and a click without one as a tap.
func (a *App) handleMouse(ev *tcell.EventMouse, now time.Time) {
	x, y := ev.Position()
	down := ev.Buttons()&tcell.Button1 != 0
	if action, ok := a.ptr.Update(float64(x), float64(y), down); ok {
		a.sess.Handle(action, now)
	}
}

// KeyName maps a key event to the names used by input.KeyMap.
func KeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "space"
		}
		return string(ev.Rune())
	}
	return ""
}
