package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"snake-arcade/game"
	"snake-arcade/game/types"
	"snake-arcade/settings"
	"snake-arcade/theme"
)

const helpLine = "arrows/wasd/hjkl move  t theme  +/- speed  m sound  v vibrate  p pause  q quit"

func color(c theme.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// boardOrigin centres a grid of size cells between the status line and the
// help line. ok is false when the terminal is too small.
func boardOrigin(w, h, size int) (x, y int, ok bool) {
	bw, bh := size*2, size
	if w < bw || h < bh+2 {
		return 0, 0, false
	}
	return (w - bw) / 2, 1 + (h-2-bh)/2, true
}

// statusLine summarises the score and the preferences.
func statusLine(snap game.Snapshot, prefs settings.Preferences, best int, auto bool) string {
	parts := []string{
		fmt.Sprintf("Score: %d", snap.Score),
		fmt.Sprintf("Best: %d", best),
		fmt.Sprintf("Speed: %s", prefs.Speed),
		fmt.Sprintf("Theme: %s", prefs.Theme),
	}
	if prefs.Sound {
		parts = append(parts, "sound")
	}
	if prefs.Vibrate {
		parts = append(parts, "vibrate")
	}
	if auto {
		parts = append(parts, "AUTO")
	}
	return strings.Join(parts, "  ")
}

func (a *App) Draw() {
	snap := a.sess.Snapshot()
	prefs := a.sess.Preferences()
	pal := theme.Get(prefs.Theme)

	a.screen.Fill(' ', tcell.StyleDefault)
	w, h := a.screen.Size()
	ox, oy, ok := boardOrigin(w, h, snap.GridSize)
	if !ok {
		a.drawText(0, 0, "Terminal too small", tcell.StyleDefault)
		a.screen.Show()
		return
	}

	bg := tcell.StyleDefault.Background(color(pal.Background))
	gridStyle := bg.Foreground(color(pal.Grid))
	for y := 0; y < snap.GridSize; y++ {
		for x := 0; x < snap.GridSize; x++ {
			a.setCell(ox, oy, types.Position{X: x, Y: y}, '·', ' ', gridStyle)
		}
	}

	if snap.HasFood {
		a.setCell(ox, oy, snap.Food, '●', ' ', bg.Foreground(color(pal.Food)))
	}
	body := tcell.StyleDefault.Background(color(pal.SnakeBody))
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		st := body
		if i == 0 {
			st = tcell.StyleDefault.Background(color(pal.SnakeHead))
		}
		a.setCell(ox, oy, snap.Snake[i], ' ', ' ', st)
	}

	status := statusLine(snap, prefs, a.sess.Best(), a.sess.Autopilot())
	a.drawText(ox, oy-1, status, tcell.StyleDefault)
	if len(helpLine) <= w {
		a.drawText((w-len(helpLine))/2, oy+snap.GridSize, helpLine, tcell.StyleDefault.Dim(true))
	}

	if lines := a.sess.Overlay(); lines != nil {
		a.drawOverlay(ox, oy, snap.GridSize, lines, pal)
	}
	a.screen.Show()
}

func (a *App) setCell(ox, oy int, p types.Position, left, right rune, st tcell.Style) {
	x, y := ox+p.X*2, oy+p.Y
	a.screen.SetContent(x, y, left, nil, st)
	a.screen.SetContent(x+1, y, right, nil, st)
}

func (a *App) drawText(x, y int, s string, st tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, st)
		x++
	}
}

// drawOverlay centres lines over the board on a dimmed band.
func (a *App) drawOverlay(ox, oy, size int, lines []string, pal theme.Palette) {
	st := tcell.StyleDefault.
		Background(color(theme.Dim(pal.Background, 0.5))).
		Foreground(color(pal.SnakeHead)).
		Bold(true)

	top := oy + (size-len(lines))/2
	if top < oy {
		top = oy
	}
	for i, line := range lines {
		y := top + i
		for x := ox; x < ox+size*2; x++ {
			a.screen.SetContent(x, y, ' ', nil, st)
		}
		runes := []rune(line)
		x := ox + (size*2-len(runes))/2
		if x < 0 {
			x = 0
		}
		a.drawText(x, y, line, st)
	}
}

// FitGrid shrinks want until the board fits a w by h terminal.
func FitGrid(w, h, want int) int {
	size := want
	if size > w/2 {
		size = w / 2
	}
	if size > h-2 {
		size = h - 2
	}
	if size < types.MinGridSize {
		size = types.MinGridSize
	}
	return size
}
