package ui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"snake-arcade/game"
	"snake-arcade/game/types"
	"snake-arcade/session"
	"snake-arcade/theme"
)

const (
	maxScores     = 200 // Maximum number of scores to show in graph
	borderPadding = 10
)

type Renderer struct {
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	graphHeight     int32
	graphWidth      int32
	gameWidth       int32
	gameHeight      int32
	statsPanel      int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions()
	return r
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())

	// Stats panel takes a seventh of the window
	r.statsPanel = r.screenWidth / 7
	r.gameWidth = r.screenWidth - r.statsPanel
	r.gameHeight = r.screenHeight

	r.graphWidth = r.statsPanel - 20
	r.graphHeight = r.screenHeight / 5
}

func rgb(c theme.RGB) color.RGBA {
	return rl.NewColor(c.R, c.G, c.B, 255)
}

// layout sizes the board to the game area and centres it.
func (r *Renderer) layout(gridSize int) {
	availableWidth := r.gameWidth - borderPadding*2
	availableHeight := r.gameHeight - borderPadding*2

	r.cellSize = min(availableWidth, availableHeight) / int32(gridSize)
	if r.cellSize < 1 {
		r.cellSize = 1
	}
	r.totalGridWidth = r.cellSize * int32(gridSize)
	r.totalGridHeight = r.cellSize * int32(gridSize)
	r.offsetX = (r.gameWidth - r.totalGridWidth) / 2
	r.offsetY = (r.screenHeight - r.totalGridHeight) / 2
}

func (r *Renderer) cell(p types.Position) (int32, int32) {
	return r.offsetX + int32(p.X)*r.cellSize, r.offsetY + int32(p.Y)*r.cellSize
}

func (r *Renderer) Draw(sess *session.Session) {
	r.UpdateDimensions()
	snap := sess.Snapshot()
	pal := theme.Get(sess.Preferences().Theme)

	rl.BeginDrawing()
	rl.ClearBackground(rgb(theme.Dim(pal.Background, 0.6)))

	fontSize := min(r.screenHeight/45, r.statsPanel/15)
	lineHeight := min(r.screenHeight/35, r.statsPanel/12)

	r.layout(snap.GridSize)
	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, r.totalGridWidth+2, r.totalGridHeight+2, rgb(pal.Background))
	for x := 0; x < snap.GridSize; x++ {
		for y := 0; y < snap.GridSize; y++ {
			cx, cy := r.cell(types.Position{X: x, Y: y})
			rl.DrawRectangleLines(cx, cy, r.cellSize, r.cellSize, rgb(pal.Grid))
		}
	}

	if snap.HasFood {
		fx, fy := r.cell(snap.Food)
		half := r.cellSize / 2
		rl.DrawCircle(fx+half, fy+half, float32(half)-2, rgb(pal.Food))
	}

	// Tail first so the head is painted on top
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		x, y := r.cell(snap.Snake[i])
		if i > 0 {
			rl.DrawRectangle(x+1, y+1, r.cellSize-2, r.cellSize-2, rgb(pal.SnakeBody))
			continue
		}
		rl.DrawRectangle(x, y, r.cellSize, r.cellSize, rgb(pal.SnakeHead))
		r.drawHeading(x, y, snap.Direction, rgb(pal.Background))
	}

	if lines := sess.Overlay(); lines != nil {
		r.drawOverlay(lines, fontSize, pal)
	}

	r.drawStatsPanel(sess, snap, fontSize, lineHeight, pal)
	rl.EndDrawing()
}

// drawHeading marks the head with a triangle pointing where it moves.
func (r *Renderer) drawHeading(headX, headY int32, d types.Direction, col color.RGBA) {
	halfCell := r.cellSize / 2
	v := func(x, y int32) rl.Vector2 { return rl.Vector2{X: float32(x), Y: float32(y)} }
	switch d {
	case types.Right:
		rl.DrawTriangle(v(headX+r.cellSize, headY+halfCell), v(headX+halfCell, headY), v(headX+halfCell, headY+r.cellSize), col)
	case types.Left:
		rl.DrawTriangle(v(headX, headY+halfCell), v(headX+halfCell, headY+r.cellSize), v(headX+halfCell, headY), col)
	case types.Down:
		rl.DrawTriangle(v(headX+halfCell, headY+r.cellSize), v(headX+r.cellSize, headY+halfCell), v(headX, headY+halfCell), col)
	default:
		rl.DrawTriangle(v(headX+halfCell, headY), v(headX, headY+halfCell), v(headX+r.cellSize, headY+halfCell), col)
	}
}

func (r *Renderer) drawOverlay(lines []string, fontSize int32, pal theme.Palette) {
	rl.DrawRectangle(r.offsetX, r.offsetY, r.totalGridWidth, r.totalGridHeight, rl.Fade(rl.Black, 0.6))

	titleSize := fontSize * 2
	height := titleSize + int32(len(lines)-1)*(fontSize+6)
	y := r.offsetY + (r.totalGridHeight-height)/2
	for i, line := range lines {
		size := fontSize
		if i == 0 {
			size = titleSize
		}
		w := rl.MeasureText(line, size)
		rl.DrawText(line, r.offsetX+(r.totalGridWidth-w)/2, y, size, rgb(pal.SnakeHead))
		y += size + 6
	}
}

func (r *Renderer) drawStatsPanel(sess *session.Session, snap game.Snapshot, fontSize, lineHeight int32, pal theme.Palette) {
	statsX := r.gameWidth + 5
	statsY := int32(10)
	prefs := sess.Preferences()
	text := rgb(pal.SnakeHead)

	rl.DrawRectangle(statsX-5, 0, r.statsPanel+5, r.screenHeight, rgb(pal.Background))

	line := func(s string) {
		rl.DrawText(s, statsX, statsY, fontSize, text)
		statsY += lineHeight
	}
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	line(fmt.Sprintf("Score: %d", snap.Score))
	line(fmt.Sprintf("Best: %d", sess.Best()))
	line(fmt.Sprintf("Session: %d", sess.SessionBest()))
	statsY += lineHeight / 2
	line(fmt.Sprintf("Speed: %s", prefs.Speed))
	line(fmt.Sprintf("Theme: %s", prefs.Theme))
	line("Sound: " + onOff(prefs.Sound))
	line("Vibrate: " + onOff(prefs.Vibrate))
	if sess.Autopilot() {
		line("Autopilot")
	}

	st := sess.Stats()
	statsY += lineHeight / 2
	line(fmt.Sprintf("Games: %d", st.GetGamesPlayed()))
	line(fmt.Sprintf("Avg: %.2f", st.GetAverageScore()))
	line(fmt.Sprintf("Median: %.1f", st.GetMedianScore()))

	r.drawPerformanceGraph(sess, statsX, fontSize, text)
}

func (r *Renderer) drawPerformanceGraph(sess *session.Session, graphX, fontSize int32, col color.RGBA) {
	graphHeight := r.graphHeight
	graphY := r.screenHeight - graphHeight - fontSize*2

	rl.DrawRectangleLines(graphX, graphY, r.graphWidth, graphHeight, col)
	rl.DrawText("Performance", graphX, graphY-fontSize-5, fontSize, col)

	st := sess.Stats()
	scores := st.Recent(maxScores)
	maxScore := 1
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if len(scores) < 2 {
		return
	}

	px := func(j int) int32 {
		return graphX + int32(float32(r.graphWidth)*float32(j)/float32(maxScores))
	}
	py := func(v float64) int32 {
		return graphY + graphHeight - int32(float32(graphHeight)*float32(v)/float32(maxScore))
	}
	for j := 1; j < len(scores); j++ {
		rl.DrawLine(px(j-1), py(float64(scores[j-1])), px(j), py(float64(scores[j])), col)
	}

	// Dashed average
	avgY := py(st.GetAverageScore())
	for x := graphX; x < graphX+r.graphWidth; x += 5 {
		rl.DrawLine(x, avgY, x+2, avgY, col)
	}
}
