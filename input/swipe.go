package input

import (
	"math"

	"snake-arcade/game/types"
)

const DefaultSwipeThreshold = 20

// Swipe recognises one directional swipe per touch. The dominant axis wins
// once either offset reaches the threshold; the rest of that touch is ignored.
type Swipe struct {
	Threshold float64

	startX, startY float64
	active         bool
}

func NewSwipe(threshold float64) *Swipe {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	return &Swipe{Threshold: threshold}
}

func (s *Swipe) Begin(x, y float64) {
	s.startX, s.startY = x, y
	s.active = true
}

func (s *Swipe) Move(x, y float64) (types.Direction, bool) {
	if !s.active {
		return types.NoDirection, false
	}
	dx, dy := x-s.startX, y-s.startY
	if math.Abs(dx) < s.Threshold && math.Abs(dy) < s.Threshold {
		return types.NoDirection, false
	}
	s.active = false

	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return types.Right, true
		}
		return types.Left, true
	}
	if dy > 0 {
		return types.Down, true
	}
	return types.Up, true
}

func (s *Swipe) End() {
	s.active = false
}

// Active reports whether a touch is in progress and has not yet swiped.
func (s *Swipe) Active() bool {
	return s.active
}
