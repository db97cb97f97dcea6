package input

// Pointer follows one mouse button or touch and reports a Turn when it is
// dragged past the swipe threshold, or a Tap when it is released without
// having swiped.
type Pointer struct {
	swipe   *Swipe
	pressed bool
	swiped  bool
}

func NewPointer(threshold float64) *Pointer {
	return &Pointer{swipe: NewSwipe(threshold)}
}

// Update feeds the current position and button state.
func (p *Pointer) Update(x, y float64, down bool) (Action, bool) {
	if down {
		if !p.pressed {
			p.pressed, p.swiped = true, false
			p.swipe.Begin(x, y)
			return Action{}, false
		}
		if d, ok := p.swipe.Move(x, y); ok {
			p.swiped = true
			return TurnTo(d), true
		}
		return Action{}, false
	}

	if !p.pressed {
		return Action{}, false
	}
	p.pressed = false
	p.swipe.End()
	if p.swiped {
		return Action{}, false
	}
	return Tap(), true
}
