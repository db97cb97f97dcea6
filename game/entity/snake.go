package entity

import (
	"snake-arcade/game/types"
)

// Snake is the ordered body of the player, head first.
type Snake struct {
	Body      []types.Position
	Direction types.Direction
}

// NewSnake lays out length segments trailing behind head, opposite to dir.
func NewSnake(head types.Position, length int, dir types.Direction, grid types.Grid) *Snake {
	if length < 1 {
		length = 1
	}
	body := make([]types.Position, 0, length)
	p := head
	for i := 0; i < length; i++ {
		body = append(body, p)
		p = grid.Step(p, dir.Opposite())
	}
	return &Snake{
		Body:      body,
		Direction: dir,
	}
}

// Move prepends newHead.
func (s *Snake) Move(newHead types.Position) {
	s.Body = append(s.Body, types.Position{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = newHead
}

// RemoveTail drops the last segment, never the head.
func (s *Snake) RemoveTail() {
	if len(s.Body) > 1 {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

func (s *Snake) GetHead() types.Position {
	return s.Body[0]
}

func (s *Snake) GetTail() types.Position {
	return s.Body[len(s.Body)-1]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Occupies reports whether any segment sits on p.
func (s *Snake) Occupies(p types.Position) bool {
	for _, part := range s.Body {
		if part == p {
			return true
		}
	}
	return false
}

// Segments returns a copy of the body.
func (s *Snake) Segments() []types.Position {
	out := make([]types.Position, len(s.Body))
	copy(out, s.Body)
	return out
}
