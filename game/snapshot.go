package game

import "snake-arcade/game/types"

// Snapshot is a read-only copy of the game state for renderers and input handlers.
type Snapshot struct {
	GridSize  int
	Snake     []types.Position // head first
	Direction types.Direction
	Pending   types.Direction
	Food      types.Position
	HasFood   bool
	Score     int
	Status    Status
	Tick      uint64
	Seed      uint64
}

// Head returns the first segment.
func (s Snapshot) Head() types.Position {
	if len(s.Snake) == 0 {
		return types.Position{}
	}
	return s.Snake[0]
}

// Alive reports whether the game is still being played.
func (s Snapshot) Alive() bool {
	return s.Status == Playing
}

// Occupied reports whether a snake segment covers p.
func (s Snapshot) Occupied(p types.Position) bool {
	for _, part := range s.Snake {
		if part == p {
			return true
		}
	}
	return false
}
