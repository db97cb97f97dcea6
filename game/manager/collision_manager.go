package manager

import (
	"snake-arcade/game/entity"
	"snake-arcade/game/types"
)

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	SelfCollision
)

func (c CollisionType) String() string {
	switch c {
	case NoCollision:
		return "none"
	case SelfCollision:
		return "self"
	}
	return "unknown"
}

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// NextHead returns where the head lands after one step in dir. The board is a torus, so there are no walls.
func (cm *CollisionManager) NextHead(snake *entity.Snake, dir types.Direction) types.Position {
	return cm.grid.Step(snake.GetHead(), dir)
}

// CheckCollision tests pos against every segment, tail included: the tail has not moved yet when the head arrives.
func (cm *CollisionManager) CheckCollision(pos types.Position, snake *entity.Snake) CollisionType {
	if snake.Occupies(pos) {
		return SelfCollision
	}
	return NoCollision
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos types.Position, food types.Position, hasFood bool) bool {
	return hasFood && pos == food
}

// ValidateSpawnPosition checks if a position is valid for placing food
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Position, snake *entity.Snake) bool {
	return cm.grid.Contains(pos) && !snake.Occupies(pos)
}
