package manager

import (
	"errors"

	"golang.org/x/exp/rand"

	"snake-arcade/game/entity"
	"snake-arcade/game/types"
)

// ErrBoardFull is returned when the snake covers every cell.
var ErrBoardFull = errors.New("no free cell for food")

// maxRejections bounds the random probing before falling back to the free-cell scan.
const maxRejections = 32

type FoodManager struct {
	grid         types.Grid
	rng          *rand.Rand
	collisionMgr *CollisionManager
}

func NewFoodManager(grid types.Grid, rng *rand.Rand, collisionMgr *CollisionManager) *FoodManager {
	return &FoodManager{
		grid:         grid,
		rng:          rng,
		collisionMgr: collisionMgr,
	}
}

// GenerateFood picks a cell uniformly among those not covered by the snake.
// While the board is mostly empty it probes random cells; once the snake fills
// half of it, the free cells are enumerated and one is drawn directly.
func (fm *FoodManager) GenerateFood(snake *entity.Snake) (types.Position, error) {
	cells := fm.grid.Cells()
	free := cells - snake.Len()
	if free <= 0 {
		return types.Position{}, ErrBoardFull
	}

	if snake.Len()*2 < cells {
		for i := 0; i < maxRejections; i++ {
			food := fm.grid.At(fm.rng.Intn(cells))
			if fm.collisionMgr.ValidateSpawnPosition(food, snake) {
				return food, nil
			}
		}
	}

	freeCells := fm.FreeCells(snake)
	if len(freeCells) == 0 {
		return types.Position{}, ErrBoardFull
	}
	return freeCells[fm.rng.Intn(len(freeCells))], nil
}

// FreeCells lists the uncovered cells in row-major order.
func (fm *FoodManager) FreeCells(snake *entity.Snake) []types.Position {
	occupied := make([]bool, fm.grid.Cells())
	for _, p := range snake.Body {
		if fm.grid.Contains(p) {
			occupied[fm.grid.Index(p)] = true
		}
	}

	n := len(occupied) - snake.Len()
	if n < 0 {
		n = 0
	}
	free := make([]types.Position, 0, n)
	for i, taken := range occupied {
		if !taken {
			free = append(free, fm.grid.At(i))
		}
	}
	return free
}
