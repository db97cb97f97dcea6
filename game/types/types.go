package types

import "fmt"

// MinGridSize is the smallest board that fits the starting snake.
const MinGridSize = 3

// Position is a cell on the grid. X grows to the right, Y grows downward.
type Position struct {
	X, Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Grid represents the game grid dimensions. The board is square.
type Grid struct {
	Size int
}

// NewGrid clamps size to MinGridSize.
func NewGrid(size int) Grid {
	if size < MinGridSize {
		size = MinGridSize
	}
	return Grid{Size: size}
}

// Cells returns the number of cells on the board.
func (g Grid) Cells() int {
	return g.Size * g.Size
}

// Contains reports whether p lies on the board.
func (g Grid) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.Size && p.Y >= 0 && p.Y < g.Size
}

// Wrap folds p back onto the board; leaving one edge re-enters from the opposite one.
func (g Grid) Wrap(p Position) Position {
	return Position{X: mod(p.X, g.Size), Y: mod(p.Y, g.Size)}
}

// Step moves p one cell in direction d and wraps the result.
func (g Grid) Step(p Position, d Direction) Position {
	dx, dy := d.Delta()
	return g.Wrap(Position{X: p.X + dx, Y: p.Y + dy})
}

// Index maps an on-board position to a dense cell index.
func (g Grid) Index(p Position) int {
	return p.Y*g.Size + p.X
}

// At is the inverse of Index.
func (g Grid) At(i int) Position {
	return Position{X: i % g.Size, Y: i / g.Size}
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
