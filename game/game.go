package game

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"snake-arcade/game/entity"
	"snake-arcade/game/manager"
	"snake-arcade/game/types"
)

// StartLength is the length of the snake after Reset.
const StartLength = 3

// Status is the engine's two-state machine.
type Status int

const (
	Playing Status = iota
	GameOver
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case GameOver:
		return "game_over"
	}
	return "unknown"
}

// Option configures a Game.
type Option func(*Game)

// WithSeed makes food placement reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Game) {
		g.seed = seed
	}
}

// WithListener registers l for tick events.
func WithListener(l Listener) Option {
	return func(g *Game) {
		g.listeners = append(g.listeners, l)
	}
}

// Game owns the grid state of one snake game. All methods are safe for
// concurrent use; a single mutex covers each whole tick.
type Game struct {
	mu sync.Mutex

	grid      types.Grid
	seed      uint64
	seeds     *rand.Rand
	gameSeed  uint64
	collision *manager.CollisionManager
	food      *manager.FoodManager

	snake   *entity.Snake
	pending types.Direction
	foodPos types.Position
	hasFood bool
	score   int
	status  Status
	tick    uint64

	listeners []Listener
}

// NewGame builds an engine and resets it to a fresh board of gridSize cells per side.
func NewGame(gridSize int, opts ...Option) *Game {
	g := &Game{
		seed: uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.seeds = rand.New(rand.NewSource(g.seed))

	g.mu.Lock()
	events := g.reset(gridSize, g.seed)
	g.mu.Unlock()
	notify(g.listeners, events)
	return g
}

// GameSeed returns the seed of the current game. NewGame with WithSeed(GameSeed())
// and the same directions replays the game exactly.
func (g *Game) GameSeed() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gameSeed
}

// GridSize returns the side length of the current board.
func (g *Game) GridSize() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grid.Size
}

// AddListener registers l for subsequent events.
func (g *Game) AddListener(l Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, l)
}

// Reset reinitialises the state: length-3 snake centred and heading right,
// fresh food, score 0, Playing. Each reset draws a new game seed.
func (g *Game) Reset(gridSize int) {
	g.mu.Lock()
	events := g.reset(gridSize, g.seeds.Uint64())
	listeners := g.listeners
	g.mu.Unlock()
	notify(listeners, events)
}

func (g *Game) reset(gridSize int, seed uint64) []Event {
	g.gameSeed = seed
	g.grid = types.NewGrid(gridSize)
	g.collision = manager.NewCollisionManager(g.grid)
	g.food = manager.NewFoodManager(g.grid, rand.New(rand.NewSource(seed)), g.collision)

	center := g.grid.Size / 2
	g.snake = entity.NewSnake(types.Position{X: center, Y: center}, StartLength, types.Right, g.grid)
	g.pending = types.Right
	g.score = 0
	g.status = Playing
	g.tick = 0

	events := g.placeFood(nil)
	return append(events, Event{Kind: EventReset, Head: g.snake.GetHead()})
}

// SetDirection buffers d for the next Advance. A reversal of the current
// heading, an invalid value, or any call after game over is ignored.
func (g *Game) SetDirection(d types.Direction) bool {
	g.mu.Lock()
	if g.status != Playing || !d.Valid() || types.IsOpposite(d, g.snake.Direction) {
		g.mu.Unlock()
		return false
	}
	changed := d != g.pending
	g.pending = d
	head := g.snake.GetHead()
	listeners := g.listeners
	g.mu.Unlock()

	if changed {
		notify(listeners, []Event{{Kind: EventTurned, Direction: d, Head: head}})
	}
	return true
}

// Advance runs one tick. It is a no-op once the game is over.
func (g *Game) Advance() {
	g.mu.Lock()
	if g.status != Playing {
		g.mu.Unlock()
		return
	}
	events := g.step(nil)
	listeners := g.listeners
	g.mu.Unlock()

	notify(listeners, events)
}

func (g *Game) step(events []Event) []Event {
	g.tick++
	g.snake.Direction = g.pending
	newHead := g.collision.NextHead(g.snake, g.snake.Direction)

	if g.collision.CheckCollision(newHead, g.snake) != manager.NoCollision {
		g.status = GameOver
		return append(events, Event{
			Kind:      EventGameOver,
			Head:      newHead,
			Direction: g.snake.Direction,
			Score:     g.score,
		})
	}

	g.snake.Move(newHead)

	if g.collision.IsFoodCollision(newHead, g.foodPos, g.hasFood) {
		g.score++
		events = append(events, Event{Kind: EventAte, Head: newHead, Direction: g.snake.Direction, Score: g.score})
		return g.placeFood(events)
	}

	g.snake.RemoveTail()
	return append(events, Event{Kind: EventMoved, Head: newHead, Direction: g.snake.Direction, Score: g.score})
}

func (g *Game) placeFood(events []Event) []Event {
	food, err := g.food.GenerateFood(g.snake)
	if err != nil {
		g.hasFood = false
		return append(events, Event{Kind: EventBoardFull, Head: g.snake.GetHead(), Score: g.score})
	}
	g.foodPos = food
	g.hasFood = true
	return events
}

// Snapshot returns a copy of the current state that later ticks do not touch.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Snapshot{
		GridSize:  g.grid.Size,
		Snake:     g.snake.Segments(),
		Direction: g.snake.Direction,
		Pending:   g.pending,
		Food:      g.foodPos,
		HasFood:   g.hasFood,
		Score:     g.score,
		Status:    g.status,
		Tick:      g.tick,
		Seed:      g.gameSeed,
	}
}
