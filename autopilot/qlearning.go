// Package autopilot steers a snake with a tabular Q-learning agent. It only
// ever talks to the engine through SetDirection, like a player would.
package autopilot

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/exp/rand"

	"snake-arcade/game"
	"snake-arcade/game/types"
)

// Rewards for a single transition.
const (
	RewardFood    = 1.0
	RewardDeath   = -1.0
	RewardCloser  = 0.5
	RewardFurther = -0.3
)

type State struct {
	FoodDir      [2]int  // sign of the shortest toroidal offset to food (x, y)
	FoodDistance int     // toroidal Manhattan distance, -1 without food
	Danger       [4]bool // occupied neighbour in each of types.Directions
	Heading      types.Direction
}

func (s State) key() string {
	var danger [4]byte
	for i, d := range s.Danger {
		danger[i] = '0'
		if d {
			danger[i] = '1'
		}
	}
	return fmt.Sprintf("%d,%d|%s|%s", s.FoodDir[0], s.FoodDir[1], danger[:], s.Heading)
}

// Observe extracts the agent's view of a snapshot.
func Observe(s game.Snapshot) State {
	grid := types.NewGrid(s.GridSize)
	head := s.Head()
	st := State{Heading: s.Direction, FoodDistance: -1}

	if s.HasFood {
		dx := torusDelta(head.X, s.Food.X, grid.Size)
		dy := torusDelta(head.Y, s.Food.Y, grid.Size)
		st.FoodDir = [2]int{sign(dx), sign(dy)}
		st.FoodDistance = abs(dx) + abs(dy)
	}
	for i, d := range types.Directions {
		st.Danger[i] = s.Occupied(grid.Step(head, d))
	}
	return st
}

// torusDelta is the signed shortest offset from a to b on a ring of n cells.
func torusDelta(a, b, n int) int {
	d := ((b-a)%n + n) % n
	if d > n/2 {
		d -= n
	}
	return d
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// QTable maps a state key to the value of each of types.Directions.
type QTable map[string][4]float64

type QLearning struct {
	mu           sync.RWMutex
	Table        QTable
	LearningRate float64
	Discount     float64
	Epsilon      float64
	rng          *rand.Rand
}

func NewQLearning(alpha, gamma, epsilon float64, seed uint64) *QLearning {
	return &QLearning{
		Table:        make(QTable),
		LearningRate: alpha,
		Discount:     gamma,
		Epsilon:      epsilon,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// GetAction picks a direction, exploring with probability Epsilon.
func (q *QLearning) GetAction(s State) types.Direction {
	if q.Epsilon > 0 && q.rng.Float64() < q.Epsilon {
		return types.Directions[q.rng.Intn(len(types.Directions))]
	}
	return q.BestAction(s)
}

// BestAction is the greedy choice. Ties go to the current heading, then to
// the first direction in clockwise order; reversals are never chosen.
func (q *QLearning) BestAction(s State) types.Direction {
	q.mu.RLock()
	values := q.Table[s.key()]
	q.mu.RUnlock()

	best := types.NoDirection
	bestValue := math.Inf(-1)
	for i, d := range types.Directions {
		if types.IsOpposite(d, s.Heading) {
			continue
		}
		v := values[i]
		if v > bestValue || (v == bestValue && d == s.Heading) {
			best, bestValue = d, v
		}
	}
	return best
}

// Reward scores the transition from s to next.
func Reward(s, next State, ate, died bool) float64 {
	switch {
	case died:
		return RewardDeath
	case ate:
		return RewardFood
	case s.FoodDistance < 0 || next.FoodDistance < 0:
		return 0
	case next.FoodDistance < s.FoodDistance:
		return RewardCloser
	case next.FoodDistance > s.FoodDistance:
		return RewardFurther
	}
	return 0
}

// Update applies one Q-learning step and returns the reward used.
func (q *QLearning) Update(s State, action types.Direction, next State, ate, died bool) float64 {
	reward := Reward(s, next, ate, died)
	idx := directionIndex(action)
	if idx < 0 {
		return reward
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	maxNext := 0.0
	if !died {
		maxNext = math.Inf(-1)
		for _, v := range q.Table[next.key()] {
			maxNext = math.Max(maxNext, v)
		}
	}

	k := s.key()
	row := q.Table[k]
	row[idx] += q.LearningRate * (reward + q.Discount*maxNext - row[idx])
	q.Table[k] = row
	return reward
}

func directionIndex(d types.Direction) int {
	for i, dd := range types.Directions {
		if dd == d {
			return i
		}
	}
	return -1
}

// Size is the number of states seen.
func (q *QLearning) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.Table)
}

func (q *QLearning) Save(filename string) error {
	q.mu.RLock()
	data, err := json.MarshalIndent(q.Table, "", "  ")
	q.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filename)
}

func (q *QLearning) Load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	table := make(QTable)
	if err := json.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	q.mu.Lock()
	q.Table = table
	q.mu.Unlock()
	return nil
}
