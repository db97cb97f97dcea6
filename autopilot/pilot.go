package autopilot

import (
	"log"

	"golang.org/x/exp/rand"

	"snake-arcade/game"
	"snake-arcade/game/types"
)

// Pilot drives one game tick by tick: Steer before Advance, Learn after.
type Pilot struct {
	q     *QLearning
	learn bool

	prev      State
	prevScore int
	pending   bool
}

// NewPilot plays greedily unless learn is set, in which case it explores and
// updates q after every tick.
func NewPilot(q *QLearning, learn bool) *Pilot {
	return &Pilot{q: q, learn: learn}
}

func (p *Pilot) Steer(s game.Snapshot) types.Direction {
	st := Observe(s)
	p.prev, p.prevScore, p.pending = st, s.Score, true
	if p.learn {
		return p.q.GetAction(st)
	}
	return p.q.BestAction(st)
}

// Learn records the outcome of the tick that followed the last Steer. The
// direction credited is the one the engine applied, not the one asked for.
func (p *Pilot) Learn(after game.Snapshot) {
	if !p.learn || !p.pending {
		return
	}
	p.pending = false
	p.q.Update(p.prev, after.Direction, Observe(after), after.Score > p.prevScore, !after.Alive())
}

// RunEpisode plays g until game over or until idleLimit ticks pass without
// food, and returns the final state.
func RunEpisode(g *game.Game, p *Pilot, idleLimit int) game.Snapshot {
	idle := 0
	s := g.Snapshot()
	for s.Alive() && idle < idleLimit {
		g.SetDirection(p.Steer(s))
		g.Advance()
		n := g.Snapshot()
		p.Learn(n)
		if n.Score > s.Score {
			idle = 0
		} else {
			idle++
		}
		s = n
	}
	return s
}

type Result struct {
	Episodes int
	Best     int
	Average  float64
	States   int
}

// Train runs headless episodes on gridSize boards, each with its own seed
// drawn from seed.
func Train(q *QLearning, episodes, gridSize int, seed uint64) Result {
	seeds := rand.New(rand.NewSource(seed))
	p := NewPilot(q, true)
	idleLimit := gridSize * gridSize * 2

	var res Result
	total := 0
	for ep := 0; ep < episodes; ep++ {
		g := game.NewGame(gridSize, game.WithSeed(seeds.Uint64()))
		final := RunEpisode(g, p, idleLimit)

		total += final.Score
		if final.Score > res.Best {
			res.Best = final.Score
		}
		res.Episodes++

		if (ep+1)%100 == 0 {
			log.Printf("[train] episode %d best %d avg %.2f states %d",
				ep+1, res.Best, float64(total)/float64(res.Episodes), q.Size())
		}
	}
	if res.Episodes > 0 {
		res.Average = float64(total) / float64(res.Episodes)
	}
	res.States = q.Size()
	return res
}
