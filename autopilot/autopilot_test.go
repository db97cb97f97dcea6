package autopilot

import (
	"path/filepath"
	"testing"

	"snake-arcade/game"
	"snake-arcade/game/types"
)

func snapshot(body []types.Position, dir types.Direction, food types.Position) game.Snapshot {
	return game.Snapshot{
		GridSize:  10,
		Snake:     body,
		Direction: dir,
		Food:      food,
		HasFood:   true,
		Status:    game.Playing,
	}
}

func TestObserveWrapsAroundEdges(t *testing.T) {
	// Food at x=9 is one step left of x=0 on a 10-wide torus.
	s := snapshot([]types.Position{{X: 0, Y: 5}, {X: 1, Y: 5}}, types.Left, types.Position{X: 9, Y: 5})
	st := Observe(s)
	if st.FoodDir != [2]int{-1, 0} || st.FoodDistance != 1 {
		t.Fatalf("state = %+v", st)
	}
	// Right is the body.
	if st.Danger != [4]bool{false, true, false, false} {
		t.Fatalf("danger = %v", st.Danger)
	}
}

func TestObserveNoFood(t *testing.T) {
	s := snapshot([]types.Position{{X: 3, Y: 3}}, types.Up, types.Position{})
	s.HasFood = false
	if st := Observe(s); st.FoodDistance != -1 || st.FoodDir != [2]int{} {
		t.Fatalf("state = %+v", st)
	}
}

func TestTorusDelta(t *testing.T) {
	tests := []struct{ a, b, n, want int }{
		{0, 9, 10, -1},
		{9, 0, 10, 1},
		{2, 5, 10, 3},
		{0, 5, 10, 5},
		{4, 4, 10, 0},
	}
	for _, tt := range tests {
		if got := torusDelta(tt.a, tt.b, tt.n); got != tt.want {
			t.Errorf("torusDelta(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.n, got, tt.want)
		}
	}
}

func TestReward(t *testing.T) {
	near := State{FoodDistance: 2}
	far := State{FoodDistance: 4}
	tests := []struct {
		name      string
		s, next   State
		ate, died bool
		want      float64
	}{
		{"death", near, near, false, true, RewardDeath},
		{"food", near, far, true, false, RewardFood},
		{"closer", far, near, false, false, RewardCloser},
		{"further", near, far, false, false, RewardFurther},
		{"same", near, near, false, false, 0},
		{"no food", State{FoodDistance: -1}, near, false, false, 0},
	}
	for _, tt := range tests {
		if got := Reward(tt.s, tt.next, tt.ate, tt.died); got != tt.want {
			t.Errorf("%s: reward = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUpdateMovesBestAction(t *testing.T) {
	q := NewQLearning(0.5, 0.9, 0, 1)
	s := State{FoodDir: [2]int{0, -1}, FoodDistance: 3, Heading: types.Right}
	if got := q.BestAction(s); got != types.Right {
		t.Fatalf("untrained best = %s, want heading", got)
	}

	q.Update(s, types.Up, State{FoodDistance: 2, Heading: types.Up}, false, false)
	if got := q.BestAction(s); got != types.Up {
		t.Fatalf("best after reward = %s, want up", got)
	}

	q.Update(s, types.Up, State{FoodDistance: 2, Heading: types.Up}, false, true)
	q.Update(s, types.Up, State{FoodDistance: 2, Heading: types.Up}, false, true)
	if got := q.BestAction(s); got == types.Up {
		t.Fatal("best still up after deaths")
	}
}

func TestBestActionNeverReverses(t *testing.T) {
	q := NewQLearning(1, 0, 0, 1)
	s := State{Heading: types.Right}
	row := q.Table[s.key()]
	row[directionIndex(types.Left)] = 10
	q.Table[s.key()] = row
	if got := q.BestAction(s); got == types.Left {
		t.Fatal("chose reversal")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q", "table.json")
	q := NewQLearning(0.1, 0.9, 0.1, 1)
	s := State{FoodDir: [2]int{1, 0}, FoodDistance: 1, Heading: types.Up}
	q.Update(s, types.Right, State{}, true, false)
	if err := q.Save(path); err != nil {
		t.Fatal(err)
	}

	other := NewQLearning(0.1, 0.9, 0.1, 2)
	if err := other.Load(path); err != nil {
		t.Fatal(err)
	}
	if other.Size() != 1 || other.BestAction(s) != types.Right {
		t.Fatalf("loaded table = %v", other.Table)
	}
}

func TestTrainDeterministic(t *testing.T) {
	a := Train(NewQLearning(0.1, 0.9, 0.1, 5), 30, 8, 42)
	b := Train(NewQLearning(0.1, 0.9, 0.1, 5), 30, 8, 42)
	if a != b {
		t.Fatalf("runs differ: %+v vs %+v", a, b)
	}
	if a.Episodes != 30 || a.States == 0 {
		t.Fatalf("result = %+v", a)
	}
}

func TestRunEpisodeStopsWhenIdle(t *testing.T) {
	g := game.NewGame(6, game.WithSeed(1))
	p := NewPilot(NewQLearning(0.1, 0.9, 0, 1), false)
	final := RunEpisode(g, p, 5)
	if final.Tick > uint64(final.Score+1)*5 {
		t.Fatalf("ran %d ticks with idle limit 5", final.Tick)
	}
}
