package replay

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"snake-arcade/game"
	"snake-arcade/game/types"
)

// recordGame drives a seeded game with pseudo-random turns and logs it.
func recordGame(t *testing.T, r *Recorder, seed uint64, grid, maxTicks int) game.Snapshot {
	t.Helper()
	g := game.NewGame(grid, game.WithSeed(seed))
	if err := r.Begin(Header{Session: "test", Seed: g.GameSeed(), Grid: g.GridSize(), Started: time.Unix(0, 0)}); err != nil {
		t.Fatal(err)
	}

	pilot := rand.New(rand.NewSource(seed + 1))
	for i := 0; i < maxTicks && g.Snapshot().Alive(); i++ {
		if pilot.Intn(3) == 0 {
			g.SetDirection(types.Directions[pilot.Intn(4)])
		}
		g.Advance()
		s := g.Snapshot()
		if err := r.Step(s.Tick, s.Direction); err != nil {
			t.Fatal(err)
		}
	}
	final := g.Snapshot()
	if err := r.End(TrailerFrom(final, time.Unix(60, 0))); err != nil {
		t.Fatal(err)
	}
	return final
}

func TestRecordAndVerify(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRecorder(&buf)
	if err != nil {
		t.Fatal(err)
	}
	first := recordGame(t, r, 7, 10, 400)
	second := recordGame(t, r, 8, 6, 400)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	games, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("games = %d, want 2", len(games))
	}
	for i, want := range []game.Snapshot{first, second} {
		g := games[i]
		if uint64(len(g.Steps)) != want.Tick {
			t.Errorf("game %d: %d steps, %d ticks", i, len(g.Steps), want.Tick)
		}
		if err := Verify(g); err != nil {
			t.Errorf("game %d: %v", i, err)
		}
		if got := Play(g); got.Score != want.Score || got.Head() != want.Head() {
			t.Errorf("game %d: replayed %+v, want %+v", i, got, want)
		}
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	var buf bytes.Buffer
	r, _ := NewRecorder(&buf)
	recordGame(t, r, 3, 8, 200)
	r.Close()

	games, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	g := games[0]
	g.Trailer.Score += 5
	if err := Verify(g); !errors.Is(err, ErrMismatch) {
		t.Fatalf("Verify = %v, want ErrMismatch", err)
	}

	g.Trailer = nil
	if err := Verify(g); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Verify = %v, want ErrIncomplete", err)
	}
}

func TestCreateAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replays", "session.jsonl.zst")
	r, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	recordGame(t, r, 11, 12, 100)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	games, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 1 || games[0].Header.Seed != 11 || games[0].Header.Grid != 12 {
		t.Fatalf("games = %+v", games)
	}
	if err := Verify(games[0]); err != nil {
		t.Fatal(err)
	}
}

func TestRecorderRejectsStepOutsideGame(t *testing.T) {
	var buf bytes.Buffer
	r, _ := NewRecorder(&buf)
	defer r.Close()
	if err := r.Step(1, types.Up); err == nil {
		t.Fatal("expected error")
	}
	if err := r.End(Trailer{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestUnfinishedGameHasNoTrailer(t *testing.T) {
	var buf bytes.Buffer
	r, _ := NewRecorder(&buf)
	r.Begin(Header{Seed: 1, Grid: 5})
	r.Step(1, types.Right)
	r.Close()

	games, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 1 || games[0].Trailer != nil || len(games[0].Steps) != 1 {
		t.Fatalf("games = %+v", games)
	}
}
