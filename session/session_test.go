package session

import (
	"bytes"
	"testing"
	"time"

	"snake-arcade/autopilot"
	"snake-arcade/config"
	"snake-arcade/feedback"
	"snake-arcade/game"
	"snake-arcade/game/types"
	"snake-arcade/input"
	"snake-arcade/pace"
	"snake-arcade/replay"
	"snake-arcade/settings"
)

var t0 = time.Unix(1_700_000_000, 0)

type cues struct{ got []feedback.Cue }

func (c *cues) Play(cue feedback.Cue) { c.got = append(c.got, cue) }

func newTestSession(t *testing.T, grid int, opts ...Option) (*Session, settings.Store) {
	t.Helper()
	store, err := settings.OpenFileStore(t.TempDir() + "/snake.json")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.GridSize = grid
	cfg.Seed = 1
	s := New(cfg, store, append([]Option{WithStart(t0)}, opts...)...)
	t.Cleanup(func() { s.Close() })
	return s, store
}

func TestStepFollowsInterval(t *testing.T) {
	s, _ := newTestSession(t, 10)
	if s.Interval() != 100*time.Millisecond {
		t.Fatalf("interval = %v", s.Interval())
	}
	if s.Step(t0.Add(50 * time.Millisecond)) {
		t.Fatal("stepped before the interval")
	}
	if !s.Step(t0.Add(100 * time.Millisecond)) {
		t.Fatal("did not step after the interval")
	}
	if got := s.Snapshot().Tick; got != 1 {
		t.Fatalf("tick = %d", got)
	}
}

func TestTurns(t *testing.T) {
	s, _ := newTestSession(t, 10)
	if s.Handle(input.TurnTo(types.Left), t0) {
		t.Fatal("reversal accepted")
	}
	if !s.Handle(input.TurnTo(types.Up), t0) {
		t.Fatal("turn rejected")
	}
	s.Step(t0.Add(100 * time.Millisecond))
	if d := s.Snapshot().Direction; d != types.Up {
		t.Fatalf("direction = %s", d)
	}
}

// On a 3x3 board the starting snake's tail sits right in front of its head,
// so the first move ends the game.
func TestGameOverRecordsAndRestarts(t *testing.T) {
	s, store := newTestSession(t, 3)
	if s.Handle(input.Action{Kind: input.Restart}, t0) {
		t.Fatal("restart honoured while playing")
	}

	s.Step(t0.Add(time.Second))
	snap := s.Snapshot()
	if snap.Status != game.GameOver {
		t.Fatalf("status = %s", snap.Status)
	}
	if s.Step(t0.Add(2 * time.Second)) {
		t.Fatal("stepped after game over")
	}

	games, err := store.Games()
	if err != nil || len(games) != 1 || games[0].Session != s.SessionID() {
		t.Fatalf("games = %+v, %v", games, err)
	}
	if s.Stats().GetGamesPlayed() != 1 {
		t.Fatalf("stats games = %d", s.Stats().GetGamesPlayed())
	}

	if !s.Handle(input.Action{Kind: input.Restart}, t0.Add(3*time.Second)) {
		t.Fatal("restart ignored after game over")
	}
	snap = s.Snapshot()
	if !snap.Alive() || snap.Tick != 0 || snap.Score != 0 {
		t.Fatalf("after restart = %+v", snap)
	}
}

func TestPreferencesPersist(t *testing.T) {
	s, store := newTestSession(t, 10)
	s.Handle(input.Action{Kind: input.CycleTheme}, t0)
	s.Handle(input.Action{Kind: input.CycleSpeed, Step: 1}, t0)
	s.Handle(input.Action{Kind: input.ToggleSound}, t0)
	s.Handle(input.Action{Kind: input.ToggleVibrate}, t0)

	want := settings.Preferences{Theme: "dark", Speed: pace.Fast, Sound: false, Vibrate: true}
	if got := s.Preferences(); got != want {
		t.Fatalf("prefs = %+v, want %+v", got, want)
	}
	stored, err := store.LoadPreferences()
	if err != nil || stored != want {
		t.Fatalf("stored = %+v, %v", stored, err)
	}
	if got := s.Interval(); got != pace.Interval(pace.DefaultBaseSpeed, pace.Fast) {
		t.Fatalf("interval = %v", got)
	}

	s.Handle(input.Action{Kind: input.CycleSpeed, Step: -1}, t0)
	if s.Preferences().Speed != pace.Normal {
		t.Fatalf("speed = %s", s.Preferences().Speed)
	}
}

func TestConfigOverridesStoredPreferences(t *testing.T) {
	store, err := settings.OpenFileStore(t.TempDir() + "/snake.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SavePreferences(settings.Preferences{Theme: "retro", Speed: pace.Slow, Sound: true}); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.GridSize = 10
	cfg.Theme = "neon"
	s := New(cfg, store, WithStart(t0))
	p := s.Preferences()
	if p.Theme != "neon" || p.Speed != pace.Slow {
		t.Fatalf("prefs = %+v", p)
	}
}

func TestPause(t *testing.T) {
	s, _ := newTestSession(t, 10)
	if !s.Handle(input.Action{Kind: input.TogglePause}, t0) || !s.Paused() {
		t.Fatal("not paused")
	}
	if s.Step(t0.Add(time.Second)) {
		t.Fatal("stepped while paused")
	}
	if s.Handle(input.TurnTo(types.Up), t0) {
		t.Fatal("turn accepted while paused")
	}

	resume := t0.Add(2 * time.Second)
	s.Handle(input.Action{Kind: input.TogglePause}, resume)
	if s.Step(resume.Add(10 * time.Millisecond)) {
		t.Fatal("stepped right after resuming")
	}
	if !s.Step(resume.Add(100 * time.Millisecond)) {
		t.Fatal("did not step after resuming")
	}
}

func TestFeedbackFollowsSoundToggle(t *testing.T) {
	c := &cues{}
	s, _ := newTestSession(t, 10, WithPlayer(c))
	s.Handle(input.TurnTo(types.Up), t0)
	if len(c.got) != 1 || c.got[0] != feedback.CueMove {
		t.Fatalf("cues = %v", c.got)
	}

	s.Handle(input.Action{Kind: input.ToggleSound}, t0)
	s.Handle(input.TurnTo(types.Right), t0)
	if len(c.got) != 1 {
		t.Fatalf("cue played with sound off: %v", c.got)
	}
}

func TestRecordedSessionVerifies(t *testing.T) {
	var buf bytes.Buffer
	rec, err := replay.NewRecorder(&buf)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := newTestSession(t, 3, WithRecorder(rec))
	s.Step(t0.Add(time.Second))
	s.Handle(input.Action{Kind: input.Restart}, t0.Add(2*time.Second))
	s.Step(t0.Add(3 * time.Second))
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	games, err := replay.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("games = %d", len(games))
	}
	for i, g := range games {
		if err := replay.Verify(g); err != nil {
			t.Errorf("game %d: %v", i, err)
		}
	}
}

func TestPilotSteers(t *testing.T) {
	q := autopilot.NewQLearning(0.1, 0.9, 0, 1)
	s, _ := newTestSession(t, 10, WithPilot(autopilot.NewPilot(q, true)))
	if !s.Autopilot() {
		t.Fatal("autopilot not reported")
	}
	if s.Handle(input.TurnTo(types.Up), t0) {
		t.Fatal("manual turn accepted under autopilot")
	}
	now := t0
	for i := 0; i < 20 && s.Snapshot().Alive(); i++ {
		now = now.Add(100 * time.Millisecond)
		s.Step(now)
	}
	if s.Snapshot().Tick == 0 {
		t.Fatal("pilot never moved")
	}
	if q.Size() == 0 {
		t.Fatal("pilot did not learn")
	}
}

func TestOverlay(t *testing.T) {
	s, _ := newTestSession(t, 3)
	if lines := s.Overlay(); lines != nil {
		t.Fatalf("overlay while playing = %q", lines)
	}
	s.Handle(input.Action{Kind: input.TogglePause}, t0)
	if lines := s.Overlay(); len(lines) != 2 || lines[0] != "Paused" {
		t.Fatalf("paused overlay = %q", lines)
	}
	s.Handle(input.Action{Kind: input.TogglePause}, t0)

	s.Step(t0.Add(time.Second))
	lines := s.Overlay()
	want := []string{"Game Over", "Score: 0  |  Best: 0", "Press Space or Enter to restart"}
	if len(lines) != len(want) {
		t.Fatalf("overlay = %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestPilotRestartsAfterDelay(t *testing.T) {
	q := autopilot.NewQLearning(0.1, 0.9, 0, 1)
	s, _ := newTestSession(t, 3, WithPilot(autopilot.NewPilot(q, false)))
	end := t0.Add(time.Second)
	s.Step(end)
	if s.Snapshot().Alive() {
		t.Fatal("expected game over")
	}
	if s.Step(end.Add(AutoRestartDelay / 2)) {
		t.Fatal("restarted before the delay")
	}
	if !s.Step(end.Add(AutoRestartDelay)) || !s.Snapshot().Alive() {
		t.Fatal("pilot did not restart")
	}
	if s.Stats().GetGamesPlayed() != 1 {
		t.Fatalf("games = %d", s.Stats().GetGamesPlayed())
	}
}
