// Package session runs one player's sitting: the engine, its pace, score
// keeping, feedback, preferences and optional replay recording and autopilot.
// Frontends feed it time and input actions and draw its snapshots.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"snake-arcade/autopilot"
	"snake-arcade/config"
	"snake-arcade/feedback"
	"snake-arcade/game"
	"snake-arcade/game/manager"
	"snake-arcade/input"
	"snake-arcade/pace"
	"snake-arcade/replay"
	"snake-arcade/settings"
	"snake-arcade/stats"
	"snake-arcade/theme"
)

// AutoRestartDelay is how long a game over stays on screen before the
// autopilot starts the next game.
const AutoRestartDelay = 2 * time.Second

type Option func(*Session)

func WithPlayer(p feedback.Player) Option {
	return func(s *Session) { s.player = p }
}

func WithVibrator(v feedback.Vibrator) Option {
	return func(s *Session) { s.vibrator = v }
}

// WithRecorder logs every game of the session for replay.
func WithRecorder(r *replay.Recorder) Option {
	return func(s *Session) { s.rec = r }
}

// WithPilot hands the steering to p.
func WithPilot(p *autopilot.Pilot) Option {
	return func(s *Session) { s.pilot = p }
}

// WithStart sets the time the first game starts.
func WithStart(now time.Time) Option {
	return func(s *Session) { s.start = now }
}

type Session struct {
	mu sync.Mutex

	cfg      config.Config
	store    settings.Store
	prefs    settings.Preferences
	tuning   pace.Tuning
	engine   *game.Game
	clock    *pace.Clock
	scores   *manager.ScoreManager
	hub      *feedback.Hub
	player   feedback.Player
	vibrator feedback.Vibrator
	rec      *replay.Recorder
	pilot    *autopilot.Pilot

	start   time.Time
	ended   time.Time
	paused  bool
	lastNew bool
}

// New loads preferences and history from store and starts the first game.
// Config theme and speed, when set, override the stored preferences.
func New(cfg config.Config, store settings.Store, opts ...Option) *Session {
	s := &Session{
		cfg:   cfg,
		store: store,
		prefs: settings.DefaultPreferences(),
		start: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var history *stats.GameStats
	if store != nil {
		prefs, err := store.LoadPreferences()
		if err != nil {
			log.Printf("[session] load preferences: %v", err)
		}
		s.prefs = prefs.Normalize()

		games, err := store.Games()
		if err != nil {
			log.Printf("[session] load history: %v", err)
		}
		history = stats.NewGameStats(games...)
	}
	if cfg.Theme != "" {
		s.prefs.Theme = cfg.Theme
	}
	if cfg.Speed != "" {
		s.prefs.Speed = cfg.Speed
	}
	s.prefs = s.prefs.Normalize()

	var scoreStore manager.ScoreStore
	if store != nil {
		scoreStore = store
	}
	s.scores = manager.NewScoreManager(scoreStore, history)
	s.hub = feedback.NewHub(s.player, s.vibrator, s.prefs.Sound, s.prefs.Vibrate)

	s.tuning = cfg.Tuning()
	gameOpts := []game.Option{game.WithListener(s.hub)}
	if cfg.Seed != 0 {
		gameOpts = append(gameOpts, game.WithSeed(cfg.Seed))
	}
	s.engine = game.NewGame(s.tuning.GridSize, gameOpts...)
	s.clock = pace.NewClock(s.baseInterval())
	s.begin(s.start)
	return s
}

func (s *Session) baseInterval() time.Duration {
	return pace.Interval(s.tuning.BaseSpeed, s.prefs.Speed)
}

// begin starts bookkeeping for the game the engine was just reset to.
func (s *Session) begin(now time.Time) {
	s.clock.SetInterval(s.baseInterval())
	s.clock.Reset(now)
	s.scores.Start(now)
	s.lastNew = false
	if s.rec != nil {
		h := replay.Header{
			Session: s.scores.SessionID(),
			Seed:    s.engine.GameSeed(),
			Grid:    s.engine.GridSize(),
			Started: now,
		}
		if err := s.rec.Begin(h); err != nil {
			log.Printf("[replay] begin: %v", err)
		}
	}
}

func (s *Session) restart(now time.Time) {
	s.engine.Reset(s.tuning.GridSize)
	s.paused = false
	s.begin(now)
}

// Step advances the game if a move is due at now. It reports whether the
// board changed.
func (s *Session) Step(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return false
	}
	before := s.engine.Snapshot()
	if !before.Alive() {
		if s.pilot != nil && now.Sub(s.ended) >= AutoRestartDelay {
			s.restart(now)
			return true
		}
		return false
	}
	if !s.clock.Due(now) {
		return false
	}

	if s.pilot != nil {
		s.engine.SetDirection(s.pilot.Steer(before))
	}
	s.engine.Advance()
	after := s.engine.Snapshot()
	if s.pilot != nil {
		s.pilot.Learn(after)
	}

	if s.rec != nil {
		if err := s.rec.Step(after.Tick, after.Direction); err != nil {
			log.Printf("[replay] step: %v", err)
		}
	}
	if after.Score > before.Score && s.cfg.Accel > 0 {
		s.clock.SetInterval(pace.Accelerate(s.baseInterval(), after.Score, s.cfg.Accel))
	}
	if !after.Alive() {
		s.finish(after, now)
	}
	return true
}

func (s *Session) finish(final game.Snapshot, now time.Time) {
	newBest, err := s.scores.Finish(final.Score, now)
	if err != nil {
		log.Printf("[score] save: %v", err)
	}
	s.lastNew = newBest
	s.ended = now
	log.Printf("[session] game over: score %d after %d ticks (best %d)", final.Score, final.Tick, s.scores.GetHighScore())

	if s.rec != nil {
		if err := s.rec.End(replay.TrailerFrom(final, now)); err != nil {
			log.Printf("[replay] end: %v", err)
		}
	}
	s.savePreferences()
}

func (s *Session) savePreferences() {
	if s.store == nil {
		return
	}
	if err := s.store.SavePreferences(s.prefs); err != nil {
		log.Printf("[session] save preferences: %v", err)
	}
}

// Handle applies a user action at now and reports whether anything changed.
// Restart is only honoured once the game is over; Quit is left to the caller.
func (s *Session) Handle(a input.Action, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a.Kind {
	case input.Turn:
		if s.paused || s.pilot != nil {
			return false
		}
		return s.engine.SetDirection(a.Direction)

	case input.Restart:
		if s.engine.Snapshot().Alive() {
			return false
		}
		s.restart(now)
		return true

	case input.CycleTheme:
		s.prefs.Theme = theme.Next(s.prefs.Theme)

	case input.CycleSpeed:
		if a.Step < 0 {
			s.prefs.Speed = s.prefs.Speed.Prev()
		} else {
			s.prefs.Speed = s.prefs.Speed.Next()
		}
		s.clock.SetInterval(pace.Accelerate(s.baseInterval(), s.engine.Snapshot().Score, s.cfg.Accel))

	case input.ToggleSound:
		s.prefs.Sound = !s.prefs.Sound
		s.hub.SetSound(s.prefs.Sound)

	case input.ToggleVibrate:
		s.prefs.Vibrate = !s.prefs.Vibrate
		s.hub.SetVibrate(s.prefs.Vibrate)

	case input.TogglePause:
		if !s.engine.Snapshot().Alive() {
			return false
		}
		s.paused = !s.paused
		if !s.paused {
			s.clock.Reset(now)
		}
		return true

	default:
		return false
	}

	s.savePreferences()
	return true
}

// Overlay is the text frontends draw over the board, or nil while playing.
func (s *Session) Overlay() []string {
	snap := s.engine.Snapshot()
	s.mu.Lock()
	paused, newBest := s.paused, s.lastNew
	s.mu.Unlock()

	switch {
	case !snap.Alive():
		lines := []string{
			"Game Over",
			fmt.Sprintf("Score: %d  |  Best: %d", snap.Score, s.Best()),
		}
		if newBest {
			lines = append(lines, "New best!")
		}
		return append(lines, "Press Space or Enter to restart")
	case paused:
		return []string{"Paused", "Press P to resume"}
	}
	return nil
}

func (s *Session) Snapshot() game.Snapshot {
	return s.engine.Snapshot()
}

func (s *Session) Preferences() settings.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Best is the all-time high score.
func (s *Session) Best() int {
	return s.scores.GetHighScore()
}

func (s *Session) SessionBest() int {
	return s.scores.GetSessionHigh()
}

// NewBest reports whether the last finished game set a new high score.
func (s *Session) NewBest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastNew
}

func (s *Session) Stats() *stats.GameStats {
	return s.scores.Stats()
}

func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Session) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Interval()
}

func (s *Session) Autopilot() bool {
	return s.pilot != nil
}

func (s *Session) SessionID() string {
	return s.scores.SessionID()
}

// Close finishes the replay log. The store belongs to the caller.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil
	}
	return s.rec.Close()
}
