package manager

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"snake-arcade/stats"
)

// ScoreStore is the slice of persistence the score bookkeeping needs.
type ScoreStore interface {
	HighScore() (int, error)
	SetHighScore(score int) error
	RecordGame(record stats.GameRecord) error
}

// ScoreManager tracks session and all-time bests across games and writes
// them through a ScoreStore when a game ends.
type ScoreManager struct {
	mu          sync.Mutex
	store       ScoreStore
	stats       *stats.GameStats
	session     string
	highScore   int
	sessionHigh int
	startTime   time.Time
}

func NewScoreManager(store ScoreStore, history *stats.GameStats) *ScoreManager {
	if history == nil {
		history = stats.NewGameStats()
	}
	sm := &ScoreManager{
		store:   store,
		stats:   history,
		session: uuid.New().String(),
	}

	if store != nil {
		high, err := store.HighScore()
		if err != nil {
			log.Printf("[score] could not load high score: %v", err)
		}
		sm.highScore = high
	}
	return sm
}

// Start marks the beginning of a game.
func (sm *ScoreManager) Start(now time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.startTime = now
}

// Finish is told the final score after a game-over and reports whether it beat the stored best.
func (sm *ScoreManager) Finish(score int, now time.Time) (bool, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if score > sm.sessionHigh {
		sm.sessionHigh = score
	}

	start := sm.startTime
	if start.IsZero() {
		start = now
	}
	record := stats.NewRecord(sm.session, score, start, now)
	sm.stats.AddGame(record)

	newBest := score > sm.highScore
	if newBest {
		sm.highScore = score
	}
	if sm.store == nil {
		return newBest, nil
	}

	if err := sm.store.RecordGame(record); err != nil {
		return newBest, err
	}
	if newBest {
		if err := sm.store.SetHighScore(score); err != nil {
			return newBest, err
		}
	}
	return newBest, nil
}

func (sm *ScoreManager) GetHighScore() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.highScore
}

func (sm *ScoreManager) GetSessionHigh() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.sessionHigh
}

func (sm *ScoreManager) SessionID() string {
	return sm.session
}

func (sm *ScoreManager) Stats() *stats.GameStats {
	return sm.stats
}
