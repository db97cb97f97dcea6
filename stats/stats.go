package stats

import (
	"sort"
	"sync"
	"time"
)

// GroupSize is the number of records folded into one compressed record.
const GroupSize = 100

// GameRecord holds one finished game, or a group of them once compressed.
type GameRecord struct {
	Session          string    `json:"session,omitempty"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Score            int       `json:"score"`
	CompressionIndex int       `json:"compressionIndex"` // 0 for single games
	GamesCount       int       `json:"gamesCount"`
	AverageScore     float64   `json:"averageScore"`
	MedianScore      float64   `json:"medianScore"`
	MaxScore         int       `json:"maxScore"`
	MinScore         int       `json:"minScore"`
	AverageDuration  float64   `json:"averageDuration"`
	MaxDuration      float64   `json:"maxDuration"`
	MinDuration      float64   `json:"minDuration"`
}

// NewRecord builds a single-game record.
func NewRecord(session string, score int, startTime, endTime time.Time) GameRecord {
	d := endTime.Sub(startTime).Seconds()
	return GameRecord{
		Session:         session,
		StartTime:       startTime,
		EndTime:         endTime,
		Score:           score,
		GamesCount:      1,
		AverageScore:    float64(score),
		MedianScore:     float64(score),
		MaxScore:        score,
		MinScore:        score,
		AverageDuration: d,
		MaxDuration:     d,
		MinDuration:     d,
	}
}

// GameStats aggregates finished games for the score panel.
type GameStats struct {
	games []GameRecord
	mutex sync.RWMutex
}

func NewGameStats(records ...GameRecord) *GameStats {
	s := &GameStats{
		games: make([]GameRecord, 0, len(records)),
	}
	for _, r := range records {
		if r.GamesCount == 0 {
			r = NewRecord(r.Session, r.Score, r.StartTime, r.EndTime)
		}
		s.games = append(s.games, r)
	}
	s.groupGames()
	return s
}

// AddGame appends a finished game and compresses old records if needed.
func (s *GameStats) AddGame(record GameRecord) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if record.GamesCount == 0 {
		record = NewRecord(record.Session, record.Score, record.StartTime, record.EndTime)
	}
	s.games = append(s.games, record)
	s.groupGames()
}

// groupGames folds every GroupSize records of one compression level into a
// single record of the next level, starting from the oldest.
func (s *GameStats) groupGames() {
	sort.SliceStable(s.games, func(i, j int) bool {
		return s.games[i].StartTime.Before(s.games[j].StartTime)
	})

	for level := 0; ; level++ {
		var records []GameRecord
		for _, g := range s.games {
			if g.CompressionIndex == level {
				records = append(records, g)
			}
		}
		if len(records) < GroupSize {
			break
		}

		var regrouped []GameRecord
		for i := 0; i < len(records); i += GroupSize {
			end := i + GroupSize
			if end > len(records) {
				regrouped = append(regrouped, records[i:]...)
				break
			}
			regrouped = append(regrouped, compress(records[i:end], level+1))
		}

		remaining := make([]GameRecord, 0, len(s.games))
		for _, g := range s.games {
			if g.CompressionIndex != level {
				remaining = append(remaining, g)
			}
		}
		s.games = append(remaining, regrouped...)
		sort.SliceStable(s.games, func(i, j int) bool {
			return s.games[i].StartTime.Before(s.games[j].StartTime)
		})
	}
}

func compress(group []GameRecord, level int) GameRecord {
	out := GameRecord{
		StartTime:        group[0].StartTime,
		EndTime:          group[0].EndTime,
		CompressionIndex: level,
		MaxScore:         group[0].MaxScore,
		MinScore:         group[0].MinScore,
		MaxDuration:      group[0].MaxDuration,
		MinDuration:      group[0].MinDuration,
	}

	var totalScore, totalDuration float64
	medians := make([]float64, 0, len(group))
	for _, g := range group {
		if g.MaxScore > out.MaxScore {
			out.MaxScore = g.MaxScore
		}
		if g.MinScore < out.MinScore {
			out.MinScore = g.MinScore
		}
		if g.MaxDuration > out.MaxDuration {
			out.MaxDuration = g.MaxDuration
		}
		if g.MinDuration < out.MinDuration {
			out.MinDuration = g.MinDuration
		}
		if g.StartTime.Before(out.StartTime) {
			out.StartTime = g.StartTime
		}
		if g.EndTime.After(out.EndTime) {
			out.EndTime = g.EndTime
		}
		totalScore += g.AverageScore * float64(g.GamesCount)
		totalDuration += g.AverageDuration * float64(g.GamesCount)
		out.GamesCount += g.GamesCount
		for i := 0; i < g.GamesCount; i++ {
			medians = append(medians, g.MedianScore)
		}
	}

	out.AverageScore = totalScore / float64(out.GamesCount)
	out.AverageDuration = totalDuration / float64(out.GamesCount)
	out.MedianScore = median(medians)
	out.Score = out.MaxScore
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

// Records returns a copy of the current records, oldest first.
func (s *GameStats) Records() []GameRecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]GameRecord, len(s.games))
	copy(out, s.games)
	return out
}

// Recent returns up to n of the latest single-game scores, oldest first.
func (s *GameStats) Recent(n int) []int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var scores []int
	for i := len(s.games) - 1; i >= 0 && len(scores) < n; i-- {
		if s.games[i].CompressionIndex == 0 {
			scores = append(scores, s.games[i].Score)
		}
	}
	for i, j := 0, len(scores)-1; i < j; i, j = i+1, j-1 {
		scores[i], scores[j] = scores[j], scores[i]
	}
	return scores
}

func (s *GameStats) GetAverageScore() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var total float64
	var games int
	for _, g := range s.games {
		total += g.AverageScore * float64(g.GamesCount)
		games += g.GamesCount
	}
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

func (s *GameStats) GetMedianScore() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var all []float64
	for _, g := range s.games {
		for i := 0; i < g.GamesCount; i++ {
			all = append(all, g.MedianScore)
		}
	}
	return median(all)
}

func (s *GameStats) GetMaxScore() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	best := 0
	for _, g := range s.games {
		if g.MaxScore > best {
			best = g.MaxScore
		}
	}
	return best
}

func (s *GameStats) GetGamesPlayed() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := 0
	for _, g := range s.games {
		total += g.GamesCount
	}
	return total
}

// GetAverageDuration returns the mean game length in seconds.
func (s *GameStats) GetAverageDuration() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var total float64
	var games int
	for _, g := range s.games {
		total += g.AverageDuration * float64(g.GamesCount)
		games += g.GamesCount
	}
	if games == 0 {
		return 0
	}
	return total / float64(games)
}
