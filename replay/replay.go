// Package replay records the directions applied on every tick so a game can
// be re-run from its seed and checked against the recorded outcome.
//
// A log is zstd-compressed JSON lines. Each game is a header line, one line
// per tick and a trailer line; a log may hold many games.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"snake-arcade/game"
	"snake-arcade/game/types"
)

var (
	ErrMismatch   = errors.New("replay does not match recording")
	ErrIncomplete = errors.New("replay has no trailer")
)

type Header struct {
	Session string    `json:"session"`
	Seed    uint64    `json:"seed"`
	Grid    int       `json:"grid"`
	Started time.Time `json:"started"`
}

type Trailer struct {
	Ticks  uint64    `json:"ticks"`
	Score  int       `json:"score"`
	Length int       `json:"length"`
	Status string    `json:"status"`
	Ended  time.Time `json:"ended"`
}

// TrailerFrom summarises a finished game.
func TrailerFrom(s game.Snapshot, ended time.Time) Trailer {
	return Trailer{
		Ticks:  s.Tick,
		Score:  s.Score,
		Length: len(s.Snake),
		Status: s.Status.String(),
		Ended:  ended,
	}
}

type line struct {
	Header  *Header  `json:"header,omitempty"`
	Tick    uint64   `json:"t,omitempty"`
	Dir     string   `json:"d,omitempty"`
	Trailer *Trailer `json:"end,omitempty"`
}

// Game is one recorded game.
type Game struct {
	Header  Header
	Steps   []types.Direction
	Trailer *Trailer
}

// Recorder appends games to a log.
type Recorder struct {
	mu     sync.Mutex
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
	inGame bool
}

// Create truncates path and starts a new log.
func Create(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r, err := NewRecorder(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.f = f
	return r, nil
}

// NewRecorder writes a log to w. Close does not close w.
func NewRecorder(w io.Writer) (*Recorder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	return &Recorder{enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func (r *Recorder) write(l line) error {
	if r.w == nil {
		return os.ErrClosed
	}
	b, err := json.Marshal(l)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Begin starts a game. An unfinished previous game is left without a trailer.
func (r *Recorder) Begin(h Header) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inGame = true
	return r.write(line{Header: &h})
}

// Step records the direction applied on tick.
func (r *Recorder) Step(tick uint64, d types.Direction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inGame {
		return fmt.Errorf("step %d outside a game", tick)
	}
	return r.write(line{Tick: tick, Dir: d.String()})
}

func (r *Recorder) End(t Trailer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inGame {
		return fmt.Errorf("end outside a game")
	}
	r.inGame = false
	if err := r.write(line{Trailer: &t}); err != nil {
		return err
	}
	return r.w.Flush()
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	err := r.w.Flush()
	if cerr := r.enc.Close(); err == nil {
		err = cerr
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
		r.f = nil
	}
	r.w = nil
	r.enc = nil
	return err
}

// Read loads every game in the log at path.
func Read(path string) ([]Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func Decode(rd io.Reader) ([]Game, error) {
	dec, err := zstd.NewReader(rd)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var (
		games []Game
		cur   *Game
	)
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		var l line
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
			return games, fmt.Errorf("line %d: %w", n, err)
		}
		switch {
		case l.Header != nil:
			games = append(games, Game{Header: *l.Header})
			cur = &games[len(games)-1]
		case l.Trailer != nil:
			if cur == nil {
				return games, fmt.Errorf("line %d: trailer without header", n)
			}
			t := *l.Trailer
			cur.Trailer = &t
			cur = nil
		default:
			if cur == nil {
				return games, fmt.Errorf("line %d: step without header", n)
			}
			d := types.ParseDirection(l.Dir)
			if !d.Valid() {
				return games, fmt.Errorf("line %d: bad direction %q", n, l.Dir)
			}
			cur.Steps = append(cur.Steps, d)
		}
	}
	if err := sc.Err(); err != nil {
		return games, err
	}
	return games, nil
}

// Play re-runs g on a fresh engine and returns the final state.
func Play(g Game) game.Snapshot {
	e := game.NewGame(g.Header.Grid, game.WithSeed(g.Header.Seed))
	for _, d := range g.Steps {
		if !e.Snapshot().Alive() {
			break
		}
		e.SetDirection(d)
		e.Advance()
	}
	return e.Snapshot()
}

// Verify re-runs g and compares the outcome with its trailer.
func Verify(g Game) error {
	if g.Trailer == nil {
		return ErrIncomplete
	}
	got := Play(g)
	want := g.Trailer
	switch {
	case got.Tick != want.Ticks:
		return fmt.Errorf("%w: ended after %d ticks, recorded %d", ErrMismatch, got.Tick, want.Ticks)
	case got.Score != want.Score:
		return fmt.Errorf("%w: score %d, recorded %d", ErrMismatch, got.Score, want.Score)
	case len(got.Snake) != want.Length:
		return fmt.Errorf("%w: length %d, recorded %d", ErrMismatch, len(got.Snake), want.Length)
	case got.Status.String() != want.Status:
		return fmt.Errorf("%w: status %s, recorded %s", ErrMismatch, got.Status, want.Status)
	}
	return nil
}
