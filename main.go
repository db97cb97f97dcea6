package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"snake-arcade/autopilot"
	"snake-arcade/config"
	"snake-arcade/feedback"
	"snake-arcade/input"
	"snake-arcade/pace"
	"snake-arcade/replay"
	"snake-arcade/session"
	"snake-arcade/settings"
	"snake-arcade/tui"
	"snake-arcade/ui"
)

const (
	logDir      = "logs"
	logFileName = "snake.log"
	maxLogSize  = 10 * 1024 * 1024
)

type options struct {
	configPath string
	ui         string
	grid       int
	speed      string
	theme      string
	store      string
	dataDir    string
	seed       uint64
	autopilot  bool
	train      int
	record     string
	verify     string
	debug      bool

	set map[string]bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fl := flag.NewFlagSet("snake", flag.ContinueOnError)
	fl.StringVar(&o.configPath, "config", "snake.yaml", "Config file")
	fl.StringVar(&o.ui, "ui", "", "Frontend: window or terminal")
	fl.IntVar(&o.grid, "grid", 0, "Board size in cells (0 picks one from the screen)")
	fl.StringVar(&o.speed, "speed", "", "Speed tier: slow, normal or fast")
	fl.StringVar(&o.theme, "theme", "", "Colour theme")
	fl.StringVar(&o.store, "store", "", "Settings store: json or sqlite")
	fl.StringVar(&o.dataDir, "data", "", "Directory for settings, scores and the Q-table")
	fl.Uint64Var(&o.seed, "seed", 0, "Seed for the first game (0 uses the clock)")
	fl.BoolVar(&o.autopilot, "autopilot", false, "Let the Q-learning agent steer")
	fl.IntVar(&o.train, "train", 0, "Train the agent for N headless games and exit")
	fl.StringVar(&o.record, "record", "", "Record games to this replay file")
	fl.StringVar(&o.verify, "verify", "", "Verify a replay file and exit")
	fl.BoolVar(&o.debug, "debug", false, "Write logs to "+filepath.Join(logDir, logFileName))
	if err := fl.Parse(args); err != nil {
		return o, err
	}

	o.set = make(map[string]bool)
	fl.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// apply overrides cfg with the flags given on the command line.
func (o options) apply(cfg *config.Config) {
	if o.set["ui"] {
		cfg.UI = o.ui
	}
	if o.set["grid"] {
		cfg.GridSize = o.grid
	}
	if o.set["speed"] {
		cfg.Speed = pace.ParseTier(o.speed)
	}
	if o.set["theme"] {
		cfg.Theme = o.theme
	}
	if o.set["store"] {
		cfg.Store = o.store
	}
	if o.set["data"] {
		cfg.DataDir = o.dataDir
	}
	if o.set["seed"] {
		cfg.Seed = o.seed
	}
	if o.set["autopilot"] {
		cfg.Autopilot.Enabled = o.autopilot
	}
	if o.set["record"] {
		cfg.Record = o.record
	}
}

// setupLogging sends the log package to logs/snake.log when debug is set and
// discards it otherwise. A log file over maxLogSize is moved aside first.
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "log dir: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("snake-%s.log", time.Now().Format("20060102-150405")))
		if err := os.Rename(logPath, rotated); err != nil {
			fmt.Fprintf(os.Stderr, "rotate log: %v\n", err)
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		return 2
	}
	if f := setupLogging(opts.debug); f != nil {
		defer f.Close()
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch {
	case opts.verify != "":
		err = verifyReplay(opts.verify)
	case opts.train > 0:
		err = train(cfg, opts.train)
	default:
		err = play(cfg)
	}
	if err != nil {
		log.Printf("[main] %v", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func seedOf(cfg config.Config) uint64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}

// loadAgent builds the Q-learning agent and loads its table if one was saved.
func loadAgent(cfg config.Config) (*autopilot.QLearning, error) {
	a := cfg.Autopilot
	q := autopilot.NewQLearning(a.Alpha, a.Gamma, a.Epsilon, seedOf(cfg))
	if err := q.Load(a.QTable); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[autopilot] no table at %s, starting fresh", a.QTable)
			return q, nil
		}
		return nil, err
	}
	log.Printf("[autopilot] loaded %d states from %s", q.Size(), a.QTable)
	return q, nil
}

func train(cfg config.Config, episodes int) error {
	q, err := loadAgent(cfg)
	if err != nil {
		return err
	}
	res := autopilot.Train(q, episodes, cfg.Tuning().GridSize, seedOf(cfg))
	if err := q.Save(cfg.Autopilot.QTable); err != nil {
		return fmt.Errorf("save q-table: %w", err)
	}
	fmt.Printf("trained %d games: best %d, average %.2f, %d states\n",
		res.Episodes, res.Best, res.Average, res.States)
	return nil
}

func verifyReplay(path string) error {
	games, err := replay.Read(path)
	if err != nil {
		return err
	}
	failed := 0
	for i, g := range games {
		if err := replay.Verify(g); err != nil {
			failed++
			fmt.Printf("game %d (seed %d): %v\n", i+1, g.Header.Seed, err)
			continue
		}
		fmt.Printf("game %d (seed %d): ok, score %d in %d ticks\n",
			i+1, g.Header.Seed, g.Trailer.Score, g.Trailer.Ticks)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d games failed", failed, len(games))
	}
	return nil
}

func play(cfg config.Config) error {
	keys, err := cfg.KeyMap()
	if err != nil {
		return err
	}

	store, err := settings.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	speaker := feedback.NewSpeaker()
	defer speaker.Close()
	opts := []session.Option{session.WithPlayer(speaker)}

	if cfg.Record != "" {
		rec, err := replay.Create(cfg.Record)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithRecorder(rec))
	}

	if cfg.Autopilot.Enabled {
		q, err := loadAgent(cfg)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithPilot(autopilot.NewPilot(q, true)))
		defer func() {
			if err := q.Save(cfg.Autopilot.QTable); err != nil {
				log.Printf("[autopilot] save: %v", err)
			}
		}()
	}

	if cfg.UI == "terminal" {
		return playTerminal(cfg, store, keys, opts)
	}

	sess := session.New(cfg, store, opts...)
	defer sess.Close()
	ui.Run(cfg, sess, keys)
	return nil
}

func playTerminal(cfg config.Config, store settings.Store, keys input.KeyMap, opts []session.Option) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	if cfg.GridSize == 0 {
		w, h := screen.Size()
		cfg.GridSize = tui.FitGrid(w, h, cfg.Tuning().GridSize)
	}

	opts = append(opts, session.WithVibrator(feedback.Bell{Screen: screen}))
	sess := session.New(cfg, store, opts...)
	defer sess.Close()
	tui.New(screen, sess, keys).Run()
	return nil
}
