// Package feedback turns engine events into sounds and vibration pulses.
package feedback

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"snake-arcade/game"
)

// Cue is a named sound.
type Cue int

const (
	CueMove Cue = iota
	CueEat
	CueGameOver
)

func (c Cue) String() string {
	switch c {
	case CueMove:
		return "move"
	case CueEat:
		return "eat"
	case CueGameOver:
		return "game_over"
	}
	return "unknown"
}

// Vibration patterns, alternating on and off durations.
var (
	EatPulse      = []time.Duration{40 * time.Millisecond}
	GameOverPulse = []time.Duration{80 * time.Millisecond, 80 * time.Millisecond, 120 * time.Millisecond}
)

type Player interface {
	Play(c Cue)
}

type Vibrator interface {
	Vibrate(pattern []time.Duration)
}

// Hub listens to a game and forwards cues while the matching preference is on.
type Hub struct {
	mu       sync.Mutex
	player   Player
	vibrator Vibrator
	sound    bool
	vibrate  bool
}

// NewHub accepts nil collaborators; a nil player or vibrator is silent.
func NewHub(player Player, vibrator Vibrator, sound, vibrate bool) *Hub {
	return &Hub{
		player:   player,
		vibrator: vibrator,
		sound:    sound,
		vibrate:  vibrate,
	}
}

func (h *Hub) SetSound(on bool) {
	h.mu.Lock()
	h.sound = on
	h.mu.Unlock()
}

func (h *Hub) SetVibrate(on bool) {
	h.mu.Lock()
	h.vibrate = on
	h.mu.Unlock()
}

func (h *Hub) OnEvent(e game.Event) {
	switch e.Kind {
	case game.EventTurned:
		h.cue(CueMove, nil)
	case game.EventAte:
		h.cue(CueEat, EatPulse)
	case game.EventGameOver:
		h.cue(CueGameOver, GameOverPulse)
	}
}

func (h *Hub) cue(c Cue, pulse []time.Duration) {
	h.mu.Lock()
	sound, vibrate := h.sound && h.player != nil, h.vibrate && h.vibrator != nil
	h.mu.Unlock()

	if sound {
		h.player.Play(c)
	}
	if vibrate && pulse != nil {
		h.vibrator.Vibrate(pulse)
	}
}

// Speaker plays cues on the default audio device. When the device cannot be
// opened it stays silent.
type Speaker struct {
	mu    sync.Mutex
	mixer *beep.Mixer
	ready bool
}

func NewSpeaker() *Speaker {
	s := &Speaker{mixer: &beep.Mixer{}}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("[audio] init failed, running silent: %v", err)
		return s
	}
	speaker.Play(s.mixer)
	s.ready = true
	return s
}

func (s *Speaker) Play(c Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return
	}
	st := cueStreamer(c, sampleRate)
	if st == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return
	}
	speaker.Clear()
	s.ready = false
}

// Beeper is satisfied by tcell.Screen.
type Beeper interface {
	Beep() error
}

// Bell stands in for a vibration motor on a terminal: one bell per pattern.
type Bell struct {
	Screen Beeper
}

func (b Bell) Vibrate(pattern []time.Duration) {
	if b.Screen == nil || len(pattern) == 0 {
		return
	}
	if err := b.Screen.Beep(); err != nil {
		log.Printf("[feedback] bell: %v", err)
	}
}
