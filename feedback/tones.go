package feedback

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const sampleRate = beep.SampleRate(44100)

type wave int

const (
	waveSquare wave = iota
	waveSaw
)

// oscillator is a fixed-length tone generator
type oscillator struct {
	freq     float64
	phase    float64
	position int
	duration int
	wave     wave
	rate     beep.SampleRate
}

func newOscillator(freq float64, d time.Duration, w wave, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     freq,
		duration: rate.N(d),
		wave:     w,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case waveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case waveSaw:
			val = 2 * (o.phase - 0.5)
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// tone is a single note of a cue
type tone struct {
	freq   float64
	length time.Duration
	wave   wave
	volume float64
	delay  time.Duration // silence before the note, measured from the previous note's start
}

// cueTones lists the notes of each cue.
var cueTones = map[Cue][]tone{
	CueMove: {{freq: 300, length: 40 * time.Millisecond, wave: waveSquare, volume: 0.03}},
	CueEat:  {{freq: 600, length: 80 * time.Millisecond, wave: waveSquare, volume: 0.12}},
	CueGameOver: {
		{freq: 200, length: 150 * time.Millisecond, wave: waveSaw, volume: 0.1},
		{freq: 120, length: 200 * time.Millisecond, wave: waveSaw, volume: 0.11, delay: 120 * time.Millisecond},
	},
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// cueStreamer renders a cue. Notes overlap when a delay is shorter than the
// previous note, so each note is mixed in at its own offset.
func cueStreamer(c Cue, rate beep.SampleRate) beep.Streamer {
	tones := cueTones[c]
	if len(tones) == 0 {
		return nil
	}

	var (
		parts  []beep.Streamer
		offset time.Duration
	)
	for i, t := range tones {
		if i > 0 {
			offset += t.delay
		}
		note := withVolume(newOscillator(t.freq, t.length, t.wave, rate), t.volume)
		if offset > 0 {
			note = beep.Seq(beep.Silence(rate.N(offset)), note)
		}
		parts = append(parts, note)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return beep.Mix(parts...)
}

// CueLength is the audible length of a cue.
func CueLength(c Cue) time.Duration {
	var offset, end time.Duration
	for i, t := range cueTones[c] {
		if i > 0 {
			offset += t.delay
		}
		if e := offset + t.length; e > end {
			end = e
		}
	}
	return end
}
