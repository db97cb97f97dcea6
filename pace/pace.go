// Package pace decides how often the game advances. The engine itself is
// tick-count agnostic; everything about speed lives here.
package pace

import (
	"time"
)

// Tier is a user-selectable speed setting.
type Tier string

const (
	Slow   Tier = "slow"
	Normal Tier = "normal"
	Fast   Tier = "fast"
)

// Tiers lists the speed settings in cycling order.
var Tiers = []Tier{Slow, Normal, Fast}

const (
	DefaultBaseSpeed = 10 // moves per second
	MinInterval      = 40 * time.Millisecond
)

// ParseTier returns Normal for anything it does not recognise.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case Slow, Normal, Fast:
		return Tier(s)
	}
	return Normal
}

// Valid reports whether t is one of Slow, Normal, Fast.
func (t Tier) Valid() bool {
	return t == Slow || t == Normal || t == Fast
}

// Multiplier scales the base speed.
func (t Tier) Multiplier() float64 {
	switch t {
	case Slow:
		return 0.7
	case Fast:
		return 1.4
	}
	return 1
}

// Next cycles slow -> normal -> fast -> slow.
func (t Tier) Next() Tier {
	for i, tier := range Tiers {
		if tier == t {
			return Tiers[(i+1)%len(Tiers)]
		}
	}
	return Normal
}

// Prev cycles the other way.
func (t Tier) Prev() Tier {
	for i, tier := range Tiers {
		if tier == t {
			return Tiers[(i+len(Tiers)-1)%len(Tiers)]
		}
	}
	return Normal
}

// Interval is the time between moves at base moves per second.
func Interval(base int, tier Tier) time.Duration {
	if base <= 0 {
		base = DefaultBaseSpeed
	}
	return time.Duration(float64(time.Second) / (float64(base) * tier.Multiplier()))
}

// Accelerate shortens interval by percent per point of score, floored at MinInterval.
func Accelerate(interval time.Duration, score int, percent float64) time.Duration {
	if percent <= 0 || score <= 0 {
		return interval
	}
	factor := 1 - percent/100*float64(score)
	d := time.Duration(float64(interval) * factor)
	if d < MinInterval {
		return MinInterval
	}
	return d
}

// Tuning is the grid and speed picked for a screen size.
type Tuning struct {
	GridSize  int
	BaseSpeed int
}

// AutoTune picks a coarser grid and slower pace for small screens and a finer,
// faster one for large screens.
func AutoTune(widthPx, heightPx int) Tuning {
	area := widthPx * heightPx
	switch {
	case area < 200000:
		return Tuning{GridSize: 16, BaseSpeed: 8}
	case area > 350000:
		return Tuning{GridSize: 26, BaseSpeed: 11}
	}
	return Tuning{GridSize: 24, BaseSpeed: DefaultBaseSpeed}
}

// Clock reports when the next move is due.
type Clock struct {
	interval   time.Duration
	lastUpdate time.Time
}

func NewClock(interval time.Duration) *Clock {
	return &Clock{interval: interval}
}

// Due reports whether a move is due at now and, if so, starts the next period.
// The first call only starts the clock.
func (c *Clock) Due(now time.Time) bool {
	if c.lastUpdate.IsZero() {
		c.lastUpdate = now
		return false
	}
	if now.Sub(c.lastUpdate) < c.interval {
		return false
	}
	c.lastUpdate = now
	return true
}

// Reset restarts the period at now.
func (c *Clock) Reset(now time.Time) {
	c.lastUpdate = now
}

func (c *Clock) SetInterval(d time.Duration) {
	c.interval = d
}

func (c *Clock) Interval() time.Duration {
	return c.interval
}
