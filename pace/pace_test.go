package pace

import (
	"testing"
	"time"
)

func TestInterval(t *testing.T) {
	sec := float64(time.Second)
	tests := []struct {
		base int
		tier Tier
		want time.Duration
	}{
		{10, Normal, 100 * time.Millisecond},
		{10, Fast, time.Duration(sec / 14)},
		{10, Slow, time.Duration(sec / 7)},
		{0, Normal, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := Interval(tt.base, tt.tier); got != tt.want {
			t.Errorf("Interval(%d, %s) = %v, want %v", tt.base, tt.tier, got, tt.want)
		}
	}
}

func TestParseTier(t *testing.T) {
	for _, s := range []string{"slow", "normal", "fast"} {
		if got := ParseTier(s); string(got) != s {
			t.Errorf("ParseTier(%q) = %q", s, got)
		}
	}
	if got := ParseTier("ludicrous"); got != Normal {
		t.Errorf("unknown tier = %q, want normal", got)
	}
}

func TestTierCycling(t *testing.T) {
	if Slow.Next() != Normal || Normal.Next() != Fast || Fast.Next() != Slow {
		t.Fatal("Next does not cycle slow -> normal -> fast")
	}
	if Slow.Prev() != Fast || Fast.Prev() != Normal {
		t.Fatal("Prev does not cycle backwards")
	}
}

func TestAutoTune(t *testing.T) {
	tests := []struct {
		w, h int
		want Tuning
	}{
		{400, 400, Tuning{16, 8}},
		{480, 480, Tuning{24, 10}},
		{640, 640, Tuning{26, 11}},
	}
	for _, tt := range tests {
		if got := AutoTune(tt.w, tt.h); got != tt.want {
			t.Errorf("AutoTune(%d, %d) = %+v, want %+v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestAccelerate(t *testing.T) {
	base := 100 * time.Millisecond
	if got := Accelerate(base, 5, 0); got != base {
		t.Errorf("zero percent changed interval to %v", got)
	}
	if got := Accelerate(base, 10, 2); got != 80*time.Millisecond {
		t.Errorf("Accelerate(100ms, 10, 2%%) = %v, want 80ms", got)
	}
	if got := Accelerate(base, 1000, 2); got != MinInterval {
		t.Errorf("Accelerate floor = %v, want %v", got, MinInterval)
	}
}

func TestClockDue(t *testing.T) {
	c := NewClock(100 * time.Millisecond)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if c.Due(t0) {
		t.Fatal("first call should only start the clock")
	}
	if c.Due(t0.Add(99 * time.Millisecond)) {
		t.Fatal("due before the interval elapsed")
	}
	if !c.Due(t0.Add(100 * time.Millisecond)) {
		t.Fatal("not due after the interval")
	}
	if c.Due(t0.Add(150 * time.Millisecond)) {
		t.Fatal("period did not restart")
	}

	c.SetInterval(10 * time.Millisecond)
	if !c.Due(t0.Add(160 * time.Millisecond)) {
		t.Fatal("new interval not applied")
	}
}
