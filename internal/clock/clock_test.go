package clock

import (
	"testing"
	"time"
)

func TestFake_SleepAdvancesTime(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFake(start)

	f.Sleep(2 * time.Second)
	f.Sleep(500 * time.Millisecond)

	if got := f.Now().Sub(start); got != 2500*time.Millisecond {
		t.Errorf("elapsed = %v, want 2.5s", got)
	}
	if got := f.Slept(); got != 2500*time.Millisecond {
		t.Errorf("Slept() = %v, want 2.5s", got)
	}
	if got := len(f.Sleeps()); got != 2 {
		t.Errorf("len(Sleeps()) = %d, want 2", got)
	}
}

func TestFake_AdvanceIsNotASleep(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFake(start)

	f.Advance(time.Minute)

	if got := f.Now(); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("Now() = %v, want %v", got, start.Add(time.Minute))
	}
	if len(f.Sleeps()) != 0 {
		t.Errorf("Sleeps() = %v, want none", f.Sleeps())
	}
}

func TestFake_NegativeSleepDoesNotRewind(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFake(start)

	f.Sleep(-time.Second)

	if got := f.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}
}

func TestReal_NowMovesForward(t *testing.T) {
	c := Real()
	before := c.Now()
	c.Sleep(time.Millisecond)
	if !c.Now().After(before) {
		t.Error("Real clock did not advance across Sleep")
	}
}
