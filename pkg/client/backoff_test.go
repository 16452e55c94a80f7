package client

import (
	"testing"
	"time"
)

func TestBackoffGrowsUntilCeiling(t *testing.T) {
	b := &ExponentialBackoff{
		Base:   50 * time.Millisecond,
		Max:    400 * time.Millisecond,
		Factor: 2.0,
	}

	want := []time.Duration{
		50 * time.Millisecond,
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		400 * time.Millisecond,
	}
	for attempt, expected := range want {
		if got := b.Next(attempt); got != expected {
			t.Errorf("Next(%d) = %v, want %v", attempt, got, expected)
		}
	}

	if got := b.Next(-3); got != 50*time.Millisecond {
		t.Errorf("Next(-3) = %v, want base wait", got)
	}
}

func TestBackoffJitterStaysBounded(t *testing.T) {
	b := &ExponentialBackoff{
		Base:   200 * time.Millisecond,
		Max:    time.Second,
		Factor: 2.0,
		Jitter: 0.25,
	}

	low := 150 * time.Millisecond
	high := 250 * time.Millisecond
	for i := 0; i < 200; i++ {
		if got := b.Next(0); got < low || got > high {
			t.Fatalf("Next(0) = %v, want within [%v, %v]", got, low, high)
		}
	}
}
