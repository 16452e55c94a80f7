package canvas

import (
	"testing"
	"time"
)

func TestOnNextFrameRunsOnce(t *testing.T) {
	loop := NewLoop(0)

	calls := 0
	loop.OnNextFrame(func() { calls++ })
	loop.Step()
	loop.Step()

	if calls != 1 {
		t.Errorf("expected one-shot callback to run once, got %d", calls)
	}
}

func TestCallbackQueuedDuringFrameWaits(t *testing.T) {
	loop := NewLoop(0)

	calls := 0
	loop.OnNextFrame(func() {
		loop.OnNextFrame(func() { calls++ })
	})

	loop.Step()
	if calls != 0 {
		t.Fatalf("expected nested callback to wait for the next frame")
	}
	loop.Step()
	if calls != 1 {
		t.Errorf("expected nested callback to run on the following frame, got %d", calls)
	}
}

func TestEveryRespectsInterval(t *testing.T) {
	loop := NewLoop(0)

	calls := 0
	cancel := loop.Every(100*time.Millisecond, func() { calls++ })

	now := time.Now()
	loop.StepAt(now) // first step fires immediately
	loop.StepAt(now.Add(50 * time.Millisecond))
	loop.StepAt(now.Add(120 * time.Millisecond))

	if calls != 2 {
		t.Errorf("expected 2 firings, got %d", calls)
	}

	cancel()
	loop.StepAt(now.Add(time.Second))
	if calls != 2 {
		t.Errorf("expected no firings after cancel, got %d", calls)
	}
}
