package canvas

import (
	"context"
	"sync"
	"time"
)

const defaultFrameInterval = 16 * time.Millisecond

// Loop is the cooperative frame scheduler for canvas work. One-shot callbacks
// run on the next frame (deferred measurement after registration); repeating
// tasks run at a bounded low-priority interval (the dirty-check sweep). No
// callback blocks and every call returns synchronously.
type Loop struct {
	mu    sync.Mutex
	next  []func()
	tasks map[int]*loopTask
	seq   int

	frameInterval time.Duration
}

type loopTask struct {
	interval time.Duration
	last     time.Time
	fn       func()
}

// NewLoop creates a frame loop. A zero frameInterval falls back to ~60fps.
func NewLoop(frameInterval time.Duration) *Loop {
	if frameInterval == 0 {
		frameInterval = defaultFrameInterval
	}
	return &Loop{
		tasks:         make(map[int]*loopTask),
		frameInterval: frameInterval,
	}
}

// OnNextFrame queues fn to run exactly once on the next frame. Callbacks
// queued while a frame is running wait for the frame after it.
func (l *Loop) OnNextFrame(fn func()) {
	l.mu.Lock()
	l.next = append(l.next, fn)
	l.mu.Unlock()
}

// Every registers a repeating task that fires at most once per interval,
// checked on each frame. The returned cancel func detaches it.
func (l *Loop) Every(interval time.Duration, fn func()) (cancel func()) {
	l.mu.Lock()
	l.seq++
	id := l.seq
	l.tasks[id] = &loopTask{interval: interval, fn: fn}
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		delete(l.tasks, id)
		l.mu.Unlock()
	}
}

// Step runs one frame: the queued one-shot callbacks, then any repeating
// tasks whose interval has elapsed.
func (l *Loop) Step() {
	l.StepAt(time.Now())
}

// StepAt runs one frame against an explicit clock. Exposed so tests can
// exercise interval behavior without sleeping.
func (l *Loop) StepAt(now time.Time) {
	l.mu.Lock()
	queued := l.next
	l.next = nil
	var due []*loopTask
	for _, t := range l.tasks {
		if now.Sub(t.last) >= t.interval {
			t.last = now
			due = append(due, t)
		}
	}
	l.mu.Unlock()

	for _, fn := range queued {
		fn()
	}
	for _, t := range due {
		t.fn()
	}
}

// Run drives frames off a ticker until ctx is canceled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.StepAt(now)
		}
	}
}
