package canvas

import (
	"sync"
	"time"
)

const defaultSweepInterval = 200 * time.Millisecond

// Registry maintains the live geometric center of every registered port so
// connection overlays can query an anchor point without measuring on every
// read. It keeps a fast-access cache for immediate reads plus a published
// snapshot rebuilt atomically by each full recomputation pass.
//
// Unregistration clears both stores before returning, so a read can never
// observe a position for an id that is no longer registered.
type Registry struct {
	mu       sync.RWMutex
	elements map[PortID]*Element
	cache    map[PortID]Point
	snapshot Snapshot

	dirty           bool
	recomputeQueued bool

	loop     *Loop
	viewport *Viewport

	cancelSweep    func()
	cancelViewport func()
}

// NewRegistry creates a port registry driven by the given frame loop and
// viewport. A zero sweepInterval falls back to 200ms; any reasonably small
// bounded interval is an acceptable staleness tolerance.
func NewRegistry(loop *Loop, viewport *Viewport, sweepInterval time.Duration) *Registry {
	if sweepInterval == 0 {
		sweepInterval = defaultSweepInterval
	}
	r := &Registry{
		elements: make(map[PortID]*Element),
		cache:    make(map[PortID]Point),
		snapshot: make(Snapshot),
		loop:     loop,
		viewport: viewport,
	}
	if loop != nil {
		r.cancelSweep = loop.Every(sweepInterval, r.sweep)
	}
	if viewport != nil {
		r.cancelViewport = viewport.Subscribe(r.Invalidate)
	}
	return r
}

// Register binds id to el and schedules a one-shot measurement on the next
// frame (layout may not have settled within the tick that registered it).
// A nil el unregisters id immediately: both stores drop the entry before the
// call returns. Re-registering an id replaces the prior binding.
func (r *Registry) Register(id PortID, el *Element) {
	if el == nil {
		r.mu.Lock()
		delete(r.elements, id)
		delete(r.cache, id)
		if _, ok := r.snapshot[id]; ok {
			next := make(Snapshot, len(r.snapshot))
			for k, v := range r.snapshot {
				if k != id {
					next[k] = v
				}
			}
			r.snapshot = next
		}
		portsRegistered.Set(float64(len(r.elements)))
		r.mu.Unlock()
		return
	}

	r.mu.Lock()
	r.elements[id] = el
	portsRegistered.Set(float64(len(r.elements)))
	r.mu.Unlock()

	if r.loop != nil {
		r.loop.OnNextFrame(func() { r.measureOne(id, el) })
	} else {
		r.measureOne(id, el)
	}
}

// measureOne refreshes a single port, skipping stale callbacks whose binding
// was replaced or removed before the frame ran.
func (r *Registry) measureOne(id PortID, el *Element) {
	r.mu.RLock()
	current := r.elements[id]
	r.mu.RUnlock()
	if current != el {
		return
	}

	center, ok := r.measure(el)
	if !ok {
		return
	}

	r.mu.Lock()
	if r.elements[id] == el {
		r.cache[id] = center
		r.snapshot[id] = center
	}
	r.mu.Unlock()
}

// Position returns the most recently computed center for id. The fast cache
// is consulted first, the published snapshot only as a fallback. ok is false
// for ids that are unregistered or not yet measured.
func (r *Registry) Position(id PortID) (Point, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.cache[id]; ok {
		return p, true
	}
	if p, ok := r.snapshot[id]; ok {
		return p, true
	}
	return Point{}, false
}

// RecomputeAll measures every registered port and publishes the resulting
// snapshot atomically. Per-port measurements are mutually independent, so any
// processing order yields the same snapshot. A port whose element cannot be
// measured keeps its previous value; it gets no update, not an error.
func (r *Registry) RecomputeAll() Snapshot {
	r.mu.RLock()
	elements := make(map[PortID]*Element, len(r.elements))
	for id, el := range r.elements {
		elements[id] = el
	}
	r.mu.RUnlock()

	measured := make(map[PortID]Point, len(elements))
	for id, el := range elements {
		if center, ok := r.measure(el); ok {
			measured[id] = center
		}
	}

	r.mu.Lock()
	next := make(Snapshot, len(measured))
	cache := make(map[PortID]Point, len(measured))
	for id := range r.elements {
		if center, ok := measured[id]; ok {
			next[id] = center
			cache[id] = center
		} else if prev, ok := r.cache[id]; ok {
			next[id] = prev
			cache[id] = prev
		}
	}
	r.snapshot = next
	r.cache = cache
	r.dirty = false
	r.mu.Unlock()

	recomputePasses.Inc()
	return next
}

// Invalidate raises the dirty flag and coalesces a full recompute onto the
// next frame. Resize and scroll both funnel through here; repeated calls
// before the frame runs queue at most one recompute.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.dirty = true
	if r.recomputeQueued || r.loop == nil {
		r.mu.Unlock()
		return
	}
	r.recomputeQueued = true
	r.mu.Unlock()

	r.loop.OnNextFrame(func() {
		r.mu.Lock()
		r.recomputeQueued = false
		dirty := r.dirty
		r.mu.Unlock()
		if dirty {
			r.RecomputeAll()
		}
	})
}

// sweep is the low-priority periodic check: recompute only if something has
// been invalidated since the last pass.
func (r *Registry) sweep() {
	r.mu.RLock()
	dirty := r.dirty
	r.mu.RUnlock()
	if dirty {
		r.RecomputeAll()
	}
}

// measure computes a port center from its element's bounding box in viewport
// space plus the current scroll offset, yielding a point in page space that
// stays valid while the user scrolls.
func (r *Registry) measure(el *Element) (Point, bool) {
	pageRect, ok := el.PageRect()
	if !ok {
		return Point{}, false
	}
	var scroll Point
	if r.viewport != nil {
		scroll = r.viewport.Scroll()
	}
	viewRect := pageRect.Shift(Point{X: -scroll.X, Y: -scroll.Y})
	return Point{
		X: viewRect.Left + viewRect.Width/2 + scroll.X,
		Y: viewRect.Top + viewRect.Height/2 + scroll.Y,
	}, true
}

// Close detaches the sweep task and the viewport subscription. Pending
// one-shot measurements become no-ops through the binding check.
func (r *Registry) Close() {
	if r.cancelSweep != nil {
		r.cancelSweep()
		r.cancelSweep = nil
	}
	if r.cancelViewport != nil {
		r.cancelViewport()
		r.cancelViewport = nil
	}
}
