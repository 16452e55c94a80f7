package canvas

import (
	"testing"
	"time"
)

func newTestRegistry(t *testing.T) (*Registry, *Loop, *Viewport, *Document) {
	t.Helper()
	loop := NewLoop(0)
	vp := NewViewport(800, 600)
	doc := NewDocument()
	reg := NewRegistry(loop, vp, 200*time.Millisecond)
	t.Cleanup(reg.Close)
	return reg, loop, vp, doc
}

func portElement(doc *Document, left, top, width, height float64) *Element {
	el := NewElement("port")
	el.Left = left
	el.Top = top
	el.Width = width
	el.Height = height
	doc.Root.AppendChild(el)
	return el
}

func TestRegisterMeasuresOnNextFrame(t *testing.T) {
	reg, loop, _, doc := newTestRegistry(t)

	el := portElement(doc, 100, 200, 40, 20)
	reg.Register("portA", el)

	// Measurement is deferred one frame so layout can settle.
	if _, ok := reg.Position("portA"); ok {
		t.Fatalf("expected no position before the next frame")
	}

	loop.Step()

	got, ok := reg.Position("portA")
	if !ok {
		t.Fatalf("expected position after frame")
	}
	want := Point{X: 120, Y: 210}
	if got != want {
		t.Errorf("expected center %+v, got %+v", want, got)
	}
}

func TestUnregisterClearsBothStoresImmediately(t *testing.T) {
	reg, loop, _, doc := newTestRegistry(t)

	el := portElement(doc, 10, 10, 20, 20)
	reg.Register("portA", el)
	loop.Step()
	reg.RecomputeAll() // populate the published snapshot as well

	reg.Register("portA", nil)

	if _, ok := reg.Position("portA"); ok {
		t.Fatalf("expected no position immediately after unregistration")
	}
	if _, ok := reg.RecomputeAll()["portA"]; ok {
		t.Errorf("expected no residual snapshot entry after unregistration")
	}
}

func TestRegisterSequenceSettles(t *testing.T) {
	reg, loop, _, doc := newTestRegistry(t)

	el := portElement(doc, 0, 0, 10, 10)

	// Defined iff the most recent call supplied a non-nil element.
	reg.Register("p", el)
	reg.Register("p", nil)
	reg.Register("p", el)
	loop.Step()
	if _, ok := reg.Position("p"); !ok {
		t.Errorf("expected position when last registration was non-nil")
	}

	reg.Register("p", el)
	reg.Register("p", nil)
	loop.Step()
	if _, ok := reg.Position("p"); ok {
		t.Errorf("expected no position when last registration was nil")
	}
}

func TestReRegisterReplacesBinding(t *testing.T) {
	reg, loop, _, doc := newTestRegistry(t)

	elA := portElement(doc, 0, 0, 10, 10)
	elB := portElement(doc, 100, 100, 10, 10)

	// Both measurements are queued; the stale one must not win.
	reg.Register("p", elA)
	reg.Register("p", elB)
	loop.Step()

	got, ok := reg.Position("p")
	if !ok {
		t.Fatalf("expected position")
	}
	want := Point{X: 105, Y: 105}
	if got != want {
		t.Errorf("expected replacement binding center %+v, got %+v", want, got)
	}
}

func TestRecomputeAllOrderInsensitive(t *testing.T) {
	reg, _, _, doc := newTestRegistry(t)

	for i, off := range []float64{0, 30, 60, 90, 120} {
		el := portElement(doc, off, off*2, 10, 10)
		reg.Register(PortRef("node", "out", i), el)
	}

	// Map iteration order varies between passes; the snapshots must not.
	first := reg.RecomputeAll()
	second := reg.RecomputeAll()

	if len(first) != 5 || len(second) != 5 {
		t.Fatalf("expected 5 entries, got %d and %d", len(first), len(second))
	}
	for id, p := range first {
		if q, ok := second[id]; !ok || q != p {
			t.Errorf("snapshot mismatch for %s: %+v vs %+v", id, p, q)
		}
	}
}

func TestSweepRunsOnlyWhenDirty(t *testing.T) {
	reg, loop, _, doc := newTestRegistry(t)

	el := portElement(doc, 0, 0, 10, 10)
	reg.Register("p", el)
	now := time.Now()
	loop.StepAt(now)

	// Move the element without invalidating: the sweep must skip the pass
	// and the stale value remains (bounded staleness, not a failure).
	el.SetOffset(Point{X: 50, Y: 50})
	loop.StepAt(now.Add(250 * time.Millisecond))
	if got, _ := reg.Position("p"); got != (Point{X: 5, Y: 5}) {
		t.Fatalf("expected stale position without dirty flag, got %+v", got)
	}

	reg.Invalidate()
	loop.StepAt(now.Add(300 * time.Millisecond))
	if got, _ := reg.Position("p"); got != (Point{X: 55, Y: 55}) {
		t.Errorf("expected refreshed position after invalidate, got %+v", got)
	}
}

func TestScrollRaisesDirtyAndKeepsPageCenter(t *testing.T) {
	reg, loop, vp, doc := newTestRegistry(t)

	el := portElement(doc, 100, 200, 40, 20)
	reg.Register("p", el)
	loop.Step()

	// Centers are published in page space, so a scroll must not move them.
	vp.ScrollTo(300, 150)
	loop.Step()

	got, ok := reg.Position("p")
	if !ok {
		t.Fatalf("expected position after scroll")
	}
	if got != (Point{X: 120, Y: 210}) {
		t.Errorf("expected page-space center to survive scroll, got %+v", got)
	}
}

func TestDetachedElementYieldsNoUpdate(t *testing.T) {
	reg, loop, _, doc := newTestRegistry(t)

	el := portElement(doc, 0, 0, 10, 10)
	reg.Register("p", el)
	loop.Step()

	el.Remove()
	snap := reg.RecomputeAll()

	// Failed measurement carries the previous value forward until the port
	// is unregistered.
	if got, ok := snap["p"]; !ok || got != (Point{X: 5, Y: 5}) {
		t.Errorf("expected last known value for detached element, got %+v (ok=%v)", got, ok)
	}

	reg.Register("p", nil)
	if _, ok := reg.Position("p"); ok {
		t.Errorf("expected no position after unregistration")
	}
}

func TestDetachedAtRegistrationNeverResolves(t *testing.T) {
	reg, loop, _, doc := newTestRegistry(t)

	el := portElement(doc, 0, 0, 10, 10)
	el.Remove()
	reg.Register("p", el)
	loop.Step()

	if _, ok := reg.Position("p"); ok {
		t.Errorf("expected no position for an element detached before measurement")
	}
}

func TestCloseDetachesTriggers(t *testing.T) {
	loop := NewLoop(0)
	vp := NewViewport(800, 600)
	doc := NewDocument()
	reg := NewRegistry(loop, vp, 200*time.Millisecond)

	el := portElement(doc, 0, 0, 10, 10)
	reg.Register("p", el)
	loop.Step()

	reg.Close()

	// After teardown neither the sweep nor viewport changes may recompute.
	el.SetOffset(Point{X: 40, Y: 40})
	vp.ScrollTo(10, 10)
	loop.StepAt(time.Now().Add(time.Second))

	if got, _ := reg.Position("p"); got != (Point{X: 5, Y: 5}) {
		t.Errorf("expected no recompute after Close, got %+v", got)
	}
}

func TestInvalidateCoalescesOntoOneFrame(t *testing.T) {
	reg, loop, _, doc := newTestRegistry(t)

	el := portElement(doc, 0, 0, 10, 10)
	reg.Register("p", el)
	loop.Step()

	el.SetOffset(Point{X: 20, Y: 20})
	reg.Invalidate()
	reg.Invalidate()
	reg.Invalidate()
	loop.Step()

	if got, _ := reg.Position("p"); got != (Point{X: 25, Y: 25}) {
		t.Errorf("expected coalesced recompute to land, got %+v", got)
	}
}
