package canvas

import "testing"

func newTestNode(doc *Document, left, top, width, height float64) *Element {
	node := NewElement("node")
	node.Left = left
	node.Top = top
	node.Width = width
	node.Height = height
	doc.Root.AppendChild(node)
	return node
}

func press(doc *Document, x, y float64) {
	doc.Dispatch(PointerEvent{Kind: PointerDown, Pos: Point{X: x, Y: y}})
}

func move(doc *Document, x, y float64) {
	doc.Dispatch(PointerEvent{Kind: PointerMove, Pos: Point{X: x, Y: y}})
}

func release(doc *Document, x, y float64) {
	doc.Dispatch(PointerEvent{Kind: PointerUp, Pos: Point{X: x, Y: y}})
}

func TestDragLaw(t *testing.T) {
	doc := NewDocument()
	node := newTestNode(doc, 40, 60, 100, 50)
	Attach(doc, node, DragOptions{})

	// Pointer-down inside the node, move by (25, -10).
	press(doc, 50, 70)
	move(doc, 75, 60)

	if got := node.Offset(); got != (Point{X: 65, Y: 50}) {
		t.Fatalf("expected node at (65, 50), got %+v", got)
	}

	// Release freezes the position; synthetic moves afterwards are ignored.
	release(doc, 75, 60)
	move(doc, 500, 500)

	if got := node.Offset(); got != (Point{X: 65, Y: 50}) {
		t.Errorf("expected frozen position after release, got %+v", got)
	}
	if node.Dragging {
		t.Errorf("expected dragging flag cleared after release")
	}
}

func TestDragDoesNotJumpOnStart(t *testing.T) {
	doc := NewDocument()
	node := newTestNode(doc, 40, 60, 100, 50)
	Attach(doc, node, DragOptions{})

	// The session math is relative to the node's own offset at gesture
	// start, so a zero-delta move must not shift the node to the pointer.
	press(doc, 120, 100)
	move(doc, 120, 100)

	if got := node.Offset(); got != (Point{X: 40, Y: 60}) {
		t.Errorf("expected no jump at gesture start, got %+v", got)
	}
}

func TestDisabledDragIsNoop(t *testing.T) {
	doc := NewDocument()
	node := newTestNode(doc, 0, 0, 100, 50)
	Attach(doc, node, DragOptions{Disabled: true})

	press(doc, 10, 10)
	move(doc, 200, 200)
	release(doc, 200, 200)

	if got := node.Offset(); got != (Point{}) {
		t.Errorf("expected no movement when disabled, got %+v", got)
	}
}

func TestDisableMidGestureDoesNotAbort(t *testing.T) {
	doc := NewDocument()
	node := newTestNode(doc, 0, 0, 100, 50)
	d := Attach(doc, node, DragOptions{})

	press(doc, 10, 10)
	d.SetDisabled(true)
	move(doc, 30, 10)

	// Disabled is sampled only at pointer-down.
	if got := node.Offset(); got != (Point{X: 20, Y: 0}) {
		t.Errorf("expected in-flight drag to continue, got %+v", got)
	}
	release(doc, 30, 10)

	// But the next gesture must not start.
	press(doc, 30, 10)
	if d.Dragging() {
		t.Errorf("expected no new session while disabled")
	}
}

func TestInteractiveTargetNeverStartsDrag(t *testing.T) {
	doc := NewDocument()
	node := newTestNode(doc, 0, 0, 100, 50)

	button := NewElement("button")
	button.Left = 10
	button.Top = 10
	button.Width = 30
	button.Height = 10
	node.AppendChild(button)

	icon := NewElement("span")
	icon.Left = 20
	icon.Width = 8
	icon.Height = 8
	button.AppendChild(icon)

	d := Attach(doc, node, DragOptions{})

	// Directly on the button.
	press(doc, 15, 15)
	if d.Dragging() {
		t.Fatalf("expected no drag session for button target")
	}

	// Nested inside the button.
	press(doc, 32, 12)
	if d.Dragging() {
		t.Fatalf("expected no drag session for target nested in button")
	}

	// Elsewhere on the node still drags.
	press(doc, 80, 40)
	if !d.Dragging() {
		t.Errorf("expected drag session for plain node target")
	}
	release(doc, 80, 40)
}

func TestGestureContinuesOutsideElementBounds(t *testing.T) {
	doc := NewDocument()
	node := newTestNode(doc, 0, 0, 50, 50)
	Attach(doc, node, DragOptions{})

	press(doc, 10, 10)
	// Move/up are bound at the document level, so leaving the node's bounds
	// does not end the gesture.
	move(doc, 400, 300)

	if got := node.Offset(); got != (Point{X: 390, Y: 290}) {
		t.Errorf("expected drag to continue outside bounds, got %+v", got)
	}
	release(doc, 400, 300)
}

func TestNilElementIsInert(t *testing.T) {
	doc := NewDocument()
	d := Attach(doc, nil, DragOptions{})

	if len(doc.listeners) != 0 {
		t.Fatalf("expected no listeners for nil element, got %d", len(doc.listeners))
	}

	press(doc, 10, 10)
	if d.Dragging() {
		t.Errorf("expected inert controller")
	}
}

func TestGestureDetachesExactlyItsListeners(t *testing.T) {
	doc := NewDocument()
	node := newTestNode(doc, 0, 0, 50, 50)
	Attach(doc, node, DragOptions{})

	base := len(doc.listeners) // the pointer-down binding

	press(doc, 10, 10)
	if got := len(doc.listeners); got != base+2 {
		t.Fatalf("expected move/up bound during session, got %d listeners", got)
	}

	release(doc, 10, 10)
	if got := len(doc.listeners); got != base {
		t.Errorf("expected session listeners removed after release, got %d", got)
	}
}

func TestDetachEndsSessionWithoutCallbacks(t *testing.T) {
	doc := NewDocument()
	node := newTestNode(doc, 0, 0, 50, 50)

	var ended bool
	d := Attach(doc, node, DragOptions{
		OnEnd: func(PointerEvent, Point) { ended = true },
	})

	press(doc, 10, 10)
	d.Detach()

	if len(doc.listeners) != 0 {
		t.Errorf("expected all listeners removed on detach, got %d", len(doc.listeners))
	}
	if ended {
		t.Errorf("expected no OnEnd callback on detach")
	}
	if node.Dragging {
		t.Errorf("expected dragging flag cleared on detach")
	}

	move(doc, 100, 100)
	if got := node.Offset(); got != (Point{}) {
		t.Errorf("expected no movement after detach, got %+v", got)
	}
}

func TestDragCallbacksReceiveRawCoordinates(t *testing.T) {
	doc := NewDocument()
	node := newTestNode(doc, 5, 5, 50, 50)

	var dragPts, endPts []Point
	Attach(doc, node, DragOptions{
		OnDrag: func(_ PointerEvent, p Point) { dragPts = append(dragPts, p) },
		OnEnd:  func(_ PointerEvent, p Point) { endPts = append(endPts, p) },
	})

	press(doc, 10, 10)
	move(doc, 22, 31)
	release(doc, 22, 31)

	if len(dragPts) != 1 || dragPts[0] != (Point{X: 22, Y: 31}) {
		t.Errorf("expected raw pointer coordinates in OnDrag, got %+v", dragPts)
	}
	if len(endPts) != 1 || endPts[0] != (Point{X: 22, Y: 31}) {
		t.Errorf("expected raw pointer coordinates in OnEnd, got %+v", endPts)
	}
}
