package canvas

// DragOptions configures a drag attachment. All callbacks are optional and
// receive raw pointer coordinates, never deltas; callers needing the node's
// updated position read it from the element after OnDrag or on OnEnd.
type DragOptions struct {
	// Disabled suppresses new drag sessions. It is sampled only at
	// pointer-down; toggling it mid-gesture does not abort an in-flight drag.
	Disabled bool

	OnStart func(PointerEvent)
	OnDrag  func(PointerEvent, Point)
	OnEnd   func(PointerEvent, Point)
}

// DragController converts pointer gestures on one element into direct
// position writes, bypassing any declarative update cycle for latency.
// Move/up handlers are bound at the document level only for the duration of
// one session, so a completed gesture detaches exactly the listeners it
// attached and overlapping sessions cannot occur.
type DragController struct {
	doc  *Document
	el   *Element
	opts DragOptions

	down Listener

	dragging      bool
	pointerOrigin Point
	originOffset  Point
	move, up      Listener
}

// Attach binds a drag controller to el. A nil element or document yields a
// permanently inert controller: no listeners, no error.
func Attach(doc *Document, el *Element, opts DragOptions) *DragController {
	d := &DragController{doc: doc, el: el, opts: opts}
	if doc == nil || el == nil {
		return d
	}
	d.down = doc.AddListener(PointerDown, d.pointerDown)
	return d
}

// Dragging reports whether a drag session is in flight.
func (d *DragController) Dragging() bool {
	return d.dragging
}

// SetDisabled flips the disabled option for future pointer-downs.
func (d *DragController) SetDisabled(disabled bool) {
	d.opts.Disabled = disabled
}

func (d *DragController) pointerDown(ev PointerEvent) {
	if d.opts.Disabled || d.dragging {
		return
	}
	if !d.el.ContainsElement(ev.Target) {
		return
	}
	// Interactive children are never captured by the parent drag.
	if interactiveWithin(ev.Target, d.el) {
		return
	}

	// Left/Top default to 0 when unset; force absolute positioning so the
	// offset writes take effect.
	if !d.el.Positioned {
		d.el.Positioned = true
	}
	d.pointerOrigin = ev.Pos
	d.originOffset = d.el.Offset()
	d.dragging = true
	d.el.Dragging = true

	if d.opts.OnStart != nil {
		d.opts.OnStart(ev)
	}

	// Listen at the document level so the gesture survives the pointer
	// leaving the element's bounds.
	d.move = d.doc.AddListener(PointerMove, d.pointerMove)
	d.up = d.doc.AddListener(PointerUp, d.pointerUp)

	dragSessions.Inc()
}

func (d *DragController) pointerMove(ev PointerEvent) {
	if !d.dragging {
		return
	}
	delta := ev.Pos.Sub(d.pointerOrigin)
	d.el.SetOffset(d.originOffset.Add(delta))
	if d.opts.OnDrag != nil {
		d.opts.OnDrag(ev, ev.Pos)
	}
}

func (d *DragController) pointerUp(ev PointerEvent) {
	if !d.dragging {
		return
	}
	d.dragging = false
	d.el.Dragging = false
	if d.opts.OnEnd != nil {
		d.opts.OnEnd(ev, ev.Pos)
	}
	d.doc.RemoveListener(d.move)
	d.doc.RemoveListener(d.up)
	d.move = Listener{}
	d.up = Listener{}
}

// Detach removes the pointer-down binding and tears down any in-flight
// session without invoking callbacks. The controller is inert afterwards.
func (d *DragController) Detach() {
	if d.doc == nil {
		return
	}
	d.doc.RemoveListener(d.down)
	d.down = Listener{}
	if d.dragging {
		d.dragging = false
		if d.el != nil {
			d.el.Dragging = false
		}
		d.doc.RemoveListener(d.move)
		d.doc.RemoveListener(d.up)
		d.move = Listener{}
		d.up = Listener{}
	}
}
