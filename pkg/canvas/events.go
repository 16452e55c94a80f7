package canvas

// EventKind classifies a pointer event.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
)

// PointerEvent carries raw pointer coordinates in page space plus the deepest
// element under the pointer (resolved by hit testing before dispatch).
type PointerEvent struct {
	Kind   EventKind
	Pos    Point
	Target *Element
}

// Handler consumes a pointer event.
type Handler func(PointerEvent)

// Listener is a handle for a registered handler. The zero value is inert and
// safe to remove.
type Listener struct {
	id int
}

type listenerEntry struct {
	id   int
	kind EventKind
	fn   Handler
}

// Document is the event bus for one canvas. Handlers are bound either for the
// life of a component (pointer-down) or for the duration of one drag session
// (move/up); every AddListener has exactly one matching RemoveListener.
type Document struct {
	Root *Element

	seq       int
	listeners []listenerEntry
}

// NewDocument creates a document with an empty root canvas element.
func NewDocument() *Document {
	return &Document{Root: NewElement("canvas")}
}

// AddListener registers fn for events of the given kind and returns a handle
// used to remove it.
func (d *Document) AddListener(kind EventKind, fn Handler) Listener {
	d.seq++
	d.listeners = append(d.listeners, listenerEntry{id: d.seq, kind: kind, fn: fn})
	return Listener{id: d.seq}
}

// RemoveListener unbinds the handler for l. Removing an unknown or zero
// handle is a no-op.
func (d *Document) RemoveListener(l Listener) {
	for i, e := range d.listeners {
		if e.id == l.id {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

// Dispatch delivers ev to every handler bound for its kind. Handlers may add
// or remove listeners while dispatching; the changes take effect for the next
// event.
func (d *Document) Dispatch(ev PointerEvent) {
	if ev.Target == nil {
		ev.Target = d.ElementAt(ev.Pos)
	}
	snapshot := make([]listenerEntry, len(d.listeners))
	copy(snapshot, d.listeners)
	for _, e := range snapshot {
		if e.kind == ev.Kind {
			e.fn(ev)
		}
	}
}

// ElementAt returns the deepest element whose page rect contains p. The root
// matches every point so dispatch always has a target.
func (d *Document) ElementAt(p Point) *Element {
	if hit := deepestAt(d.Root, p); hit != nil {
		return hit
	}
	return d.Root
}

func deepestAt(e *Element, p Point) *Element {
	if e == nil || e.detached {
		return nil
	}
	// Later children paint on top, so scan them in reverse.
	for i := len(e.children) - 1; i >= 0; i-- {
		if hit := deepestAt(e.children[i], p); hit != nil {
			return hit
		}
	}
	if rect, ok := e.PageRect(); ok && rect.Contains(p) {
		return e
	}
	return nil
}
