package canvas

// Interactive control tags. A pointer-down on (or nested inside) one of these
// never starts a drag, so buttons and inputs embedded in a node keep working.
var interactiveTags = map[string]bool{
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
}

// Element is a mutable scene-graph box. Its offset is relative to its parent,
// so children (ports, labels, controls) move with the node that owns them.
// The drag controller is the single writer of Left/Top during a gesture; the
// render pass reads them on the next frame.
type Element struct {
	Tag string

	// Left/Top are the offset relative to the parent element, in pixels.
	Left, Top     float64
	Width, Height float64

	// Positioned marks the element as absolutely positioned. The drag
	// controller forces it on at gesture start.
	Positioned bool

	// Dragging is set while a drag session is active on this element.
	Dragging bool

	parent   *Element
	children []*Element
	detached bool
}

// NewElement creates a detached-from-nothing root-less element.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// AppendChild links c under e. A child already parented elsewhere is moved.
func (e *Element) AppendChild(c *Element) {
	if c == nil || c == e {
		return
	}
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = e
	c.detached = false
	e.children = append(e.children, c)
}

func (e *Element) removeChild(c *Element) {
	for i, ch := range e.children {
		if ch == c {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

// Remove unlinks e from its parent and marks it detached. Descendants become
// unmeasurable with it.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.removeChild(e)
		e.parent = nil
	}
	e.detached = true
}

// Parent returns the owning element, or nil for a root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Detached reports whether e or any ancestor has been removed from the tree.
func (e *Element) Detached() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.detached {
			return true
		}
	}
	return false
}

// Offset returns the element's position relative to its parent.
func (e *Element) Offset() Point {
	return Point{X: e.Left, Y: e.Top}
}

// SetOffset writes the element's position relative to its parent.
func (e *Element) SetOffset(p Point) {
	e.Left = p.X
	e.Top = p.Y
}

// PageRect returns the element's bounding box in page coordinates by summing
// ancestor offsets. ok is false when the element (or an ancestor) is detached;
// a failed measurement carries no information, it is not an error.
func (e *Element) PageRect() (Rect, bool) {
	if e.Detached() {
		return Rect{}, false
	}
	var x, y float64
	for cur := e; cur != nil; cur = cur.parent {
		x += cur.Left
		y += cur.Top
	}
	return Rect{Left: x, Top: y, Width: e.Width, Height: e.Height}, true
}

// ContainsElement reports whether target is e or a descendant of e.
func (e *Element) ContainsElement(target *Element) bool {
	for cur := target; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

// interactiveWithin reports whether any element on the chain from target up
// to root (inclusive) is an interactive control.
func interactiveWithin(target, root *Element) bool {
	for cur := target; cur != nil; cur = cur.parent {
		if interactiveTags[cur.Tag] {
			return true
		}
		if cur == root {
			break
		}
	}
	return false
}
