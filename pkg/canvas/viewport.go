package canvas

// Viewport tracks the visible window over the canvas: its size and the
// current scroll offset. Scrolls and resizes notify subscribers so dependent
// state (the port registry) can mark itself stale.
type Viewport struct {
	scroll        Point
	width, height float64

	seq         int
	subscribers map[int]func()
}

// NewViewport creates a viewport of the given size at scroll origin.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		width:       width,
		height:      height,
		subscribers: make(map[int]func()),
	}
}

// Scroll returns the current scroll offset.
func (v *Viewport) Scroll() Point {
	return v.scroll
}

// Size returns the viewport dimensions.
func (v *Viewport) Size() (width, height float64) {
	return v.width, v.height
}

// ScrollTo moves the scroll offset and notifies subscribers.
func (v *Viewport) ScrollTo(x, y float64) {
	v.scroll = Point{X: x, Y: y}
	v.notify()
}

// Resize changes the viewport dimensions and notifies subscribers.
func (v *Viewport) Resize(width, height float64) {
	v.width = width
	v.height = height
	v.notify()
}

// Subscribe registers fn to run on every scroll or resize. The returned
// cancel func deterministically detaches it.
func (v *Viewport) Subscribe(fn func()) (cancel func()) {
	v.seq++
	id := v.seq
	v.subscribers[id] = fn
	return func() { delete(v.subscribers, id) }
}

func (v *Viewport) notify() {
	for _, fn := range v.subscribers {
		fn()
	}
}
