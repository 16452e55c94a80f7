// Package canvas implements the position-tracking and drag subsystem for the
// flowboard node canvas: a scene graph of measurable elements, a port position
// registry that keeps connection anchors fresh, and a drag controller that
// turns pointer gestures into element position writes.
//
// All canvas state is driven from a single goroutine (the frame loop); the
// registry additionally guards its maps so overlay code on other goroutines
// can read positions safely.
package canvas

import "fmt"

// Point is a 2D coordinate in page space (pixels from the document origin,
// invariant under scrolling).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned box.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the geometric center of the rect.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Shift returns the rect translated by d.
func (r Rect) Shift(d Point) Rect {
	return Rect{Left: r.Left + d.X, Top: r.Top + d.Y, Width: r.Width, Height: r.Height}
}

// Contains reports whether p falls inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width &&
		p.Y >= r.Top && p.Y < r.Top+r.Height
}

// PortID identifies a named attachment point on a node.
type PortID string

// PortRef builds the canonical port id for a node's port: "nodeID:role:index".
func PortRef(nodeID, role string, index int) PortID {
	return PortID(fmt.Sprintf("%s:%s:%d", nodeID, role, index))
}

// Snapshot is a full mapping from port id to center point, produced atomically
// by one recomputation pass. Insertion order is irrelevant.
type Snapshot map[PortID]Point
