// Package render draws connection lines between resolved port positions.
// It is a thin consumer of the canvas registry: each paint it re-queries the
// endpoints of every connection and emits a segment only when both resolve.
package render

import (
	"sync"

	"github.com/flowboard-io/flowboard/pkg/canvas"
	"github.com/flowboard-io/flowboard/pkg/graph"
)

// Segment is one drawable connection line in page coordinates.
type Segment struct {
	ID   string
	From canvas.Point
	To   canvas.Point
}

// PositionSource resolves a port id to its current center.
type PositionSource interface {
	Position(id canvas.PortID) (canvas.Point, bool)
}

// Renderer resolves connection endpoints against a position source each
// frame. A connection whose endpoint has no resolved position is omitted from
// that paint; it is never drawn at a default or extrapolated point.
type Renderer struct {
	mu          sync.RWMutex
	positions   PositionSource
	connections []graph.Connection
}

// NewRenderer creates a renderer over the given position source.
func NewRenderer(positions PositionSource) *Renderer {
	return &Renderer{positions: positions}
}

// SetConnections replaces the connection list drawn on subsequent frames.
func (r *Renderer) SetConnections(conns []graph.Connection) {
	copied := make([]graph.Connection, len(conns))
	copy(copied, conns)
	r.mu.Lock()
	r.connections = copied
	r.mu.Unlock()
}

// Frame resolves every connection once and returns the drawable segments.
func (r *Renderer) Frame() []Segment {
	r.mu.RLock()
	conns := r.connections
	r.mu.RUnlock()

	segments := make([]Segment, 0, len(conns))
	for _, c := range conns {
		from, ok := r.positions.Position(c.SourceRef())
		if !ok {
			continue
		}
		to, ok := r.positions.Position(c.TargetRef())
		if !ok {
			continue
		}
		segments = append(segments, Segment{ID: c.ID, From: from, To: to})
	}
	return segments
}
