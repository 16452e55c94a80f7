package render

import (
	"testing"
	"time"

	"github.com/flowboard-io/flowboard/pkg/canvas"
	"github.com/flowboard-io/flowboard/pkg/graph"
)

func TestFrameDrawsOnlyFullyResolvedConnections(t *testing.T) {
	loop := canvas.NewLoop(0)
	doc := canvas.NewDocument()
	reg := canvas.NewRegistry(loop, nil, time.Second)
	defer reg.Close()

	out := canvas.NewElement("port")
	out.Left = 100
	out.Top = 100
	out.Width = 10
	out.Height = 10
	doc.Root.AppendChild(out)

	in := canvas.NewElement("port")
	in.Left = 300
	in.Top = 200
	in.Width = 10
	in.Height = 10
	doc.Root.AppendChild(in)

	conn := graph.Connection{ID: "c1", Source: "n1", Target: "n2"}
	reg.Register(conn.SourceRef(), out)
	reg.Register(conn.TargetRef(), in)
	loop.Step()

	r := NewRenderer(reg)
	r.SetConnections([]graph.Connection{conn})

	segments := r.Frame()
	if len(segments) != 1 {
		t.Fatalf("expected exactly one segment, got %d", len(segments))
	}
	if segments[0].From != (canvas.Point{X: 105, Y: 105}) {
		t.Errorf("unexpected segment start %+v", segments[0].From)
	}
	if segments[0].To != (canvas.Point{X: 305, Y: 205}) {
		t.Errorf("unexpected segment end %+v", segments[0].To)
	}

	// Unregistering one endpoint omits the connection from the next paint;
	// no fallback point is drawn.
	reg.Register(conn.SourceRef(), nil)
	if segments := r.Frame(); len(segments) != 0 {
		t.Errorf("expected connection omitted after endpoint unregistration, got %d segments", len(segments))
	}
}

func TestFrameWithNoConnections(t *testing.T) {
	loop := canvas.NewLoop(0)
	reg := canvas.NewRegistry(loop, nil, time.Second)
	defer reg.Close()

	r := NewRenderer(reg)
	if segments := r.Frame(); len(segments) != 0 {
		t.Errorf("expected no segments, got %d", len(segments))
	}
}
