// Package graph defines the workflow document model: nodes placed on the
// canvas, the directed connections between their ports, and the node-type
// catalog used to populate the palette.
package graph

import (
	"time"

	"github.com/google/uuid"

	"github.com/flowboard-io/flowboard/pkg/canvas"
)

// NodeType represents the semantic type of a node on the canvas.
type NodeType string

const (
	NodeAgent      NodeType = "agent"
	NodeLLM        NodeType = "llm"
	NodeDataSource NodeType = "dataSource"
	NodeTransform  NodeType = "transform"
	NodeManualStep NodeType = "manualStep"
	NodeFileUpload NodeType = "fileUpload"
)

// WorkflowStatus is the lifecycle state of a workflow document.
type WorkflowStatus string

const (
	StatusDraft     WorkflowStatus = "draft"
	StatusPublished WorkflowStatus = "published"
	StatusArchived  WorkflowStatus = "archived"
)

// Node represents a vertex of the workflow graph. X/Y are the node's canvas
// position in pixels; the drag subsystem is their single writer.
type Node struct {
	ID     string                 `json:"id"`
	Type   NodeType               `json:"type"`
	Label  string                 `json:"label"`
	X      float64                `json:"x"`
	Y      float64                `json:"y"`
	Config map[string]interface{} `json:"config,omitempty"`
}

// Connection represents a directed link from an output port of one node to
// an input port of another.
type Connection struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	SourcePort string `json:"sourcePort"`
	TargetPort string `json:"targetPort"`
}

// SourceRef returns the registry id of the connection's source port.
// Port roles default to "output"/"input" as on the original canvas.
func (c Connection) SourceRef() canvas.PortID {
	return canvas.PortRef(c.Source, portOrDefault(c.SourcePort, "output"), 0)
}

// TargetRef returns the registry id of the connection's target port.
func (c Connection) TargetRef() canvas.PortID {
	return canvas.PortRef(c.Target, portOrDefault(c.TargetPort, "input"), 0)
}

func portOrDefault(port, fallback string) string {
	if port == "" {
		return fallback
	}
	return port
}

// Workflow is one stored canvas document.
type Workflow struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Nodes       []Node                 `json:"nodes"`
	Connections []Connection           `json:"connections"`
	Status      WorkflowStatus         `json:"status"`
	Version     string                 `json:"version"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// NewWorkflow creates an empty draft workflow with a fresh id.
func NewWorkflow(name, description string) *Workflow {
	now := time.Now().UTC()
	if name == "" {
		name = "Untitled Workflow"
	}
	return &Workflow{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Nodes:       []Node{},
		Connections: []Connection{},
		Status:      StatusDraft,
		Version:     "1.0",
		CreatedAt:   now,
		UpdatedAt:   now,
		Metadata:    map[string]interface{}{},
	}
}

// Node returns a pointer to the node with the given id.
func (w *Workflow) Node(id string) (*Node, bool) {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return &w.Nodes[i], true
		}
	}
	return nil, false
}

// RemoveConnection deletes the connection with the given id, reporting
// whether it existed.
func (w *Workflow) RemoveConnection(id string) bool {
	for i, c := range w.Connections {
		if c.ID == id {
			w.Connections = append(w.Connections[:i], w.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// Tags returns the workflow's metadata tags, if any.
func (w *Workflow) Tags() []string {
	raw, ok := w.Metadata["tags"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}
