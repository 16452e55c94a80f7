package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flowboard-io/flowboard/pkg/graph"
)

// FillDefaults assigns an id, lifecycle defaults and timestamps to a new
// workflow document before its first save.
func FillDefaults(w *graph.Workflow) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = w.CreatedAt
	}
	if w.Status == "" {
		w.Status = graph.StatusDraft
	}
	if w.Version == "" {
		w.Version = "1.0"
	}
}

// TouchUpdated bumps the update timestamp.
func TouchUpdated(w *graph.Workflow) {
	w.UpdatedAt = time.Now().UTC()
}

// CloneOf builds an unsaved copy of a workflow: fresh id, "Copy of" name,
// draft status, reset timestamps. Nodes and connections are deep-copied.
func CloneOf(original *graph.Workflow) *graph.Workflow {
	now := time.Now().UTC()

	clone := &graph.Workflow{
		ID:          uuid.NewString(),
		Name:        fmt.Sprintf("Copy of %s", original.Name),
		Description: original.Description,
		Nodes:       append([]graph.Node(nil), original.Nodes...),
		Connections: append([]graph.Connection(nil), original.Connections...),
		Status:      graph.StatusDraft,
		Version:     original.Version,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if original.Metadata != nil {
		clone.Metadata = make(map[string]interface{}, len(original.Metadata))
		for k, v := range original.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}

// NormalizeConnection fills in a generated id and the default port roles.
func NormalizeConnection(conn *graph.Connection, workflowID string) {
	if conn.ID == "" {
		conn.ID = fmt.Sprintf("conn_%s_%s", workflowID, uuid.NewString()[:8])
	}
	if conn.SourcePort == "" {
		conn.SourcePort = "output"
	}
	if conn.TargetPort == "" {
		conn.TargetPort = "input"
	}
}

func matchesQuery(w *graph.Workflow, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(w.Name), q) ||
		strings.Contains(strings.ToLower(w.Description), q)
}

func matchesTags(w *graph.Workflow, tags []string) bool {
	have := w.Tags()
	for _, want := range tags {
		for _, t := range have {
			if t == want {
				return true
			}
		}
	}
	return false
}
