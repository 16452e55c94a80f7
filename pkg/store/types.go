package store

import (
	"context"
	"errors"

	"github.com/flowboard-io/flowboard/pkg/graph"
)

// ErrNotFound is returned when an update targets a workflow that does not
// exist. Reads report missing documents as (nil, nil).
var ErrNotFound = errors.New("workflow not found")

// SearchFilter narrows a workflow listing. Zero values match everything.
type SearchFilter struct {
	// Query matches case-insensitively against name and description.
	Query string
	// Status filters by lifecycle state.
	Status graph.WorkflowStatus
	// Tags keeps workflows carrying at least one of the given tags.
	Tags []string
}

// WorkflowStore is the persistence contract shared by the SQLite and Redis
// backends. The canvas core never touches it; only the API layer does.
type WorkflowStore interface {
	CreateWorkflow(ctx context.Context, w *graph.Workflow) error
	GetWorkflow(ctx context.Context, id string) (*graph.Workflow, error)
	ListWorkflows(ctx context.Context, filter SearchFilter) ([]*graph.Workflow, error)
	UpdateWorkflow(ctx context.Context, w *graph.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) (bool, error)
	CloneWorkflow(ctx context.Context, id string) (*graph.Workflow, error)

	AddConnection(ctx context.Context, workflowID string, conn graph.Connection) (*graph.Connection, error)
	DeleteConnection(ctx context.Context, workflowID, connID string) (bool, error)

	Close() error
}

// MatchesFilter applies a SearchFilter to one workflow. Shared by backends
// that cannot push the predicate into their query language.
func MatchesFilter(w *graph.Workflow, filter SearchFilter) bool {
	if filter.Status != "" && w.Status != filter.Status {
		return false
	}
	if filter.Query != "" && !matchesQuery(w, filter.Query) {
		return false
	}
	if len(filter.Tags) > 0 && !matchesTags(w, filter.Tags) {
		return false
	}
	return true
}
