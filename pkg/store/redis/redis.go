// Package redis provides a Redis-backed workflow store for deployments that
// share one canvas backend between daemons. Documents are stored as JSON
// values with a set index over the known ids, mirroring the SQLite backend's
// behavior behind the same interface.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/flowboard-io/flowboard/pkg/graph"
	"github.com/flowboard-io/flowboard/pkg/store"
)

const workflowsSet = "flowboard:workflows"

// WorkflowStore implements store.WorkflowStore on Redis.
type WorkflowStore struct {
	client *redis.Client
}

// NewWorkflowStore wraps an existing Redis client.
func NewWorkflowStore(client *redis.Client) *WorkflowStore {
	return &WorkflowStore{client: client}
}

func workflowKey(id string) string {
	return fmt.Sprintf("flowboard:workflow:%s", id)
}

// Close releases the underlying client.
func (s *WorkflowStore) Close() error {
	return s.client.Close()
}

// CreateWorkflow stores a new workflow document.
func (s *WorkflowStore) CreateWorkflow(ctx context.Context, w *graph.Workflow) error {
	store.FillDefaults(w)
	return s.save(ctx, w)
}

func (s *WorkflowStore) save(ctx context.Context, w *graph.Workflow) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", w.ID, err)
	}
	key := workflowKey(w.ID)
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to SET %s: %w", key, err)
	}
	if err := s.client.SAdd(ctx, workflowsSet, w.ID).Err(); err != nil {
		return fmt.Errorf("failed to SADD %s: %w", w.ID, err)
	}
	return nil
}

// GetWorkflow fetches one workflow, returning (nil, nil) when missing.
func (s *WorkflowStore) GetWorkflow(ctx context.Context, id string) (*graph.Workflow, error) {
	data, err := s.client.Get(ctx, workflowKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to GET workflow %s: %w", id, err)
	}
	var w graph.Workflow
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}
	return &w, nil
}

// ListWorkflows returns all stored workflows matching the filter.
func (s *WorkflowStore) ListWorkflows(ctx context.Context, filter store.SearchFilter) ([]*graph.Workflow, error) {
	ids, err := s.client.SMembers(ctx, workflowsSet).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to SMEMBERS %s: %w", workflowsSet, err)
	}
	workflows := make([]*graph.Workflow, 0, len(ids))
	for _, id := range ids {
		w, err := s.GetWorkflow(ctx, id)
		if err != nil {
			return nil, err
		}
		if w == nil {
			// Index drift: id in the set without a value. Skip it.
			continue
		}
		if store.MatchesFilter(w, filter) {
			workflows = append(workflows, w)
		}
	}
	return workflows, nil
}

// UpdateWorkflow replaces the stored document, bumping updated_at.
func (s *WorkflowStore) UpdateWorkflow(ctx context.Context, w *graph.Workflow) error {
	existing, err := s.GetWorkflow(ctx, w.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return store.ErrNotFound
	}
	store.TouchUpdated(w)
	return s.save(ctx, w)
}

// DeleteWorkflow removes a workflow, reporting whether it existed.
func (s *WorkflowStore) DeleteWorkflow(ctx context.Context, id string) (bool, error) {
	removed, err := s.client.Del(ctx, workflowKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to DEL workflow %s: %w", id, err)
	}
	if err := s.client.SRem(ctx, workflowsSet, id).Err(); err != nil {
		return false, fmt.Errorf("failed to SREM %s: %w", id, err)
	}
	return removed > 0, nil
}

// CloneWorkflow copies a workflow under a fresh id as a new draft.
func (s *WorkflowStore) CloneWorkflow(ctx context.Context, id string) (*graph.Workflow, error) {
	original, err := s.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, nil
	}
	clone := store.CloneOf(original)
	if err := s.save(ctx, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// AddConnection appends a connection to a workflow's connection list.
func (s *WorkflowStore) AddConnection(ctx context.Context, workflowID string, conn graph.Connection) (*graph.Connection, error) {
	w, err := s.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, store.ErrNotFound
	}
	store.NormalizeConnection(&conn, workflowID)
	w.Connections = append(w.Connections, conn)
	store.TouchUpdated(w)
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return &conn, nil
}

// DeleteConnection removes a connection from a workflow.
func (s *WorkflowStore) DeleteConnection(ctx context.Context, workflowID, connID string) (bool, error) {
	w, err := s.GetWorkflow(ctx, workflowID)
	if err != nil {
		return false, err
	}
	if w == nil {
		return false, store.ErrNotFound
	}
	if !w.RemoveConnection(connID) {
		return false, nil
	}
	store.TouchUpdated(w)
	if err := s.save(ctx, w); err != nil {
		return false, err
	}
	return true, nil
}
