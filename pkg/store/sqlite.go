package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/flowboard-io/flowboard/pkg/graph"
)

// Store manages the SQLite connection and schema for workflow documents.
type Store struct {
	db *sql.DB
}

// workflowPayload is the JSON blob holding the parts of a workflow that have
// no dedicated column.
type workflowPayload struct {
	Nodes       []graph.Node           `json:"nodes"`
	Connections []graph.Connection     `json:"connections"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// NewStore initializes the SQLite database connection.
// It enables WAL mode for concurrency and durability.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	// Document columns for querying, nodes/connections/metadata as a JSON blob.
	query := `
	CREATE TABLE IF NOT EXISTS workflows (
		workflow_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		version TEXT NOT NULL DEFAULT '1.0',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workflows_status ON workflows(status);
	CREATE INDEX IF NOT EXISTS idx_workflows_updated ON workflows(updated_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create workflows table: %w", err)
	}
	return nil
}

// CreateWorkflow inserts a new workflow document. Missing id, status and
// timestamps are filled with defaults.
func (s *Store) CreateWorkflow(ctx context.Context, w *graph.Workflow) error {
	FillDefaults(w)

	payload, err := marshalPayload(w)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workflows (workflow_id, name, description, status, version, created_at, updated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Description, string(w.Status), w.Version, w.CreatedAt, w.UpdatedAt, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert workflow: %w", err)
	}
	return nil
}

// GetWorkflow fetches one workflow by id, returning (nil, nil) when missing.
func (s *Store) GetWorkflow(ctx context.Context, id string) (*graph.Workflow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT workflow_id, name, description, status, version, created_at, updated_at, payload
		FROM workflows WHERE workflow_id = ?`, id)

	w, err := scanWorkflow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow %s: %w", id, err)
	}
	return w, nil
}

// ListWorkflows returns workflows matching the filter, most recently updated
// first. Name/description/status are matched in SQL; tags live in the JSON
// payload so they are filtered after scanning.
func (s *Store) ListWorkflows(ctx context.Context, filter SearchFilter) ([]*graph.Workflow, error) {
	query := `
		SELECT workflow_id, name, description, status, version, created_at, updated_at, payload
		FROM workflows`
	var conds []string
	var args []interface{}

	if filter.Query != "" {
		conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		like := "%" + strings.ToLower(filter.Query) + "%"
		args = append(args, like, like)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY updated_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []*graph.Workflow
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}
		if len(filter.Tags) > 0 && !matchesTags(w, filter.Tags) {
			continue
		}
		workflows = append(workflows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workflow row iteration failed: %w", err)
	}
	return workflows, nil
}

// UpdateWorkflow replaces the stored document, preserving id and creation
// time and bumping updated_at.
func (s *Store) UpdateWorkflow(ctx context.Context, w *graph.Workflow) error {
	w.UpdatedAt = time.Now().UTC()

	payload, err := marshalPayload(w)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE workflows
		SET name = ?, description = ?, status = ?, version = ?, updated_at = ?, payload = ?
		WHERE workflow_id = ?`,
		w.Name, w.Description, string(w.Status), w.Version, w.UpdatedAt, payload, w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update workflow %s: %w", w.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWorkflow removes a workflow, reporting whether it existed.
func (s *Store) DeleteWorkflow(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workflows WHERE workflow_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// CloneWorkflow copies a workflow under a fresh id as a new draft.
func (s *Store) CloneWorkflow(ctx context.Context, id string) (*graph.Workflow, error) {
	original, err := s.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, nil
	}

	clone := CloneOf(original)
	if err := s.CreateWorkflow(ctx, clone); err != nil {
		return nil, fmt.Errorf("failed to store clone of %s: %w", id, err)
	}
	return clone, nil
}

// AddConnection appends a connection to a workflow's connection list,
// assigning an id and default port roles when absent.
func (s *Store) AddConnection(ctx context.Context, workflowID string, conn graph.Connection) (*graph.Connection, error) {
	w, err := s.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}

	NormalizeConnection(&conn, workflowID)
	w.Connections = append(w.Connections, conn)

	if err := s.UpdateWorkflow(ctx, w); err != nil {
		return nil, err
	}
	return &conn, nil
}

// DeleteConnection removes a connection from a workflow, reporting whether
// it existed.
func (s *Store) DeleteConnection(ctx context.Context, workflowID, connID string) (bool, error) {
	w, err := s.GetWorkflow(ctx, workflowID)
	if err != nil {
		return false, err
	}
	if w == nil {
		return false, ErrNotFound
	}

	if !w.RemoveConnection(connID) {
		return false, nil
	}
	if err := s.UpdateWorkflow(ctx, w); err != nil {
		return false, err
	}
	return true, nil
}

func marshalPayload(w *graph.Workflow) (string, error) {
	payload, err := json.Marshal(workflowPayload{
		Nodes:       w.Nodes,
		Connections: w.Connections,
		Metadata:    w.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal workflow payload: %w", err)
	}
	return string(payload), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkflow(row rowScanner) (*graph.Workflow, error) {
	var w graph.Workflow
	var status, payload string
	if err := row.Scan(&w.ID, &w.Name, &w.Description, &status, &w.Version, &w.CreatedAt, &w.UpdatedAt, &payload); err != nil {
		return nil, err
	}
	w.Status = graph.WorkflowStatus(status)

	var p workflowPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow payload: %w", err)
	}
	w.Nodes = p.Nodes
	w.Connections = p.Connections
	w.Metadata = p.Metadata
	return &w, nil
}
