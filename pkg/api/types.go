package api

import (
	"time"

	"github.com/flowboard-io/flowboard/pkg/graph"
)

// CreateWorkflowRequest is the body for POST /v1/workflows.
type CreateWorkflowRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Nodes       []graph.Node           `json:"nodes,omitempty"`
	Connections []graph.Connection     `json:"connections,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateWorkflowRequest is the body for PUT /v1/workflows/{id}.
type UpdateWorkflowRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Status      graph.WorkflowStatus   `json:"status,omitempty"`
	Nodes       []graph.Node           `json:"nodes"`
	Connections []graph.Connection     `json:"connections"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// ApplyTemplateRequest is the optional body for POST /v1/templates/{id}/apply.
type ApplyTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ExecutionResponse is returned by POST /v1/workflows/{id}/execute.
type ExecutionResponse struct {
	ExecutionID string            `json:"executionId"`
	WorkflowID  string            `json:"workflowId"`
	Status      string            `json:"status"`
	StartTime   time.Time         `json:"startTime"`
	NodeStates  map[string]string `json:"nodeStates"`
}

// FileUploadResponse is returned by POST /v1/files.
type FileUploadResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	Category    string    `json:"category"`
	UploadTime  time.Time `json:"uploadTime"`
}
