package client

import "time"

// Status is the daemon health response.
type Status struct {
	Status string `json:"status"`
}

// ListOptions filters a workflow listing.
type ListOptions struct {
	Query  string
	Status string
	Tags   []string
}

// Execution is the response to an execute request.
type Execution struct {
	ExecutionID string            `json:"executionId"`
	WorkflowID  string            `json:"workflowId"`
	Status      string            `json:"status"`
	StartTime   time.Time         `json:"startTime"`
	NodeStates  map[string]string `json:"nodeStates"`
}

// Upload is the response to a file upload.
type Upload struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	Category    string    `json:"category"`
	UploadTime  time.Time `json:"uploadTime"`
}
