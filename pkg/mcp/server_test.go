package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestMCPServer_ReadWorkflows(t *testing.T) {
	// 1. Mock API Server
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/workflows" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id": "wf-1", "name": "triage", "status": "draft", "nodes": [], "connections": []}]`))
			return
		}
		http.NotFound(w, r)
	})
	ts := httptest.NewServer(apiHandler)
	defer ts.Close()

	// 2. Create MCP Server
	s := NewServer(ts.URL)

	// 3. Test Handler directly
	req := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: "flowboard://workflows",
		},
	}

	result, err := s.handleReadWorkflows(context.Background(), req)
	if err != nil {
		t.Fatalf("handleReadWorkflows failed: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("Expected 1 resource content, got %d", len(result))
	}

	content, ok := result[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("Expected TextResourceContents")
	}

	if content.MIMEType != "application/json" {
		t.Errorf("Expected application/json, got %s", content.MIMEType)
	}

	var workflows []map[string]interface{}
	if err := json.Unmarshal([]byte(content.Text), &workflows); err != nil {
		t.Errorf("Failed to parse result JSON: %v", err)
	}
	if len(workflows) != 1 {
		t.Errorf("Expected 1 workflow")
	}
}

func TestMCPServer_ExecuteWorkflow(t *testing.T) {
	// 1. Mock API Server
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/workflows/wf-1/execute" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte(`{"executionId": "exec-1-abcd1234", "workflowId": "wf-1", "status": "started", "nodeStates": {"n1": "pending"}}`))
			return
		}
		http.NotFound(w, r)
	})
	ts := httptest.NewServer(apiHandler)
	defer ts.Close()

	// 2. Create MCP Server
	s := NewServer(ts.URL)

	// 3. Test Handler directly
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "execute_workflow",
			Arguments: map[string]interface{}{
				"workflow_id": "wf-1",
			},
		},
	}

	result, err := s.handleExecuteWorkflow(context.Background(), req)
	if err != nil {
		t.Fatalf("handleExecuteWorkflow failed: %v", err)
	}

	if result.IsError {
		t.Errorf("Expected success, got error")
	}

	if len(result.Content) == 0 {
		t.Errorf("Expected content in result")
	} else {
		text, ok := result.Content[0].(mcp.TextContent)
		if ok && !strings.Contains(text.Text, "exec-1-abcd1234") {
			t.Errorf("Expected execution id in result, got %q", text.Text)
		}
	}
}

func TestMCPServer_ClassifyFile(t *testing.T) {
	s := NewServer("http://127.0.0.1:1") // classification is local, no API calls

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "classify_file",
			Arguments: map[string]interface{}{
				"filename":  "report.pdf",
				"mime_type": "application/pdf",
			},
		},
	}

	result, err := s.handleClassifyFile(context.Background(), req)
	if err != nil {
		t.Fatalf("handleClassifyFile failed: %v", err)
	}
	if result.IsError {
		t.Errorf("Expected success, got error")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok || !strings.Contains(text.Text, "document") {
		t.Errorf("Expected document category, got %+v", result.Content)
	}

	missing, err := s.handleClassifyFile(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "classify_file", Arguments: map[string]interface{}{}},
	})
	if err != nil {
		t.Fatalf("handleClassifyFile failed: %v", err)
	}
	if !missing.IsError {
		t.Errorf("Expected error result for missing filename")
	}
}
