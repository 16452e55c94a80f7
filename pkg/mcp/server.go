// Package mcp adapts flowboard-d to the Model Context Protocol so
// assistants can inspect and run workflows.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/flowboard-io/flowboard/pkg/client"
	"github.com/flowboard-io/flowboard/pkg/files"
)

// Server adapts flowboard-d to the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	apiClient *client.Client
}

// NewServer creates a new MCP server instance.
func NewServer(apiURL string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"flowboard",
			"1.0.0",
		),
		apiClient: client.NewClient(apiURL),
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	// flowboard://workflows
	s.mcpServer.AddResource(mcp.NewResource(
		"flowboard://workflows",
		"Workflow Listing",
		mcp.WithResourceDescription("All stored workflows with their nodes and connections"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadWorkflows)

	// flowboard://node-types
	s.mcpServer.AddResource(mcp.NewResource(
		"flowboard://node-types",
		"Node Type Palette",
		mcp.WithResourceDescription("The node types available on the canvas, with ports and colors"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadNodeTypes)
}

// --- Tools ---

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_workflows",
		mcp.WithDescription("List workflows, optionally filtered by status or a search query."),
		mcp.WithString("query", mcp.Description("Free text search over name and description")),
		mcp.WithString("status", mcp.Description("Filter by status: draft, published or archived")),
	), s.handleListWorkflows)

	s.mcpServer.AddTool(mcp.NewTool(
		"execute_workflow",
		mcp.WithDescription("Start a workflow run. Returns the execution id and per-node states."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The id of the workflow to run")),
	), s.handleExecuteWorkflow)

	s.mcpServer.AddTool(mcp.NewTool(
		"classify_file",
		mcp.WithDescription("Classify a file into a category (image, document, spreadsheet, ...) from its name and MIME type."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("The file name, used for extension fallback")),
		mcp.WithString("mime_type", mcp.Description("The MIME type if known")),
	), s.handleClassifyFile)
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"flowboard-aware",
		mcp.WithPromptDescription("Provides context about flowboard concepts (Workflows, Nodes, Connections)"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func (s *Server) handleReadWorkflows(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workflows, err := s.apiClient.ListWorkflows(ctx, client.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflows: %w", err)
	}

	data, err := json.MarshalIndent(workflows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workflows: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleReadNodeTypes(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	types, err := s.apiClient.NodeTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch node types: %w", err)
	}

	data, err := json.MarshalIndent(types, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal node types: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleListWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := client.ListOptions{
		Query:  mcp.ParseString(request, "query", ""),
		Status: mcp.ParseString(request, "status", ""),
	}

	workflows, err := s.apiClient.ListWorkflows(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}

	if len(workflows) == 0 {
		return mcp.NewToolResultText("No workflows found."), nil
	}

	var b strings.Builder
	for _, w := range workflows {
		fmt.Fprintf(&b, "%s  %s (%s, %d nodes, %d connections)\n",
			w.ID, w.Name, w.Status, len(w.Nodes), len(w.Connections))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleExecuteWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := mcp.ParseString(request, "workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}

	exec, err := s.apiClient.ExecuteWorkflow(ctx, workflowID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}

	resultMsg := fmt.Sprintf("Execution: %s\nStatus: %s\nNodes: %d pending",
		exec.ExecutionID, exec.Status, len(exec.NodeStates))
	return mcp.NewToolResultText(resultMsg), nil
}

func (s *Server) handleClassifyFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename := mcp.ParseString(request, "filename", "")
	if filename == "" {
		return mcp.NewToolResultError("filename is required"), nil
	}
	mimeType := mcp.ParseString(request, "mime_type", "")

	category := files.Classify(filename, mimeType)
	return mcp.NewToolResultText(fmt.Sprintf("Category: %s", category)), nil
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != "flowboard-aware" {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	promptText := `You are interacting with flowboard, a workflow canvas service.

Concepts:
- Workflow: A named graph of nodes and connections with a status (draft, published, archived).
- Node: One step on the canvas. Types: agent, llm, dataSource, transform, manualStep, fileUpload.
- Connection: A directed edge between two node ports (default ports are 'output' and 'input').
- Execution: A run of a workflow. Starting one returns an execution id and per-node states.

Use 'list_workflows' to discover workflows and 'execute_workflow' to run one.
Use 'classify_file' before attaching uploads to fileUpload nodes.
`

	return mcp.NewGetPromptResult(
		"flowboard-aware",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}
