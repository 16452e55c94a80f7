// Package client is the flowboard SDK: a thin typed wrapper over the
// daemon's HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flowboard-io/flowboard/pkg/catalog"
	"github.com/flowboard-io/flowboard/pkg/graph"
)

// Client is the flowboard SDK client.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a new flowboard client.
// endpoint defaults to "http://127.0.0.1:8090" if empty.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = "http://127.0.0.1:8090"
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ping checks the health of the daemon.
func (c *Client) Ping(ctx context.Context) (Status, error) {
	var status Status
	if err := c.getJSON(ctx, "/v1/health", &status); err != nil {
		return Status{}, err
	}
	return status, nil
}

// WaitReady pings the daemon until it answers, backing off between attempts.
func (c *Client) WaitReady(ctx context.Context, attempts int, backoff BackoffStrategy) error {
	if backoff == nil {
		backoff = DefaultBackoff()
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if _, err := c.Ping(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}
		select {
		case <-time.After(backoff.Next(i)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("daemon not ready after %d attempts: %w", attempts, lastErr)
}

// ListWorkflows fetches workflows matching the options.
func (c *Client) ListWorkflows(ctx context.Context, opts ListOptions) ([]*graph.Workflow, error) {
	q := url.Values{}
	if opts.Query != "" {
		q.Set("query", opts.Query)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if len(opts.Tags) > 0 {
		q.Set("tags", strings.Join(opts.Tags, ","))
	}
	path := "/v1/workflows"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var workflows []*graph.Workflow
	if err := c.getJSON(ctx, path, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

// GetWorkflow fetches one workflow by id.
func (c *Client) GetWorkflow(ctx context.Context, id string) (*graph.Workflow, error) {
	var w graph.Workflow
	if err := c.getJSON(ctx, "/v1/workflows/"+url.PathEscape(id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWorkflow stores a new workflow and returns it with server-assigned
// fields filled in.
func (c *Client) CreateWorkflow(ctx context.Context, w *graph.Workflow) (*graph.Workflow, error) {
	var created graph.Workflow
	if err := c.doJSON(ctx, http.MethodPost, "/v1/workflows", w, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateWorkflow overwrites a workflow.
func (c *Client) UpdateWorkflow(ctx context.Context, w *graph.Workflow) (*graph.Workflow, error) {
	var updated graph.Workflow
	if err := c.doJSON(ctx, http.MethodPut, "/v1/workflows/"+url.PathEscape(w.ID), w, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteWorkflow removes a workflow.
func (c *Client) DeleteWorkflow(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/workflows/"+url.PathEscape(id), nil, nil)
}

// ExecuteWorkflow starts a run and returns the execution handle.
func (c *Client) ExecuteWorkflow(ctx context.Context, id string) (Execution, error) {
	var exec Execution
	if err := c.doJSON(ctx, http.MethodPost, "/v1/workflows/"+url.PathEscape(id)+"/execute", nil, &exec); err != nil {
		return Execution{}, err
	}
	return exec, nil
}

// CloneWorkflow duplicates a workflow under a fresh id.
func (c *Client) CloneWorkflow(ctx context.Context, id string) (*graph.Workflow, error) {
	var clone graph.Workflow
	if err := c.doJSON(ctx, http.MethodPost, "/v1/workflows/"+url.PathEscape(id)+"/clone", nil, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

// AddConnection wires two nodes in a stored workflow.
func (c *Client) AddConnection(ctx context.Context, workflowID string, conn graph.Connection) (*graph.Connection, error) {
	var created graph.Connection
	path := "/v1/workflows/" + url.PathEscape(workflowID) + "/connections"
	if err := c.doJSON(ctx, http.MethodPost, path, conn, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteConnection removes a connection from a stored workflow.
func (c *Client) DeleteConnection(ctx context.Context, workflowID, connectionID string) error {
	path := "/v1/workflows/" + url.PathEscape(workflowID) + "/connections/" + url.PathEscape(connectionID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// NodeTypes fetches the palette of node types.
func (c *Client) NodeTypes(ctx context.Context) ([]graph.NodeTypeInfo, error) {
	var types []graph.NodeTypeInfo
	if err := c.getJSON(ctx, "/v1/node-types", &types); err != nil {
		return nil, err
	}
	return types, nil
}

// Agents fetches the agent catalog.
func (c *Client) Agents(ctx context.Context) ([]catalog.Agent, error) {
	var agents []catalog.Agent
	if err := c.getJSON(ctx, "/v1/agents", &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// CreateAgent registers a new agent.
func (c *Client) CreateAgent(ctx context.Context, a catalog.Agent) (catalog.Agent, error) {
	var created catalog.Agent
	if err := c.doJSON(ctx, http.MethodPost, "/v1/agents", a, &created); err != nil {
		return catalog.Agent{}, err
	}
	return created, nil
}

// Models fetches the model catalog.
func (c *Client) Models(ctx context.Context) ([]catalog.Model, error) {
	var models []catalog.Model
	if err := c.getJSON(ctx, "/v1/models", &models); err != nil {
		return nil, err
	}
	return models, nil
}

// Connectors fetches the connector catalog.
func (c *Client) Connectors(ctx context.Context) ([]catalog.Connector, error) {
	var connectors []catalog.Connector
	if err := c.getJSON(ctx, "/v1/connectors", &connectors); err != nil {
		return nil, err
	}
	return connectors, nil
}

// Templates fetches the workflow template listing.
func (c *Client) Templates(ctx context.Context) ([]catalog.Template, error) {
	var templates []catalog.Template
	if err := c.getJSON(ctx, "/v1/templates", &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateTemplate registers a new workflow template.
func (c *Client) CreateTemplate(ctx context.Context, t catalog.Template) (catalog.Template, error) {
	var created catalog.Template
	if err := c.doJSON(ctx, http.MethodPost, "/v1/templates", t, &created); err != nil {
		return catalog.Template{}, err
	}
	return created, nil
}

// ApplyTemplate creates a new workflow from a template. name is optional;
// when empty the server derives one from the template.
func (c *Client) ApplyTemplate(ctx context.Context, templateID int, name string) (*graph.Workflow, error) {
	var wf graph.Workflow
	path := fmt.Sprintf("/v1/templates/%d/apply", templateID)
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if err := c.doJSON(ctx, http.MethodPost, path, body, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// UploadFile streams a file to the daemon and returns its classification.
func (c *Client) UploadFile(ctx context.Context, filename, contentType string, content io.Reader) (Upload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename)}
	if contentType != "" {
		h["Content-Type"] = []string{contentType}
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return Upload{}, fmt.Errorf("failed to buffer upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Upload{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/files", &buf)
	if err != nil {
		return Upload{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return Upload{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return Upload{}, statusError(resp)
	}
	var upload Upload
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return Upload{}, err
	}
	return upload, nil
}

// ListFiles fetches metadata for all uploads.
func (c *Client) ListFiles(ctx context.Context) ([]Upload, error) {
	var uploads []Upload
	if err := c.getJSON(ctx, "/v1/files", &uploads); err != nil {
		return nil, err
	}
	return uploads, nil
}

// DeleteFile removes an upload.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/files/"+url.PathEscape(id), nil, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
}
