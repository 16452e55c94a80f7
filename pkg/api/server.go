// Package api exposes the workflow board over HTTP: workflow CRUD and
// execution, the node palette catalogs, and file uploads.
package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flowboard-io/flowboard/pkg/catalog"
	"github.com/flowboard-io/flowboard/pkg/files"
	"github.com/flowboard-io/flowboard/pkg/graph"
	"github.com/flowboard-io/flowboard/pkg/store"
)

// Context keys
type contextKey string

const traceIDKey contextKey = "trace_id"

// Interfaces for dependencies to enable mocking

type WorkflowStoreInterface interface {
	CreateWorkflow(ctx context.Context, w *graph.Workflow) error
	GetWorkflow(ctx context.Context, id string) (*graph.Workflow, error)
	ListWorkflows(ctx context.Context, filter store.SearchFilter) ([]*graph.Workflow, error)
	UpdateWorkflow(ctx context.Context, w *graph.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) (bool, error)
	CloneWorkflow(ctx context.Context, id string) (*graph.Workflow, error)
	AddConnection(ctx context.Context, workflowID string, conn graph.Connection) (*graph.Connection, error)
	DeleteConnection(ctx context.Context, workflowID, connectionID string) (bool, error)
}

type CatalogInterface interface {
	Agents() []catalog.Agent
	Agent(id int) (catalog.Agent, error)
	CreateAgent(a catalog.Agent) (catalog.Agent, error)
	UpdateAgent(id int, a catalog.Agent) (catalog.Agent, error)
	DeleteAgent(id int) error
	Models() []catalog.Model
	Connectors() []catalog.Connector
	Templates() []catalog.Template
	Template(id int) (catalog.Template, error)
	CreateTemplate(t catalog.Template) (catalog.Template, error)
	UpdateTemplate(id int, t catalog.Template) (catalog.Template, error)
	DeleteTemplate(id int) error
}

type FileStoreInterface interface {
	Save(ctx context.Context, filename, contentType string, reader io.Reader) (files.FileInfo, error)
	Open(ctx context.Context, id string) (io.ReadCloser, files.FileInfo, error)
	List(ctx context.Context) ([]files.FileInfo, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Server encapsulates the HTTP API server
type Server struct {
	workflows WorkflowStoreInterface
	catalog   CatalogInterface
	uploads   FileStoreInterface
	server    *http.Server

	// TLS Config
	tlsCertFile string
	tlsKeyFile  string
}

// NewServer creates a new API server instance
func NewServer(workflows WorkflowStoreInterface, cat CatalogInterface, uploads FileStoreInterface, addr string) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/health", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s := &Server{
		workflows: workflows,
		catalog:   cat,
		uploads:   uploads,
	}

	mux.HandleFunc("/v1/workflows", s.handleWorkflows)
	mux.HandleFunc("/v1/workflows/", s.handleWorkflowSubtree)
	mux.HandleFunc("/v1/node-types", s.handleNodeTypes)
	mux.HandleFunc("/v1/agents", s.handleAgents)
	mux.HandleFunc("/v1/agents/", s.handleAgentByID)
	mux.HandleFunc("/v1/models", s.handleModels)
	mux.HandleFunc("/v1/connectors", s.handleConnectors)
	mux.HandleFunc("/v1/templates", s.handleTemplates)
	mux.HandleFunc("/v1/templates/", s.handleTemplateSubtree)
	mux.HandleFunc("/v1/files", s.handleFiles)
	mux.HandleFunc("/v1/files/", s.handleFileByID)

	// Middleware: Logging, Panic Recovery, Security Headers
	handler := withLogging(withRecovery(withSecureHeaders(mux)))

	if addr == "" {
		addr = ":8090"
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	return s
}

// Handler exposes the configured handler chain, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// SetTLS configures the server to use TLS
func (s *Server) SetTLS(certFile, keyFile string) {
	s.tlsCertFile = certFile
	s.tlsKeyFile = keyFile
}

// Start runs the HTTP server (blocking)
func (s *Server) Start() error {
	if s.tlsCertFile != "" && s.tlsKeyFile != "" {
		fmt.Printf(`{"level":"info","msg":"server_starting_tls","addr":"%s"}`+"\n", s.server.Addr)
		if err := s.server.ListenAndServeTLS(s.tlsCertFile, s.tlsKeyFile); err != http.ErrServerClosed {
			return err
		}
	} else {
		fmt.Printf(`{"level":"info","msg":"server_starting","addr":"%s"}`+"\n", s.server.Addr)
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	fmt.Println(`{"level":"info","msg":"server_stopping"}`)
	return s.server.Shutdown(ctx)
}

// handleWorkflows serves the collection: list with filters, create.
func (s *Server) handleWorkflows(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := store.SearchFilter{
			Query:  r.URL.Query().Get("query"),
			Status: graph.WorkflowStatus(r.URL.Query().Get("status")),
		}
		if tags := r.URL.Query().Get("tags"); tags != "" {
			filter.Tags = strings.Split(tags, ",")
		}

		workflows, err := s.workflows.ListWorkflows(r.Context(), filter)
		if err != nil {
			fmt.Printf(`{"level":"error","msg":"failed_to_list_workflows","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, workflows)

	case http.MethodPost:
		var req CreateWorkflowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, `{"error":"missing_required_fields"}`, http.StatusBadRequest)
			return
		}

		wf := graph.NewWorkflow(req.Name, req.Description)
		wf.Nodes = req.Nodes
		wf.Connections = req.Connections
		wf.Metadata = req.Metadata
		store.FillDefaults(wf)

		if err := s.workflows.CreateWorkflow(r.Context(), wf); err != nil {
			fmt.Printf(`{"level":"error","msg":"failed_to_create_workflow","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		fmt.Printf(`{"level":"info","msg":"workflow_created","trace_id":"%s","workflow_id":"%s"}`+"\n", getTraceID(r.Context()), wf.ID)
		writeJSON(w, http.StatusCreated, wf)

	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

// handleWorkflowSubtree routes /v1/workflows/{id} and its sub-resources.
func (s *Server) handleWorkflowSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/workflows/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, `{"error":"missing_workflow_id"}`, http.StatusBadRequest)
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1:
		s.handleWorkflowByID(w, r, id)
	case len(parts) == 2 && parts[1] == "execute":
		s.handleExecute(w, r, id)
	case len(parts) == 2 && parts[1] == "clone":
		s.handleClone(w, r, id)
	case len(parts) == 2 && parts[1] == "connections":
		s.handleConnectionAdd(w, r, id)
	case len(parts) == 3 && parts[1] == "connections":
		s.handleConnectionDelete(w, r, id, parts[2])
	default:
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	}
}

func (s *Server) handleWorkflowByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		wf, err := s.workflows.GetWorkflow(r.Context(), id)
		if err != nil {
			fmt.Printf(`{"level":"error","msg":"failed_to_get_workflow","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		if wf == nil {
			http.Error(w, `{"error":"workflow_not_found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, wf)

	case http.MethodPut:
		var req UpdateWorkflowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
			return
		}

		existing, err := s.workflows.GetWorkflow(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		if existing == nil {
			http.Error(w, `{"error":"workflow_not_found"}`, http.StatusNotFound)
			return
		}

		if req.Name != "" {
			existing.Name = req.Name
		}
		existing.Description = req.Description
		if req.Status != "" {
			existing.Status = req.Status
		}
		existing.Nodes = req.Nodes
		existing.Connections = req.Connections
		if req.Metadata != nil {
			existing.Metadata = req.Metadata
		}
		store.TouchUpdated(existing)

		if err := s.workflows.UpdateWorkflow(r.Context(), existing); err != nil {
			if err == store.ErrNotFound {
				http.Error(w, `{"error":"workflow_not_found"}`, http.StatusNotFound)
				return
			}
			fmt.Printf(`{"level":"error","msg":"failed_to_update_workflow","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, existing)

	case http.MethodDelete:
		deleted, err := s.workflows.DeleteWorkflow(r.Context(), id)
		if err != nil {
			fmt.Printf(`{"level":"error","msg":"failed_to_delete_workflow","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		if !deleted {
			http.Error(w, `{"error":"workflow_not_found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

// handleExecute kicks off a workflow run. Execution is asynchronous from the
// caller's point of view: the response reports every node as pending.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	wf, err := s.workflows.GetWorkflow(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
		return
	}
	if wf == nil {
		http.Error(w, `{"error":"workflow_not_found"}`, http.StatusNotFound)
		return
	}

	now := time.Now().UTC()
	resp := ExecutionResponse{
		ExecutionID: fmt.Sprintf("exec-%d-%s", now.UnixMilli(), randomHex(4)),
		WorkflowID:  wf.ID,
		Status:      "started",
		StartTime:   now,
		NodeStates:  make(map[string]string, len(wf.Nodes)),
	}
	for _, n := range wf.Nodes {
		resp.NodeStates[n.ID] = "pending"
	}

	workflowExecutions.Inc()
	fmt.Printf(`{"level":"info","msg":"workflow_execution_started","trace_id":"%s","workflow_id":"%s","execution_id":"%s"}`+"\n",
		getTraceID(r.Context()), wf.ID, resp.ExecutionID)
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleClone(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	clone, err := s.workflows.CloneWorkflow(r.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			http.Error(w, `{"error":"workflow_not_found"}`, http.StatusNotFound)
			return
		}
		fmt.Printf(`{"level":"error","msg":"failed_to_clone_workflow","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
		http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}

func (s *Server) handleConnectionAdd(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var conn graph.Connection
	if err := json.NewDecoder(r.Body).Decode(&conn); err != nil {
		http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
		return
	}
	if conn.Source == "" || conn.Target == "" {
		http.Error(w, `{"error":"missing_required_fields"}`, http.StatusBadRequest)
		return
	}

	created, err := s.workflows.AddConnection(r.Context(), id, conn)
	if err != nil {
		if err == store.ErrNotFound {
			http.Error(w, `{"error":"workflow_not_found"}`, http.StatusNotFound)
			return
		}
		fmt.Printf(`{"level":"error","msg":"failed_to_add_connection","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
		http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleConnectionDelete(w http.ResponseWriter, r *http.Request, id, connID string) {
	if r.Method != http.MethodDelete {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	deleted, err := s.workflows.DeleteConnection(r.Context(), id, connID)
	if err != nil {
		if err == store.ErrNotFound {
			http.Error(w, `{"error":"workflow_not_found"}`, http.StatusNotFound)
			return
		}
		fmt.Printf(`{"level":"error","msg":"failed_to_delete_connection","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
		http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, `{"error":"connection_not_found"}`, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNodeTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, graph.NodeTypes())
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.catalog.Agents())
	case http.MethodPost:
		var a catalog.Agent
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
			return
		}
		created, err := s.catalog.CreateAgent(a)
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error":"invalid_agent","details":"%v"}`, err), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAgentByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/agents/"), "/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, `{"error":"invalid_agent_id"}`, http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a, err := s.catalog.Agent(id)
		if err != nil {
			http.Error(w, `{"error":"agent_not_found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, a)
	case http.MethodPut:
		var a catalog.Agent
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
			return
		}
		updated, err := s.catalog.UpdateAgent(id, a)
		if err != nil {
			http.Error(w, `{"error":"agent_not_found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.catalog.DeleteAgent(id); err != nil {
			http.Error(w, `{"error":"agent_not_found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Models())
}

func (s *Server) handleConnectors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Connectors())
}

// handleTemplates serves the template collection: list, create.
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.catalog.Templates())
	case http.MethodPost:
		var tpl catalog.Template
		if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
			http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
			return
		}
		created, err := s.catalog.CreateTemplate(tpl)
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error":"invalid_template","details":"%v"}`, err), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

// handleTemplateSubtree routes /v1/templates/{id} and {id}/apply.
func (s *Server) handleTemplateSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/templates/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, `{"error":"missing_template_id"}`, http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		http.Error(w, `{"error":"invalid_template_id"}`, http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 1:
		s.handleTemplateByID(w, r, id)
	case len(parts) == 2 && parts[1] == "apply":
		s.handleTemplateApply(w, r, id)
	default:
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	}
}

func (s *Server) handleTemplateByID(w http.ResponseWriter, r *http.Request, id int) {
	switch r.Method {
	case http.MethodGet:
		tpl, err := s.catalog.Template(id)
		if err != nil {
			http.Error(w, `{"error":"template_not_found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	case http.MethodPut:
		var tpl catalog.Template
		if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
			http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
			return
		}
		updated, err := s.catalog.UpdateTemplate(id, tpl)
		if err != nil {
			http.Error(w, `{"error":"template_not_found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.catalog.DeleteTemplate(id); err != nil {
			http.Error(w, `{"error":"template_not_found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

// handleTemplateApply stamps a template into a new stored workflow. The body
// may override name and description; an empty body is fine.
func (s *Server) handleTemplateApply(w http.ResponseWriter, r *http.Request, id int) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req ApplyTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
		return
	}

	tpl, err := s.catalog.Template(id)
	if err != nil {
		http.Error(w, `{"error":"template_not_found"}`, http.StatusNotFound)
		return
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Workflow from %s", tpl.Name)
	}
	description := req.Description
	if description == "" {
		description = tpl.Description
	}

	wf := graph.NewWorkflow(name, description)
	wf.Nodes = append([]graph.Node(nil), tpl.Nodes...)
	wf.Connections = append([]graph.Connection(nil), tpl.Connections...)
	wf.Metadata["templateId"] = tpl.ID
	store.FillDefaults(wf)

	if err := s.workflows.CreateWorkflow(r.Context(), wf); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_apply_template","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
		http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
		return
	}

	templateApplies.Inc()
	fmt.Printf(`{"level":"info","msg":"template_applied","trace_id":"%s","template_id":%d,"workflow_id":"%s"}`+"\n",
		getTraceID(r.Context()), tpl.ID, wf.ID)
	writeJSON(w, http.StatusCreated, wf)
}

// handleFiles serves the upload collection.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		infos, err := s.uploads.List(r.Context())
		if err != nil {
			fmt.Printf(`{"level":"error","msg":"failed_to_list_files","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, infos)

	case http.MethodPost:
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, `{"error":"invalid_multipart_body"}`, http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"error":"missing_file_field"}`, http.StatusBadRequest)
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		info, err := s.uploads.Save(r.Context(), header.Filename, contentType, file)
		if err != nil {
			fmt.Printf(`{"level":"error","msg":"failed_to_save_upload","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}

		fileUploads.WithLabelValues(string(info.Category)).Inc()
		fmt.Printf(`{"level":"info","msg":"file_uploaded","trace_id":"%s","file_id":"%s","category":"%s"}`+"\n",
			getTraceID(r.Context()), info.ID, info.Category)
		writeJSON(w, http.StatusCreated, FileUploadResponse{
			ID:          info.ID,
			Filename:    info.Filename,
			Size:        info.Size,
			ContentType: info.ContentType,
			Category:    string(info.Category),
			UploadTime:  info.UploadTime,
		})

	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

// handleFileByID downloads or deletes one upload.
func (s *Server) handleFileByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/files/"), "/")
	if id == "" {
		http.Error(w, `{"error":"missing_file_id"}`, http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rc, info, err := s.uploads.Open(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"file_not_found"}`, http.StatusNotFound)
			return
		}
		defer rc.Close()

		if info.ContentType != "" {
			w.Header().Set("Content-Type", info.ContentType)
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", info.Filename))
		if _, err := io.Copy(w, rc); err != nil {
			fmt.Printf(`{"level":"error","msg":"failed_to_stream_file","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
		}

	case http.MethodDelete:
		deleted, err := s.uploads.Delete(r.Context(), id)
		if err != nil {
			fmt.Printf(`{"level":"error","msg":"failed_to_delete_file","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		if !deleted {
			http.Error(w, `{"error":"file_not_found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
	}
}

// handleHealth returns simple status
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_encode_response","error":"%v"}`+"\n", err)
	}
}

// Middleware: Panic Recovery
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				fmt.Printf(`{"level":"error","msg":"panic_recovered","error":"%v","path":"%s"}`+"\n", err, r.URL.Path)
				http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Middleware: Request Logging
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = randomHex(16)
		}

		ctx := context.WithValue(r.Context(), traceIDKey, traceID)
		r = r.WithContext(ctx)

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		fmt.Printf(`{"level":"info","msg":"http_request","trace_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`+"\n",
			traceID, r.Method, r.URL.Path, ww.status, duration.Milliseconds())
	})
}

// Middleware: Secure Headers
func withSecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func getTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// statusWriter captures HTTP status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
