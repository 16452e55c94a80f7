package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flowboard-io/flowboard/pkg/catalog"
	"github.com/flowboard-io/flowboard/pkg/graph"
)

func newStubServer(t *testing.T) (*httptest.Server, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, mux
}

func TestPing(t *testing.T) {
	srv, mux := newStubServer(t)
	mux.HandleFunc("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	c := NewClient(srv.URL)
	status, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestWorkflowCalls(t *testing.T) {
	srv, mux := newStubServer(t)

	stored := graph.NewWorkflow("stub", "")
	mux.HandleFunc("/v1/workflows", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if got := r.URL.Query().Get("status"); got != "draft" {
				t.Errorf("expected status filter, got %q", got)
			}
			json.NewEncoder(w).Encode([]*graph.Workflow{stored})
		case http.MethodPost:
			var in graph.Workflow
			json.NewDecoder(r.Body).Decode(&in)
			in.ID = "wf-created"
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(&in)
		}
	})
	mux.HandleFunc("/v1/workflows/"+stored.ID+"/execute", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(Execution{
			ExecutionID: "exec-1-abcd1234",
			WorkflowID:  stored.ID,
			Status:      "started",
			NodeStates:  map[string]string{"n1": "pending"},
		})
	})

	c := NewClient(srv.URL)
	ctx := context.Background()

	listed, err := c.ListWorkflows(ctx, ListOptions{Status: "draft"})
	if err != nil {
		t.Fatalf("ListWorkflows failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "stub" {
		t.Errorf("unexpected listing: %+v", listed)
	}

	created, err := c.CreateWorkflow(ctx, graph.NewWorkflow("new", ""))
	if err != nil {
		t.Fatalf("CreateWorkflow failed: %v", err)
	}
	if created.ID != "wf-created" {
		t.Errorf("unexpected created id %q", created.ID)
	}

	exec, err := c.ExecuteWorkflow(ctx, stored.ID)
	if err != nil {
		t.Fatalf("ExecuteWorkflow failed: %v", err)
	}
	if exec.Status != "started" || exec.NodeStates["n1"] != "pending" {
		t.Errorf("unexpected execution: %+v", exec)
	}
}

func TestErrorStatusSurfaced(t *testing.T) {
	srv, mux := newStubServer(t)
	mux.HandleFunc("/v1/workflows/absent", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"workflow_not_found"}`, http.StatusNotFound)
	})

	c := NewClient(srv.URL)
	if _, err := c.GetWorkflow(context.Background(), "absent"); err == nil {
		t.Fatalf("expected error for 404")
	} else if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestUploadFile(t *testing.T) {
	srv, mux := newStubServer(t)
	mux.HandleFunc("/v1/files", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "notes.txt" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Upload{ID: "f1", Filename: header.Filename, Category: "text"})
	})

	c := NewClient(srv.URL)
	upload, err := c.UploadFile(context.Background(), "notes.txt", "text/plain", strings.NewReader("hi"))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if upload.ID != "f1" || upload.Category != "text" {
		t.Errorf("unexpected upload: %+v", upload)
	}
}

func TestTemplateCalls(t *testing.T) {
	srv, mux := newStubServer(t)

	mux.HandleFunc("/v1/templates", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]catalog.Template{{ID: 1, Name: "Document Pipeline"}})
	})
	mux.HandleFunc("/v1/templates/1/apply", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["name"] != "My Pipeline" {
			t.Errorf("expected name override, got %q", req["name"])
		}
		w.WriteHeader(http.StatusCreated)
		wf := graph.NewWorkflow("My Pipeline", "")
		json.NewEncoder(w).Encode(wf)
	})

	c := NewClient(srv.URL)
	ctx := context.Background()

	templates, err := c.Templates(ctx)
	if err != nil {
		t.Fatalf("Templates failed: %v", err)
	}
	if len(templates) != 1 || templates[0].Name != "Document Pipeline" {
		t.Errorf("unexpected templates: %+v", templates)
	}

	wf, err := c.ApplyTemplate(ctx, 1, "My Pipeline")
	if err != nil {
		t.Fatalf("ApplyTemplate failed: %v", err)
	}
	if wf.Name != "My Pipeline" {
		t.Errorf("unexpected workflow: %+v", wf)
	}
}

func TestWaitReady(t *testing.T) {
	srv, mux := newStubServer(t)

	var calls int
	mux.HandleFunc("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "starting", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	})

	c := NewClient(srv.URL)
	backoff := &ExponentialBackoff{Base: time.Millisecond, Max: time.Millisecond, Factor: 1.0}
	if err := c.WaitReady(context.Background(), 5, backoff); err != nil {
		t.Fatalf("WaitReady failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 health calls, got %d", calls)
	}
}
