package graph

import "testing"

func TestConnectionRefsDefaultRoles(t *testing.T) {
	c := Connection{ID: "c1", Source: "n1", Target: "n2"}

	if got := string(c.SourceRef()); got != "n1:output:0" {
		t.Errorf("expected default output ref, got %s", got)
	}
	if got := string(c.TargetRef()); got != "n2:input:0" {
		t.Errorf("expected default input ref, got %s", got)
	}

	c.SourcePort = "completion"
	c.TargetPort = "prompt"
	if got := string(c.SourceRef()); got != "n1:completion:0" {
		t.Errorf("expected named port ref, got %s", got)
	}
	if got := string(c.TargetRef()); got != "n2:prompt:0" {
		t.Errorf("expected named port ref, got %s", got)
	}
}

func TestNewWorkflowDefaults(t *testing.T) {
	w := NewWorkflow("", "")

	if w.ID == "" {
		t.Errorf("expected generated id")
	}
	if w.Name != "Untitled Workflow" {
		t.Errorf("expected default name, got %q", w.Name)
	}
	if w.Status != StatusDraft || w.Version != "1.0" {
		t.Errorf("expected draft v1.0, got %s %s", w.Status, w.Version)
	}
}

func TestRemoveConnection(t *testing.T) {
	w := NewWorkflow("test", "")
	w.Connections = []Connection{{ID: "a"}, {ID: "b"}}

	if !w.RemoveConnection("a") {
		t.Fatalf("expected removal of existing connection")
	}
	if w.RemoveConnection("a") {
		t.Errorf("expected second removal to report missing")
	}
	if len(w.Connections) != 1 || w.Connections[0].ID != "b" {
		t.Errorf("unexpected connections after removal: %+v", w.Connections)
	}
}

func TestNodeTypesCatalog(t *testing.T) {
	types := NodeTypes()
	if len(types) != 6 {
		t.Fatalf("expected 6 node types, got %d", len(types))
	}

	info, ok := TypeInfo(NodeLLM)
	if !ok {
		t.Fatalf("expected llm type info")
	}
	if len(info.Inputs) != 1 || info.Inputs[0] != "prompt" {
		t.Errorf("unexpected llm inputs: %v", info.Inputs)
	}
	if len(info.Outputs) != 1 || info.Outputs[0] != "completion" {
		t.Errorf("unexpected llm outputs: %v", info.Outputs)
	}
}
