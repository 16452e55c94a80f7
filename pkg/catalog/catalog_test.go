package catalog

import "testing"

func TestSeededEntries(t *testing.T) {
	c := New()

	if got := len(c.Agents()); got != 3 {
		t.Errorf("expected 3 sample agents, got %d", got)
	}
	if got := len(c.Models()); got != 4 {
		t.Errorf("expected 4 sample models, got %d", got)
	}
	if got := len(c.Connectors()); got != 3 {
		t.Errorf("expected 3 sample connectors, got %d", got)
	}
	if got := len(c.Templates()); got != 3 {
		t.Errorf("expected 3 sample templates, got %d", got)
	}
}

func TestAgentCRUD(t *testing.T) {
	c := New()

	created, err := c.CreateAgent(Agent{
		Name:         "Research Agent",
		Capabilities: []string{"search", "summarization"},
	})
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	if created.ID == 0 || created.Status != "active" {
		t.Errorf("unexpected created agent: %+v", created)
	}

	got, err := c.Agent(created.ID)
	if err != nil {
		t.Fatalf("Agent lookup failed: %v", err)
	}
	if got.Name != "Research Agent" {
		t.Errorf("unexpected agent name %q", got.Name)
	}

	updated, err := c.UpdateAgent(created.ID, Agent{
		Name:         "Deep Research Agent",
		Capabilities: []string{"search"},
	})
	if err != nil {
		t.Fatalf("UpdateAgent failed: %v", err)
	}
	if updated.Name != "Deep Research Agent" || updated.CreatedAt != created.CreatedAt {
		t.Errorf("update did not preserve identity fields: %+v", updated)
	}

	if err := c.DeleteAgent(created.ID); err != nil {
		t.Fatalf("DeleteAgent failed: %v", err)
	}
	if _, err := c.Agent(created.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTemplateCRUD(t *testing.T) {
	c := New()

	created, err := c.CreateTemplate(Template{Name: "Review Loop"})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	if created.ID == 0 || created.Category != "general" || created.Version != "1.0" {
		t.Errorf("defaults not applied: %+v", created)
	}
	if created.Nodes == nil || created.Connections == nil {
		t.Errorf("expected empty node and connection slices: %+v", created)
	}

	got, err := c.Template(created.ID)
	if err != nil {
		t.Fatalf("Template lookup failed: %v", err)
	}
	if got.Name != "Review Loop" {
		t.Errorf("unexpected template name %q", got.Name)
	}

	updated, err := c.UpdateTemplate(created.ID, Template{
		Name:     "Review Loop v2",
		Category: "customer-service",
	})
	if err != nil {
		t.Fatalf("UpdateTemplate failed: %v", err)
	}
	if updated.ID != created.ID || updated.CreatedAt != created.CreatedAt {
		t.Errorf("update did not preserve identity fields: %+v", updated)
	}
	if updated.Name != "Review Loop v2" || updated.Category != "customer-service" {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := c.DeleteTemplate(created.ID); err != nil {
		t.Fatalf("DeleteTemplate failed: %v", err)
	}
	if _, err := c.Template(created.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if _, err := c.CreateTemplate(Template{}); err == nil {
		t.Errorf("expected error for missing name")
	}
}

func TestCreateAgentValidation(t *testing.T) {
	c := New()

	if _, err := c.CreateAgent(Agent{Capabilities: []string{"x"}}); err == nil {
		t.Errorf("expected error for missing name")
	}
	if _, err := c.CreateAgent(Agent{Name: "NoCaps"}); err == nil {
		t.Errorf("expected error for missing capabilities")
	}
}
