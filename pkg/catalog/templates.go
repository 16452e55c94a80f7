package catalog

import (
	"errors"
	"time"

	"github.com/flowboard-io/flowboard/pkg/graph"
)

// Template is a reusable workflow blueprint: a prebuilt node graph that can
// be stamped into a fresh workflow.
type Template struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Nodes       []graph.Node       `json:"nodes"`
	Connections []graph.Connection `json:"connections"`
	Tags        []string           `json:"tags,omitempty"`
	Version     string             `json:"version"`
	Popularity  int                `json:"popularity,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (c *Catalog) seedTemplates() {
	now := time.Now().UTC()
	samples := []*Template{
		{
			Name:        "Document Pipeline",
			Description: "Ingest a document, extract its contents and summarize",
			Category:    "document-processing",
			Tags:        []string{"document-processing", "starter"},
			Popularity:  84,
			Nodes: []graph.Node{
				{ID: "upload", Type: graph.NodeFileUpload, Label: "Upload", X: 40, Y: 80},
				{ID: "extract", Type: graph.NodeTransform, Label: "Extract", X: 320, Y: 80},
				{ID: "summarize", Type: graph.NodeLLM, Label: "Summarize", X: 600, Y: 80},
			},
			Connections: []graph.Connection{
				{ID: "dp-c1", Source: "upload", Target: "extract"},
				{ID: "dp-c2", Source: "extract", Target: "summarize"},
			},
		},
		{
			Name:        "Support Triage",
			Description: "Route incoming tickets through an agent with a manual escalation step",
			Category:    "customer-service",
			Tags:        []string{"customer-service"},
			Popularity:  61,
			Nodes: []graph.Node{
				{ID: "intake", Type: graph.NodeDataSource, Label: "Tickets", X: 40, Y: 60},
				{ID: "triage", Type: graph.NodeAgent, Label: "Triage Agent", X: 320, Y: 60},
				{ID: "review", Type: graph.NodeManualStep, Label: "Escalation", X: 600, Y: 160},
			},
			Connections: []graph.Connection{
				{ID: "st-c1", Source: "intake", Target: "triage"},
				{ID: "st-c2", Source: "triage", Target: "review"},
			},
		},
		{
			Name:        "Data Analysis Board",
			Description: "Pull a dataset, reshape it and generate findings",
			Category:    "data-analysis",
			Tags:        []string{"data-analysis"},
			Popularity:  47,
			Nodes: []graph.Node{
				{ID: "dataset", Type: graph.NodeDataSource, Label: "Dataset", X: 40, Y: 80},
				{ID: "reshape", Type: graph.NodeTransform, Label: "Reshape", X: 320, Y: 80},
				{ID: "findings", Type: graph.NodeLLM, Label: "Findings", X: 600, Y: 80},
			},
			Connections: []graph.Connection{
				{ID: "da-c1", Source: "dataset", Target: "reshape"},
				{ID: "da-c2", Source: "reshape", Target: "findings"},
			},
		},
	}
	for _, tpl := range samples {
		tpl.ID = c.nextTemplateID
		c.nextTemplateID++
		tpl.Version = "1.0"
		tpl.CreatedAt = now
		tpl.UpdatedAt = now
		c.templates[tpl.ID] = tpl
	}
}

// Templates returns all templates.
func (c *Catalog) Templates() []Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Template, 0, len(c.templates))
	for _, tpl := range c.templates {
		out = append(out, *tpl)
	}
	return out
}

// Template returns one template by id.
func (c *Catalog) Template(id int) (Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tpl, ok := c.templates[id]
	if !ok {
		return Template{}, ErrNotFound
	}
	return *tpl, nil
}

// CreateTemplate validates and stores a new template, assigning the next id
// and filling lifecycle defaults.
func (c *Catalog) CreateTemplate(tpl Template) (Template, error) {
	if tpl.Name == "" {
		return Template{}, errors.New("template name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tpl.ID = c.nextTemplateID
	c.nextTemplateID++
	if tpl.Category == "" {
		tpl.Category = "general"
	}
	if tpl.Version == "" {
		tpl.Version = "1.0"
	}
	if tpl.Nodes == nil {
		tpl.Nodes = []graph.Node{}
	}
	if tpl.Connections == nil {
		tpl.Connections = []graph.Connection{}
	}
	now := time.Now().UTC()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	stored := tpl
	c.templates[tpl.ID] = &stored
	return tpl, nil
}

// UpdateTemplate overwrites mutable template fields, keeping id and creation
// time.
func (c *Catalog) UpdateTemplate(id int, update Template) (Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.templates[id]
	if !ok {
		return Template{}, ErrNotFound
	}
	update.ID = existing.ID
	update.CreatedAt = existing.CreatedAt
	update.UpdatedAt = time.Now().UTC()
	if update.Version == "" {
		update.Version = existing.Version
	}
	stored := update
	c.templates[id] = &stored
	return update, nil
}

// DeleteTemplate removes a template.
func (c *Catalog) DeleteTemplate(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.templates[id]; !ok {
		return ErrNotFound
	}
	delete(c.templates, id)
	return nil
}
