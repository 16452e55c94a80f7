package catalog

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned for lookups of unknown catalog entries.
var ErrNotFound = errors.New("catalog entry not found")

// Catalog holds the palette entities in memory, seeded with samples. Agents
// and workflow templates support full CRUD; models and connectors are
// read-only listings.
type Catalog struct {
	mu         sync.RWMutex
	agents     map[int]*Agent
	nextID     int
	models     []Model
	connectors []Connector

	templates      map[int]*Template
	nextTemplateID int
}

// New creates a catalog pre-seeded with sample entries.
func New() *Catalog {
	c := &Catalog{
		agents:         make(map[int]*Agent),
		nextID:         1,
		templates:      make(map[int]*Template),
		nextTemplateID: 1,
	}
	c.seed()
	c.seedTemplates()
	return c
}

func (c *Catalog) seed() {
	now := time.Now().UTC()
	samples := []*Agent{
		{
			Name:             "Customer Service Agent",
			Description:      "Handles support conversations end to end",
			Capabilities:     []string{"textProcessing", "questionAnswering", "sentiment"},
			KnowledgeDomains: []string{"customerService", "productKnowledge"},
			Personality: map[string]float64{
				"empathy": 0.8, "formality": 0.6, "creativity": 0.4,
				"precision": 0.7, "helpfulness": 0.9,
			},
		},
		{
			Name:             "Data Analysis Agent",
			Description:      "Extracts and summarizes structured data",
			Capabilities:     []string{"textProcessing", "dataExtraction", "summarization"},
			KnowledgeDomains: []string{"dataAnalysis", "statistics"},
			Personality: map[string]float64{
				"empathy": 0.3, "formality": 0.7, "creativity": 0.3,
				"precision": 0.9, "helpfulness": 0.6,
			},
		},
		{
			Name:             "Content Writer Agent",
			Description:      "Drafts and rewrites marketing copy",
			Capabilities:     []string{"textGeneration", "summarization", "translation"},
			KnowledgeDomains: []string{"marketing", "writing"},
			Personality: map[string]float64{
				"empathy": 0.5, "formality": 0.4, "creativity": 0.9,
				"precision": 0.5, "helpfulness": 0.7,
			},
		},
	}
	for _, a := range samples {
		a.ID = c.nextID
		c.nextID++
		a.Status = "active"
		a.CreatedAt = now
		a.UpdatedAt = now
		c.agents[a.ID] = a
	}

	c.models = []Model{
		{
			ID: 1, Name: "GPT-4", Provider: "openai", ModelID: "gpt-4",
			Capabilities:  []string{"textCompletion", "chatCompletion"},
			ContextWindow: 8192, MaxTokens: 4096, Version: "1.0", Status: "active",
			Parameters: map[string]interface{}{"temperature": 0.7, "topP": 1.0},
		},
		{
			ID: 2, Name: "GPT-3.5 Turbo", Provider: "openai", ModelID: "gpt-3.5-turbo",
			Capabilities:  []string{"textCompletion", "chatCompletion"},
			ContextWindow: 4000, MaxTokens: 1000, Version: "1.0", Status: "active",
			Parameters: map[string]interface{}{"temperature": 0.7, "topP": 1.0},
		},
		{
			ID: 3, Name: "Claude", Provider: "anthropic", ModelID: "claude-2",
			Capabilities:  []string{"chatCompletion"},
			ContextWindow: 100000, MaxTokens: 4096, Version: "1.0", Status: "active",
			Parameters: map[string]interface{}{"temperature": 0.7},
		},
		{
			ID: 4, Name: "Llama 2", Provider: "meta", ModelID: "llama-2-70b",
			Capabilities:  []string{"textCompletion"},
			ContextWindow: 4096, MaxTokens: 2048, Version: "1.0", Status: "active",
		},
	}

	c.connectors = []Connector{
		{ID: 1, Name: "PostgreSQL", Kind: "database", Description: "Relational database connector", Status: "active"},
		{ID: 2, Name: "S3 Bucket", Kind: "objectStorage", Description: "Object storage connector", Status: "active"},
		{ID: 3, Name: "REST API", Kind: "http", Description: "Generic HTTP endpoint connector", Status: "active"},
	}
}

// Agents returns all agents.
func (c *Catalog) Agents() []Agent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Agent, 0, len(c.agents))
	for _, a := range c.agents {
		out = append(out, *a)
	}
	return out
}

// Agent returns one agent by id.
func (c *Catalog) Agent(id int) (Agent, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.agents[id]
	if !ok {
		return Agent{}, ErrNotFound
	}
	return *a, nil
}

// CreateAgent validates and stores a new agent, assigning the next id.
func (c *Catalog) CreateAgent(a Agent) (Agent, error) {
	if a.Name == "" {
		return Agent{}, errors.New("agent name is required")
	}
	if len(a.Capabilities) == 0 {
		return Agent{}, errors.New("agent capabilities are required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	a.ID = c.nextID
	c.nextID++
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.Status = "active"
	stored := a
	c.agents[a.ID] = &stored
	return a, nil
}

// UpdateAgent overwrites mutable agent fields, keeping id and creation time.
func (c *Catalog) UpdateAgent(id int, update Agent) (Agent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.agents[id]
	if !ok {
		return Agent{}, ErrNotFound
	}
	update.ID = existing.ID
	update.CreatedAt = existing.CreatedAt
	update.UpdatedAt = time.Now().UTC()
	if update.Status == "" {
		update.Status = existing.Status
	}
	stored := update
	c.agents[id] = &stored
	return update, nil
}

// DeleteAgent removes an agent.
func (c *Catalog) DeleteAgent(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.agents[id]; !ok {
		return ErrNotFound
	}
	delete(c.agents, id)
	return nil
}

// Models returns the LLM model listing.
func (c *Catalog) Models() []Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}

// Connectors returns the data connector listing.
func (c *Catalog) Connectors() []Connector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Connector, len(c.connectors))
	copy(out, c.connectors)
	return out
}
