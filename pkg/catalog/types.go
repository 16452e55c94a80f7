// Package catalog is the entity catalog backing the node palette: the
// agents, LLM models and data connectors a workflow node can reference,
// plus the reusable workflow templates in the gallery.
package catalog

import "time"

// Agent is an autonomous worker that a canvas node can delegate to.
type Agent struct {
	ID               int                `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Capabilities     []string           `json:"capabilities"`
	Personality      map[string]float64 `json:"personality,omitempty"`
	KnowledgeDomains []string           `json:"knowledgeDomains,omitempty"`
	ModelID          int                `json:"modelId,omitempty"`
	SystemPrompt     string             `json:"systemPrompt,omitempty"`
	Status           string             `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// Model is an LLM configuration selectable on llm nodes.
type Model struct {
	ID            int                    `json:"id"`
	Name          string                 `json:"name"`
	Provider      string                 `json:"provider"`
	ModelID       string                 `json:"modelId"`
	Description   string                 `json:"description"`
	Version       string                 `json:"version"`
	Capabilities  []string               `json:"capabilities"`
	ContextWindow int                    `json:"contextWindow"`
	MaxTokens     int                    `json:"maxTokens"`
	Parameters    map[string]interface{} `json:"parameters,omitempty"`
	Status        string                 `json:"status"`
}

// Connector describes an external data source reachable from dataSource
// nodes.
type Connector struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
