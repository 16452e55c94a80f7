package graph

// NodeTypeInfo describes one palette entry.
type NodeTypeInfo struct {
	Type        NodeType `json:"type"`
	Label       string   `json:"label"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	Description string   `json:"description"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs"`
}

var nodeTypes = []NodeTypeInfo{
	{
		Type:        NodeAgent,
		Label:       "Agent",
		Icon:        "robot",
		Color:       "#4F46E5",
		Description: "Autonomous agent that can perform tasks",
		Inputs:      []string{"input"},
		Outputs:     []string{"output"},
	},
	{
		Type:        NodeLLM,
		Label:       "LLM",
		Icon:        "cpu",
		Color:       "#0EA5E9",
		Description: "Large Language Model processor",
		Inputs:      []string{"prompt"},
		Outputs:     []string{"completion"},
	},
	{
		Type:        NodeDataSource,
		Label:       "Data Source",
		Icon:        "database",
		Color:       "#10B981",
		Description: "External data source connector",
		Inputs:      []string{},
		Outputs:     []string{"data"},
	},
	{
		Type:        NodeTransform,
		Label:       "Transform",
		Icon:        "filter",
		Color:       "#F59E0B",
		Description: "Data transformation processor",
		Inputs:      []string{"input"},
		Outputs:     []string{"output"},
	},
	{
		Type:        NodeManualStep,
		Label:       "Manual Step",
		Icon:        "user",
		Color:       "#EC4899",
		Description: "Human-in-the-loop approval step",
		Inputs:      []string{"input"},
		Outputs:     []string{"output"},
	},
	{
		Type:        NodeFileUpload,
		Label:       "File Upload",
		Icon:        "file-upload",
		Color:       "#8B5CF6",
		Description: "File upload and processing",
		Inputs:      []string{},
		Outputs:     []string{"files"},
	},
}

// NodeTypes returns the palette of available node types.
func NodeTypes() []NodeTypeInfo {
	out := make([]NodeTypeInfo, len(nodeTypes))
	copy(out, nodeTypes)
	return out
}

// TypeInfo looks up the palette entry for a node type.
func TypeInfo(t NodeType) (NodeTypeInfo, bool) {
	for _, info := range nodeTypes {
		if info.Type == t {
			return info, true
		}
	}
	return NodeTypeInfo{}, false
}
