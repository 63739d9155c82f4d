package agents

// CreateAgentRequest is the body of POST /tenants/{tid}/agents.
type CreateAgentRequest struct {
	Name               string  `json:"name"`
	MaxConcurrentCalls int     `json:"maxConcurrentCalls"`
	LiveKitAgentName   *string `json:"livekitAgentName,omitempty"`
}

// UpdateAgentRequest is the body of PATCH /tenants/{tid}/agents/{id}.
type UpdateAgentRequest struct {
	Name               *string `json:"name,omitempty"`
	IsActive           *bool   `json:"isActive,omitempty"`
	MaxConcurrentCalls *int    `json:"maxConcurrentCalls,omitempty"`
	LiveKitAgentName   *string `json:"livekitAgentName,omitempty"`
}

// AssignAgentRequest is the body of POST /tenants/{tid}/campaigns/{cid}/agents.
type AssignAgentRequest struct {
	AgentID   string `json:"agentId"`
	IsPrimary bool   `json:"isPrimary"`
}
