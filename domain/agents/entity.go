// Package agents models the conversational workers the telephony fabric
// dispatches by name, and their many-to-many assignment to campaigns.
package agents

import (
	"time"

	"github.com/uptrace/bun"
)

// Agent is a conversational worker referenced by a stable name the
// telephony fabric recognizes.
type Agent struct {
	bun.BaseModel `bun:"table:agents,alias:ag"`

	ID                 string    `bun:"id,pk,type:text,default:gen_random_uuid()::text" json:"id"`
	Name               string    `bun:"name,notnull" json:"name"`
	IsActive           bool      `bun:"is_active,notnull,default:true" json:"isActive"`
	MaxConcurrentCalls int       `bun:"max_concurrent_calls,notnull,default:1" json:"maxConcurrentCalls"`
	LiveKitAgentName   *string   `bun:"livekit_agent_name" json:"livekitAgentName,omitempty"`
	CreatedAt          time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt          time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// DispatchName returns the name the telephony fabric should dispatch by:
// the LiveKit-specific override if set, otherwise the agent's own name.
func (a *Agent) DispatchName() string {
	if a.LiveKitAgentName != nil && *a.LiveKitAgentName != "" {
		return *a.LiveKitAgentName
	}
	return a.Name
}

// CampaignAgent is the many-to-many assignment of an Agent to a Campaign.
// At most one row per campaign is expected to carry IsPrimary, but the
// selector tolerates zero or multiple.
type CampaignAgent struct {
	bun.BaseModel `bun:"table:campaign_agents,alias:ca"`

	CampaignID string    `bun:"campaign_id,pk" json:"campaignId"`
	AgentID    string    `bun:"agent_id,pk" json:"agentId"`
	IsPrimary  bool      `bun:"is_primary,notnull,default:false" json:"isPrimary"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`

	Agent *Agent `bun:"rel:belongs-to,join:agent_id=id" json:"agent,omitempty"`
}

// Assignment is the read model the Agent Selector consumes: an active
// agent joined through its campaign assignment, pre-ordered
// `isPrimary desc, createdAt asc`.
type Assignment struct {
	AgentID            string
	Name               string
	DispatchName       string
	IsPrimary          bool
	MaxConcurrentCalls int
	CreatedAt          time.Time
}
