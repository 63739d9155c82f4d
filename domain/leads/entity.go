// Package leads models the target phone numbers fed into a campaign's
// Runtime, their dispatch lifecycle, and bulk-ingest tooling.
package leads

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Status is a Lead's position in the dispatch lifecycle: pending →
// calling → completed|failed, or back to pending on a policy-permitted
// retry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCalling   Status = "calling"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Lead is a target phone number to be called within a campaign.
type Lead struct {
	bun.BaseModel `bun:"table:leads,alias:ld"`

	ID          string          `bun:"id,pk,type:text,default:gen_random_uuid()::text" json:"id"`
	TenantID    string          `bun:"tenant_id,notnull" json:"tenantId"`
	CampaignID  string          `bun:"campaign_id,notnull" json:"campaignId"`
	PhoneNumber string          `bun:"phone_number,notnull" json:"phoneNumber"`
	Name        *string         `bun:"name" json:"name,omitempty"`
	Priority    int             `bun:"priority,notnull,default:0" json:"priority"`
	Status      Status          `bun:"status,notnull,default:'pending'" json:"status"`
	Attempts    int             `bun:"attempts,notnull,default:0" json:"attempts"`
	AgentID     *string         `bun:"agent_id" json:"agentId,omitempty"`
	Metadata    json.RawMessage `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	LastCallAt  *time.Time      `bun:"last_call_at" json:"lastCallAt,omitempty"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Stats summarizes lead counts for a campaign, grouped by status, for
// `GET .../stats`.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Calling   int `json:"calling"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
