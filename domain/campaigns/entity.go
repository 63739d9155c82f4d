// Package campaigns models the Campaign aggregate and exposes the HTTP
// control surface — CRUD plus start/pause/resume/stop/stats — that drives
// the campaign Runtime held by the Supervisor.
package campaigns

import (
	"time"

	"github.com/uptrace/bun"
)

// Status is a Campaign's position in its state machine:
// draft → active → {paused ↔ active, stopped, completed}. stopped,
// completed and failed are terminal.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusStopped   Status = "stopped"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether a campaign in this status can never
// transition again.
func (s Status) IsTerminal() bool {
	return s == StatusStopped || s == StatusCompleted || s == StatusFailed
}

// Campaign is a batch of leads dispatched with shared concurrency and
// retry policy. A campaign may only be mutated while not `active`,
// except for the status/aggregate fields the Runtime and Reconciler
// write as it runs.
type Campaign struct {
	bun.BaseModel `bun:"table:campaigns,alias:cm"`

	ID              string    `bun:"id,pk,type:text,default:gen_random_uuid()::text" json:"id"`
	TenantID        string    `bun:"tenant_id,notnull" json:"tenantId"`
	Name            string    `bun:"name,notnull" json:"name"`
	Status          Status    `bun:"status,notnull,default:'draft'" json:"status"`
	Strategy        string    `bun:"strategy,notnull,default:'PRIMARY_FIRST'" json:"strategy"`
	MaxConcurrent   int       `bun:"max_concurrent,notnull,default:1" json:"maxConcurrent"`
	RetryFailed     bool      `bun:"retry_failed,notnull,default:false" json:"retryFailed"`
	RetryAttempts   int       `bun:"retry_attempts,notnull,default:0" json:"retryAttempts"`
	CallDelayMs     int       `bun:"call_delay_ms,notnull,default:0" json:"callDelayMs"`
	SipTrunkID      *string   `bun:"sip_trunk_id" json:"sipTrunkId,omitempty"`
	CallerIDNumber  *string   `bun:"caller_id_number" json:"callerIdNumber,omitempty"`
	AgentName       *string   `bun:"agent_name" json:"agentName,omitempty"`
	StartedAt       *time.Time `bun:"started_at" json:"startedAt,omitempty"`
	CompletedAt     *time.Time `bun:"completed_at" json:"completedAt,omitempty"`
	TotalCalls      int       `bun:"total_calls,notnull,default:0" json:"totalCalls"`
	SuccessfulCalls int       `bun:"successful_calls,notnull,default:0" json:"successfulCalls"`
	FailedCalls     int       `bun:"failed_calls,notnull,default:0" json:"failedCalls"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Mutable reports whether the campaign may currently accept structural
// edits (name, concurrency, retry policy, trunk) — only while not active.
func (c *Campaign) Mutable() bool {
	return c.Status != StatusActive
}
