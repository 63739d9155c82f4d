// Package calllogs models the CallLog row the Event Reconciler and the
// Inbound Call Router append to, and the optional recording-reference
// enrichment backed by the AWS S3 SDK.
package calllogs

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Status is a CallLog's lifecycle: ringing → completed|failed. Outbound rows
// are written already terminal; in_progress is a valid value that no code
// path in this service sets.
type Status string

const (
	StatusRinging    Status = "ringing"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// CallLog records one telephony-fabric call, inbound or outbound.
type CallLog struct {
	bun.BaseModel `bun:"table:call_logs,alias:cl"`

	ID          string          `bun:"id,pk,type:text,default:gen_random_uuid()::text" json:"id"`
	CampaignID  string          `bun:"campaign_id,notnull" json:"campaignId"`
	LeadID      *string         `bun:"lead_id" json:"leadId,omitempty"`
	PhoneNumber string          `bun:"phone_number,notnull" json:"phoneNumber"`
	Status      Status          `bun:"status,notnull,default:'ringing'" json:"status"`
	CallSID     *string         `bun:"call_sid" json:"callSid,omitempty"`
	RoomName    *string         `bun:"room_name" json:"roomName,omitempty"`
	DispatchID  *string         `bun:"dispatch_id" json:"dispatchId,omitempty"`
	Duration    *int            `bun:"duration" json:"duration,omitempty"`
	Error       *string         `bun:"error" json:"error,omitempty"`
	Metadata    json.RawMessage `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	EndedAt     *time.Time      `bun:"ended_at" json:"endedAt,omitempty"`
}
