// Package phonenumbers models the tenant's pool of DID numbers and their
// per-campaign trunk/caller-id assignment.
package phonenumbers

import (
	"time"

	"github.com/uptrace/bun"
)

// NumberType classifies a phone number for display/reporting purposes.
type NumberType string

const (
	NumberTypeLocal    NumberType = "LOCAL"
	NumberTypeMobile   NumberType = "MOBILE"
	NumberTypeTollFree NumberType = "TOLL_FREE"
)

// PhoneNumber is a DID owned by a tenant, optionally bound to a campaign
// for outbound caller id or inbound routing.
type PhoneNumber struct {
	bun.BaseModel `bun:"table:phone_numbers,alias:pn"`

	ID             string     `bun:"id,pk,type:text,default:gen_random_uuid()::text" json:"id"`
	TenantID       string     `bun:"tenant_id,notnull" json:"tenantId"`
	Number         string     `bun:"number,notnull" json:"number"`
	ProviderSID    *string    `bun:"provider_sid" json:"providerSid,omitempty"`
	Type           NumberType `bun:"type,notnull,default:'LOCAL'" json:"type"`
	Provider       *string    `bun:"provider" json:"provider,omitempty"`
	CampaignID     *string    `bun:"campaign_id" json:"campaignId,omitempty"`
	LiveKitTrunkID *string    `bun:"livekit_trunk_id" json:"livekitTrunkId,omitempty"`
	IsActive       bool       `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
