// Package tenants holds the tenant root entity that every core read in this
// system scopes against.
package tenants

import (
	"time"

	"github.com/uptrace/bun"
)

// Tenant is the root of access scoping.
type Tenant struct {
	bun.BaseModel `bun:"table:tenants,alias:t"`

	ID        string    `bun:"id,pk,type:text,default:gen_random_uuid()::text" json:"id"`
	Domain    string    `bun:"domain,notnull,unique" json:"domain"`
	IsActive  bool      `bun:"is_active,notnull,default:true" json:"isActive"`
	// NotificationEmail, when set, receives campaign-completion and
	// campaign-failed notifications (domain/notifications).
	NotificationEmail *string   `bun:"notification_email" json:"notificationEmail,omitempty"`
	CreatedAt         time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
