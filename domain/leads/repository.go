package leads

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/outboundhq/dialer/pkg/apperror"
)

// Repository handles database operations for leads.
type Repository struct {
	db bun.IDB
}

// NewRepository creates a new leads repository.
func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// FindByID returns a lead scoped to a tenant, or nil if not found.
func (r *Repository) FindByID(ctx context.Context, tenantID, id string) (*Lead, error) {
	lead := new(Lead)
	err := r.db.NewSelect().Model(lead).
		Where("id = ?", id).
		Where("tenant_id = ?", tenantID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return lead, nil
}

// List returns a campaign's leads, optionally filtered by status.
func (r *Repository) List(ctx context.Context, campaignID string, status Status) ([]*Lead, error) {
	q := r.db.NewSelect().Model((*Lead)(nil)).Where("campaign_id = ?", campaignID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []*Lead
	err := q.Order("priority ASC", "created_at ASC").Scan(ctx, &list)
	return list, err
}

// Pending returns a campaign's pending leads ordered exactly as the
// Runtime's drain algorithm requires: priority ascending, then FIFO by
// creation order.
func (r *Repository) Pending(ctx context.Context, campaignID string) ([]*Lead, error) {
	var list []*Lead
	err := r.db.NewSelect().Model(&list).
		Where("campaign_id = ?", campaignID).
		Where("status = ?", StatusPending).
		Order("priority ASC", "created_at ASC").
		Scan(ctx)
	return list, err
}

// Stats aggregates lead counts by status for a campaign.
func (r *Repository) Stats(ctx context.Context, campaignID string) (Stats, error) {
	var stats Stats
	err := r.db.NewSelect().
		Model((*Lead)(nil)).
		ColumnExpr("count(*) AS total").
		ColumnExpr("count(*) FILTER (WHERE status = 'pending') AS pending").
		ColumnExpr("count(*) FILTER (WHERE status = 'calling') AS calling").
		ColumnExpr("count(*) FILTER (WHERE status = 'completed') AS completed").
		ColumnExpr("count(*) FILTER (WHERE status = 'failed') AS failed").
		Where("campaign_id = ?", campaignID).
		Scan(ctx, &stats)
	return stats, err
}

// BulkCreate inserts leads for a campaign, skipping any row whose
// `(tenantId, campaignId, phoneNumber)` already exists — duplicates are
// skipped silently, the count returned reflects only actually-created
// rows.
func (r *Repository) BulkCreate(ctx context.Context, tenantID, campaignID string, inputs []BulkLeadInput) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}

	rows := make([]*Lead, 0, len(inputs))
	for _, in := range inputs {
		lead := &Lead{
			TenantID:    tenantID,
			CampaignID:  campaignID,
			PhoneNumber: in.PhoneNumber,
			Priority:    in.Priority,
			Status:      StatusPending,
			Metadata:    in.Metadata,
		}
		if in.Name != "" {
			name := in.Name
			lead.Name = &name
		}
		rows = append(rows, lead)
	}

	res, err := r.db.NewInsert().
		Model(&rows).
		On("CONFLICT (tenant_id, campaign_id, phone_number) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// UpsertInbound creates or refreshes a lead keyed by (campaignId,
// fromNumber) for an inbound call, returning the lead.
func (r *Repository) UpsertInbound(ctx context.Context, tenantID, campaignID, fromNumber string) (*Lead, error) {
	lead := &Lead{
		TenantID:    tenantID,
		CampaignID:  campaignID,
		PhoneNumber: fromNumber,
		Status:      StatusPending,
	}
	_, err := r.db.NewInsert().
		Model(lead).
		On("CONFLICT (tenant_id, campaign_id, phone_number) DO UPDATE").
		Set("updated_at = current_timestamp").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// UpdateStatus transitions a lead's status, optionally bumping attempts
// and/or assigning the chosen agent, and is used by the Event Reconciler.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status, agentID *string) error {
	q := r.db.NewUpdate().Model((*Lead)(nil)).
		Set("status = ?", status).
		Set("updated_at = current_timestamp").
		Where("id = ?", id)
	if status == StatusCalling || status == StatusCompleted {
		q = q.Set("last_call_at = current_timestamp")
	}
	if agentID != nil {
		q = q.Set("agent_id = ?", *agentID)
	}
	_, err := q.Exec(ctx)
	return err
}

// IncrementAttempts bumps a lead's attempts counter, used when the
// Runtime re-dispatches a lead.
func (r *Repository) IncrementAttempts(ctx context.Context, id string) error {
	_, err := r.db.NewUpdate().Model((*Lead)(nil)).
		Set("attempts = attempts + 1").
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// MarkOrphaned marks a lead stuck in `calling` as failed. It records no
// failure reason. The scheduled OrphanedLeadRecoveryTask runs its own bulk
// update and does not call it.
func (r *Repository) MarkOrphaned(ctx context.Context, id string) error {
	_, err := r.db.NewUpdate().Model((*Lead)(nil)).
		Set("status = ?", StatusFailed).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// Delete removes a lead, refusing while it is currently calling.
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	lead, err := r.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if lead == nil {
		return apperror.NewNotFound("lead", id)
	}
	if lead.Status == StatusCalling {
		return apperror.NewPrecondition("cannot delete a lead that is currently calling")
	}
	_, err = r.db.NewDelete().Model((*Lead)(nil)).
		Where("id = ?", id).
		Where("tenant_id = ?", tenantID).
		Exec(ctx)
	return err
}
