package campaigns

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/outboundhq/dialer/pkg/apperror"
)

// Repository handles database operations for campaigns.
type Repository struct {
	db bun.IDB
}

// NewRepository creates a new campaigns repository.
func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// FindByID returns a campaign scoped to a tenant, or nil if not found.
func (r *Repository) FindByID(ctx context.Context, tenantID, id string) (*Campaign, error) {
	c := new(Campaign)
	err := r.db.NewSelect().Model(c).
		Where("id = ?", id).
		Where("tenant_id = ?", tenantID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// List returns a tenant's campaigns, newest first.
func (r *Repository) List(ctx context.Context, tenantID string) ([]*Campaign, error) {
	var list []*Campaign
	err := r.db.NewSelect().Model(&list).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Scan(ctx)
	return list, err
}

// Create inserts a new campaign in draft status.
func (r *Repository) Create(ctx context.Context, c *Campaign) error {
	c.Status = StatusDraft
	_, err := r.db.NewInsert().Model(c).Returning("*").Exec(ctx)
	return err
}

// Update persists changes to a campaign, refusing while it is active.
func (r *Repository) Update(ctx context.Context, c *Campaign) error {
	if c.Status == StatusActive {
		return apperror.NewPrecondition("cannot update a campaign while it is active")
	}
	c.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().Model(c).WherePK().Returning("*").Exec(ctx)
	return err
}

// Delete removes a campaign, refusing while it is active.
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	c, err := r.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperror.NewNotFound("campaign", id)
	}
	if c.Status == StatusActive {
		return apperror.NewPrecondition("cannot delete a campaign while it is active")
	}
	_, err = r.db.NewDelete().Model((*Campaign)(nil)).
		Where("id = ?", id).
		Where("tenant_id = ?", tenantID).
		Exec(ctx)
	return err
}

// SetStatus transitions a campaign's status, stamping startedAt/completedAt
// as appropriate. Used by the Supervisor/Reconciler, which bypass the
// mutability check that guards direct API updates.
func (r *Repository) SetStatus(ctx context.Context, id string, status Status) error {
	q := r.db.NewUpdate().Model((*Campaign)(nil)).
		Set("status = ?", status).
		Set("updated_at = current_timestamp").
		Where("id = ?", id)
	switch status {
	case StatusActive:
		q = q.Set("started_at = coalesce(started_at, current_timestamp)")
	case StatusCompleted, StatusStopped, StatusFailed:
		q = q.Set("completed_at = current_timestamp")
	}
	_, err := q.Exec(ctx)
	return err
}

// Complete records the Runtime's final aggregates and marks the campaign
// completed.
func (r *Repository) Complete(ctx context.Context, id string, total, successful, failed int) error {
	_, err := r.db.NewUpdate().Model((*Campaign)(nil)).
		Set("status = ?", StatusCompleted).
		Set("completed_at = current_timestamp").
		Set("updated_at = current_timestamp").
		Set("total_calls = ?", total).
		Set("successful_calls = ?", successful).
		Set("failed_calls = ?", failed).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// IncrementAggregates bumps the running call counters, called by the
// Reconciler as each call_completed/call_failed event is processed so
// `GET .../stats` reflects live progress even before campaign_completed.
func (r *Repository) IncrementAggregates(ctx context.Context, id string, total, successful, failed int) error {
	_, err := r.db.NewUpdate().Model((*Campaign)(nil)).
		Set("total_calls = total_calls + ?", total).
		Set("successful_calls = successful_calls + ?", successful).
		Set("failed_calls = failed_calls + ?", failed).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// FindByIDUnscoped looks up a campaign by id without a tenant predicate.
// Reserved for internal callers that already know the id came from a
// tenant-scoped Runtime (the Reconciler's completion-notification path)
// and only need the row to read Name/
// TenantID back out — never exposed through the HTTP API, which always
// goes through FindByID's tenant scoping.
func (r *Repository) FindByIDUnscoped(ctx context.Context, id string) (*Campaign, error) {
	c := new(Campaign)
	err := r.db.NewSelect().Model(c).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
