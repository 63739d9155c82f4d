package phonenumbers

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Repository handles database operations for phone numbers.
type Repository struct {
	db bun.IDB
}

// NewRepository creates a new phone numbers repository.
func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// FindByID returns a phone number scoped to a tenant, or nil if not found.
func (r *Repository) FindByID(ctx context.Context, tenantID, id string) (*PhoneNumber, error) {
	pn := new(PhoneNumber)
	err := r.db.NewSelect().Model(pn).
		Where("id = ?", id).
		Where("tenant_id = ?", tenantID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return pn, nil
}

// FindByNumber looks up a phone number by its E.164 value, tenant-agnostic.
// Used by the Inbound Call Router to resolve the campaign/agent a ringing
// DID belongs to.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*PhoneNumber, error) {
	pn := new(PhoneNumber)
	err := r.db.NewSelect().Model(pn).Where("number = ?", number).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return pn, nil
}

// List returns all phone numbers for a tenant.
func (r *Repository) List(ctx context.Context, tenantID string) ([]*PhoneNumber, error) {
	var list []*PhoneNumber
	err := r.db.NewSelect().Model(&list).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Scan(ctx)
	return list, err
}

// Create inserts a new phone number.
func (r *Repository) Create(ctx context.Context, pn *PhoneNumber) error {
	_, err := r.db.NewInsert().Model(pn).Returning("*").Exec(ctx)
	return err
}

// Update persists changes to a phone number.
func (r *Repository) Update(ctx context.Context, pn *PhoneNumber) error {
	pn.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().Model(pn).WherePK().Returning("*").Exec(ctx)
	return err
}

// Delete removes a phone number scoped to a tenant.
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.db.NewDelete().Model((*PhoneNumber)(nil)).
		Where("id = ?", id).
		Where("tenant_id = ?", tenantID).
		Exec(ctx)
	return err
}
