package tenants

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Repository handles database operations for tenants.
type Repository struct {
	db bun.IDB
}

// NewRepository creates a new tenants repository.
func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// FindByID returns a tenant by id, or nil if not found.
func (r *Repository) FindByID(ctx context.Context, id string) (*Tenant, error) {
	tenant := new(Tenant)
	err := r.db.NewSelect().Model(tenant).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tenant, nil
}

// FindByDomain returns a tenant by its unique domain.
func (r *Repository) FindByDomain(ctx context.Context, domain string) (*Tenant, error) {
	tenant := new(Tenant)
	err := r.db.NewSelect().Model(tenant).Where("domain = ?", domain).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tenant, nil
}

// List returns all tenants, newest first.
func (r *Repository) List(ctx context.Context) ([]*Tenant, error) {
	var list []*Tenant
	err := r.db.NewSelect().Model(&list).Order("created_at DESC").Scan(ctx)
	return list, err
}

// Create inserts a new tenant.
func (r *Repository) Create(ctx context.Context, t *Tenant) error {
	_, err := r.db.NewInsert().Model(t).Returning("*").Exec(ctx)
	return err
}

// Update persists changes to a tenant.
func (r *Repository) Update(ctx context.Context, t *Tenant) error {
	t.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().Model(t).WherePK().Returning("*").Exec(ctx)
	return err
}

// Exists reports whether a tenant id is present.
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	count, err := r.db.NewSelect().Model((*Tenant)(nil)).Where("id = ?", id).Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
