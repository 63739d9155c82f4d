package agents

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Repository handles database operations for agents and campaign
// assignments.
type Repository struct {
	db bun.IDB
}

// NewRepository creates a new agents repository.
func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// FindByID returns an agent by id, or nil if not found.
func (r *Repository) FindByID(ctx context.Context, id string) (*Agent, error) {
	agent := new(Agent)
	err := r.db.NewSelect().Model(agent).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

// List returns all agents.
func (r *Repository) List(ctx context.Context) ([]*Agent, error) {
	var list []*Agent
	err := r.db.NewSelect().Model(&list).Order("created_at ASC").Scan(ctx)
	return list, err
}

// OldestActive returns the longest-lived active agent, used by the
// selector's fallback path and the inbound router's unassigned-number
// resolution.
func (r *Repository) OldestActive(ctx context.Context) (*Agent, error) {
	agent := new(Agent)
	err := r.db.NewSelect().
		Model(agent).
		Where("is_active = true").
		Order("created_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

// Create inserts a new agent.
func (r *Repository) Create(ctx context.Context, a *Agent) error {
	_, err := r.db.NewInsert().Model(a).Returning("*").Exec(ctx)
	return err
}

// Update persists changes to an agent.
func (r *Repository) Update(ctx context.Context, a *Agent) error {
	a.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().Model(a).WherePK().Returning("*").Exec(ctx)
	return err
}

// Delete removes an agent.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().Model((*Agent)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

// AssignToCampaign creates or updates a CampaignAgent row.
func (r *Repository) AssignToCampaign(ctx context.Context, campaignID, agentID string, isPrimary bool) error {
	ca := &CampaignAgent{CampaignID: campaignID, AgentID: agentID, IsPrimary: isPrimary}
	_, err := r.db.NewInsert().
		Model(ca).
		On("CONFLICT (campaign_id, agent_id) DO UPDATE").
		Set("is_primary = EXCLUDED.is_primary").
		Exec(ctx)
	return err
}

// Unassign removes a CampaignAgent row.
func (r *Repository) Unassign(ctx context.Context, campaignID, agentID string) error {
	_, err := r.db.NewDelete().
		Model((*CampaignAgent)(nil)).
		Where("campaign_id = ?", campaignID).
		Where("agent_id = ?", agentID).
		Exec(ctx)
	return err
}

// Assignments returns the active campaign-agent assignments for a
// campaign, ordered `isPrimary desc, createdAt asc` exactly as the Agent
// Selector requires.
func (r *Repository) Assignments(ctx context.Context, campaignID string) ([]Assignment, error) {
	var rows []CampaignAgent
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Agent").
		Where("ca.campaign_id = ?", campaignID).
		Where("agent.is_active = true").
		OrderExpr("ca.is_primary DESC, ca.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Assignment, 0, len(rows))
	for _, row := range rows {
		if row.Agent == nil {
			continue
		}
		out = append(out, Assignment{
			AgentID:            row.Agent.ID,
			Name:               row.Agent.Name,
			DispatchName:       row.Agent.DispatchName(),
			IsPrimary:          row.IsPrimary,
			MaxConcurrentCalls: row.Agent.MaxConcurrentCalls,
			CreatedAt:          row.CreatedAt,
		})
	}
	return out, nil
}
