package calllogs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Repository handles database operations for call logs.
type Repository struct {
	db bun.IDB
}

// NewRepository creates a new call logs repository.
func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new call log row.
func (r *Repository) Create(ctx context.Context, cl *CallLog) error {
	_, err := r.db.NewInsert().Model(cl).Returning("*").Exec(ctx)
	return err
}

// FindByCallSID locates a call log by its provider call id, used by the
// fabric's room.finished/room.closed webhook.
func (r *Repository) FindByCallSID(ctx context.Context, callSID string) (*CallLog, error) {
	cl := new(CallLog)
	err := r.db.NewSelect().Model(cl).Where("call_sid = ?", callSID).
		Order("created_at DESC").Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cl, nil
}

// FindByRoomName locates a call log by room name, the fallback key when a
// webhook arrives without a call sid.
func (r *Repository) FindByRoomName(ctx context.Context, roomName string) (*CallLog, error) {
	cl := new(CallLog)
	err := r.db.NewSelect().Model(cl).Where("room_name = ?", roomName).
		Order("created_at DESC").Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cl, nil
}

// MarkTerminal transitions a call log to a terminal status, recording
// duration and an optional error.
func (r *Repository) MarkTerminal(ctx context.Context, id string, status Status, durationSeconds *int, errMsg *string) error {
	q := r.db.NewUpdate().Model((*CallLog)(nil)).
		Set("status = ?", status).
		Set("ended_at = current_timestamp").
		Where("id = ?", id)
	if durationSeconds != nil {
		q = q.Set("duration = ?", *durationSeconds)
	}
	if errMsg != nil {
		q = q.Set("error = ?", *errMsg)
	}
	_, err := q.Exec(ctx)
	return err
}

// AppendMetadata merges additional keys into a call log's metadata JSONB
// column without clobbering existing fields — used to note a disconnect
// reason or a recording-available flag.
func (r *Repository) AppendMetadata(ctx context.Context, id string, patch map[string]any) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	_, err = r.db.NewUpdate().Model((*CallLog)(nil)).
		Set("metadata = coalesce(metadata, '{}'::jsonb) || ?::jsonb", string(raw)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// Stats aggregates call-log counts for a campaign, used by
// `GET .../stats`.
type Stats struct {
	Total     int `json:"total"`
	Ringing   int `json:"ringing"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// CampaignStats summarizes call-log outcomes for a campaign.
func (r *Repository) CampaignStats(ctx context.Context, campaignID string) (Stats, error) {
	var stats Stats
	err := r.db.NewSelect().
		Model((*CallLog)(nil)).
		ColumnExpr("count(*) AS total").
		ColumnExpr("count(*) FILTER (WHERE status = 'ringing') AS ringing").
		ColumnExpr("count(*) FILTER (WHERE status = 'completed') AS completed").
		ColumnExpr("count(*) FILTER (WHERE status = 'failed') AS failed").
		Where("campaign_id = ?", campaignID).
		Scan(ctx, &stats)
	return stats, err
}

// ListByCampaign returns recent call logs for a campaign, newest first.
func (r *Repository) ListByCampaign(ctx context.Context, campaignID string, limit int) ([]*CallLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var list []*CallLog
	err := r.db.NewSelect().Model(&list).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	return list, err
}

// StaleInProgress returns call logs still in_progress past the cutoff. The
// StaleCallLogSweepTask runs its own bulk update and does not call it.
func (r *Repository) StaleInProgress(ctx context.Context, cutoff time.Time) ([]*CallLog, error) {
	var list []*CallLog
	err := r.db.NewSelect().Model(&list).
		Where("status = ?", StatusInProgress).
		Where("created_at < ?", cutoff).
		Scan(ctx)
	return list, err
}
