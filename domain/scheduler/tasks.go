package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/uptrace/bun"

	"github.com/outboundhq/dialer/pkg/logger"
)

// OrphanedLeadRecoveryTask implements boot/interval recovery: a Lead left
// in `calling` with no corresponding active Runtime (the process crashed
// mid-call, or the campaign was never resumed) is marked `failed` with
// reason `orphaned` rather than left stuck forever.
type OrphanedLeadRecoveryTask struct {
	db          bun.IDB
	log         *slog.Logger
	activeCheck func(campaignID string) bool
}

// NewOrphanedLeadRecoveryTask creates the task. activeCheck reports whether
// a campaign currently has a live Runtime in the Supervisor; leads on
// campaigns it reports active are left alone.
func NewOrphanedLeadRecoveryTask(db bun.IDB, log *slog.Logger, activeCheck func(campaignID string) bool) *OrphanedLeadRecoveryTask {
	return &OrphanedLeadRecoveryTask{
		db:          db,
		log:         log.With(logger.Scope("scheduler.orphaned_lead_recovery")),
		activeCheck: activeCheck,
	}
}

// Run marks orphaned leads failed: every `calling` lead whose campaign
// activeCheck does not report as active is set to failed with
// failureReason "orphaned". Leads are not filtered by age.
func (t *OrphanedLeadRecoveryTask) Run(ctx context.Context) error {
	start := time.Now()

	var campaignIDs []string
	err := t.db.NewRaw(`
		SELECT DISTINCT campaign_id FROM leads WHERE status = 'calling'
	`).Scan(ctx, &campaignIDs)
	if err != nil {
		t.log.Error("failed to list in-flight campaigns", logger.Error(err))
		return err
	}

	var orphaned []string
	for _, id := range campaignIDs {
		if t.activeCheck == nil || !t.activeCheck(id) {
			orphaned = append(orphaned, id)
		}
	}
	if len(orphaned) == 0 {
		t.log.Debug("no orphaned campaigns found", slog.Duration("duration", time.Since(start)))
		return nil
	}

	result, err := t.db.NewUpdate().
		Table("leads").
		Set("status = ?", "failed").
		Set("metadata = jsonb_set(coalesce(metadata, '{}'::jsonb), '{failureReason}', '\"orphaned\"')").
		Where("status = ?", "calling").
		Where("campaign_id IN (?)", bun.In(orphaned)).
		Exec(ctx)
	if err != nil {
		t.log.Error("failed to mark orphaned leads", logger.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	t.log.Info("recovered orphaned leads",
		slog.Int64("count", rows),
		slog.Int("campaigns", len(orphaned)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// StaleCallLogSweepTask marks call-log rows stuck in a non-terminal state
// past a threshold as failed, covering fabric webhooks lost to a crash or a
// dropped connection.
type StaleCallLogSweepTask struct {
	db           bun.IDB
	log          *slog.Logger
	staleMinutes int
	mu           sync.RWMutex
}

// NewStaleCallLogSweepTask creates a new stale call-log sweep task.
func NewStaleCallLogSweepTask(db bun.IDB, log *slog.Logger, staleMinutes int) *StaleCallLogSweepTask {
	if staleMinutes <= 0 {
		staleMinutes = 30
	}
	return &StaleCallLogSweepTask{
		db:           db,
		log:          log.With(logger.Scope("scheduler.stale_call_log_sweep")),
		staleMinutes: staleMinutes,
	}
}

// SetStaleMinutes updates the stale threshold at runtime.
func (t *StaleCallLogSweepTask) SetStaleMinutes(minutes int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.staleMinutes = minutes
}

// GetStaleMinutes returns the current stale threshold.
func (t *StaleCallLogSweepTask) GetStaleMinutes() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.staleMinutes
}

// Run marks stale ringing or in_progress call logs as failed.
func (t *StaleCallLogSweepTask) Run(ctx context.Context) error {
	start := time.Now()

	t.mu.RLock()
	staleMinutes := t.staleMinutes
	t.mu.RUnlock()

	cutoff := time.Now().Add(-time.Duration(staleMinutes) * time.Minute)

	result, err := t.db.NewUpdate().
		Table("call_logs").
		Set("status = ?", "failed").
		Set("ended_at = ?", time.Now()).
		Where("status IN (?)", bun.In([]string{"ringing", "in_progress"})).
		Where("created_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		t.log.Error("failed to sweep stale call logs", logger.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		t.log.Info("swept stale call logs", slog.Int64("count", rows), slog.Duration("duration", time.Since(start)))
	} else {
		t.log.Debug("no stale call logs found", slog.Duration("duration", time.Since(start)))
	}
	return nil
}
