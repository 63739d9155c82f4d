package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
)

// Module provides scheduled task functionality.
var Module = fx.Module("scheduler",
	fx.Provide(
		NewConfig,
		NewScheduler,
	),
	fx.Invoke(
		RegisterTasks,
		RegisterSchedulerLifecycle,
	),
)

// SupervisorLookup reports whether a campaign currently has a live Runtime.
// Implemented by the campaign Process Supervisor; scheduler only depends on
// this narrow interface so it can be tested without the full runtime.
type SupervisorLookup interface {
	IsActive(campaignID string) bool
}

// TaskParams contains dependencies for creating scheduled tasks.
type TaskParams struct {
	fx.In
	Scheduler  *Scheduler
	DB         bun.IDB
	Log        *slog.Logger
	Cfg        *Config
	Supervisor SupervisorLookup
}

// RegisterTasks registers all scheduled tasks.
func RegisterTasks(p TaskParams) error {
	if !p.Cfg.Enabled {
		p.Log.Info("scheduler disabled, skipping task registration")
		return nil
	}

	orphanTask := NewOrphanedLeadRecoveryTask(p.DB, p.Log, p.Supervisor.IsActive)
	if err := addScheduledTask(p.Scheduler, p.Log, "orphaned_lead_recovery",
		p.Cfg.OrphanedLeadRecoverySchedule, p.Cfg.OrphanedLeadRecoveryInterval, orphanTask.Run); err != nil {
		p.Log.Error("failed to register orphaned lead recovery task", slog.String("error", err.Error()))
	}

	staleCallLogTask := NewStaleCallLogSweepTask(p.DB, p.Log, p.Cfg.StaleCallLogMinutes)
	if err := addScheduledTask(p.Scheduler, p.Log, "stale_call_log_sweep",
		p.Cfg.StaleCallLogSweepSchedule, p.Cfg.StaleCallLogSweepInterval, staleCallLogTask.Run); err != nil {
		p.Log.Error("failed to register stale call log sweep task", slog.String("error", err.Error()))
	}

	p.Log.Info("registered scheduled tasks", slog.Any("tasks", p.Scheduler.ListTasks()))

	return nil
}

// addScheduledTask registers a task using a cron schedule if provided,
// otherwise using an interval. The cron schedule takes precedence over the
// interval when both are specified. If the cron schedule is invalid, falls
// back to using the interval.
func addScheduledTask(s *Scheduler, log *slog.Logger, name, cronSchedule string, interval time.Duration, task TaskFunc) error {
	if cronSchedule != "" {
		log.Info("using cron schedule for task",
			slog.String("name", name),
			slog.String("schedule", cronSchedule))
		err := s.AddCronTask(name, cronSchedule, task)
		if err != nil {
			log.Warn("invalid cron schedule, falling back to interval",
				slog.String("name", name),
				slog.String("schedule", cronSchedule),
				slog.Duration("interval", interval),
				slog.String("error", err.Error()))
			return s.AddIntervalTask(name, interval, task)
		}
		return nil
	}
	return s.AddIntervalTask(name, interval, task)
}

// RegisterSchedulerLifecycle registers the scheduler with fx lifecycle.
func RegisterSchedulerLifecycle(lc fx.Lifecycle, scheduler *Scheduler, cfg *Config) {
	if !cfg.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
}
