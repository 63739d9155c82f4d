package scheduler

import (
	"log/slog"
	"testing"
)

func TestStaleCallLogSweepTask_StaleMinutes(t *testing.T) {
	task := NewStaleCallLogSweepTask(nil, slog.Default(), 45)

	if got := task.GetStaleMinutes(); got != 45 {
		t.Errorf("GetStaleMinutes() = %d, want 45", got)
	}

	task.SetStaleMinutes(10)
	if got := task.GetStaleMinutes(); got != 10 {
		t.Errorf("GetStaleMinutes() after set = %d, want 10", got)
	}
}

func TestNewStaleCallLogSweepTask_DefaultsOnZero(t *testing.T) {
	task := NewStaleCallLogSweepTask(nil, slog.Default(), 0)
	if got := task.GetStaleMinutes(); got != 30 {
		t.Errorf("GetStaleMinutes() default = %d, want 30", got)
	}
}
