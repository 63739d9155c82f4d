package runtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outboundhq/dialer/domain/campaigns/selector"
	"github.com/outboundhq/dialer/pkg/telephony"
	"github.com/outboundhq/dialer/pkg/telephony/telephonytest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSelector struct {
	agent selector.Agent
	err   error
}

func (f *fakeSelector) Select(_ context.Context, _ string, _ selector.Strategy) (selector.Agent, error) {
	return f.agent, f.err
}

type fakeTracker struct{}

func (fakeTracker) Increment(string) {}
func (fakeTracker) Decrement(string) {}

func newTestRuntime(t *testing.T, cfg Config, adapter telephony.Adapter) (*Runtime, chan Event) {
	t.Helper()
	if cfg.CampaignID == "" {
		cfg.CampaignID = "camp-1"
	}
	if cfg.MaxConcurrentCalls == 0 {
		cfg.MaxConcurrentCalls = 2
	}
	if cfg.SipTrunkID == "" {
		cfg.SipTrunkID = "trunk-1"
	}
	events := make(chan Event, 64)
	rt := New(cfg, &fakeSelector{agent: selector.Agent{ID: "agent-1", DispatchName: "agent-1"}}, fakeTracker{}, adapter, events, testLogger())
	return rt, events
}

func drainEvents(t *testing.T, events chan Event, timeout time.Duration) []Event {
	t.Helper()
	var out []Event
	deadline := time.After(timeout)
	for {
		select {
		case e := <-events:
			out = append(out, e)
			for _, terminal := range []EventType{EventCampaignCompleted, EventCampaignStopped} {
				if e.Type == terminal {
					return out
				}
			}
		case <-deadline:
			return out
		}
	}
}

func TestRuntime_StartFailsWithoutPendingLeads(t *testing.T) {
	rt, _ := newTestRuntime(t, Config{}, telephonytest.New())
	err := rt.Start(context.Background())
	require.Error(t, err)
}

func TestRuntime_StartFailsWithoutSipTrunk(t *testing.T) {
	rt, _ := newTestRuntime(t, Config{}, telephonytest.New())
	rt.cfg.SipTrunkID = ""
	rt.AddLeads([]Lead{{ID: "l1", PhoneNumber: "+15550001111"}})
	err := rt.Start(context.Background())
	require.Error(t, err)
}

func TestRuntime_DrainsAllLeadsSuccessfully(t *testing.T) {
	rt, events := newTestRuntime(t, Config{MaxConcurrentCalls: 2}, telephonytest.New())
	rt.AddLeads([]Lead{
		{ID: "l1", PhoneNumber: "+15550001111"},
		{ID: "l2", PhoneNumber: "+15550002222"},
		{ID: "l3", PhoneNumber: "+15550003333"},
	})
	require.NoError(t, rt.Start(context.Background()))

	got := drainEvents(t, events, 3*time.Second)
	require.NotEmpty(t, got)
	last := got[len(got)-1]
	require.Equal(t, EventCampaignCompleted, last.Type)
	require.NotNil(t, last.Stats)
	assert.Equal(t, 3, last.Stats.Total)
	assert.Equal(t, 3, last.Stats.Successful)
	assert.Equal(t, 0, last.Stats.Failed)

	<-rt.Done()
}

func TestRuntime_RetriesFailedCallsUntilBudgetExhausted(t *testing.T) {
	fake := telephonytest.New()
	fake.DialFunc = func(_ telephony.DialRequest) error {
		return errors.New("dial failed")
	}
	rt, events := newTestRuntime(t, Config{MaxConcurrentCalls: 1, RetryFailed: true, RetryAttempts: 2}, fake)
	rt.AddLeads([]Lead{{ID: "l1", PhoneNumber: "+15550001111"}})
	require.NoError(t, rt.Start(context.Background()))

	got := drainEvents(t, events, 3*time.Second)
	failedCount := 0
	for _, e := range got {
		if e.Type == EventCallFailed {
			failedCount++
		}
	}
	assert.Equal(t, 3, failedCount) // retryAttempts+1 failures before the lead is marked terminal

	last := got[len(got)-1]
	require.Equal(t, EventCampaignCompleted, last.Type)
	assert.Equal(t, 1, last.Stats.Failed)
}

func TestRuntime_StopHaltsNewDispatch(t *testing.T) {
	rt, events := newTestRuntime(t, Config{MaxConcurrentCalls: 1}, telephonytest.New())
	rt.AddLeads([]Lead{
		{ID: "l1", PhoneNumber: "+15550001111"},
		{ID: "l2", PhoneNumber: "+15550002222"},
	})
	require.NoError(t, rt.Start(context.Background()))
	rt.Stop()

	got := drainEvents(t, events, 3*time.Second)
	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, EventCampaignStopped, last.Type)
}

func TestRuntime_PauseStopsDispatchResumeContinues(t *testing.T) {
	rt, events := newTestRuntime(t, Config{MaxConcurrentCalls: 1}, telephonytest.New())
	rt.AddLeads([]Lead{{ID: "l1", PhoneNumber: "+15550001111"}})
	require.NoError(t, rt.Start(context.Background()))
	rt.Pause()
	rt.Resume()

	got := drainEvents(t, events, 3*time.Second)
	var sawPause, sawResume, sawComplete bool
	for _, e := range got {
		switch e.Type {
		case EventCampaignPaused:
			sawPause = true
		case EventCampaignResumed:
			sawResume = true
		case EventCampaignCompleted:
			sawComplete = true
		}
	}
	assert.True(t, sawPause)
	assert.True(t, sawResume)
	assert.True(t, sawComplete)
}
