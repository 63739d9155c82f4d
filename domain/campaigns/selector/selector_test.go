package selector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outboundhq/dialer/domain/agents"
)

type fakeReader struct {
	assignments map[string][]agents.Assignment
	oldest      *agents.Agent
}

func (f *fakeReader) Assignments(_ context.Context, campaignID string) ([]agents.Assignment, error) {
	return f.assignments[campaignID], nil
}

func (f *fakeReader) OldestActive(_ context.Context) (*agents.Agent, error) {
	return f.oldest, nil
}

type fakeTracker struct {
	active  map[string]int
	cursors map[string]int
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{active: map[string]int{}, cursors: map[string]int{}}
}

func (f *fakeTracker) ActiveCalls(agentID string) int { return f.active[agentID] }

func (f *fakeTracker) NextCursor(campaignID string, n int) int {
	if n <= 0 {
		return 0
	}
	cur := f.cursors[campaignID] % n
	f.cursors[campaignID]++
	return cur
}

func assignment(id string, primary bool, max int) agents.Assignment {
	return agents.Assignment{
		AgentID:            id,
		Name:               id,
		DispatchName:       id,
		IsPrimary:          primary,
		MaxConcurrentCalls: max,
		CreatedAt:          time.Now(),
	}
}

func TestSelector_PrimaryFirst_FallsThroughAtCapacity(t *testing.T) {
	reader := &fakeReader{assignments: map[string][]agents.Assignment{
		"c1": {assignment("a1", true, 1), assignment("a2", false, 5)},
	}}
	tracker := newFakeTracker()
	tracker.active["a1"] = 1 // at capacity

	sel := New(reader, tracker, "system-default-agent")
	chosen, err := sel.Select(context.Background(), "c1", StrategyPrimaryFirst)
	require.NoError(t, err)
	assert.Equal(t, "a2", chosen.ID)
}

func TestSelector_PrimaryFirst_AllAtCapacity_FallsBackToOldestActive(t *testing.T) {
	oldest := &agents.Agent{ID: "fallback-agent", Name: "fallback"}
	reader := &fakeReader{
		assignments: map[string][]agents.Assignment{"c1": {assignment("a1", true, 1)}},
		oldest:      oldest,
	}
	tracker := newFakeTracker()
	tracker.active["a1"] = 1

	sel := New(reader, tracker, "system-default-agent")
	chosen, err := sel.Select(context.Background(), "c1", StrategyPrimaryFirst)
	require.NoError(t, err)
	assert.Equal(t, "fallback-agent", chosen.ID)
	assert.True(t, chosen.IsFallback)
}

func TestSelector_NoAssignments_NoOldestActive_UsesSyntheticDefault(t *testing.T) {
	reader := &fakeReader{assignments: map[string][]agents.Assignment{}}
	tracker := newFakeTracker()

	sel := New(reader, tracker, "system-default-agent")
	chosen, err := sel.Select(context.Background(), "empty-campaign", StrategyPrimaryFirst)
	require.NoError(t, err)
	assert.Equal(t, systemFallbackID, chosen.ID)
	assert.Equal(t, "system-default-agent", chosen.Name)
}

func TestSelector_RoundRobin_AdvancesCursor(t *testing.T) {
	reader := &fakeReader{assignments: map[string][]agents.Assignment{
		"c1": {assignment("a1", true, 5), assignment("a2", false, 5)},
	}}
	tracker := newFakeTracker()
	sel := New(reader, tracker, "")

	first, err := sel.Select(context.Background(), "c1", StrategyRoundRobin)
	require.NoError(t, err)
	second, err := sel.Select(context.Background(), "c1", StrategyRoundRobin)
	require.NoError(t, err)

	assert.Equal(t, "a1", first.ID)
	assert.Equal(t, "a2", second.ID)
}

func TestSelector_RoundRobin_AtCapacityFallsThroughToPrimaryFirst(t *testing.T) {
	reader := &fakeReader{assignments: map[string][]agents.Assignment{
		"c1": {assignment("a1", true, 1), assignment("a2", false, 5)},
	}}
	tracker := newFakeTracker()
	tracker.cursors["c1"] = 0 // cursor lands on a1 first
	tracker.active["a1"] = 1 // a1 at capacity

	sel := New(reader, tracker, "")
	chosen, err := sel.Select(context.Background(), "c1", StrategyRoundRobin)
	require.NoError(t, err)
	assert.Equal(t, "a2", chosen.ID)
}

func TestSelector_LeastLoaded_PicksMinimumLoad(t *testing.T) {
	reader := &fakeReader{assignments: map[string][]agents.Assignment{
		"c1": {assignment("a1", true, 5), assignment("a2", false, 5)},
	}}
	tracker := newFakeTracker()
	tracker.active["a1"] = 3
	tracker.active["a2"] = 1

	sel := New(reader, tracker, "")
	chosen, err := sel.Select(context.Background(), "c1", StrategyLeastLoaded)
	require.NoError(t, err)
	assert.Equal(t, "a2", chosen.ID)
}

func TestSelector_LeastLoaded_TieBreaksByOrder(t *testing.T) {
	reader := &fakeReader{assignments: map[string][]agents.Assignment{
		"c1": {assignment("a1", true, 5), assignment("a2", false, 5)},
	}}
	tracker := newFakeTracker()

	sel := New(reader, tracker, "")
	chosen, err := sel.Select(context.Background(), "c1", StrategyLeastLoaded)
	require.NoError(t, err)
	assert.Equal(t, "a1", chosen.ID)
}

func TestSelector_Random_WithinAssignedSet(t *testing.T) {
	reader := &fakeReader{assignments: map[string][]agents.Assignment{
		"c1": {assignment("a1", true, 5), assignment("a2", false, 5)},
	}}
	tracker := newFakeTracker()

	sel := New(reader, tracker, "")
	chosen, err := sel.Select(context.Background(), "c1", StrategyRandom)
	require.NoError(t, err)
	assert.Contains(t, []string{"a1", "a2"}, chosen.ID)
}
