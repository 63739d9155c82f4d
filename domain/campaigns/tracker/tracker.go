// Package tracker implements the process-local Agent Registry & Load
// Tracker: an in-memory `agentId → activeCalls` map plus a per-campaign
// round-robin cursor, shared across every Runtime and the Inbound Call
// Router. It is never durable: after a restart its counters start empty
// and nothing recomputes or reloads them (the scheduled orphaned-lead
// recovery sweep only marks leads failed).
package tracker

import (
	"sync"

	"github.com/outboundhq/dialer/pkg/metrics"
)

// Tracker holds per-agent in-flight call counts and per-campaign
// round-robin cursors. A single instance is shared process-wide across
// every Runtime and the Inbound Router; reads and writes must be
// concurrency-safe.
type Tracker struct {
	mu      sync.Mutex
	active  map[string]int
	cursors map[string]int
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		active:  make(map[string]int),
		cursors: make(map[string]int),
	}
}

// Increment bumps an agent's in-flight call count. Called before the
// adapter call; because the caller's capacity check happens before this
// increment, two concurrent selections may briefly over-commit an agent
// by one.
func (t *Tracker) Increment(agentID string) {
	if agentID == "" {
		return
	}
	t.mu.Lock()
	t.active[agentID]++
	count := t.active[agentID]
	t.mu.Unlock()
	metrics.AgentActiveCalls.WithLabelValues(agentID).Set(float64(count))
}

// Decrement reduces an agent's in-flight count, clamped at zero. Must be
// called on every terminal call outcome, including retries that re-enqueue
// a lead.
func (t *Tracker) Decrement(agentID string) {
	if agentID == "" {
		return
	}
	t.mu.Lock()
	if t.active[agentID] > 0 {
		t.active[agentID]--
	}
	count := t.active[agentID]
	t.mu.Unlock()
	metrics.AgentActiveCalls.WithLabelValues(agentID).Set(float64(count))
}

// ActiveCalls returns an agent's current in-flight count.
func (t *Tracker) ActiveCalls(agentID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active[agentID]
}

// NextCursor returns the current round-robin cursor for a campaign and
// advances it, wrapping at n.
func (t *Tracker) NextCursor(campaignID string, n int) int {
	if n <= 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.cursors[campaignID] % n
	t.cursors[campaignID] = (t.cursors[campaignID] + 1) % n
	return cur
}

// Snapshot returns a copy of every agent's current active-call count, for
// test fixtures and the Prometheus gauge exporter.
func (t *Tracker) Snapshot() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int, len(t.active))
	for k, v := range t.active {
		out[k] = v
	}
	return out
}

// Reset clears all counters and cursors, for test fixtures.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = make(map[string]int)
	t.cursors = make(map[string]int)
}
