// Package selector implements the Agent Selector: a pure function over
// (campaign assignments, load tracker, strategy) that returns the agent a
// call should be routed to, with capacity-aware fallback. It is modeled as
// a plain value with injected dependencies rather than a singleton
// service, and strategies are a sum type rather than subclasses.
package selector

import (
	"context"
	"math/rand"

	"github.com/outboundhq/dialer/domain/agents"
)

// Strategy is the policy used to pick one agent from a campaign's
// assigned set for an outgoing call.
type Strategy string

const (
	StrategyPrimaryFirst Strategy = "PRIMARY_FIRST"
	StrategyRoundRobin   Strategy = "ROUND_ROBIN"
	StrategyLeastLoaded  Strategy = "LEAST_LOADED"
	StrategyRandom       Strategy = "RANDOM"
)

// Agent is the outcome of a selection: enough to dispatch a call and to
// key the Load Tracker.
type Agent struct {
	ID           string
	Name         string
	DispatchName string
	IsFallback   bool
}

// systemFallbackID is the synthetic agent id used when no campaign
// assignment and no active Store agent exists at all.
const systemFallbackID = "system-default"

// AssignmentsReader is the read-only Store view the Selector needs: active
// CampaignAgent rows joined with their Agent, pre-ordered
// `isPrimary desc, createdAt asc`, plus the oldest-active-agent fallback
// query.
type AssignmentsReader interface {
	Assignments(ctx context.Context, campaignID string) ([]agents.Assignment, error)
	OldestActive(ctx context.Context) (*agents.Agent, error)
}

// LoadTracker is the narrow view of tracker.Tracker the Selector needs.
type LoadTracker interface {
	ActiveCalls(agentID string) int
	NextCursor(campaignID string, n int) int
}

// Selector chooses one agent per call.
type Selector struct {
	assignments      AssignmentsReader
	tracker          LoadTracker
	defaultAgentName string
}

// New builds a Selector. defaultAgentName names the synthetic fallback
// agent when the Store has no active agents at all.
func New(assignments AssignmentsReader, tracker LoadTracker, defaultAgentName string) *Selector {
	return &Selector{assignments: assignments, tracker: tracker, defaultAgentName: defaultAgentName}
}

// Select picks an agent for a call on the given campaign under the given
// strategy. It never returns an error for "no agent available" — the
// fallback chain always produces a result, down to the synthetic
// system-default record.
func (s *Selector) Select(ctx context.Context, campaignID string, strategy Strategy) (Agent, error) {
	list, err := s.assignments.Assignments(ctx, campaignID)
	if err != nil {
		return Agent{}, err
	}
	if len(list) == 0 {
		return s.fallback(ctx)
	}

	switch strategy {
	case StrategyRoundRobin:
		return s.roundRobin(ctx, campaignID, list)
	case StrategyLeastLoaded:
		return s.withFallback(ctx, s.leastLoaded(list))
	case StrategyRandom:
		return s.random(ctx, list)
	default:
		return s.withFallback(ctx, s.primaryFirst(list))
	}
}

// primaryFirst picks the highest-ordered agent under capacity, falling
// through the (already primary-first-ordered) list as each is found at
// capacity. An empty/all-at-capacity result resolves to Agent{} so callers
// combine it with fallback.
func (s *Selector) primaryFirst(list []agents.Assignment) Agent {
	for _, a := range list {
		if s.tracker.ActiveCalls(a.AgentID) < a.MaxConcurrentCalls {
			return toAgent(a)
		}
	}
	return Agent{}
}

func (s *Selector) roundRobin(ctx context.Context, campaignID string, list []agents.Assignment) (Agent, error) {
	idx := s.tracker.NextCursor(campaignID, len(list))
	chosen := list[idx]
	if s.tracker.ActiveCalls(chosen.AgentID) < chosen.MaxConcurrentCalls {
		return toAgent(chosen), nil
	}
	// Fall through to PRIMARY_FIRST on the remaining list; cursor has
	// already advanced. This can duplicate work across concurrent calls,
	// accepted as unfairness at expected scale.
	if a := s.primaryFirst(list); a.ID != "" {
		return a, nil
	}
	return s.fallback(ctx)
}

func (s *Selector) leastLoaded(list []agents.Assignment) Agent {
	best := -1
	bestLoad := 0
	for i, a := range list {
		if s.tracker.ActiveCalls(a.AgentID) >= a.MaxConcurrentCalls {
			continue
		}
		load := s.tracker.ActiveCalls(a.AgentID)
		if best == -1 || load < bestLoad {
			best = i
			bestLoad = load
		}
	}
	if best == -1 {
		return Agent{}
	}
	return toAgent(list[best])
}

func (s *Selector) random(ctx context.Context, list []agents.Assignment) (Agent, error) {
	chosen := list[rand.Intn(len(list))]
	if s.tracker.ActiveCalls(chosen.AgentID) < chosen.MaxConcurrentCalls {
		return toAgent(chosen), nil
	}
	if a := s.primaryFirst(list); a.ID != "" {
		return a, nil
	}
	return s.fallback(ctx)
}

// fallback returns the oldest active Store agent, or else a synthetic
// system-default record with unbounded capacity. It does not participate
// in load tracking except by incrementing a bucket keyed on its own id,
// same as any other agent id.
func (s *Selector) fallback(ctx context.Context) (Agent, error) {
	oldest, err := s.assignments.OldestActive(ctx)
	if err != nil {
		return Agent{}, err
	}
	if oldest != nil {
		return Agent{ID: oldest.ID, Name: oldest.Name, DispatchName: oldest.DispatchName(), IsFallback: true}, nil
	}

	name := s.defaultAgentName
	if name == "" {
		name = systemFallbackID
	}
	return Agent{ID: systemFallbackID, Name: name, DispatchName: name, IsFallback: true}, nil
}

// withFallback resolves an empty (all-at-capacity) strategy result through
// the fallback chain.
func (s *Selector) withFallback(ctx context.Context, a Agent) (Agent, error) {
	if a.ID != "" {
		return a, nil
	}
	return s.fallback(ctx)
}

func toAgent(a agents.Assignment) Agent {
	return Agent{ID: a.AgentID, Name: a.Name, DispatchName: a.DispatchName}
}
