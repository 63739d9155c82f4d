// Package runtime implements the campaign dispatch runtime: a single
// cooperative, bounded-concurrency dispatch loop per active campaign. A
// Runtime owns an ephemeral, in-memory view of its leads (pending queue,
// in-flight set) — a derived structure, never the source of truth. It never
// touches the database directly; every state change it observes is
// published as an Event for the Event Reconciler to persist, which keeps
// this package free of any storage dependency.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/outboundhq/dialer/domain/campaigns/selector"
	"github.com/outboundhq/dialer/pkg/apperror"
	"github.com/outboundhq/dialer/pkg/metrics"
	"github.com/outboundhq/dialer/pkg/telephony"
)

// pollInterval is how often the drain loop re-checks state when it has
// nothing to dispatch (paused, or at capacity with no completions yet).
const pollInterval = 500 * time.Millisecond

// Lead is the Runtime's lightweight view of a lead: just enough to place a
// call and report back on it. The durable Lead row lives in domain/leads;
// the Supervisor is responsible for translating between the two, keeping
// the in-flight map an arena of lightweight records keyed by lead id
// rather than a shared mutable reference to the durable row.
type Lead struct {
	ID          string
	PhoneNumber string
	Name        string
	Priority    int
	Attempts    int
	Metadata    string // opaque JSON, passed through to the dispatched agent
}

// AgentSelector is the narrow view of selector.Selector the Runtime needs.
type AgentSelector interface {
	Select(ctx context.Context, campaignID string, strategy selector.Strategy) (selector.Agent, error)
}

// LoadTracker is the narrow view of tracker.Tracker the Runtime needs.
type LoadTracker interface {
	Increment(agentID string)
	Decrement(agentID string)
}

// Config parameterizes one campaign's Runtime.
type Config struct {
	CampaignID         string
	TenantID           string
	MaxConcurrentCalls int
	CallDelayMs        int
	RetryFailed        bool
	RetryAttempts      int
	Strategy           selector.Strategy
	SipTrunkID         string
	CallerIDNumber     string
	DefaultCountryCode string
}

type inFlightCall struct {
	lead    Lead
	agentID string
}

// Runtime drains one campaign's pending leads at bounded concurrency,
// selecting an agent and placing a call for each.
type Runtime struct {
	cfg      Config
	selector AgentSelector
	tracker  LoadTracker
	adapter  telephony.Adapter
	log      *slog.Logger

	events chan Event
	seq    atomic.Int64

	mu       sync.Mutex
	pending  []Lead
	inFlight map[string]*inFlightCall
	stats    Stats

	running       atomic.Bool
	paused        atomic.Bool
	stopRequested atomic.Bool

	wg     sync.WaitGroup
	doneCh chan struct{}
}

// New builds a Runtime. events is a buffered channel the caller (the
// Supervisor) owns and drains; the caller closes it once Done() is closed,
// after the drain loop has exited and every in-flight call goroutine has
// finished. The Runtime never closes it.
func New(cfg Config, sel AgentSelector, tracker LoadTracker, adapter telephony.Adapter, events chan Event, log *slog.Logger) *Runtime {
	return &Runtime{
		cfg:      cfg,
		selector: sel,
		tracker:  tracker,
		adapter:  adapter,
		events:   events,
		log:      log,
		inFlight: make(map[string]*inFlightCall),
		doneCh:   make(chan struct{}),
	}
}

// Done is closed once the Runtime's drain loop has exited and every
// in-flight call has finished reconciling — the Supervisor's cue to evict a
// stopped Runtime once its in-flight set is empty.
func (r *Runtime) Done() <-chan struct{} {
	return r.doneCh
}

// AddLeads enqueues leads for this campaign, in the order given (priority
// ascending is the caller's responsibility at seed time; ties preserve this
// slice's order, matching the persisted `priority asc, created_at asc`
// ordering of domain/leads.Repository.Pending).
func (r *Runtime) AddLeads(leads []Lead) {
	if len(leads) == 0 {
		return
	}
	r.mu.Lock()
	r.pending = append(r.pending, leads...)
	r.mu.Unlock()
	r.emit(Event{Type: EventLeadsAdded, AddedCount: len(leads)})
}

// Start begins the drain loop. It is idempotent: calling it on an
// already-running Runtime is a no-op. It fails closed if the campaign has
// no SIP trunk configured or nothing pending to call.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running.Load() {
		r.mu.Unlock()
		return nil
	}
	if r.cfg.SipTrunkID == "" {
		r.mu.Unlock()
		return apperror.NewPrecondition("campaign has no SIP trunk configured")
	}
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return apperror.NewPrecondition("campaign has no pending leads to call")
	}
	r.running.Store(true)
	r.mu.Unlock()

	r.emit(Event{Type: EventCampaignStarted})

	go r.drainLoop(ctx)
	return nil
}

// Pause halts new dispatch; calls already in flight continue uninterrupted.
// Idempotent: a second Pause on an already-paused Runtime emits nothing
// further.
func (r *Runtime) Pause() {
	if !r.running.Load() {
		return
	}
	if r.paused.CompareAndSwap(false, true) {
		r.emit(Event{Type: EventCampaignPaused})
	}
}

// Resume clears the pause flag and lets the drain loop resume dispatch.
// Idempotent.
func (r *Runtime) Resume() {
	if !r.running.Load() {
		return
	}
	if r.paused.CompareAndSwap(true, false) {
		r.emit(Event{Type: EventCampaignResumed})
	}
}

// Stop requests the drain loop exit after its current tick. In-flight calls
// are left to complete; their outcomes are still reconciled, but they never
// restart the loop. Idempotent: campaign_stopped is emitted exactly once, by
// the drain loop noticing the flag, not by this call.
func (r *Runtime) Stop() {
	r.stopRequested.Store(true)
}

// Status is a point-in-time snapshot for the campaign stats/realtime-view
// endpoint.
type Status struct {
	Running   bool
	Paused    bool
	Pending   int
	InFlight  int
	ActiveIDs []string
	Stats     Stats
}

// GetStatus snapshots the Runtime's current state.
func (r *Runtime) GetStatus() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.inFlight))
	for id := range r.inFlight {
		ids = append(ids, id)
	}
	return Status{
		Running:   r.running.Load(),
		Paused:    r.paused.Load(),
		Pending:   len(r.pending),
		InFlight:  len(r.inFlight),
		ActiveIDs: ids,
		Stats:     r.stats,
	}
}

// drainLoop is the single cooperative loop driving this campaign: it is the
// only place that pops from pending and spawns calls, so no additional
// synchronization is needed between "is there capacity" and "dispatch".
func (r *Runtime) drainLoop(ctx context.Context) {
	defer r.finish()

	for {
		if r.stopRequested.Load() {
			r.emit(Event{Type: EventCampaignStopped, Stats: r.snapshotStats()})
			return
		}
		if r.paused.Load() {
			time.Sleep(pollInterval)
			continue
		}

		r.mu.Lock()
		canDispatch := len(r.inFlight) < r.cfg.MaxConcurrentCalls && len(r.pending) > 0
		if !canDispatch {
			done := len(r.inFlight) == 0 && len(r.pending) == 0
			r.mu.Unlock()
			if done {
				r.emit(Event{Type: EventCampaignCompleted, Stats: r.snapshotStats()})
				return
			}
			time.Sleep(pollInterval)
			continue
		}

		lead := r.pending[0]
		r.pending = r.pending[1:]
		lead.Attempts++
		r.inFlight[lead.ID] = &inFlightCall{lead: lead}
		remaining := len(r.pending)
		r.mu.Unlock()

		r.wg.Add(1)
		go r.startCall(ctx, lead)
		r.reportInFlight()

		if remaining > 0 && r.cfg.CallDelayMs > 0 {
			time.Sleep(time.Duration(r.cfg.CallDelayMs) * time.Millisecond)
		}
	}
}

// startCall selects an agent, normalizes the destination number, and drives
// the telephony adapter's dispatch-then-dial sequence for one lead.
func (r *Runtime) startCall(ctx context.Context, lead Lead) {
	defer r.wg.Done()

	agent, err := r.selector.Select(ctx, r.cfg.CampaignID, r.cfg.Strategy)
	if err != nil {
		r.completeCall(lead, "", "", err.Error())
		return
	}
	r.tracker.Increment(agent.ID)
	r.setInFlightAgent(lead.ID, agent.ID)

	destination, err := telephony.NormalizeE164(lead.PhoneNumber, r.cfg.DefaultCountryCode)
	if err != nil {
		r.tracker.Decrement(agent.ID)
		r.completeCall(lead, agent.ID, "", err.Error())
		return
	}

	roomName := roomName(r.cfg.CampaignID)
	r.emit(Event{Type: EventCallStarted, RoomName: roomName, Lead: &LeadView{
		ID: lead.ID, PhoneNumber: lead.PhoneNumber, Priority: lead.Priority,
		Attempts: lead.Attempts, AgentID: agent.ID,
	}})

	dispatchRes, err := r.adapter.CreateAgentDispatch(ctx, telephony.DispatchRequest{
		RoomName: roomName, AgentName: agent.DispatchName, Metadata: lead.Metadata,
	})
	if err != nil {
		r.tracker.Decrement(agent.ID)
		r.completeCall(lead, agent.ID, "", err.Error())
		return
	}

	dialRes, err := r.adapter.CreateSIPParticipant(ctx, telephony.DialRequest{
		RoomName:            roomName,
		TrunkID:             r.cfg.SipTrunkID,
		Destination:         destination,
		CallerIDNumber:      r.cfg.CallerIDNumber,
		ParticipantIdentity: lead.ID,
		Metadata:            lead.Metadata,
	})
	if err != nil {
		r.tracker.Decrement(agent.ID)
		r.completeCall(lead, agent.ID, roomName, err.Error())
		return
	}

	r.mu.Lock()
	r.stats.Total++
	r.stats.Successful++
	delete(r.inFlight, lead.ID)
	r.mu.Unlock()
	r.tracker.Decrement(agent.ID)
	r.reportInFlight()
	metrics.CallOutcomes.WithLabelValues(r.cfg.CampaignID, "completed").Inc()

	r.emit(Event{
		Type:     EventCallCompleted,
		RoomName: roomName,
		Lead:     &LeadView{ID: lead.ID, PhoneNumber: lead.PhoneNumber, Priority: lead.Priority, Attempts: lead.Attempts, AgentID: agent.ID},
		Result: &CallResult{
			RoomName: roomName, DispatchID: dispatchRes.DispatchID,
			ParticipantID: dialRes.ParticipantID, SIPCallID: dialRes.SIPCallID,
		},
	})
}

// completeCall handles a failed call attempt: it retries leads under the
// retry budget by re-enqueueing at the tail of pending (same priority), and
// otherwise records a terminal failure. A lead ends in failed only once its
// attempts reach retryAttempts+1 — see DESIGN.md's retry budget note for why
// the bound is attempts+1 rather than attempts.
func (r *Runtime) completeCall(lead Lead, agentID, roomName, errMsg string) {
	retry := r.cfg.RetryFailed && lead.Attempts < r.cfg.RetryAttempts+1

	r.emit(Event{
		Type:     EventCallFailed,
		RoomName: roomName,
		Lead:     &LeadView{ID: lead.ID, PhoneNumber: lead.PhoneNumber, Priority: lead.Priority, Attempts: lead.Attempts, AgentID: agentID},
		Error:    errMsg,
		Retrying: retry,
	})

	r.mu.Lock()
	delete(r.inFlight, lead.ID)
	if retry {
		r.pending = append(r.pending, lead)
	} else {
		r.stats.Total++
		r.stats.Failed++
	}
	r.mu.Unlock()
	r.reportInFlight()

	outcome := "failed"
	if retry {
		outcome = "retrying"
	}
	metrics.CallOutcomes.WithLabelValues(r.cfg.CampaignID, outcome).Inc()
}

func (r *Runtime) setInFlightAgent(leadID, agentID string) {
	r.mu.Lock()
	if call, ok := r.inFlight[leadID]; ok {
		call.agentID = agentID
	}
	r.mu.Unlock()
}

func (r *Runtime) snapshotStats() *Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.stats
	return &s
}

// reportInFlight publishes the current in-flight count to Prometheus.
func (r *Runtime) reportInFlight() {
	r.mu.Lock()
	count := len(r.inFlight)
	r.mu.Unlock()
	metrics.InFlightCalls.WithLabelValues(r.cfg.CampaignID).Set(float64(count))
}

// finish waits for every in-flight call goroutine to reconcile before
// closing doneCh, so the Supervisor never evicts a Runtime with calls still
// running.
func (r *Runtime) finish() {
	r.wg.Wait()
	close(r.doneCh)
}

func (r *Runtime) emit(e Event) {
	e.Seq = r.seq.Add(1)
	e.CampaignID = r.cfg.CampaignID
	e.At = time.Now()
	r.events <- e
}

func roomName(campaignID string) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("outbound-%s-%d-%s", campaignID, time.Now().UnixMilli(), string(suffix))
}
