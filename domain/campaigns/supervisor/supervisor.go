// Package supervisor implements the Process Supervisor: the long-lived
// registry of active Runtimes, keyed by campaign id. It is the only thing
// that constructs a Runtime, wires its Reconciler, and decides when a
// completed or stopped Runtime is safe to evict.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/outboundhq/dialer/domain/agents"
	"github.com/outboundhq/dialer/domain/calllogs"
	"github.com/outboundhq/dialer/domain/campaigns"
	"github.com/outboundhq/dialer/domain/campaigns/reconciler"
	"github.com/outboundhq/dialer/domain/campaigns/runtime"
	"github.com/outboundhq/dialer/domain/campaigns/selector"
	"github.com/outboundhq/dialer/domain/campaigns/tracker"
	"github.com/outboundhq/dialer/domain/leads"
	"github.com/outboundhq/dialer/domain/notifications"
	"github.com/outboundhq/dialer/domain/tenants"
	"github.com/outboundhq/dialer/internal/config"
	"github.com/outboundhq/dialer/pkg/apperror"
	"github.com/outboundhq/dialer/pkg/telephony"
)

// Supervisor owns every active campaign's Runtime.
type Supervisor struct {
	mu       sync.Mutex
	runtimes map[string]*runtime.Runtime

	agents    *agents.Repository
	leads     *leads.Repository
	campaigns *campaigns.Repository
	callLogs  *calllogs.Repository
	tenants   *tenants.Repository
	tracker   *tracker.Tracker
	adapter   telephony.Adapter
	notifier  *notifications.Notifier
	cfg       *config.Config
	log       *slog.Logger
}

// New builds a Supervisor. The tracker is shared process-wide across every
// Runtime it manages.
func New(
	agentsRepo *agents.Repository,
	leadsRepo *leads.Repository,
	campaignsRepo *campaigns.Repository,
	callLogsRepo *calllogs.Repository,
	tenantsRepo *tenants.Repository,
	tr *tracker.Tracker,
	adapter telephony.Adapter,
	notifier *notifications.Notifier,
	cfg *config.Config,
	log *slog.Logger,
) *Supervisor {
	return &Supervisor{
		runtimes:  make(map[string]*runtime.Runtime),
		agents:    agentsRepo,
		leads:     leadsRepo,
		campaigns: campaignsRepo,
		callLogs:  callLogsRepo,
		tenants:   tenantsRepo,
		tracker:   tr,
		adapter:   adapter,
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
	}
}

// IsActive reports whether a campaign currently has a running Runtime. It
// satisfies domain/scheduler's SupervisorLookup contract, letting the
// scheduled sweeps skip leads/call-logs that belong to a campaign the
// Supervisor is actively driving.
func (s *Supervisor) IsActive(campaignID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.runtimes[campaignID]
	return ok
}

// StartCampaign constructs and starts a Runtime for a campaign, idempotent
// if one is already running.
func (s *Supervisor) StartCampaign(ctx context.Context, tenantID, campaignID string) error {
	s.mu.Lock()
	if _, ok := s.runtimes[campaignID]; ok {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	campaign, err := s.campaigns.FindByID(ctx, tenantID, campaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return apperror.NewNotFound("campaign", campaignID)
	}
	if campaign.Status.IsTerminal() {
		return apperror.NewPrecondition(fmt.Sprintf("campaign is %s and cannot be started", campaign.Status))
	}
	if campaign.SipTrunkID == nil || *campaign.SipTrunkID == "" {
		return apperror.NewPrecondition("campaign has no SIP trunk configured")
	}

	pending, err := s.leads.Pending(ctx, campaignID)
	if err != nil {
		// The Store itself is unreachable while assembling the Runtime — a
		// construction invariant breaking, not an operator mistake like a
		// missing trunk or empty queue. Only this case transitions the
		// campaign to failed; ordinary preconditions stay plain 400s.
		s.markFailed(campaign, err)
		return err
	}
	if len(pending) == 0 {
		return apperror.NewPrecondition("campaign has no pending leads to call")
	}

	defaultAgentName := s.cfg.LiveKit.DefaultAgentName
	if campaign.AgentName != nil && *campaign.AgentName != "" {
		defaultAgentName = *campaign.AgentName
	}
	sel := selector.New(s.agents, s.tracker, defaultAgentName)

	callerID := ""
	if campaign.CallerIDNumber != nil {
		callerID = *campaign.CallerIDNumber
	}

	events := make(chan runtime.Event, 64)
	rt := runtime.New(runtime.Config{
		CampaignID:         campaignID,
		TenantID:           tenantID,
		MaxConcurrentCalls: campaign.MaxConcurrent,
		CallDelayMs:        campaign.CallDelayMs,
		RetryFailed:        campaign.RetryFailed,
		RetryAttempts:      campaign.RetryAttempts,
		Strategy:           selector.Strategy(campaign.Strategy),
		SipTrunkID:         *campaign.SipTrunkID,
		CallerIDNumber:     callerID,
		DefaultCountryCode: s.cfg.Dialing.DefaultCountryCode,
	}, sel, s.tracker, s.adapter, events, s.log)

	rt.AddLeads(toRuntimeLeads(pending))

	recon := reconciler.New(s.leads, s.callLogs, s.campaigns, s.tenants, s.notifier, s.log)
	go recon.Run(context.Background(), events)

	if err := rt.Start(context.Background()); err != nil {
		close(events)
		return err
	}

	s.mu.Lock()
	s.runtimes[campaignID] = rt
	s.mu.Unlock()

	go s.awaitDone(campaignID, rt, events)
	return nil
}

// awaitDone evicts a campaign's Runtime once it has fully drained — a
// stopped Runtime is evicted once its in-flight set is empty — and closes
// its event channel so the Reconciler's goroutine exits.
func (s *Supervisor) awaitDone(campaignID string, rt *runtime.Runtime, events chan runtime.Event) {
	<-rt.Done()
	close(events)
	s.mu.Lock()
	delete(s.runtimes, campaignID)
	s.mu.Unlock()
}

// PauseCampaign halts new dispatch on a running campaign.
func (s *Supervisor) PauseCampaign(campaignID string) error {
	rt, err := s.lookup(campaignID)
	if err != nil {
		return err
	}
	rt.Pause()
	return nil
}

// ResumeCampaign resumes dispatch on a paused campaign.
func (s *Supervisor) ResumeCampaign(campaignID string) error {
	rt, err := s.lookup(campaignID)
	if err != nil {
		return err
	}
	rt.Resume()
	return nil
}

// StopCampaign requests a running campaign's Runtime stop.
func (s *Supervisor) StopCampaign(campaignID string) error {
	rt, err := s.lookup(campaignID)
	if err != nil {
		return err
	}
	rt.Stop()
	return nil
}

// GetStatus returns the live Runtime snapshot for a campaign, or ok=false if
// it has no active Runtime.
func (s *Supervisor) GetStatus(campaignID string) (runtime.Status, bool) {
	s.mu.Lock()
	rt, ok := s.runtimes[campaignID]
	s.mu.Unlock()
	if !ok {
		return runtime.Status{}, false
	}
	return rt.GetStatus(), true
}

// GetRealtimeView returns the campaigns.Handler-facing projection of a
// campaign's live Runtime status, or ok=false if it has no active Runtime.
func (s *Supervisor) GetRealtimeView(campaignID string) (campaigns.RealtimeView, bool) {
	status, ok := s.GetStatus(campaignID)
	if !ok {
		return campaigns.RealtimeView{}, false
	}
	return campaigns.RealtimeView{
		Pending:       status.Pending,
		InFlight:      status.InFlight,
		ActiveLeads:   status.ActiveIDs,
		ActiveNumbers: nil,
		Paused:        status.Paused,
		Running:       status.Running,
	}, true
}

// markFailed transitions a campaign to failed and fires the campaign-failed
// notification. Both are best-effort: a Store or Mailgun error here must
// not mask the original construction failure being returned to the API
// caller.
func (s *Supervisor) markFailed(campaign *campaigns.Campaign, cause error) {
	ctx := context.Background()
	if err := s.campaigns.SetStatus(ctx, campaign.ID, campaigns.StatusFailed); err != nil {
		s.log.Error("mark campaign failed: status update failed", "campaignId", campaign.ID, "error", err)
	}
	if s.notifier != nil && s.notifier.Configured() {
		tenantEmail := s.tenantNotificationEmail(ctx, campaign.TenantID)
		go s.notifier.CampaignFailed(context.Background(), tenantEmail, campaign.ID, campaign.Name, cause.Error())
	}
}

// tenantNotificationEmail looks up the owning tenant's notification
// address, returning "" (fall back to the operator mailbox) on any lookup
// failure or when the tenant hasn't set one.
func (s *Supervisor) tenantNotificationEmail(ctx context.Context, tenantID string) string {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil || tenant == nil || tenant.NotificationEmail == nil {
		return ""
	}
	return *tenant.NotificationEmail
}

func (s *Supervisor) lookup(campaignID string) (*runtime.Runtime, error) {
	s.mu.Lock()
	rt, ok := s.runtimes[campaignID]
	s.mu.Unlock()
	if !ok {
		return nil, apperror.NewPrecondition("campaign is not currently running")
	}
	return rt, nil
}

func toRuntimeLeads(in []*leads.Lead) []runtime.Lead {
	out := make([]runtime.Lead, 0, len(in))
	for _, l := range in {
		name := ""
		if l.Name != nil {
			name = *l.Name
		}
		out = append(out, runtime.Lead{
			ID:          l.ID,
			PhoneNumber: l.PhoneNumber,
			Name:        name,
			Priority:    l.Priority,
			Attempts:    l.Attempts,
			Metadata:    string(l.Metadata),
		})
	}
	return out
}
