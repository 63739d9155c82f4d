// Package reconciler implements the Event Reconciler: the sole writer of
// durable state derived from a Campaign Runtime's event stream. A
// Reconciler instance is bound to exactly one Runtime's event channel and
// processes it to completion in a single goroutine, which is what gives
// per-campaign serial ordering — there is never more than one consumer of a
// given channel, so events are applied to the database in the exact order
// the Runtime produced them.
package reconciler

import (
	"context"
	"log/slog"

	"github.com/outboundhq/dialer/domain/calllogs"
	"github.com/outboundhq/dialer/domain/campaigns"
	"github.com/outboundhq/dialer/domain/campaigns/runtime"
	"github.com/outboundhq/dialer/domain/leads"
	"github.com/outboundhq/dialer/domain/notifications"
	"github.com/outboundhq/dialer/domain/tenants"
)

// Reconciler persists the effects of one campaign's Runtime events, mapping
// each event type to its store mutation.
type Reconciler struct {
	leads     *leads.Repository
	callLogs  *calllogs.Repository
	campaigns *campaigns.Repository
	tenants   *tenants.Repository
	notifier  *notifications.Notifier
	log       *slog.Logger
}

// New builds a Reconciler over the shared Store repositories. notifier may
// be nil in tests; a nil notifier is treated as unconfigured.
func New(leadsRepo *leads.Repository, callLogsRepo *calllogs.Repository, campaignsRepo *campaigns.Repository, tenantsRepo *tenants.Repository, notifier *notifications.Notifier, log *slog.Logger) *Reconciler {
	return &Reconciler{leads: leadsRepo, callLogs: callLogsRepo, campaigns: campaignsRepo, tenants: tenantsRepo, notifier: notifier, log: log}
}

// Run consumes events until the channel closes, applying each in order. It
// never returns an error: a single event's persistence failure is logged
// and the next event is still processed, since skipping one reconciliation
// step must not wedge the whole stream — the scheduled sweeps exist
// precisely to repair drift this may leave behind.
func (r *Reconciler) Run(ctx context.Context, events <-chan runtime.Event) {
	for e := range events {
		if err := r.apply(ctx, e); err != nil {
			r.log.Error("reconcile event failed",
				"campaignId", e.CampaignID, "type", e.Type, "seq", e.Seq, "error", err)
		}
	}
}

func (r *Reconciler) apply(ctx context.Context, e runtime.Event) error {
	switch e.Type {
	case runtime.EventLeadsAdded:
		r.log.Info("leads added", "campaignId", e.CampaignID, "count", e.AddedCount)
		return nil

	case runtime.EventCampaignStarted:
		return r.campaigns.SetStatus(ctx, e.CampaignID, campaigns.StatusActive)

	case runtime.EventCallStarted:
		return r.onCallStarted(ctx, e)

	case runtime.EventCallCompleted:
		return r.onCallCompleted(ctx, e)

	case runtime.EventCallFailed:
		return r.onCallFailed(ctx, e)

	case runtime.EventCampaignPaused:
		return r.campaigns.SetStatus(ctx, e.CampaignID, campaigns.StatusPaused)

	case runtime.EventCampaignResumed:
		return r.campaigns.SetStatus(ctx, e.CampaignID, campaigns.StatusActive)

	case runtime.EventCampaignStopped:
		return r.campaigns.SetStatus(ctx, e.CampaignID, campaigns.StatusStopped)

	case runtime.EventCampaignCompleted:
		return r.onCampaignCompleted(ctx, e)

	default:
		return nil
	}
}

func (r *Reconciler) onCallStarted(ctx context.Context, e runtime.Event) error {
	if e.Lead == nil {
		return nil
	}
	agentID := e.Lead.AgentID
	if err := r.leads.UpdateStatus(ctx, e.Lead.ID, leads.StatusCalling, &agentID); err != nil {
		return err
	}
	if err := r.leads.IncrementAttempts(ctx, e.Lead.ID); err != nil {
		return err
	}
	leadID := e.Lead.ID
	roomName := e.RoomName
	return r.callLogs.Create(ctx, &calllogs.CallLog{
		CampaignID:  e.CampaignID,
		LeadID:      &leadID,
		PhoneNumber: e.Lead.PhoneNumber,
		Status:      calllogs.StatusRinging,
		RoomName:    &roomName,
	})
}

func (r *Reconciler) onCallCompleted(ctx context.Context, e runtime.Event) error {
	if e.Lead == nil {
		return nil
	}
	agentID := e.Lead.AgentID
	if err := r.leads.UpdateStatus(ctx, e.Lead.ID, leads.StatusCompleted, &agentID); err != nil {
		return err
	}
	if err := r.campaigns.IncrementAggregates(ctx, e.CampaignID, 1, 1, 0); err != nil {
		return err
	}
	cl, err := r.callLogs.FindByRoomName(ctx, e.RoomName)
	if err != nil || cl == nil {
		return err
	}
	if e.Result != nil {
		if err := r.callLogs.AppendMetadata(ctx, cl.ID, map[string]any{
			"dispatchId":    e.Result.DispatchID,
			"participantId": e.Result.ParticipantID,
			"sipCallId":     e.Result.SIPCallID,
		}); err != nil {
			return err
		}
	}
	return r.callLogs.MarkTerminal(ctx, cl.ID, calllogs.StatusCompleted, nil, nil)
}

func (r *Reconciler) onCallFailed(ctx context.Context, e runtime.Event) error {
	if e.Lead == nil {
		return nil
	}
	status := leads.StatusFailed
	if e.Retrying {
		status = leads.StatusPending
	}
	agentID := e.Lead.AgentID
	if err := r.leads.UpdateStatus(ctx, e.Lead.ID, status, &agentID); err != nil {
		return err
	}
	if !e.Retrying {
		if err := r.campaigns.IncrementAggregates(ctx, e.CampaignID, 1, 0, 1); err != nil {
			return err
		}
	}
	if e.RoomName == "" {
		return nil
	}
	cl, err := r.callLogs.FindByRoomName(ctx, e.RoomName)
	if err != nil || cl == nil {
		return err
	}
	errMsg := e.Error
	return r.callLogs.MarkTerminal(ctx, cl.ID, calllogs.StatusFailed, nil, &errMsg)
}

func (r *Reconciler) onCampaignCompleted(ctx context.Context, e runtime.Event) error {
	total, successful, failed := 0, 0, 0
	if e.Stats != nil {
		total, successful, failed = e.Stats.Total, e.Stats.Successful, e.Stats.Failed
	}
	if err := r.campaigns.Complete(ctx, e.CampaignID, total, successful, failed); err != nil {
		return err
	}
	r.notifyCompleted(ctx, e.CampaignID, total, successful, failed)
	return nil
}

// notifyCompleted fires the campaign-completion email in its own goroutine
// so a slow or unreachable Mailgun never delays the next event on this
// Reconciler's serial queue — this is a side effect of a write already
// committed, not the write itself.
func (r *Reconciler) notifyCompleted(ctx context.Context, campaignID string, total, successful, failed int) {
	if r.notifier == nil || !r.notifier.Configured() {
		return
	}
	campaign, err := r.campaigns.FindByIDUnscoped(ctx, campaignID)
	if err != nil || campaign == nil {
		return
	}
	tenantEmail := r.tenantNotificationEmail(ctx, campaign.TenantID)
	go r.notifier.CampaignCompleted(context.Background(), tenantEmail, campaignID, campaign.Name, total, successful, failed)
}

// tenantNotificationEmail looks up the owning tenant's notification
// address, returning "" (fall back to the operator mailbox) on any lookup
// failure or when the tenant hasn't set one.
func (r *Reconciler) tenantNotificationEmail(ctx context.Context, tenantID string) string {
	tenant, err := r.tenants.FindByID(ctx, tenantID)
	if err != nil || tenant == nil || tenant.NotificationEmail == nil {
		return ""
	}
	return *tenant.NotificationEmail
}
