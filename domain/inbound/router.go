// Package inbound implements the Inbound Call Router: the synchronous
// handler the telephony fabric invokes on a SIP INVITE, resolving a
// ringing DID to a tenant/campaign/agent and persisting the initial
// call-log row, plus the call-ended webhook that closes it out.
package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/outboundhq/dialer/domain/agents"
	"github.com/outboundhq/dialer/domain/calllogs"
	"github.com/outboundhq/dialer/domain/campaigns/selector"
	"github.com/outboundhq/dialer/domain/campaigns/tracker"
	"github.com/outboundhq/dialer/domain/leads"
	"github.com/outboundhq/dialer/domain/phonenumbers"
	"github.com/outboundhq/dialer/internal/config"
	"github.com/outboundhq/dialer/pkg/logger"
	"github.com/outboundhq/dialer/pkg/metrics"
	"github.com/outboundhq/dialer/pkg/telephony"
)

// Router resolves inbound SIP calls to an agent and records them. It
// holds no state of its own beyond its dependencies; every lookup is
// per-request.
type Router struct {
	phoneNumbers *phonenumbers.Repository
	leads        *leads.Repository
	callLogs     *calllogs.Repository
	recordings   *calllogs.RecordingChecker
	selector     *selector.Selector
	cfg          *config.Config
	log          *slog.Logger
}

// New builds a Router. The selector it owns runs with LEAST_LOADED for
// numbers linked to a campaign; numbers with no campaign use PRIMARY_FIRST
// with no campaign id, which resolves to the selector's fallback agent.
func New(
	phoneNumbersRepo *phonenumbers.Repository,
	leadsRepo *leads.Repository,
	callLogsRepo *calllogs.Repository,
	recordings *calllogs.RecordingChecker,
	agentsRepo *agents.Repository,
	tr *tracker.Tracker,
	cfg *config.Config,
	log *slog.Logger,
) *Router {
	return &Router{
		phoneNumbers: phoneNumbersRepo,
		leads:        leadsRepo,
		callLogs:     callLogsRepo,
		recordings:   recordings,
		selector:     selector.New(agentsRepo, tr, cfg.LiveKit.DefaultAgentName),
		cfg:          cfg,
		log:          log.With(logger.Scope("inbound")),
	}
}

// HandleSIPInbound resolves an inbound call to an agent. It never returns
// an error to its caller beyond a best-effort default: on any internal
// failure it still resolves to a usable agent name so the fabric never
// drops the call.
func (rt *Router) HandleSIPInbound(ctx context.Context, req SIPInboundRequest) SIPInboundResponse {
	toNumber, err := telephony.NormalizeE164(req.ToNumber, rt.cfg.Dialing.DefaultCountryCode)
	if err != nil {
		rt.log.WarnContext(ctx, "inbound: could not normalize to_number", logger.Error(err), slog.String("to_number", req.ToNumber))
		metrics.InboundResolutions.WithLabelValues("error").Inc()
		return rt.defaultResponse(req, "", "", "unmatched", err.Error())
	}

	pn, err := rt.phoneNumbers.FindByNumber(ctx, toNumber)
	if err != nil {
		rt.log.ErrorContext(ctx, "inbound: phone number lookup failed", logger.Error(err))
		metrics.InboundResolutions.WithLabelValues("error").Inc()
		return rt.defaultResponse(req, toNumber, "", "unmatched", err.Error())
	}
	if pn == nil {
		metrics.InboundResolutions.WithLabelValues("unmatched").Inc()
		return rt.defaultResponse(req, toNumber, "", "unmatched", "")
	}

	if pn.CampaignID == nil || *pn.CampaignID == "" {
		agentName := rt.tenantFallbackAgent(ctx, pn.TenantID)
		metrics.InboundResolutions.WithLabelValues("matched_no_campaign").Inc()
		return SIPInboundResponse{
			AgentName: agentName,
			Metadata:  rt.metadata(pn, req, "", ""),
			Attributes: map[string]any{
				"inbound":      "true",
				"phone_number": toNumber,
				"caller":       req.FromNumber,
			},
		}
	}

	campaignID := *pn.CampaignID
	agent, err := rt.selector.Select(ctx, campaignID, selector.StrategyLeastLoaded)
	if err != nil {
		rt.log.ErrorContext(ctx, "inbound: agent selection failed", logger.Error(err), slog.String("campaign_id", campaignID))
		metrics.InboundResolutions.WithLabelValues("error").Inc()
		return rt.defaultResponse(req, toNumber, campaignID, "", err.Error())
	}

	rt.recordInboundCall(ctx, pn, campaignID, toNumber, req)
	metrics.InboundResolutions.WithLabelValues("matched").Inc()

	return SIPInboundResponse{
		AgentName: agent.DispatchName,
		Metadata:  rt.metadata(pn, req, campaignID, pn.ID),
		Attributes: map[string]any{
			"inbound":      "true",
			"phone_number": toNumber,
			"caller":       req.FromNumber,
		},
	}
}

// recordInboundCall persists the lead-upsert and call-log writes for an
// inbound call. Failures here are logged and swallowed, so the response to
// the fabric does not depend on the writes succeeding. The writes run
// inline on the request context before the response is sent, with no
// separate timeout of their own.
func (rt *Router) recordInboundCall(ctx context.Context, pn *phonenumbers.PhoneNumber, campaignID, toNumber string, req SIPInboundRequest) {
	lead, err := rt.leads.UpsertInbound(ctx, pn.TenantID, campaignID, req.FromNumber)
	if err != nil {
		rt.log.ErrorContext(ctx, "inbound: lead upsert failed", logger.Error(err))
	}

	meta, _ := json.Marshal(map[string]any{
		"call_type":       "inbound",
		"phone_number_id": pn.ID,
		"tenant_id":       pn.TenantID,
		"campaign_id":     campaignID,
	})
	callLog := &calllogs.CallLog{
		CampaignID:  campaignID,
		PhoneNumber: req.FromNumber,
		Status:      calllogs.StatusRinging,
		CallSID:     &req.CallID,
		RoomName:    &req.RoomName,
		Metadata:    meta,
	}
	if lead != nil {
		callLog.LeadID = &lead.ID
	}
	if err := rt.callLogs.Create(ctx, callLog); err != nil {
		rt.log.ErrorContext(ctx, "inbound: call log create failed", logger.Error(err))
	}
}

// HandleRoomEvent implements the call-ended path: on room.finished or
// room.closed, close out the CallLog and, if linked, its Lead.
func (rt *Router) HandleRoomEvent(ctx context.Context, ev RoomEvent) error {
	if ev.Event != "room.finished" && ev.Event != "room.closed" {
		return nil
	}

	var callLog *calllogs.CallLog
	var err error
	if ev.CallSID != "" {
		callLog, err = rt.callLogs.FindByCallSID(ctx, ev.CallSID)
	}
	if callLog == nil && ev.RoomName != "" {
		callLog, err = rt.callLogs.FindByRoomName(ctx, ev.RoomName)
	}
	if err != nil {
		rt.log.ErrorContext(ctx, "inbound: call log lookup failed on room event", logger.Error(err))
		return err
	}
	if callLog == nil {
		return nil
	}

	if ev.Reason != "" {
		if err := rt.callLogs.AppendMetadata(ctx, callLog.ID, map[string]any{"disconnect_reason": ev.Reason}); err != nil {
			rt.log.ErrorContext(ctx, "inbound: append disconnect reason failed", logger.Error(err))
		}
	}
	if err := rt.callLogs.MarkTerminal(ctx, callLog.ID, calllogs.StatusCompleted, ev.Duration, nil); err != nil {
		rt.log.ErrorContext(ctx, "inbound: mark terminal failed", logger.Error(err))
		return err
	}

	if ev.RecordingKey != "" && rt.recordings.Enabled() {
		rt.recordings.Check(ctx, callLog.ID, ev.RecordingKey)
	}

	if callLog.LeadID != nil {
		if err := rt.leads.UpdateStatus(ctx, *callLog.LeadID, leads.StatusCompleted, nil); err != nil {
			rt.log.ErrorContext(ctx, "inbound: lead status update failed on room event", logger.Error(err))
		}
	}
	return nil
}

func (rt *Router) tenantFallbackAgent(ctx context.Context, tenantID string) string {
	agent, err := rt.selector.Select(ctx, "", selector.StrategyPrimaryFirst)
	if err != nil {
		rt.log.ErrorContext(ctx, "inbound: tenant fallback selection failed", logger.Error(err), slog.String("tenant_id", tenantID))
		return rt.cfg.LiveKit.DefaultAgentName
	}
	return agent.DispatchName
}

// defaultResponse builds the system-default fallback response: the
// inbound webhook always responds with a non-empty agent name, even for
// unmatched numbers.
func (rt *Router) defaultResponse(req SIPInboundRequest, toNumber, campaignID, resolution, errMsg string) SIPInboundResponse {
	meta := map[string]any{
		"call_type": "inbound",
		"from":      req.FromNumber,
		"to":        req.ToNumber,
	}
	if resolution != "" {
		meta["resolution"] = resolution
	}
	if campaignID != "" {
		meta["campaign_id"] = campaignID
	}
	return SIPInboundResponse{
		AgentName: rt.cfg.LiveKit.DefaultAgentName,
		Metadata:  meta,
		Attributes: map[string]any{
			"inbound":      "true",
			"phone_number": toNumber,
			"caller":       req.FromNumber,
		},
		Error: errMsg,
	}
}

func (rt *Router) metadata(pn *phonenumbers.PhoneNumber, req SIPInboundRequest, campaignID, phoneNumberID string) map[string]any {
	m := map[string]any{
		"call_type": "inbound",
		"from":      req.FromNumber,
		"to":        req.ToNumber,
		"tenant_id": pn.TenantID,
	}
	if campaignID != "" {
		m["campaign_id"] = campaignID
	}
	if phoneNumberID != "" {
		m["phone_number_id"] = phoneNumberID
	}
	return m
}
