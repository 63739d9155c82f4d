package telephony

import (
	"context"
	"fmt"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/outboundhq/dialer/internal/config"
)

// LiveKitAdapter implements Adapter against a LiveKit SFU/SIP deployment.
// It is a thin wrapper: every method does one fabric call and classifies
// the error, leaving retry/backoff policy to the Campaign Runtime.
type LiveKitAdapter struct {
	sip      *lksdk.SIPClient
	rooms    *lksdk.RoomServiceClient
	dispatch *lksdk.AgentDispatchClient
	cfg      config.LiveKitConfig
}

// NewLiveKitAdapter builds a LiveKitAdapter from the configured credentials.
func NewLiveKitAdapter(cfg *config.Config) (*LiveKitAdapter, error) {
	lk := cfg.LiveKit
	if lk.URL == "" || lk.APIKey == "" || lk.APISecret == "" {
		return nil, fmt.Errorf("livekit: LIVEKIT_URL, LIVEKIT_API_KEY and LIVEKIT_API_SECRET are required")
	}
	return &LiveKitAdapter{
		sip:      lksdk.NewSIPClient(lk.URL, lk.APIKey, lk.APISecret),
		rooms:    lksdk.NewRoomServiceClient(lk.URL, lk.APIKey, lk.APISecret),
		dispatch: lksdk.NewAgentDispatchServiceClient(lk.URL, lk.APIKey, lk.APISecret),
		cfg:      lk,
	}, nil
}

var _ Adapter = (*LiveKitAdapter)(nil)

// CreateSIPParticipant originates an outbound call by creating a SIP
// participant in the destination room.
func (a *LiveKitAdapter) CreateSIPParticipant(ctx context.Context, req DialRequest) (*DialResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.CallTimeout)
	defer cancel()

	resp, err := a.sip.CreateSIPParticipant(ctx, &livekit.CreateSIPParticipantRequest{
		SipTrunkId:          req.TrunkID,
		SipCallTo:           req.Destination,
		SipNumber:           req.CallerIDNumber,
		RoomName:            req.RoomName,
		ParticipantIdentity: req.ParticipantIdentity,
		ParticipantMetadata: req.Metadata,
		WaitUntilAnswered:   false,
	})
	if err != nil {
		return nil, classify(err)
	}
	return &DialResult{ParticipantID: resp.ParticipantId, SIPCallID: resp.SipCallId}, nil
}

// CreateAgentDispatch dispatches an agent into a room by name.
func (a *LiveKitAdapter) CreateAgentDispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error) {
	agentName := req.AgentName
	if agentName == "" {
		agentName = a.cfg.DefaultAgentName
	}
	resp, err := a.dispatch.CreateDispatch(ctx, &livekit.CreateAgentDispatchRequest{
		Room:      req.RoomName,
		AgentName: agentName,
		Metadata:  req.Metadata,
	})
	if err != nil {
		return nil, classify(err)
	}
	return &DispatchResult{DispatchID: resp.Id}, nil
}

// CreateSIPInboundTrunk provisions a new inbound trunk.
func (a *LiveKitAdapter) CreateSIPInboundTrunk(ctx context.Context, cfg TrunkConfig) (string, error) {
	resp, err := a.sip.CreateSIPInboundTrunk(ctx, &livekit.CreateSIPInboundTrunkRequest{
		Trunk: &livekit.SIPInboundTrunkInfo{
			Name:     cfg.Name,
			Numbers:  cfg.Numbers,
			Metadata: cfg.Metadata,
		},
	})
	if err != nil {
		return "", classify(err)
	}
	return resp.SipTrunkId, nil
}

// CreateSIPOutboundTrunk provisions a new outbound trunk.
func (a *LiveKitAdapter) CreateSIPOutboundTrunk(ctx context.Context, cfg TrunkConfig) (string, error) {
	resp, err := a.sip.CreateSIPOutboundTrunk(ctx, &livekit.CreateSIPOutboundTrunkRequest{
		Trunk: &livekit.SIPOutboundTrunkInfo{
			Name:     cfg.Name,
			Numbers:  cfg.Numbers,
			Metadata: cfg.Metadata,
		},
	})
	if err != nil {
		return "", classify(err)
	}
	return resp.SipTrunkId, nil
}

// UpdateSIPInboundTrunk updates an existing inbound trunk's numbers.
func (a *LiveKitAdapter) UpdateSIPInboundTrunk(ctx context.Context, trunkID string, cfg TrunkConfig) error {
	_, err := a.sip.CreateSIPInboundTrunk(ctx, &livekit.CreateSIPInboundTrunkRequest{
		Trunk: &livekit.SIPInboundTrunkInfo{
			SipTrunkId: trunkID,
			Name:       cfg.Name,
			Numbers:    cfg.Numbers,
			Metadata:   cfg.Metadata,
		},
	})
	return classify(err)
}

// UpdateSIPOutboundTrunk updates an existing outbound trunk's numbers.
func (a *LiveKitAdapter) UpdateSIPOutboundTrunk(ctx context.Context, trunkID string, cfg TrunkConfig) error {
	_, err := a.sip.CreateSIPOutboundTrunk(ctx, &livekit.CreateSIPOutboundTrunkRequest{
		Trunk: &livekit.SIPOutboundTrunkInfo{
			SipTrunkId: trunkID,
			Name:       cfg.Name,
			Numbers:    cfg.Numbers,
			Metadata:   cfg.Metadata,
		},
	})
	return classify(err)
}

// DeleteSIPTrunk removes a trunk (inbound or outbound).
func (a *LiveKitAdapter) DeleteSIPTrunk(ctx context.Context, trunkID string) error {
	_, err := a.sip.DeleteSIPTrunk(ctx, &livekit.DeleteSIPTrunkRequest{SipTrunkId: trunkID})
	return classify(err)
}

// CreateSIPDispatchRule provisions a dispatch rule routing inbound calls on
// the given trunk(s) to a room/agent.
func (a *LiveKitAdapter) CreateSIPDispatchRule(ctx context.Context, cfg DispatchRuleConfig) (string, error) {
	resp, err := a.sip.CreateSIPDispatchRule(ctx, &livekit.CreateSIPDispatchRuleRequest{
		TrunkIds: cfg.TrunkIDs,
		Rule: &livekit.SIPDispatchRule{
			Rule: &livekit.SIPDispatchRule_DispatchRuleDirect{
				DispatchRuleDirect: &livekit.SIPDispatchRuleDirect{RoomName: cfg.RoomName},
			},
		},
	})
	if err != nil {
		return "", classify(err)
	}
	return resp.SipDispatchRuleId, nil
}

// UpdateSIPDispatchRule updates an existing dispatch rule.
func (a *LiveKitAdapter) UpdateSIPDispatchRule(ctx context.Context, ruleID string, cfg DispatchRuleConfig) error {
	_, err := a.sip.CreateSIPDispatchRule(ctx, &livekit.CreateSIPDispatchRuleRequest{
		DispatchRule: &livekit.SIPDispatchRuleInfo{
			SipDispatchRuleId: ruleID,
			TrunkIds:          cfg.TrunkIDs,
			Rule: &livekit.SIPDispatchRule{
				Rule: &livekit.SIPDispatchRule_DispatchRuleDirect{
					DispatchRuleDirect: &livekit.SIPDispatchRuleDirect{RoomName: cfg.RoomName},
				},
			},
		},
	})
	return classify(err)
}

// DeleteSIPDispatchRule removes a dispatch rule.
func (a *LiveKitAdapter) DeleteSIPDispatchRule(ctx context.Context, ruleID string) error {
	_, err := a.sip.DeleteSIPDispatchRule(ctx, &livekit.DeleteSIPDispatchRuleRequest{SipDispatchRuleId: ruleID})
	return classify(err)
}
