package telephony

import "context"

// DialRequest describes a single outbound SIP participant to place into a
// LiveKit room, as issued by the Campaign Runtime's Start Call step.
type DialRequest struct {
	// RoomName is the LiveKit room the SIP participant and dispatched agent
	// will share. The Campaign Runtime derives it per call (campaign id +
	// epoch milliseconds + a random 6-character suffix) so that concurrent
	// calls never collide.
	RoomName string
	// TrunkID is the outbound SIP trunk to originate the call on.
	TrunkID string
	// Destination is the E.164-normalized number to dial.
	Destination string
	// CallerIDNumber optionally overrides the trunk's default caller id.
	CallerIDNumber string
	// ParticipantIdentity uniquely identifies the SIP participant in the
	// room (the lead id is used).
	ParticipantIdentity string
	// Metadata is opaque JSON passed through to the dispatched agent.
	Metadata string
}

// DialResult reports the outcome of placing a SIP participant.
type DialResult struct {
	ParticipantID string
	SIPCallID     string
}

// DispatchRequest asks the fabric to dispatch an agent into a room.
type DispatchRequest struct {
	RoomName  string
	AgentName string
	Metadata  string
}

// DispatchResult reports the outcome of an agent dispatch.
type DispatchResult struct {
	DispatchID string
}

// TrunkConfig describes an inbound or outbound SIP trunk to provision.
type TrunkConfig struct {
	Name     string
	Numbers  []string
	Metadata string
}

// DispatchRuleConfig describes a LiveKit SIP dispatch rule: it tells the
// fabric which room an inbound call lands in. LiveKitAdapter sends only the
// trunk ids and room name; AgentName is not passed to the fabric.
type DispatchRuleConfig struct {
	TrunkIDs  []string
	RoomName  string
	AgentName string
}

// Adapter is the Telephony Fabric Adapter: a narrow seam between the
// domain and the concrete real-time media platform, so the rest of the
// system depends only on this interface and not on any one vendor's SDK.
type Adapter interface {
	// CreateSIPParticipant originates an outbound call, placing a SIP
	// participant into the given room.
	CreateSIPParticipant(ctx context.Context, req DialRequest) (*DialResult, error)
	// CreateAgentDispatch dispatches an agent into a room by name.
	CreateAgentDispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error)

	// CreateSIPInboundTrunk provisions a new inbound trunk.
	CreateSIPInboundTrunk(ctx context.Context, cfg TrunkConfig) (string, error)
	// CreateSIPOutboundTrunk provisions a new outbound trunk.
	CreateSIPOutboundTrunk(ctx context.Context, cfg TrunkConfig) (string, error)
	// UpdateSIPInboundTrunk updates an existing inbound trunk's numbers.
	UpdateSIPInboundTrunk(ctx context.Context, trunkID string, cfg TrunkConfig) error
	// UpdateSIPOutboundTrunk updates an existing outbound trunk's numbers.
	UpdateSIPOutboundTrunk(ctx context.Context, trunkID string, cfg TrunkConfig) error
	// DeleteSIPTrunk removes a trunk (inbound or outbound).
	DeleteSIPTrunk(ctx context.Context, trunkID string) error

	// CreateSIPDispatchRule provisions a dispatch rule routing inbound
	// calls on the given trunk(s) to a room/agent.
	CreateSIPDispatchRule(ctx context.Context, cfg DispatchRuleConfig) (string, error)
	// UpdateSIPDispatchRule updates an existing dispatch rule.
	UpdateSIPDispatchRule(ctx context.Context, ruleID string, cfg DispatchRuleConfig) error
	// DeleteSIPDispatchRule removes a dispatch rule.
	DeleteSIPDispatchRule(ctx context.Context, ruleID string) error
}
