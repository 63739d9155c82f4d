package runtime

import "time"

// EventType names one of the lifecycle events the Runtime emits to the
// Event Reconciler.
type EventType string

const (
	EventLeadsAdded        EventType = "leads_added"
	EventCampaignStarted   EventType = "campaign_started"
	EventCallStarted       EventType = "call_started"
	EventCallCompleted     EventType = "call_completed"
	EventCallFailed        EventType = "call_failed"
	EventCampaignPaused    EventType = "campaign_paused"
	EventCampaignResumed   EventType = "campaign_resumed"
	EventCampaignStopped   EventType = "campaign_stopped"
	EventCampaignCompleted EventType = "campaign_completed"
)

// LeadView is the lead identity carried on lead-scoped events: enough for
// the Reconciler to locate and mutate the durable row, without the Runtime
// holding (or mutating) the Store's own Lead object. Mutations flow via
// explicit events, not by mutating shared objects.
type LeadView struct {
	ID          string
	PhoneNumber string
	Priority    int
	Attempts    int
	AgentID     string
}

// CallResult carries the adapter's successful response for a call_completed
// event.
type CallResult struct {
	RoomName      string
	DispatchID    string
	ParticipantID string
	SIPCallID     string
}

// Stats is a campaign's running or final call aggregate.
type Stats struct {
	Total      int
	Successful int
	Failed     int
}

// Event is one entry in a campaign's lifecycle event stream. Each carries
// a monotonic seq within the campaign and the lead identity where
// applicable.
type Event struct {
	Seq        int64
	CampaignID string
	Type       EventType
	Lead       *LeadView
	RoomName   string
	Result     *CallResult
	Error      string
	Retrying   bool
	Stats      *Stats
	AddedCount int
	At         time.Time
}
