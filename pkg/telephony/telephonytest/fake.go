// Package telephonytest provides an in-memory telephony.Adapter for
// exercising the Campaign Runtime and Inbound Call Router without a real
// LiveKit deployment.
package telephonytest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/outboundhq/dialer/pkg/telephony"
)

// Fake is a concurrency-safe fake telephony.Adapter. DialFunc and
// DispatchFunc, when set, let a test inject failures or delays; otherwise
// calls succeed immediately with generated ids.
type Fake struct {
	mu sync.Mutex

	DialFunc     func(req telephony.DialRequest) error
	DispatchFunc func(req telephony.DispatchRequest) error

	Dials      []telephony.DialRequest
	Dispatches []telephony.DispatchRequest
	Trunks     map[string]telephony.TrunkConfig
	Rules      map[string]telephony.DispatchRuleConfig
}

// New creates an empty Fake.
func New() *Fake {
	return &Fake{
		Trunks: make(map[string]telephony.TrunkConfig),
		Rules:  make(map[string]telephony.DispatchRuleConfig),
	}
}

var _ telephony.Adapter = (*Fake)(nil)

func (f *Fake) CreateSIPParticipant(_ context.Context, req telephony.DialRequest) (*telephony.DialResult, error) {
	f.mu.Lock()
	f.Dials = append(f.Dials, req)
	f.mu.Unlock()

	if f.DialFunc != nil {
		if err := f.DialFunc(req); err != nil {
			return nil, err
		}
	}
	return &telephony.DialResult{
		ParticipantID: "fake-participant-" + uuid.NewString(),
		SIPCallID:     "fake-call-" + uuid.NewString(),
	}, nil
}

func (f *Fake) CreateAgentDispatch(_ context.Context, req telephony.DispatchRequest) (*telephony.DispatchResult, error) {
	f.mu.Lock()
	f.Dispatches = append(f.Dispatches, req)
	f.mu.Unlock()

	if f.DispatchFunc != nil {
		if err := f.DispatchFunc(req); err != nil {
			return nil, err
		}
	}
	return &telephony.DispatchResult{DispatchID: "fake-dispatch-" + uuid.NewString()}, nil
}

func (f *Fake) CreateSIPInboundTrunk(_ context.Context, cfg telephony.TrunkConfig) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("fake-trunk-in-%d", len(f.Trunks)+1)
	f.Trunks[id] = cfg
	return id, nil
}

func (f *Fake) CreateSIPOutboundTrunk(_ context.Context, cfg telephony.TrunkConfig) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("fake-trunk-out-%d", len(f.Trunks)+1)
	f.Trunks[id] = cfg
	return id, nil
}

func (f *Fake) UpdateSIPInboundTrunk(_ context.Context, trunkID string, cfg telephony.TrunkConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Trunks[trunkID] = cfg
	return nil
}

func (f *Fake) UpdateSIPOutboundTrunk(_ context.Context, trunkID string, cfg telephony.TrunkConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Trunks[trunkID] = cfg
	return nil
}

func (f *Fake) DeleteSIPTrunk(_ context.Context, trunkID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Trunks, trunkID)
	return nil
}

func (f *Fake) CreateSIPDispatchRule(_ context.Context, cfg telephony.DispatchRuleConfig) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("fake-rule-%d", len(f.Rules)+1)
	f.Rules[id] = cfg
	return id, nil
}

func (f *Fake) UpdateSIPDispatchRule(_ context.Context, ruleID string, cfg telephony.DispatchRuleConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Rules[ruleID] = cfg
	return nil
}

func (f *Fake) DeleteSIPDispatchRule(_ context.Context, ruleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Rules, ruleID)
	return nil
}
