package telephony

import (
	"context"
	"time"

	"github.com/outboundhq/dialer/pkg/metrics"
)

// instrumentedAdapter wraps an Adapter and times its hot-path calls for
// Prometheus, leaving provisioning calls unwrapped since they run outside
// any request path.
type instrumentedAdapter struct {
	Adapter
}

func newInstrumentedAdapter(inner Adapter) Adapter {
	return &instrumentedAdapter{Adapter: inner}
}

func (a *instrumentedAdapter) CreateSIPParticipant(ctx context.Context, req DialRequest) (*DialResult, error) {
	start := time.Now()
	res, err := a.Adapter.CreateSIPParticipant(ctx, req)
	metrics.AdapterLatency.WithLabelValues("create_sip_participant").Observe(time.Since(start).Seconds())
	return res, err
}

func (a *instrumentedAdapter) CreateAgentDispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error) {
	start := time.Now()
	res, err := a.Adapter.CreateAgentDispatch(ctx, req)
	metrics.AdapterLatency.WithLabelValues("create_agent_dispatch").Observe(time.Since(start).Seconds())
	return res, err
}
