// Package metrics exposes Prometheus instrumentation for the Campaign
// Runtime, Load Tracker, and Telephony Fabric Adapter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InFlightCalls reports the current number of calls a campaign's
	// Runtime has dispatched and not yet completed.
	InFlightCalls = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dialer_campaign_in_flight_calls",
		Help: "Current in-flight calls for a campaign",
	}, []string{"campaign_id"})

	// AgentActiveCalls mirrors the Load Tracker's per-agent counters.
	AgentActiveCalls = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dialer_agent_active_calls",
		Help: "Current in-flight calls for an agent",
	}, []string{"agent_id"})

	// CallOutcomes counts terminal call results by campaign and outcome
	// (completed, failed, retrying).
	CallOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dialer_call_outcomes_total",
		Help: "Total terminal call outcomes by campaign and result",
	}, []string{"campaign_id", "outcome"})

	// AdapterLatency times calls into the Telephony Fabric Adapter,
	// labeled by the operation performed.
	AdapterLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dialer_telephony_adapter_duration_seconds",
		Help:    "Telephony fabric adapter call latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// InboundResolutions counts Inbound Call Router outcomes by
	// resolution (matched, matched_no_campaign, unmatched, error).
	InboundResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dialer_inbound_resolutions_total",
		Help: "Total inbound webhook resolutions by outcome",
	}, []string{"resolution"})
)
