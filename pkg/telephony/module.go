package telephony

import "go.uber.org/fx"

// Module provides the telephony fabric adapter, decorated with Prometheus
// latency instrumentation on its hot-path calls.
var Module = fx.Module("telephony",
	fx.Provide(
		fx.Annotate(NewLiveKitAdapter, fx.As(new(Adapter))),
	),
	fx.Decorate(newInstrumentedAdapter),
)
