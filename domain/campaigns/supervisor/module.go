package supervisor

import (
	"go.uber.org/fx"

	"github.com/outboundhq/dialer/domain/campaigns"
	"github.com/outboundhq/dialer/domain/campaigns/tracker"
	"github.com/outboundhq/dialer/domain/scheduler"
)

// Module provides the Process Supervisor, the shared Load Tracker it hands
// to every Runtime, and binds the Supervisor against the two narrow
// interfaces its consumers depend on: campaigns.Supervisor (the HTTP
// handler) and scheduler.SupervisorLookup (the scheduled sweeps).
var Module = fx.Module("supervisor",
	fx.Provide(tracker.New),
	fx.Provide(
		fx.Annotate(
			New,
			fx.As(new(campaigns.Supervisor)),
			fx.As(new(scheduler.SupervisorLookup)),
		),
	),
)
