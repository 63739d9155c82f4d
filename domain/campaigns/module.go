package campaigns

import "go.uber.org/fx"

// Module provides campaign CRUD and control wiring. The Process Supervisor
// it depends on (the Supervisor interface) is provided separately by
// domain/campaigns/supervisor.Module.
var Module = fx.Module("campaigns",
	fx.Provide(
		NewRepository,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
