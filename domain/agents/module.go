package agents

import "go.uber.org/fx"

// Module provides agent CRUD and campaign-assignment wiring.
var Module = fx.Module("agents",
	fx.Provide(
		NewRepository,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
