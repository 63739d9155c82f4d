package inbound

import "go.uber.org/fx"

// Module provides the Inbound Call Router and its webhook endpoints.
var Module = fx.Module("inbound",
	fx.Provide(
		New,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
