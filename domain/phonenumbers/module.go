package phonenumbers

import "go.uber.org/fx"

// Module provides phone number CRUD wiring.
var Module = fx.Module("phonenumbers",
	fx.Provide(
		NewRepository,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
