package leads

import "go.uber.org/fx"

// Module provides lead CRUD, bulk-ingest, and CSV-upload wiring.
var Module = fx.Module("leads",
	fx.Provide(
		NewRepository,
		NewMetadataValidator,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
