package tenants

import "go.uber.org/fx"

// Module provides the tenant repository. Tenant CRUD and auth are treated
// as an external precondition — this domain exists only so the rest of
// the core can resolve and validate tenant ids.
var Module = fx.Module("tenants",
	fx.Provide(NewRepository),
)
