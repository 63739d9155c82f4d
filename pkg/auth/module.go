package auth

import "go.uber.org/fx"

// Module provides the bearer-token Middleware every tenant-scoped route
// group depends on.
var Module = fx.Module("auth",
	fx.Provide(NewMiddleware),
)
