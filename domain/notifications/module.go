package notifications

import "go.uber.org/fx"

// Module provides the campaign-outcome email Notifier.
var Module = fx.Module("notifications",
	fx.Provide(New),
)
