package inflight

import "go.uber.org/fx"

// Module wires the in-flight consumption guard.
var Module = fx.Module("inflight",
	fx.Provide(NewGuard),
)
