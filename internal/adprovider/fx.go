package adprovider

import (
	"github.com/angolife/engage/internal/config"
	"go.uber.org/fx"
)

func provideSimulated(cfg config.Config) Provider {
	return NewSimulated(cfg.RewardAdLatency)
}

// Module wires the simulated ad provider.
var Module = fx.Module("adprovider",
	fx.Provide(provideSimulated),
)
