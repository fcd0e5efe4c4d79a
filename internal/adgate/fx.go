package adgate

import (
	"github.com/angolife/engage/internal/adprovider"
	"github.com/angolife/engage/internal/clock"
	"github.com/angolife/engage/internal/config"
	"github.com/angolife/engage/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideCooldownGate(s store.Persistent, c clock.Clock, cfg config.Config, log *zap.Logger) *CooldownGate {
	return NewCooldownGate(s, c, cfg.AdCooldownWindow, log)
}

func provideRewardToken(s store.Persistent, c clock.Clock, p adprovider.Provider, cfg config.Config, log *zap.Logger) *RewardToken {
	return NewRewardToken(s, c, p, cfg.RewardValidity, log)
}

// Module wires the interstitial cooldown gate and the reward token.
var Module = fx.Module("adgate",
	fx.Provide(
		provideCooldownGate,
		provideRewardToken,
	),
)
