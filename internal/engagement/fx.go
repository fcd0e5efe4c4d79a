package engagement

import (
	"github.com/angolife/engage/internal/adgate"
	"github.com/angolife/engage/internal/config"
	"github.com/angolife/engage/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Content domains with gating policies. Jobs opens are free up to a
// threshold then always gated; news gates every nth open. The asymmetry is
// a product rule, not an implementation accident.
const (
	DomainJobs = "jobs"
	DomainNews = "news"
)

func providePolicies(cfg config.Config) map[string]Policy {
	return map[string]Policy{
		DomainJobs: AfterThreshold(cfg.JobsGateThreshold),
		DomainNews: EveryNth(cfg.NewsGateEveryNth),
	}
}

func provideService(s store.Session, policies map[string]Policy, reward *adgate.RewardToken, gate *adgate.CooldownGate, log *zap.Logger) *Service {
	return NewService(NewCounters(s), policies, reward, gate, log)
}

// Module wires session counters and the content-open service.
var Module = fx.Module("engagement",
	fx.Provide(
		providePolicies,
		provideService,
	),
)
