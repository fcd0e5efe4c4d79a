package engagement

import (
	"context"
	"errors"

	"github.com/angolife/engage/internal/adgate"
	"go.uber.org/zap"
)

var ErrUnknownDomain = errors.New("unknown content domain")

// Verdict is the outcome of a content-open attempt. Gated outcomes are
// expected, frequent results, not failures.
type Verdict string

const (
	// VerdictOpened means the content may be shown.
	VerdictOpened Verdict = "opened"
	// VerdictAuthRequired means the caller must authenticate first; the
	// open did not count against the domain's session counter.
	VerdictAuthRequired Verdict = "auth_required"
	// VerdictDeclined means the reward flow was required and the user did
	// not complete it. The counter keeps its incremented value.
	VerdictDeclined Verdict = "declined"
)

// OpenResult describes what happened to one content-open attempt.
type OpenResult struct {
	Verdict Verdict
	// Gated reports whether the domain policy required the reward flow.
	Gated bool
	// Count is the session open count the policy was evaluated against,
	// zero when the open never incremented (unauthenticated).
	Count int
	// InterstitialEligible is set on auth_required when the cooldown gate
	// currently allows an interstitial before the auth prompt.
	InterstitialEligible bool
}

// Service orchestrates content opens: session counting, per-domain gating
// policy, and the rewarded-ad flow when a policy fires.
type Service struct {
	counters *Counters
	policies map[string]Policy
	reward   *adgate.RewardToken
	gate     *adgate.CooldownGate
	log      *zap.Logger
}

func NewService(counters *Counters, policies map[string]Policy, reward *adgate.RewardToken, gate *adgate.CooldownGate, log *zap.Logger) *Service {
	return &Service{
		counters: counters,
		policies: policies,
		reward:   reward,
		gate:     gate,
		log:      log,
	}
}

// Domains returns the registered content domains.
func (s *Service) Domains() []string {
	out := make([]string, 0, len(s.policies))
	for d := range s.policies {
		out = append(out, d)
	}
	return out
}

// OpenContent runs one content-open attempt for the given viewer.
//
// Unauthenticated opens never increment the counter; they defer to the
// auth prompt, optionally preceded by an interstitial when the cooldown
// allows. Authenticated opens increment, evaluate the domain policy on the
// post-increment count and, when gated, suspend on the rewarded-ad flow.
// A declined flow leaves the counter incremented: the next open is judged
// on its own count, with no automatic retry.
func (s *Service) OpenContent(ctx context.Context, authenticated bool, domain, itemID string) (OpenResult, error) {
	policy, ok := s.policies[domain]
	if !ok {
		return OpenResult{}, ErrUnknownDomain
	}

	if !authenticated {
		return OpenResult{
			Verdict:              VerdictAuthRequired,
			InterstitialEligible: s.gate.CanShowInterstitial(ctx),
		}, nil
	}

	count := s.counters.Increment(ctx, domain)
	if !policy.ShouldGate(count) {
		return OpenResult{Verdict: VerdictOpened, Count: count}, nil
	}

	// An unconsumed reward from a recent completion also satisfies the
	// gate; consuming it keeps one view from unlocking indefinitely.
	if s.reward.HasActiveReward(ctx) {
		s.reward.Reset(ctx)
		s.log.Debug("gate satisfied by active reward",
			zap.String("domain", domain),
			zap.String("item", itemID),
			zap.Int("count", count),
		)
		return OpenResult{Verdict: VerdictOpened, Gated: true, Count: count}, nil
	}

	outcome := s.reward.RequestRewardedView(ctx)
	if outcome != adgate.OutcomeGranted {
		s.log.Info("gated open declined",
			zap.String("domain", domain),
			zap.String("item", itemID),
			zap.Int("count", count),
		)
		return OpenResult{Verdict: VerdictDeclined, Gated: true, Count: count}, nil
	}

	s.reward.Reset(ctx)
	return OpenResult{Verdict: VerdictOpened, Gated: true, Count: count}, nil
}
