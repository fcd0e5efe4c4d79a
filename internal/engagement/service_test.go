package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/angolife/engage/internal/adgate"
	"github.com/angolife/engage/internal/clock"
	"github.com/angolife/engage/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// queueProvider plays back a fixed sequence of rewarded-ad outcomes.
type queueProvider struct {
	outcomes []bool
	calls    int
}

func (p *queueProvider) ShowInterstitial(context.Context) error { return nil }

func (p *queueProvider) ShowRewardedAd(context.Context) (bool, error) {
	if p.calls >= len(p.outcomes) {
		return false, nil
	}
	out := p.outcomes[p.calls]
	p.calls++
	return out, nil
}

func newTestService(t *testing.T, p *queueProvider) (*Service, *Counters) {
	t.Helper()
	fc := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	persistent := store.Persistent{Store: store.NewMemory()}
	session := store.Session{Store: store.NewMemory()}
	log := zap.NewNop()

	gate := adgate.NewCooldownGate(persistent, fc, 2*time.Hour, log)
	reward := adgate.NewRewardToken(persistent, fc, p, 10*time.Minute, log)
	counters := NewCounters(session)
	svc := NewService(counters, map[string]Policy{
		DomainJobs: AfterThreshold(3),
		DomainNews: EveryNth(3),
	}, reward, gate, log)
	return svc, counters
}

func TestOpenUnknownDomain(t *testing.T) {
	svc, _ := newTestService(t, &queueProvider{})

	_, err := svc.OpenContent(context.Background(), true, "deals", "d1")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestUnauthenticatedOpenDoesNotCount(t *testing.T) {
	svc, counters := newTestService(t, &queueProvider{})
	ctx := context.Background()

	res, err := svc.OpenContent(ctx, false, DomainJobs, "j1")
	require.NoError(t, err)
	assert.Equal(t, VerdictAuthRequired, res.Verdict)
	assert.True(t, res.InterstitialEligible)
	assert.Equal(t, 0, counters.Current(ctx, DomainJobs))
}

func TestJobsFreeUntilThresholdThenAlwaysGated(t *testing.T) {
	p := &queueProvider{outcomes: []bool{true, true, true}}
	svc, _ := newTestService(t, p)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := svc.OpenContent(ctx, true, DomainJobs, "j")
		require.NoError(t, err)
		assert.Equal(t, VerdictOpened, res.Verdict)
		assert.False(t, res.Gated)
	}

	for i := 4; i <= 6; i++ {
		res, err := svc.OpenContent(ctx, true, DomainJobs, "j")
		require.NoError(t, err)
		assert.Equal(t, VerdictOpened, res.Verdict)
		assert.True(t, res.Gated)
	}
	assert.Equal(t, 3, p.calls)
}

// Fresh session, authenticated reader: opens 1 and 2 are free, open 3
// gates. A completed flow shows the article with the counter at 3; a
// declined flow shows nothing and leaves the counter at 3, so the next
// open counts 4, which every_nth(3) lets through directly. A declined gate
// never retroactively decrements.
func TestNewsEndToEndScenario(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		p := &queueProvider{outcomes: []bool{true}}
		svc, counters := newTestService(t, p)
		ctx := context.Background()

		for i := 1; i <= 2; i++ {
			res, err := svc.OpenContent(ctx, true, DomainNews, "a")
			require.NoError(t, err)
			assert.Equal(t, VerdictOpened, res.Verdict)
			assert.False(t, res.Gated)
		}

		res, err := svc.OpenContent(ctx, true, DomainNews, "a3")
		require.NoError(t, err)
		assert.Equal(t, VerdictOpened, res.Verdict)
		assert.True(t, res.Gated)
		assert.Equal(t, 3, counters.Current(ctx, DomainNews))
	})

	t.Run("declined", func(t *testing.T) {
		p := &queueProvider{outcomes: []bool{false}}
		svc, counters := newTestService(t, p)
		ctx := context.Background()

		svc.OpenContent(ctx, true, DomainNews, "a1")
		svc.OpenContent(ctx, true, DomainNews, "a2")

		res, err := svc.OpenContent(ctx, true, DomainNews, "a3")
		require.NoError(t, err)
		assert.Equal(t, VerdictDeclined, res.Verdict)
		assert.Equal(t, 3, counters.Current(ctx, DomainNews))

		// Next user-initiated open counts 4: not a multiple of 3, opens
		// without any ad.
		res, err = svc.OpenContent(ctx, true, DomainNews, "a4")
		require.NoError(t, err)
		assert.Equal(t, VerdictOpened, res.Verdict)
		assert.False(t, res.Gated)
		assert.Equal(t, 1, p.calls)
	})
}

func TestActiveRewardSatisfiesGateAndIsConsumed(t *testing.T) {
	p := &queueProvider{outcomes: []bool{true, true}}
	svc, _ := newTestService(t, p)
	ctx := context.Background()

	// Opens 1-2 free, open 3 gated and completed.
	svc.OpenContent(ctx, true, DomainNews, "a1")
	svc.OpenContent(ctx, true, DomainNews, "a2")
	res, _ := svc.OpenContent(ctx, true, DomainNews, "a3")
	require.Equal(t, VerdictOpened, res.Verdict)
	require.Equal(t, 1, p.calls)

	// The reward was consumed by open 3, so open 6 needs a fresh view.
	svc.OpenContent(ctx, true, DomainNews, "a4")
	svc.OpenContent(ctx, true, DomainNews, "a5")
	res, _ = svc.OpenContent(ctx, true, DomainNews, "a6")
	assert.Equal(t, VerdictOpened, res.Verdict)
	assert.Equal(t, 2, p.calls)
}

func TestDomainCountersAreIndependent(t *testing.T) {
	svc, counters := newTestService(t, &queueProvider{})
	ctx := context.Background()

	svc.OpenContent(ctx, true, DomainJobs, "j1")
	svc.OpenContent(ctx, true, DomainJobs, "j2")
	svc.OpenContent(ctx, true, DomainNews, "a1")

	assert.Equal(t, 2, counters.Current(ctx, DomainJobs))
	assert.Equal(t, 1, counters.Current(ctx, DomainNews))
}
