// Package adprovider defines the boundary to the advertising SDK. Both
// calls suspend until the provider reports an outcome; context
// cancellation counts as a dismissal.
package adprovider

import (
	"context"
	"time"
)

type Provider interface {
	// ShowInterstitial blocks until the interstitial is dismissed.
	ShowInterstitial(ctx context.Context) error
	// ShowRewardedAd blocks until the rewarded view finishes or the user
	// cancels. completed is false on cancellation.
	ShowRewardedAd(ctx context.Context) (completed bool, err error)
}

// Simulated stands in for a real ad SDK. It reports completion after a
// fixed latency unless the context is cancelled first.
type Simulated struct {
	Latency time.Duration
}

func NewSimulated(latency time.Duration) *Simulated {
	return &Simulated{Latency: latency}
}

func (s *Simulated) ShowInterstitial(ctx context.Context) error {
	select {
	case <-time.After(s.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Simulated) ShowRewardedAd(ctx context.Context) (bool, error) {
	select {
	case <-time.After(s.Latency):
		return true, nil
	case <-ctx.Done():
		return false, nil
	}
}
