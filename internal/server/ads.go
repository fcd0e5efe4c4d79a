package server

import (
	"net/http"

	"github.com/angolife/engage/internal/adgate"
	"github.com/gin-gonic/gin"
)

type interstitialEligibilityResponse struct {
	Eligible bool `json:"eligible"`
	// RetryAfterSeconds is how long the cooldown still has to run; zero
	// when eligible.
	RetryAfterSeconds int64 `json:"retry_after_seconds"`
}

func (s *Server) InterstitialEligibility(c *gin.Context) {
	ctx := c.Request.Context()
	eligible := s.gate.CanShowInterstitial(ctx)

	var retryAfter int64
	if !eligible {
		retryAfter = int64(s.gate.TimeUntilNextAllowed(ctx).Seconds())
	}

	c.JSON(http.StatusOK, interstitialEligibilityResponse{
		Eligible:          eligible,
		RetryAfterSeconds: retryAfter,
	})
}

func (s *Server) RecordInterstitialShown(c *gin.Context) {
	s.gate.RecordShown(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"recorded": true})
}

type rewardStatusResponse struct {
	Active bool `json:"active"`
}

func (s *Server) RewardStatus(c *gin.Context) {
	c.JSON(http.StatusOK, rewardStatusResponse{
		Active: s.reward.HasActiveReward(c.Request.Context()),
	})
}

type completeRewardedAdResponse struct {
	Outcome adgate.Outcome `json:"outcome"`
}

// CompleteRewardedAd runs the rewarded-ad flow to completion. The request
// blocks for the ad's duration, mirroring the caller suspending until the
// provider reports back.
func (s *Server) CompleteRewardedAd(c *gin.Context) {
	outcome := s.reward.RequestRewardedView(c.Request.Context())
	c.JSON(http.StatusOK, completeRewardedAdResponse{Outcome: outcome})
}
