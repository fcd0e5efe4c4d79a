package server

import (
	"net/http"

	"github.com/angolife/engage/internal/engagement"
	"github.com/gin-gonic/gin"
)

type startSessionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type startSessionResponse struct {
	Token string `json:"token"`
}

func (s *Server) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	token, err := s.authn.StartSession(c.Request.Context(), req.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, startSessionResponse{Token: token})
}

type openContentRequest struct {
	ItemID string `json:"item_id"`
}

type openContentResponse struct {
	Verdict              engagement.Verdict `json:"verdict"`
	Gated                bool               `json:"gated"`
	Count                int                `json:"count"`
	InterstitialEligible bool               `json:"interstitial_eligible,omitempty"`
}

func (s *Server) OpenContent(c *gin.Context) {
	domain := c.Param("domain")

	var req openContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	_, authenticated := currentUserID(c)

	result, err := s.engagementSvc.OpenContent(c.Request.Context(), authenticated, domain, req.ItemID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, openContentResponse{
		Verdict:              result.Verdict,
		Gated:                result.Gated,
		Count:                result.Count,
		InterstitialEligible: result.InterstitialEligible,
	})
}
