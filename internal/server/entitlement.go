package server

import (
	"net/http"
	"time"

	entitlementdomain "github.com/angolife/engage/internal/entitlement/domain"
	"github.com/gin-gonic/gin"
)

type entitlementResponse struct {
	Granted       bool                    `json:"granted"`
	Basis         entitlementdomain.Basis `json:"basis"`
	CreditBalance int                     `json:"credit_balance"`
}

func (s *Server) ResolveEntitlement(c *gin.Context) {
	userID, _ := currentUserID(c)

	decision, err := s.entitlementSvc.Resolve(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entitlementResponse{
		Granted:       decision.Granted,
		Basis:         decision.Basis,
		CreditBalance: decision.CreditBalance,
	})
}

type exportCVRequest struct {
	ActionID string `json:"action_id" binding:"required"`
	Template string `json:"template"`
}

type exportCVResponse struct {
	Exported         bool                    `json:"exported"`
	Basis            entitlementdomain.Basis `json:"basis"`
	RemainingCredits int                     `json:"remaining_credits"`
}

// ExportCV gates a paid export. A valid subscription exports without
// touching credits; otherwise one credit is consumed for the action.
func (s *Server) ExportCV(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req exportCVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ctx := c.Request.Context()
	decision, err := s.entitlementSvc.Resolve(ctx, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !decision.Granted {
		AbortWithError(c, entitlementdomain.ErrNoCredit)
		return
	}

	if decision.Basis == entitlementdomain.BasisSubscription {
		c.JSON(http.StatusOK, exportCVResponse{
			Exported:         true,
			Basis:            decision.Basis,
			RemainingCredits: decision.CreditBalance,
		})
		return
	}

	remaining, err := s.entitlementSvc.ConsumeCredit(ctx, userID, req.ActionID)
	if err != nil {
		// The balance may have raced to zero between the resolve and the
		// consume; the consume result is authoritative.
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, exportCVResponse{
		Exported:         true,
		Basis:            entitlementdomain.BasisCredit,
		RemainingCredits: remaining,
	})
}

type purchaseRequest struct {
	Plan string `json:"plan" binding:"required"`
}

type purchaseResponse struct {
	Plan          string     `json:"plan"`
	CreditBalance *int       `json:"credit_balance,omitempty"`
	PremiumExpiry *time.Time `json:"premium_expiry,omitempty"`
}

// Purchase applies one of the fixed plans: pack3 adds three credits,
// monthly and yearly extend the subscription expiry.
func (s *Server) Purchase(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ctx := c.Request.Context()
	resp := purchaseResponse{Plan: req.Plan}

	switch req.Plan {
	case "pack3":
		balance, err := s.entitlementSvc.GrantCredits(ctx, userID, 3)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp.CreditBalance = &balance

	case "monthly":
		expiry, err := s.entitlementSvc.ExtendPremium(ctx, userID, 30*24*time.Hour)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp.PremiumExpiry = &expiry

	case "yearly":
		expiry, err := s.entitlementSvc.ExtendPremium(ctx, userID, 365*24*time.Hour)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp.PremiumExpiry = &expiry

	default:
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	c.JSON(http.StatusOK, resp)
}
