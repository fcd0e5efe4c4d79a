package server

import (
	"io"
	"net/http"
	"time"

	"github.com/angolife/engage/internal/order/countdown"
	orderdomain "github.com/angolife/engage/internal/order/domain"
	"github.com/gin-gonic/gin"
)

type orderResponse struct {
	ID           string             `json:"id"`
	Reference    string             `json:"reference"`
	AmountIn     float64            `json:"amount_in"`
	CurrencyIn   string             `json:"currency_in"`
	AmountOut    float64            `json:"amount_out"`
	CurrencyOut  string             `json:"currency_out"`
	ExchangeRate float64            `json:"exchange_rate"`
	Status       orderdomain.Status `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
}

func toOrderResponse(o *orderdomain.Order) orderResponse {
	return orderResponse{
		ID:           o.ID.String(),
		Reference:    o.Reference,
		AmountIn:     o.AmountIn,
		CurrencyIn:   o.CurrencyIn,
		AmountOut:    o.AmountOut,
		CurrencyOut:  o.CurrencyOut,
		ExchangeRate: o.ExchangeRate,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
	}
}

type createOrderRequest struct {
	AmountIn     float64 `json:"amount_in"`
	CurrencyIn   string  `json:"currency_in"`
	CurrencyOut  string  `json:"currency_out"`
	ExchangeRate float64 `json:"exchange_rate"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	order, err := s.orderSvc.Create(c.Request.Context(), orderdomain.CreateRequest{
		UserID:       userID,
		AmountIn:     req.AmountIn,
		CurrencyIn:   req.CurrencyIn,
		CurrencyOut:  req.CurrencyOut,
		ExchangeRate: req.ExchangeRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// ownedOrder loads an order and hides other users' orders behind a 404.
func (s *Server) ownedOrder(c *gin.Context) (*orderdomain.Order, bool) {
	userID, _ := currentUserID(c)

	order, err := s.orderSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	if order.UserID != userID {
		AbortWithError(c, orderdomain.ErrNotFound)
		return nil, false
	}
	return order, true
}

func (s *Server) GetOrder(c *gin.Context) {
	order, ok := s.ownedOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

type updateOrderStatusRequest struct {
	Status orderdomain.Status `json:"status" binding:"required"`
}

func (s *Server) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	order, err := s.orderSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

type watchSnapshotEvent struct {
	Order              orderResponse `json:"order"`
	CountdownRemaining int           `json:"countdown_remaining"`
}

type watchStatusEvent struct {
	Reference          string             `json:"reference"`
	Status             orderdomain.Status `json:"status"`
	OccurredAt         time.Time          `json:"occurred_at"`
	CountdownRemaining int                `json:"countdown_remaining"`
}

type watchCountdownEvent struct {
	Remaining int `json:"remaining"`
}

// WatchOrder streams status changes for one order as server-sent events.
// A presentational countdown starts when the watch does; it ticks down to
// zero and holds there, regardless of what the order's status is doing.
// The stream ends when the order completes or the client goes away.
func (s *Server) WatchOrder(c *gin.Context) {
	order, ok := s.ownedOrder(c)
	if !ok {
		return
	}

	changes, err := s.orderSvc.Watch(c.Request.Context(), order.ID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	timer := countdown.New(s.clk, s.cfg.OrderCountdownSeconds)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	first := true
	c.Stream(func(w io.Writer) bool {
		if first {
			first = false
			c.SSEvent("snapshot", watchSnapshotEvent{
				Order:              toOrderResponse(order),
				CountdownRemaining: timer.Remaining(),
			})
			return true
		}

		select {
		case change, open := <-changes:
			if !open {
				return false
			}
			c.SSEvent("status", watchStatusEvent{
				Reference:          change.Reference,
				Status:             change.Status,
				OccurredAt:         change.OccurredAt,
				CountdownRemaining: timer.Remaining(),
			})
			return true

		case <-ticker.C:
			if !timer.Done() {
				c.SSEvent("countdown", watchCountdownEvent{Remaining: timer.Remaining()})
			}
			return true

		case <-c.Request.Context().Done():
			return false
		}
	})
}
