package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angolife/engage/internal/adgate"
	"github.com/angolife/engage/internal/auth"
	"github.com/angolife/engage/internal/clock"
	"github.com/angolife/engage/internal/config"
	"github.com/angolife/engage/internal/engagement"
	entitlementdomain "github.com/angolife/engage/internal/entitlement/domain"
	"github.com/angolife/engage/internal/observability"
	obslogger "github.com/angolife/engage/internal/observability/logger"
	obsmetrics "github.com/angolife/engage/internal/observability/metrics"
	obstracing "github.com/angolife/engage/internal/observability/tracing"
	orderdomain "github.com/angolife/engage/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	authn          auth.Authenticator
	engagementSvc  *engagement.Service
	gate           *adgate.CooldownGate
	reward         *adgate.RewardToken
	entitlementSvc entitlementdomain.Service
	orderSvc       orderdomain.Service
	clk            clock.Clock
}

type Params struct {
	fx.In

	Engine         *gin.Engine
	Cfg            config.Config
	Log            *zap.Logger
	Authn          auth.Authenticator
	EngagementSvc  *engagement.Service
	Gate           *adgate.CooldownGate
	Reward         *adgate.RewardToken
	EntitlementSvc entitlementdomain.Service
	OrderSvc       orderdomain.Service
	Clk            clock.Clock
}

func NewServer(p Params) *Server {
	s := &Server{
		engine:         p.Engine,
		cfg:            p.Cfg,
		log:            p.Log,
		authn:          p.Authn,
		engagementSvc:  p.EngagementSvc,
		gate:           p.Gate,
		reward:         p.Reward,
		entitlementSvc: p.EntitlementSvc,
		orderSvc:       p.OrderSvc,
		clk:            p.Clk,
	}
	s.RegisterRoutes()
	return s
}

func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/auth/session", s.StartSession)

	v1.POST("/content/:domain/open", s.OptionalAuth(), s.OpenContent)

	v1.GET("/ads/interstitial", s.InterstitialEligibility)
	v1.POST("/ads/interstitial/shown", s.RecordInterstitialShown)
	v1.GET("/ads/rewarded", s.RewardStatus)
	v1.POST("/ads/rewarded/complete", s.CompleteRewardedAd)

	v1.GET("/entitlements", s.AuthRequired(), s.ResolveEntitlement)
	v1.POST("/cv/export", s.AuthRequired(), s.ExportCV)
	v1.POST("/purchases", s.AuthRequired(), s.Purchase)

	v1.POST("/orders", s.AuthRequired(), s.CreateOrder)
	v1.GET("/orders/:id", s.AuthRequired(), s.GetOrder)
	v1.POST("/orders/:id/status", s.AuthRequired(), s.UpdateOrderStatus)
	v1.GET("/orders/:id/watch", s.AuthRequired(), s.WatchOrder)
}

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// Module wires the gin engine, route registration and the HTTP lifecycle.
var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)
