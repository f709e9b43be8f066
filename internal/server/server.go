package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	authdomain "github.com/samogera/BrightEco-Pay-sub000/internal/auth/domain"
	billingdomain "github.com/samogera/BrightEco-Pay-sub000/internal/billing/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/clock"
	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	dashboarddomain "github.com/samogera/BrightEco-Pay-sub000/internal/dashboard/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/events"
	insightdomain "github.com/samogera/BrightEco-Pay-sub000/internal/insight/domain"
	notificationdomain "github.com/samogera/BrightEco-Pay-sub000/internal/notification/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/observability/logger"
	"github.com/samogera/BrightEco-Pay-sub000/internal/observability/metrics"
	paymentdomain "github.com/samogera/BrightEco-Pay-sub000/internal/payment/domain"
	telemetrydomain "github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/domain"
	ticketdomain "github.com/samogera/BrightEco-Pay-sub000/internal/ticket/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg           config.Config
	Log           *zap.Logger
	Clock         clock.Clock
	Hub           *events.Hub
	Auth          authdomain.Service
	Billing       billingdomain.Service
	Notifications notificationdomain.Service
	Tickets       ticketdomain.Service
	Telemetry     telemetrydomain.Service
	Payments      paymentdomain.Service
	Insights      insightdomain.Service
	Dashboard     dashboarddomain.Service
	HTTPMetrics   *metrics.HTTPMetrics `optional:"true"`
}

// Server wires every domain service behind the HTTP API.
type Server struct {
	cfg           config.Config
	log           *zap.Logger
	clock         clock.Clock
	hub           *events.Hub
	auth          authdomain.Service
	billing       billingdomain.Service
	notifications notificationdomain.Service
	tickets       ticketdomain.Service
	telemetry     telemetrydomain.Service
	payments      paymentdomain.Service
	insights      insightdomain.Service
	dashboard     dashboarddomain.Service
	httpMetrics   *metrics.HTTPMetrics
	stkLimiter    *rateLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:           p.Cfg,
		log:           p.Log.Named("server"),
		clock:         p.Clock,
		hub:           p.Hub,
		auth:          p.Auth,
		billing:       p.Billing,
		notifications: p.Notifications,
		tickets:       p.Tickets,
		telemetry:     p.Telemetry,
		payments:      p.Payments,
		insights:      p.Insights,
		dashboard:     p.Dashboard,
		httpMetrics:   p.HTTPMetrics,
		stkLimiter:    newRateLimiter(p.Cfg.StkRateLimit, p.Cfg.StkRateWindow, p.Clock),
	}
}

// Engine builds the gin engine with middleware and every route registered.
func (s *Server) Engine() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	if s.httpMetrics != nil {
		engine.Use(metrics.GinMiddleware(s.httpMetrics))
	}

	s.RegisterRoutes(engine)
	return engine
}

func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	api.Use(s.Authenticate())

	api.POST("/auth/signup", s.SignUp)
	api.POST("/auth/login", s.Login)
	api.POST("/support/tickets", s.SubmitTicket)

	authed := api.Group("")
	authed.Use(s.RequireAccount())
	{
		authed.POST("/auth/logout", s.Logout)
		authed.GET("/auth/me", s.Me)

		authed.GET("/billing/state", s.GetBillingState)
		authed.POST("/billing/payments", s.ApplyPayment)
		authed.POST("/billing/wallet/topup", s.AddToWallet)
		authed.GET("/billing/invoices", s.ListInvoices)
		authed.POST("/billing/invoices", s.AddInvoice)
		authed.GET("/billing/payment-methods", s.ListPaymentMethods)
		authed.POST("/billing/payment-methods", s.AddPaymentMethod)
		authed.PUT("/billing/payment-methods/:id/preferred", s.SetPreferredMethod)

		authed.GET("/notifications", s.ListNotifications)
		authed.POST("/notifications/read-all", s.MarkAllNotificationsRead)
		authed.POST("/notifications/:id/read", s.MarkNotificationRead)

		authed.POST("/telemetry/readings", s.IngestReading)
		authed.GET("/telemetry/readings", s.ListReadings)

		authed.POST("/payments/stk-push", s.InitiateSTKPush)

		authed.POST("/insights/energy", s.GenerateInsight)
		authed.POST("/insights/device", s.DeviceAdvice)

		authed.GET("/live", s.LiveStream)
	}

	admin := api.Group("/admin")
	admin.Use(s.RequireAccount(), s.RequireAdmin())
	{
		admin.GET("/accounts/balances", s.ListAccountBalances)
		admin.GET("/payments/activity", s.ListPaymentActivity)
	}
}

// RunHTTP binds the engine to the configured address under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
