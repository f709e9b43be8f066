package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/samogera/BrightEco-Pay-sub000/internal/accountcontext"
	auditdomain "github.com/samogera/BrightEco-Pay-sub000/internal/audit/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	"github.com/samogera/BrightEco-Pay-sub000/internal/events"
	notificationdomain "github.com/samogera/BrightEco-Pay-sub000/internal/notification/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/observability/logger"
	"github.com/samogera/BrightEco-Pay-sub000/internal/observability/metrics"
	paymentdomain "github.com/samogera/BrightEco-Pay-sub000/internal/payment/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/payment/gateway"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Config   config.Config
	Registry *gateway.Registry
	Hub      *events.Hub
	Notifier notificationdomain.Service `optional:"true"`
	Audit    auditdomain.Service        `optional:"true"`
	Metrics  *metrics.BillingMetrics    `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	cfg      config.Config
	registry *gateway.Registry
	hub      *events.Hub
	notifier notificationdomain.Service
	audit    auditdomain.Service
	metrics  *metrics.BillingMetrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		cfg:      p.Config,
		registry: p.Registry,
		hub:      p.Hub,
		notifier: p.Notifier,
		audit:    p.Audit,
		metrics:  p.Metrics,
	}
}

func (s *Service) InitiateSTKPush(ctx context.Context, req paymentdomain.InitiateSTKPushRequest) (paymentdomain.STKPushResponse, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return paymentdomain.STKPushResponse{}, paymentdomain.ErrUnauthenticated
	}

	phone, err := paymentdomain.NormalizeMSISDN(req.Phone)
	if err != nil {
		return paymentdomain.STKPushResponse{}, err
	}
	if req.Amount <= 0 {
		return paymentdomain.STKPushResponse{}, paymentdomain.ErrInvalidAmount
	}

	provider, err := s.registry.Resolve(gateway.ProviderSandbox)
	if err != nil {
		return paymentdomain.STKPushResponse{}, err
	}

	attempt := &paymentdomain.PaymentAttempt{
		ID:        s.genID.Generate(),
		AccountID: accountID,
		Provider:  provider.Provider(),
		Phone:     phone,
		Amount:    req.Amount,
		Status:    paymentdomain.AttemptStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return paymentdomain.STKPushResponse{}, err
	}

	s.log.Info("stk push initiated",
		zap.String("attempt_id", attempt.ID.String()),
		zap.String("phone", logger.MaskMSISDN(phone)),
		zap.Int64("amount", req.Amount),
	)

	started := time.Now()
	result, pushErr := provider.Push(ctx, paymentdomain.PushRequest{
		Phone:     phone,
		Amount:    req.Amount,
		Currency:  s.cfg.Currency,
		Reference: attempt.ID.String(),
	})
	s.metrics.ObserveStkPushLatency(time.Since(started))

	resolvedAt := time.Now().UTC()
	status := paymentdomain.AttemptStatusSuccess
	if pushErr != nil || !result.Success {
		status = paymentdomain.AttemptStatusFailed
	}
	if err := s.db.WithContext(ctx).
		Model(&paymentdomain.PaymentAttempt{}).
		Where("id = ?", attempt.ID).
		Updates(map[string]any{
			"status":      status,
			"message":     result.Message,
			"checkout_id": result.CheckoutID,
			"resolved_at": resolvedAt,
		}).Error; err != nil {
		s.log.Warn("attempt update failed", zap.String("attempt_id", attempt.ID.String()), zap.Error(err))
	}
	if pushErr != nil {
		return paymentdomain.STKPushResponse{}, pushErr
	}

	s.hub.Broadcast(accountID, events.Message{
		Type: events.EventStkPushResolved,
		Payload: map[string]any{
			"attempt_id": attempt.ID.String(),
			"status":     status,
			"amount":     req.Amount,
		},
	})
	if s.notifier != nil {
		if _, err := s.notifier.Add(ctx, notificationdomain.AddNotificationRequest{
			Type:        notificationdomain.TypePayment,
			Title:       "STK push sent",
			Description: result.Message,
		}); err != nil {
			s.log.Warn("notification emit failed", zap.Error(err))
		}
	}
	if s.audit != nil {
		attemptID := attempt.ID.String()
		_ = s.audit.AuditLog(ctx, &accountID, "", nil, "payment.stk_push", "payment_attempt", &attemptID, map[string]any{
			"amount":   req.Amount,
			"provider": attempt.Provider,
			"status":   status,
		})
	}

	return paymentdomain.STKPushResponse{
		Success:    result.Success,
		Message:    result.Message,
		CheckoutID: result.CheckoutID,
	}, nil
}
