package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/samogera/BrightEco-Pay-sub000/internal/accountcontext"
	billingdomain "github.com/samogera/BrightEco-Pay-sub000/internal/billing/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/clock"
	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	"github.com/samogera/BrightEco-Pay-sub000/internal/events"
	notificationdomain "github.com/samogera/BrightEco-Pay-sub000/internal/notification/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/observability/metrics"
	"github.com/samogera/BrightEco-Pay-sub000/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const daysPerBillingMonth = 30

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Config   config.Config
	Repo     billingdomain.Repository
	Outbox   *events.Outbox
	Hub      *events.Hub
	Notifier notificationdomain.Service
	Metrics  *metrics.BillingMetrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	cfg      config.Config
	repo     billingdomain.Repository
	outbox   *events.Outbox
	hub      *events.Hub
	notifier notificationdomain.Service
	metrics  *metrics.BillingMetrics
	validate *validator.Validate
}

func NewService(p Params) billingdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("billing.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		cfg:      p.Config,
		repo:     p.Repo,
		outbox:   p.Outbox,
		hub:      p.Hub,
		notifier: p.Notifier,
		metrics:  p.Metrics,
		validate: validator.New(),
	}
}

func (s *Service) GetState(ctx context.Context) (*billingdomain.BillingState, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return nil, billingdomain.ErrUnauthenticated
	}

	state, err := s.repo.FindState(ctx, s.db, accountID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, billingdomain.ErrLedgerNotInitialized) {
		return nil, err
	}

	now := s.clock.Now()
	state = &billingdomain.BillingState{
		AccountID:     accountID,
		Balance:       s.cfg.MonthlyFee,
		WalletBalance: 0,
		DueDate:       now.Add(s.cfg.InitialDueIn),
		Currency:      s.cfg.Currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.InsertState(ctx, s.db, state); err != nil {
		// Lost the creation race; the winner's row is authoritative.
		if existing, readErr := s.repo.FindState(ctx, s.db, accountID); readErr == nil {
			return existing, nil
		}
		return nil, err
	}

	s.log.Info("billing state initialized",
		zap.String("account_id", accountID.String()),
		zap.Int64("opening_balance", state.Balance),
	)
	return state, nil
}

func (s *Service) ApplyPayment(ctx context.Context, amount int64) error {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return billingdomain.ErrUnauthenticated
	}
	if amount <= 0 {
		s.metrics.IncPaymentApplied("rejected")
		return billingdomain.ErrInvalidAmount
	}

	var committed billingdomain.BillingState
	var advancedDays int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := s.repo.FindStateForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		method := "direct"
		if amount == state.Balance && state.WalletBalance >= amount {
			state.WalletBalance -= amount
			method = "wallet"
		}

		state.Balance -= amount
		if state.Balance < 0 {
			state.Balance = 0
		}

		months := int(amount / s.cfg.MonthlyFee)
		extraDays := int((amount % s.cfg.MonthlyFee) * daysPerBillingMonth / s.cfg.MonthlyFee)
		previousDue := state.DueDate
		state.DueDate = state.DueDate.AddDate(0, months, extraDays)
		advancedDays = int(state.DueDate.Sub(previousDue).Hours() / 24)

		if err := s.repo.SaveState(ctx, tx, state); err != nil {
			return err
		}

		invoice := &billingdomain.Invoice{
			ID:        s.genID.Generate(),
			AccountID: accountID,
			Amount:    amount,
			Currency:  state.Currency,
			Status:    billingdomain.InvoiceStatusPaid,
			Method:    method,
			Details:   fmt.Sprintf("Covers %d month(s) and %d day(s) of service", months, extraDays),
			CreatedAt: s.clock.Now(),
		}
		if err := s.repo.InsertInvoice(ctx, tx, invoice); err != nil {
			return err
		}

		payload := statePayload(state)
		payload["amount"] = amount
		payload["invoice_id"] = invoice.ID.String()
		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			AccountID: accountID,
			Type:      events.EventPaymentApplied,
			Payload:   payload,
		}); err != nil {
			return err
		}

		committed = *state
		return nil
	})
	if err != nil {
		if !errors.Is(err, billingdomain.ErrLedgerNotInitialized) {
			s.metrics.IncPaymentApplied("failed")
		}
		return err
	}

	s.metrics.IncPaymentApplied("success")
	s.metrics.ObservePaymentAmount(amount)
	s.metrics.ObserveDueDateAdvance(advancedDays)

	s.hub.Broadcast(accountID, events.Message{
		Type:    events.EventPaymentApplied,
		Payload: statePayload(&committed),
	})
	s.notify(ctx, notificationdomain.AddNotificationRequest{
		Type:        notificationdomain.TypePayment,
		Title:       "Payment received",
		Description: fmt.Sprintf("Your payment of %s %d was applied. Next due date: %s.", committed.Currency, amount, committed.DueDate.Format("2 Jan 2006")),
	})

	s.log.Info("payment applied",
		zap.String("account_id", accountID.String()),
		zap.Int64("amount", amount),
		zap.Int64("balance", committed.Balance),
		zap.Time("due_date", committed.DueDate),
	)
	return nil
}

func (s *Service) AddToWallet(ctx context.Context, amount int64) (int64, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return 0, billingdomain.ErrUnauthenticated
	}
	if amount <= 0 {
		return 0, billingdomain.ErrInvalidAmount
	}

	var committed billingdomain.BillingState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := s.repo.FindStateForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		state.WalletBalance += amount
		if err := s.repo.SaveState(ctx, tx, state); err != nil {
			return err
		}

		payload := statePayload(state)
		payload["amount"] = amount
		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			AccountID: accountID,
			Type:      events.EventWalletTopup,
			Payload:   payload,
		}); err != nil {
			return err
		}

		committed = *state
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.metrics.IncWalletTopup()
	s.hub.Broadcast(accountID, events.Message{
		Type:    events.EventWalletTopup,
		Payload: statePayload(&committed),
	})
	s.notify(ctx, notificationdomain.AddNotificationRequest{
		Type:        notificationdomain.TypeWallet,
		Title:       "Wallet topped up",
		Description: fmt.Sprintf("%s %d added to your wallet. New wallet balance: %s %d.", committed.Currency, amount, committed.Currency, committed.WalletBalance),
	})

	return committed.WalletBalance, nil
}

func (s *Service) AddInvoice(ctx context.Context, req billingdomain.AddInvoiceRequest) (*billingdomain.Invoice, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return nil, billingdomain.ErrUnauthenticated
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	invoice := &billingdomain.Invoice{
		ID:        s.genID.Generate(),
		AccountID: accountID,
		Amount:    req.Amount,
		Currency:  s.cfg.Currency,
		Status:    req.Status,
		Method:    strings.TrimSpace(req.Method),
		Details:   strings.TrimSpace(req.Details),
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.InsertInvoice(ctx, s.db, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) ListInvoices(ctx context.Context, req billingdomain.ListInvoicesRequest) (billingdomain.ListInvoicesResponse, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return billingdomain.ListInvoicesResponse{}, billingdomain.ErrUnauthenticated
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	filter := billingdomain.InvoiceFilter{
		AccountID: accountID,
		Limit:     int(pageSize) + 1,
	}
	if cursor, err := pagination.DecodeCursor(req.PageToken); err == nil && cursor.ID != "" {
		if id, err := snowflake.ParseString(cursor.ID); err == nil {
			filter.BeforeID = id
		}
		if at, err := time.Parse(time.RFC3339, cursor.CreatedAt); err == nil {
			filter.BeforeCreatedAt = at
		}
	}

	items, err := s.repo.ListInvoices(ctx, s.db, filter)
	if err != nil {
		return billingdomain.ListInvoicesResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(record billingdomain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        record.ID.String(),
			CreatedAt: record.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	return billingdomain.ListInvoicesResponse{
		Invoices: items,
		PageInfo: *pageInfo,
	}, nil
}

func (s *Service) AddPaymentMethod(ctx context.Context, req billingdomain.AddPaymentMethodRequest) (*billingdomain.PaymentMethod, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return nil, billingdomain.ErrUnauthenticated
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	method := &billingdomain.PaymentMethod{
		ID:         s.genID.Generate(),
		AccountID:  accountID,
		MethodType: strings.TrimSpace(req.MethodType),
		Label:      strings.TrimSpace(req.Label),
		Last4:      strings.TrimSpace(req.Last4),
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.InsertPaymentMethod(ctx, s.db, method); err != nil {
		return nil, err
	}
	return method, nil
}

func (s *Service) ListPaymentMethods(ctx context.Context) ([]billingdomain.PaymentMethod, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return nil, billingdomain.ErrUnauthenticated
	}
	return s.repo.ListPaymentMethods(ctx, s.db, accountID)
}

func (s *Service) SetPreferredMethod(ctx context.Context, methodID snowflake.ID) error {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return billingdomain.ErrUnauthenticated
	}
	if methodID == 0 {
		return billingdomain.ErrInvalidMethod
	}
	return s.repo.SetPreferred(ctx, s.db, accountID, methodID)
}

func (s *Service) notify(ctx context.Context, req notificationdomain.AddNotificationRequest) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Add(ctx, req); err != nil {
		s.log.Warn("notification emit failed", zap.String("type", req.Type), zap.Error(err))
	}
}

func statePayload(state *billingdomain.BillingState) map[string]any {
	return events.BillingStatePayload{
		AccountID:     state.AccountID.String(),
		Balance:       state.Balance,
		WalletBalance: state.WalletBalance,
		DueDate:       state.DueDate.UTC().Format(time.RFC3339),
		Currency:      state.Currency,
	}.ToMap()
}
