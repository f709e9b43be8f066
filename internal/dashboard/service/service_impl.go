package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samogera/BrightEco-Pay-sub000/internal/clock"
	dashboarddomain "github.com/samogera/BrightEco-Pay-sub000/internal/dashboard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p Params) dashboarddomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
	}
}

func (s *Service) ListAccountBalances(ctx context.Context) (dashboarddomain.AccountBalancesResponse, error) {
	var rows []struct {
		AccountID     int64
		Email         string
		DisplayName   string
		Balance       int64
		WalletBalance int64
		Currency      string
		DueDate       time.Time
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT b.account_id, a.email, a.display_name,
		        b.balance, b.wallet_balance, b.currency, b.due_date
		 FROM billing_states b
		 JOIN accounts a ON a.id = b.account_id
		 ORDER BY b.due_date ASC`,
	).Scan(&rows).Error
	if err != nil {
		return dashboarddomain.AccountBalancesResponse{}, err
	}

	now := s.clock.Now()
	accounts := make([]dashboarddomain.AccountBalance, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, dashboarddomain.AccountBalance{
			AccountID:     fmt.Sprintf("%d", row.AccountID),
			Email:         row.Email,
			DisplayName:   row.DisplayName,
			Balance:       row.Balance,
			WalletBalance: row.WalletBalance,
			Currency:      row.Currency,
			DueDate:       row.DueDate,
			Overdue:       row.Balance > 0 && row.DueDate.Before(now),
		})
	}
	return dashboarddomain.AccountBalancesResponse{Accounts: accounts}, nil
}

func (s *Service) ListPaymentActivity(ctx context.Context, limit int) (dashboarddomain.PaymentActivityResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var rows []struct {
		Email     string
		Amount    int64
		Currency  string
		Status    string
		Method    string
		CreatedAt time.Time
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT a.email, i.amount, i.currency, i.status, i.method, i.created_at
		 FROM invoices i
		 JOIN accounts a ON a.id = i.account_id
		 ORDER BY i.created_at DESC
		 LIMIT ?`,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return dashboarddomain.PaymentActivityResponse{}, err
	}

	activity := make([]dashboarddomain.PaymentActivity, 0, len(rows))
	for _, row := range rows {
		message := fmt.Sprintf("%s paid %s %d (%s)", row.Email, row.Currency, row.Amount, row.Status)
		if row.Method != "" {
			message = fmt.Sprintf("%s via %s", message, row.Method)
		}
		activity = append(activity, dashboarddomain.PaymentActivity{
			Message:    message,
			OccurredAt: row.CreatedAt,
		})
	}
	return dashboarddomain.PaymentActivityResponse{Activity: activity}, nil
}
