package domain

import (
	"context"
	"errors"
	"time"
)

// AccountBalance is one customer's billing position as seen by an admin.
type AccountBalance struct {
	AccountID     string    `json:"account_id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	Balance       int64     `json:"balance"`
	WalletBalance int64     `json:"wallet_balance"`
	Currency      string    `json:"currency"`
	DueDate       time.Time `json:"due_date"`
	Overdue       bool      `json:"overdue"`
}

// AccountBalancesResponse is the API response for account balances.
type AccountBalancesResponse struct {
	Accounts []AccountBalance `json:"accounts"`
}

// PaymentActivity is a human-readable recent payment event.
type PaymentActivity struct {
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentActivityResponse is the API response for recent payment activity.
type PaymentActivityResponse struct {
	Activity []PaymentActivity `json:"activity"`
}

// Service exposes admin dashboard read models.
type Service interface {
	ListAccountBalances(ctx context.Context) (AccountBalancesResponse, error)
	ListPaymentActivity(ctx context.Context, limit int) (PaymentActivityResponse, error)
}

var ErrForbidden = errors.New("forbidden")
