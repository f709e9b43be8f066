package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/samogera/BrightEco-Pay-sub000/pkg/db/pagination"
)

type AddInvoiceRequest struct {
	Amount  int64  `json:"amount" validate:"required,gt=0"`
	Status  string `json:"status" validate:"required,oneof=paid pending failed"`
	Method  string `json:"method"`
	Details string `json:"details"`
}

type ListInvoicesRequest struct {
	PageSize  int32  `form:"page_size"`
	PageToken string `form:"page_token"`
}

type ListInvoicesResponse struct {
	Invoices []Invoice           `json:"invoices"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type AddPaymentMethodRequest struct {
	MethodType string `json:"method_type" validate:"required,oneof=mpesa card bank"`
	Label      string `json:"label"`
	Last4      string `json:"last4" validate:"omitempty,len=4,numeric"`
}

type Service interface {
	// GetState returns the account's billing state, creating it on first
	// access with the configured monthly fee as the opening balance.
	GetState(ctx context.Context) (*BillingState, error)

	// ApplyPayment reduces the balance and advances the due date in one
	// transaction. Observers learn the new state through the live stream.
	ApplyPayment(ctx context.Context, amount int64) error

	// AddToWallet credits the prepaid wallet and returns the new balance.
	AddToWallet(ctx context.Context, amount int64) (int64, error)

	AddInvoice(ctx context.Context, req AddInvoiceRequest) (*Invoice, error)
	ListInvoices(ctx context.Context, req ListInvoicesRequest) (ListInvoicesResponse, error)

	AddPaymentMethod(ctx context.Context, req AddPaymentMethodRequest) (*PaymentMethod, error)
	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)

	// SetPreferredMethod marks one method preferred and clears its siblings
	// in a single statement. An unknown ID still clears the siblings.
	SetPreferredMethod(ctx context.Context, methodID snowflake.ID) error
}

var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidMethod        = errors.New("invalid_method")
	ErrLedgerNotInitialized = errors.New("ledger_not_initialized")
)
