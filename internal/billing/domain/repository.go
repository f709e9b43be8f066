package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type InvoiceFilter struct {
	AccountID       snowflake.ID
	BeforeCreatedAt time.Time
	BeforeID        snowflake.ID
	Limit           int
}

type Repository interface {
	// FindStateForUpdate reads the account row inside tx with a row lock on
	// engines that support it.
	FindStateForUpdate(ctx context.Context, tx *gorm.DB, accountID snowflake.ID) (*BillingState, error)
	FindState(ctx context.Context, db *gorm.DB, accountID snowflake.ID) (*BillingState, error)
	InsertState(ctx context.Context, db *gorm.DB, state *BillingState) error
	SaveState(ctx context.Context, tx *gorm.DB, state *BillingState) error

	InsertInvoice(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	ListInvoices(ctx context.Context, db *gorm.DB, filter InvoiceFilter) ([]Invoice, error)

	InsertPaymentMethod(ctx context.Context, db *gorm.DB, method *PaymentMethod) error
	ListPaymentMethods(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]PaymentMethod, error)
	// SetPreferred flips is_preferred for every method of the account in one
	// UPDATE: true where the ID matches, false everywhere else.
	SetPreferred(ctx context.Context, db *gorm.DB, accountID, methodID snowflake.ID) error
}
