package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BillingState is the single mutable billing row per account. Amounts are
// whole currency units (KES), never fractional.
type BillingState struct {
	AccountID     snowflake.ID `gorm:"primaryKey" json:"account_id"`
	Balance       int64        `gorm:"not null;default:0" json:"balance"`
	WalletBalance int64        `gorm:"not null;default:0" json:"wallet_balance"`
	DueDate       time.Time    `gorm:"not null" json:"due_date"`
	Currency      string       `gorm:"type:text;not null;default:'KES'" json:"currency"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (BillingState) TableName() string { return "billing_states" }

// Invoice statuses.
const (
	InvoiceStatusPaid    = "paid"
	InvoiceStatusPending = "pending"
	InvoiceStatusFailed  = "failed"
)

// Invoice is an append-only payment record.
type Invoice struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID snowflake.ID `gorm:"not null;index:idx_invoices_account_created" json:"account_id"`
	Amount    int64        `gorm:"not null" json:"amount"`
	Currency  string       `gorm:"type:text;not null;default:'KES'" json:"currency"`
	Status    string       `gorm:"type:text;not null" json:"status"`
	Method    string       `gorm:"type:text;not null;default:''" json:"method"`
	Details   string       `gorm:"type:text;not null;default:''" json:"details"`
	CreatedAt time.Time    `gorm:"not null;index:idx_invoices_account_created" json:"created_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// PaymentMethod is a stored payout instrument reference. No credentials are
// kept, only a display label and last digits.
type PaymentMethod struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID   snowflake.ID `gorm:"not null;index" json:"account_id"`
	MethodType  string       `gorm:"type:text;not null" json:"method_type"`
	Label       string       `gorm:"type:text;not null;default:''" json:"label"`
	Last4       string       `gorm:"type:text;not null;default:''" json:"last4"`
	IsPreferred bool         `gorm:"not null;default:false" json:"is_preferred"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (PaymentMethod) TableName() string { return "payment_methods" }
