package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/samogera/BrightEco-Pay-sub000/internal/billing/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct{}

func Provide() billingdomain.Repository { return &repository{} }

func (r *repository) FindStateForUpdate(ctx context.Context, tx *gorm.DB, accountID snowflake.ID) (*billingdomain.BillingState, error) {
	var state billingdomain.BillingState
	query := tx.WithContext(ctx)
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.First(&state, "account_id = ?", accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billingdomain.ErrLedgerNotInitialized
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *repository) FindState(ctx context.Context, db *gorm.DB, accountID snowflake.ID) (*billingdomain.BillingState, error) {
	var state billingdomain.BillingState
	err := db.WithContext(ctx).First(&state, "account_id = ?", accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billingdomain.ErrLedgerNotInitialized
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *repository) InsertState(ctx context.Context, db *gorm.DB, state *billingdomain.BillingState) error {
	return db.WithContext(ctx).Create(state).Error
}

func (r *repository) SaveState(ctx context.Context, tx *gorm.DB, state *billingdomain.BillingState) error {
	state.UpdatedAt = time.Now().UTC()
	return tx.WithContext(ctx).
		Model(&billingdomain.BillingState{}).
		Where("account_id = ?", state.AccountID).
		Updates(map[string]any{
			"balance":        state.Balance,
			"wallet_balance": state.WalletBalance,
			"due_date":       state.DueDate,
			"updated_at":     state.UpdatedAt,
		}).Error
}

func (r *repository) InsertInvoice(ctx context.Context, db *gorm.DB, invoice *billingdomain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) ListInvoices(ctx context.Context, db *gorm.DB, filter billingdomain.InvoiceFilter) ([]billingdomain.Invoice, error) {
	query := db.WithContext(ctx).
		Where("account_id = ?", filter.AccountID).
		Order("created_at DESC, id DESC")

	if !filter.BeforeCreatedAt.IsZero() {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.BeforeCreatedAt,
			filter.BeforeCreatedAt,
			filter.BeforeID,
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var invoices []billingdomain.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repository) InsertPaymentMethod(ctx context.Context, db *gorm.DB, method *billingdomain.PaymentMethod) error {
	return db.WithContext(ctx).Create(method).Error
}

func (r *repository) ListPaymentMethods(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]billingdomain.PaymentMethod, error) {
	var methods []billingdomain.PaymentMethod
	err := db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC, id ASC").
		Find(&methods).Error
	if err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *repository) SetPreferred(ctx context.Context, db *gorm.DB, accountID, methodID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE payment_methods
		    SET is_preferred = (id = ?)
		  WHERE account_id = ?`,
		methodID,
		accountID,
	).Error
}
