package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/samogera/BrightEco-Pay-sub000/internal/auth/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/auth/password"
	billingdomain "github.com/samogera/BrightEco-Pay-sub000/internal/billing/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@brighteco.africa"
	demoPassword = "demo-sunrise"
	demoDisplay  = "Demo Household"
	demoPhone    = "+254700000001"
	adminEmail   = "admin@brighteco.africa"
	adminDisplay = "BrightEco Admin"
)

// EnsureDemoAccount seeds a demo customer and an admin for local and
// sandbox deployments. Production skips this entirely.
func EnsureDemoAccount(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if cfg.IsProduction() || !cfg.Bootstrap.EnsureDemoAccount {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		demo, err := ensureAccount(ctx, tx, node, demoEmail, demoDisplay, demoPhone, false)
		if err != nil {
			return err
		}
		if _, err := ensureAccount(ctx, tx, node, adminEmail, adminDisplay, "", true); err != nil {
			return err
		}
		return ensureBillingState(ctx, tx, demo.ID, cfg)
	})
}

func ensureAccount(ctx context.Context, tx *gorm.DB, node *snowflake.Node, email, display, phone string, isAdmin bool) (*authdomain.Account, error) {
	var account authdomain.Account
	err := tx.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(demoPassword)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	account = authdomain.Account{
		ID:           node.Generate(),
		Email:        email,
		Phone:        phone,
		DisplayName:  display,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func ensureBillingState(ctx context.Context, tx *gorm.DB, accountID snowflake.ID, cfg config.Config) error {
	var existing billingdomain.BillingState
	err := tx.WithContext(ctx).Where("account_id = ?", accountID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	return tx.WithContext(ctx).Create(&billingdomain.BillingState{
		AccountID:     accountID,
		Balance:       cfg.MonthlyFee,
		WalletBalance: 0,
		DueDate:       now.Add(cfg.InitialDueIn),
		Currency:      cfg.Currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}).Error
}
