package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/samogera/BrightEco-Pay-sub000/internal/accountcontext"
	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	"github.com/samogera/BrightEco-Pay-sub000/internal/events"
	paymentdomain "github.com/samogera/BrightEco-Pay-sub000/internal/payment/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/payment/gateway"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestInitiateSTKPushResolvesWithAmountAndPhone(t *testing.T) {
	svc, db := setupPaymentService(t, 10*time.Millisecond)
	ctx := accountcontext.WithAccountID(context.Background(), 9001)

	resp, err := svc.InitiateSTKPush(ctx, paymentdomain.InitiateSTKPushRequest{
		Phone:  "0712345678",
		Amount: 2550,
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success")
	}
	if !strings.Contains(resp.Message, "+254712345678") {
		t.Fatalf("message %q does not mention the normalized phone", resp.Message)
	}
	if !strings.Contains(resp.Message, strconv.Itoa(2550)) {
		t.Fatalf("message %q does not mention the amount", resp.Message)
	}

	var attempt paymentdomain.PaymentAttempt
	if err := db.First(&attempt, "account_id = ?", 9001).Error; err != nil {
		t.Fatalf("load attempt: %v", err)
	}
	if attempt.Status != paymentdomain.AttemptStatusSuccess {
		t.Fatalf("attempt status = %q, want success", attempt.Status)
	}
	if attempt.ResolvedAt == nil {
		t.Fatal("expected attempt to be resolved")
	}
	if attempt.Phone != "+254712345678" {
		t.Fatalf("stored phone = %q, want normalized form", attempt.Phone)
	}
}

func TestInitiateSTKPushValidates(t *testing.T) {
	svc, _ := setupPaymentService(t, 0)
	ctx := accountcontext.WithAccountID(context.Background(), 9002)

	if _, err := svc.InitiateSTKPush(ctx, paymentdomain.InitiateSTKPushRequest{
		Phone:  "12345",
		Amount: 100,
	}); !errors.Is(err, paymentdomain.ErrInvalidPhone) {
		t.Fatalf("expected invalid phone, got %v", err)
	}

	if _, err := svc.InitiateSTKPush(ctx, paymentdomain.InitiateSTKPushRequest{
		Phone:  "0712345678",
		Amount: 0,
	}); !errors.Is(err, paymentdomain.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}

	if _, err := svc.InitiateSTKPush(context.Background(), paymentdomain.InitiateSTKPushRequest{
		Phone:  "0712345678",
		Amount: 100,
	}); !errors.Is(err, paymentdomain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestInitiateSTKPushBroadcasts(t *testing.T) {
	svc, _ := setupPaymentService(t, 0)
	accountID := snowflake.ID(9003)
	ctx := accountcontext.WithAccountID(context.Background(), accountID)

	hub := svc.(*Service).hub
	messages, cancel := hub.Subscribe(accountID)
	defer cancel()

	if _, err := svc.InitiateSTKPush(ctx, paymentdomain.InitiateSTKPushRequest{
		Phone:  "0712345678",
		Amount: 500,
	}); err != nil {
		t.Fatalf("initiate: %v", err)
	}

	select {
	case msg := <-messages:
		if msg.Type != events.EventStkPushResolved {
			t.Fatalf("broadcast type = %q", msg.Type)
		}
		if msg.Payload["status"] != paymentdomain.AttemptStatusSuccess {
			t.Fatalf("broadcast status = %v", msg.Payload["status"])
		}
	case <-time.After(time.Second):
		t.Fatal("expected a resolution broadcast")
	}
}

func TestDefaultStkPushDelayIsFifteenHundredMillis(t *testing.T) {
	if delay := config.Load().StkPushDelay; delay != 1500*time.Millisecond {
		t.Fatalf("default STK push delay = %v, want 1.5s", delay)
	}
}

func setupPaymentService(t *testing.T, delay time.Duration) (paymentdomain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS payment_attempts (
			id BIGINT PRIMARY KEY,
			account_id BIGINT NOT NULL,
			provider TEXT NOT NULL,
			phone TEXT NOT NULL,
			amount BIGINT NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			checkout_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			resolved_at TIMESTAMP
		)`,
	).Error; err != nil {
		t.Fatalf("create payment_attempts: %v", err)
	}

	node, err := snowflake.NewNode(5)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	registry := gateway.NewRegistry()
	registry.Register(gateway.NewSandbox(delay))

	svc := NewService(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Config:   config.Config{Currency: "KES"},
		Registry: registry,
		Hub:      events.NewHub(),
	})
	return svc, db
}
