package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/samogera/BrightEco-Pay-sub000/internal/accountcontext"
	"github.com/samogera/BrightEco-Pay-sub000/internal/events"
	notificationdomain "github.com/samogera/BrightEco-Pay-sub000/internal/notification/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/notification/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAddAndListNotifications(t *testing.T) {
	svc, _, hub := setupNotificationService(t)
	accountID := snowflake.ID(5001)
	ctx := accountcontext.WithAccountID(context.Background(), accountID)

	messages, cancel := hub.Subscribe(accountID)
	defer cancel()

	added, err := svc.Add(ctx, notificationdomain.AddNotificationRequest{
		Type:        notificationdomain.TypePayment,
		Title:       "Payment received",
		Description: "KES 2550 applied.",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.IsRead {
		t.Fatal("new notifications must start unread")
	}

	list, err := svc.List(ctx, notificationdomain.ListNotificationsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Notifications) != 1 || list.Notifications[0].ID != added.ID {
		t.Fatalf("unexpected list %+v", list.Notifications)
	}

	select {
	case msg := <-messages:
		if msg.Type != events.EventNotificationCreated {
			t.Fatalf("broadcast type = %q", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a notification broadcast")
	}
}

func TestAddValidatesType(t *testing.T) {
	svc, _, _ := setupNotificationService(t)
	ctx := accountcontext.WithAccountID(context.Background(), 5002)

	if _, err := svc.Add(ctx, notificationdomain.AddNotificationRequest{
		Type:  "promo",
		Title: "Sale",
	}); err == nil {
		t.Fatal("expected validation failure for unknown type")
	}

	if _, err := svc.Add(context.Background(), notificationdomain.AddNotificationRequest{
		Type:  notificationdomain.TypeAlert,
		Title: "t",
	}); !errors.Is(err, notificationdomain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestListUnreadOnly(t *testing.T) {
	svc, _, _ := setupNotificationService(t)
	ctx := accountcontext.WithAccountID(context.Background(), 5003)

	first := mustAdd(t, svc, ctx, "first")
	mustAdd(t, svc, ctx, "second")

	if err := svc.MarkAsRead(ctx, first.ID); err != nil {
		t.Fatalf("mark as read: %v", err)
	}

	unread, err := svc.List(ctx, notificationdomain.ListNotificationsRequest{UnreadOnly: true})
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread.Notifications) != 1 || unread.Notifications[0].Title != "second" {
		t.Fatalf("unexpected unread set %+v", unread.Notifications)
	}
}

func TestMarkAsReadScopedToAccount(t *testing.T) {
	svc, _, _ := setupNotificationService(t)
	owner := accountcontext.WithAccountID(context.Background(), 5004)
	other := accountcontext.WithAccountID(context.Background(), 5005)

	added := mustAdd(t, svc, owner, "mine")

	if err := svc.MarkAsRead(other, added.ID); !errors.Is(err, notificationdomain.ErrNotFound) {
		t.Fatalf("expected not found across accounts, got %v", err)
	}
	if err := svc.MarkAsRead(owner, added.ID); err != nil {
		t.Fatalf("mark own: %v", err)
	}
}

func TestMarkAllAsReadEmptySetWritesNothing(t *testing.T) {
	svc, db, _ := setupNotificationService(t)
	ctx := accountcontext.WithAccountID(context.Background(), 5006)

	mustAdd(t, svc, ctx, "a")
	mustAdd(t, svc, ctx, "b")

	updated, err := svc.MarkAllAsRead(ctx, nil)
	if err != nil {
		t.Fatalf("mark all with empty set: %v", err)
	}
	if updated != 0 {
		t.Fatalf("updated = %d, want 0", updated)
	}

	var unreadCount int64
	if err := db.Table("notifications").
		Where("account_id = ? AND is_read = ?", 5006, false).
		Count(&unreadCount).Error; err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if unreadCount != 2 {
		t.Fatalf("unread rows = %d, want 2 untouched", unreadCount)
	}
}

func TestMarkAllAsReadBatch(t *testing.T) {
	svc, _, _ := setupNotificationService(t)
	ctx := accountcontext.WithAccountID(context.Background(), 5007)

	a := mustAdd(t, svc, ctx, "a")
	b := mustAdd(t, svc, ctx, "b")
	mustAdd(t, svc, ctx, "c")

	updated, err := svc.MarkAllAsRead(ctx, []snowflake.ID{a.ID, b.ID})
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if updated != 2 {
		t.Fatalf("updated = %d, want 2", updated)
	}

	unread, err := svc.List(ctx, notificationdomain.ListNotificationsRequest{UnreadOnly: true})
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread.Notifications) != 1 || unread.Notifications[0].Title != "c" {
		t.Fatalf("unexpected unread set %+v", unread.Notifications)
	}
}

func mustAdd(t *testing.T, svc notificationdomain.Service, ctx context.Context, title string) *notificationdomain.Notification {
	t.Helper()
	added, err := svc.Add(ctx, notificationdomain.AddNotificationRequest{
		Type:  notificationdomain.TypeAlert,
		Title: title,
	})
	if err != nil {
		t.Fatalf("add %q: %v", title, err)
	}
	return added
}

func setupNotificationService(t *testing.T) (notificationdomain.Service, *gorm.DB, *events.Hub) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGINT PRIMARY KEY,
			account_id BIGINT NOT NULL,
			notification_type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT '',
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create notifications: %v", err)
	}

	node, err := snowflake.NewNode(6)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	hub := events.NewHub()
	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Hub:   hub,
	})
	return svc, db, hub
}
