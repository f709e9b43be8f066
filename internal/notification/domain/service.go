package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/samogera/BrightEco-Pay-sub000/pkg/db/pagination"
)

type AddNotificationRequest struct {
	Type        string `json:"type" validate:"required,oneof=payment device wallet alert"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Link        string `json:"link" validate:"omitempty,uri"`
}

type ListNotificationsRequest struct {
	UnreadOnly bool   `form:"unread_only"`
	PageSize   int32  `form:"page_size"`
	PageToken  string `form:"page_token"`
}

type ListNotificationsResponse struct {
	Notifications []Notification      `json:"notifications"`
	PageInfo      pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Add(ctx context.Context, req AddNotificationRequest) (*Notification, error)
	List(ctx context.Context, req ListNotificationsRequest) (ListNotificationsResponse, error)
	MarkAsRead(ctx context.Context, id snowflake.ID) error
	// MarkAllAsRead flips the given IDs in one batch UPDATE. An empty set
	// performs no writes and reports zero updates.
	MarkAllAsRead(ctx context.Context, ids []snowflake.ID) (int64, error)
}

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidType     = errors.New("invalid_notification_type")
	ErrNotFound        = errors.New("notification_not_found")
)
