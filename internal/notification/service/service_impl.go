package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/samogera/BrightEco-Pay-sub000/internal/accountcontext"
	"github.com/samogera/BrightEco-Pay-sub000/internal/events"
	notificationdomain "github.com/samogera/BrightEco-Pay-sub000/internal/notification/domain"
	"github.com/samogera/BrightEco-Pay-sub000/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  notificationdomain.Repository
	Hub   *events.Hub
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     notificationdomain.Repository
	hub      *events.Hub
	validate *validator.Validate
}

func NewService(p Params) notificationdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("notification.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		hub:      p.Hub,
		validate: validator.New(),
	}
}

func (s *Service) Add(ctx context.Context, req notificationdomain.AddNotificationRequest) (*notificationdomain.Notification, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return nil, notificationdomain.ErrUnauthenticated
	}

	req.Type = strings.TrimSpace(req.Type)
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	record := &notificationdomain.Notification{
		ID:               s.genID.Generate(),
		AccountID:        accountID,
		NotificationType: req.Type,
		Title:            req.Title,
		Description:      strings.TrimSpace(req.Description),
		Link:             strings.TrimSpace(req.Link),
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		return nil, err
	}

	s.hub.Broadcast(accountID, events.Message{
		Type: events.EventNotificationCreated,
		Payload: map[string]any{
			"id":    record.ID.String(),
			"type":  record.NotificationType,
			"title": record.Title,
		},
	})
	return record, nil
}

func (s *Service) List(ctx context.Context, req notificationdomain.ListNotificationsRequest) (notificationdomain.ListNotificationsResponse, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return notificationdomain.ListNotificationsResponse{}, notificationdomain.ErrUnauthenticated
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	filter := notificationdomain.Filter{
		AccountID:  accountID,
		UnreadOnly: req.UnreadOnly,
		Limit:      int(pageSize) + 1,
	}
	if cursor, err := pagination.DecodeCursor(req.PageToken); err == nil && cursor.ID != "" {
		if id, err := snowflake.ParseString(cursor.ID); err == nil {
			filter.BeforeID = id
		}
		if at, err := time.Parse(time.RFC3339, cursor.CreatedAt); err == nil {
			filter.BeforeCreatedAt = at
		}
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return notificationdomain.ListNotificationsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(record notificationdomain.Notification) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        record.ID.String(),
			CreatedAt: record.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	return notificationdomain.ListNotificationsResponse{
		Notifications: items,
		PageInfo:      *pageInfo,
	}, nil
}

func (s *Service) MarkAsRead(ctx context.Context, id snowflake.ID) error {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return notificationdomain.ErrUnauthenticated
	}

	updated, err := s.repo.MarkRead(ctx, s.db, accountID, id)
	if err != nil {
		return err
	}
	if updated == 0 {
		return notificationdomain.ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, ids []snowflake.ID) (int64, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return 0, notificationdomain.ErrUnauthenticated
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.MarkManyRead(ctx, s.db, accountID, ids)
}
