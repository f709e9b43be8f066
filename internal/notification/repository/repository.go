package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	notificationdomain "github.com/samogera/BrightEco-Pay-sub000/internal/notification/domain"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() notificationdomain.Repository { return &repository{} }

func (r *repository) Insert(ctx context.Context, db *gorm.DB, notification *notificationdomain.Notification) error {
	return db.WithContext(ctx).Create(notification).Error
}

func (r *repository) List(ctx context.Context, db *gorm.DB, filter notificationdomain.Filter) ([]notificationdomain.Notification, error) {
	query := db.WithContext(ctx).
		Where("account_id = ?", filter.AccountID).
		Order("created_at DESC, id DESC")

	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
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

	var notifications []notificationdomain.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repository) MarkRead(ctx context.Context, db *gorm.DB, accountID, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).
		Model(&notificationdomain.Notification{}).
		Where("account_id = ? AND id = ?", accountID, id).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *repository) MarkManyRead(ctx context.Context, db *gorm.DB, accountID snowflake.ID, ids []snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Model(&notificationdomain.Notification{}).
		Where("account_id = ? AND id IN ?", accountID, ids).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
