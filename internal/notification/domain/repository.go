package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Filter struct {
	AccountID       snowflake.ID
	UnreadOnly      bool
	BeforeCreatedAt time.Time
	BeforeID        snowflake.ID
	Limit           int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, notification *Notification) error
	List(ctx context.Context, db *gorm.DB, filter Filter) ([]Notification, error)
	MarkRead(ctx context.Context, db *gorm.DB, accountID, id snowflake.ID) (int64, error)
	MarkManyRead(ctx context.Context, db *gorm.DB, accountID snowflake.ID, ids []snowflake.ID) (int64, error)
}
