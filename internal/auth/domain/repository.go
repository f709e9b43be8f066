package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertAccount(ctx context.Context, db *gorm.DB, account *Account) error
	FindAccountByEmail(ctx context.Context, db *gorm.DB, email string) (*Account, error)
	FindAccountByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Account, error)

	InsertSession(ctx context.Context, db *gorm.DB, session *Session) error
	FindSessionByTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) (*Session, error)
	DeleteSessionByTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context, db *gorm.DB) (int64, error)
}
