package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/samogera/BrightEco-Pay-sub000/internal/auth/domain"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() authdomain.Repository { return &repository{} }

func (r *repository) InsertAccount(ctx context.Context, db *gorm.DB, account *authdomain.Account) error {
	return db.WithContext(ctx).Create(account).Error
}

func (r *repository) FindAccountByEmail(ctx context.Context, db *gorm.DB, email string) (*authdomain.Account, error) {
	var account authdomain.Account
	err := db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authdomain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) FindAccountByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*authdomain.Account, error) {
	var account authdomain.Account
	err := db.WithContext(ctx).First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authdomain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) InsertSession(ctx context.Context, db *gorm.DB, session *authdomain.Session) error {
	return db.WithContext(ctx).Create(session).Error
}

func (r *repository) FindSessionByTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) (*authdomain.Session, error) {
	var session authdomain.Session
	err := db.WithContext(ctx).First(&session, "token_hash = ?", tokenHash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authdomain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *repository) DeleteSessionByTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) error {
	return db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&authdomain.Session{}).Error
}

func (r *repository) DeleteExpiredSessions(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&authdomain.Session{})
	return res.RowsAffected, res.Error
}
