package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Account is a customer or admin identity. It is the sole partition key for
// billing state, invoices, notifications, and telemetry.
type Account struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Phone        string       `gorm:"type:text" json:"phone,omitempty"`
	DisplayName  string       `gorm:"type:text;not null;default:''" json:"display_name"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	IsAdmin      bool         `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }

// Session is a bearer token grant. Only the token hash is stored.
type Session struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	AccountID snowflake.ID `gorm:"not null;index"`
	TokenHash string       `gorm:"type:text;not null;uniqueIndex"`
	ExpiresAt time.Time    `gorm:"not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// HashSessionToken derives the at-rest form of a bearer token.
func HashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}
