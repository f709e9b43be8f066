package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Notification types surfaced to customers.
const (
	TypePayment = "payment"
	TypeDevice  = "device"
	TypeWallet  = "wallet"
	TypeAlert   = "alert"
)

// Notification is one inbox entry for an account.
type Notification struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID        snowflake.ID `gorm:"not null;index:idx_notifications_account_created" json:"account_id"`
	NotificationType string       `gorm:"type:text;not null" json:"notification_type"`
	Title            string       `gorm:"type:text;not null" json:"title"`
	Description      string       `gorm:"type:text;not null;default:''" json:"description"`
	Link             string       `gorm:"type:text;not null;default:''" json:"link,omitempty"`
	IsRead           bool         `gorm:"not null;default:false" json:"is_read"`
	CreatedAt        time.Time    `gorm:"not null;index:idx_notifications_account_created" json:"created_at"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }
