package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Attempt statuses.
const (
	AttemptStatusPending = "pending"
	AttemptStatusSuccess = "success"
	AttemptStatusFailed  = "failed"
)

// PaymentAttempt records one STK push from initiation to resolution.
type PaymentAttempt struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID  snowflake.ID `gorm:"not null;index" json:"account_id"`
	Provider   string       `gorm:"type:text;not null" json:"provider"`
	Phone      string       `gorm:"type:text;not null" json:"phone"`
	Amount     int64        `gorm:"not null" json:"amount"`
	Status     string       `gorm:"type:text;not null" json:"status"`
	Message    string       `gorm:"type:text;not null;default:''" json:"message"`
	CheckoutID string       `gorm:"type:text;not null;default:''" json:"checkout_id"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
	ResolvedAt *time.Time   `json:"resolved_at,omitempty"`
}

// TableName sets the database table name.
func (PaymentAttempt) TableName() string { return "payment_attempts" }

var kenyanMSISDN = regexp.MustCompile(`^\+254(7|1)\d{8}$`)

// NormalizeMSISDN canonicalizes a Kenyan mobile number to +254 form.
// Accepted inputs: +2547XXXXXXXX, 2547XXXXXXXX, 07XXXXXXXX, 01XXXXXXXX.
func NormalizeMSISDN(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	switch {
	case strings.HasPrefix(cleaned, "+254"):
	case strings.HasPrefix(cleaned, "254"):
		cleaned = "+" + cleaned
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 10:
		cleaned = "+254" + cleaned[1:]
	}

	if !kenyanMSISDN.MatchString(cleaned) {
		return "", ErrInvalidPhone
	}
	return cleaned, nil
}

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrInvalidPhone     = errors.New("invalid_phone")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrProviderNotFound = errors.New("provider_not_found")
)
