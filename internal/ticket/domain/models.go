package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Ticket statuses.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
	StatusClosed   = "closed"
)

// SupportTicket is one submitted support request. AccountID is nil for
// tickets raised before sign-in.
type SupportTicket struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	AccountID *snowflake.ID `gorm:"index" json:"account_id,omitempty"`
	Name      string        `gorm:"type:text;not null" json:"name"`
	Email     string        `gorm:"type:text;not null" json:"email"`
	Phone     string        `gorm:"type:text" json:"phone,omitempty"`
	Title     string        `gorm:"type:text;not null" json:"title"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    string        `gorm:"type:text;not null;default:'open'" json:"status"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (SupportTicket) TableName() string { return "support_tickets" }

type SubmitTicketRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,e164"`
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type SubmitTicketResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	TicketID string `json:"ticketId"`
}

type Service interface {
	Submit(ctx context.Context, req SubmitTicketRequest) (SubmitTicketResponse, error)
}

var ErrInvalidTicket = errors.New("invalid_ticket")
