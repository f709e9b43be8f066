package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/samogera/BrightEco-Pay-sub000/internal/accountcontext"
	auditdomain "github.com/samogera/BrightEco-Pay-sub000/internal/audit/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/clock"
	"github.com/samogera/BrightEco-Pay-sub000/internal/events"
	ticketdomain "github.com/samogera/BrightEco-Pay-sub000/internal/ticket/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Hub   *events.Hub
	Audit auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	hub      *events.Hub
	audit    auditdomain.Service
	validate *validator.Validate
}

func NewService(p Params) ticketdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("ticket.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		hub:      p.Hub,
		audit:    p.Audit,
		validate: validator.New(),
	}
}

func (s *Service) Submit(ctx context.Context, req ticketdomain.SubmitTicketRequest) (ticketdomain.SubmitTicketResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validate.Struct(req); err != nil {
		return ticketdomain.SubmitTicketResponse{}, err
	}

	ticket := &ticketdomain.SupportTicket{
		ID:        s.genID.Generate(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Title:     req.Title,
		Message:   req.Message,
		Status:    ticketdomain.StatusOpen,
		CreatedAt: s.clock.Now(),
	}

	var accountID *snowflake.ID
	if id, ok := accountcontext.AccountIDFromContext(ctx); ok {
		accountID = &id
		ticket.AccountID = &id
	}

	if err := s.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return ticketdomain.SubmitTicketResponse{}, err
	}

	if s.audit != nil {
		ticketID := ticket.ID.String()
		_ = s.audit.AuditLog(ctx, accountID, "", nil, "ticket.submit", "support_ticket", &ticketID, map[string]any{
			"title": ticket.Title,
		})
	}
	if accountID != nil {
		s.hub.Broadcast(*accountID, events.Message{
			Type: events.EventTicketSubmitted,
			Payload: map[string]any{
				"ticket_id": ticket.ID.String(),
				"title":     ticket.Title,
			},
		})
	}

	s.log.Info("support ticket submitted",
		zap.String("ticket_id", ticket.ID.String()),
	)
	return ticketdomain.SubmitTicketResponse{
		Success:  true,
		Message:  "Support ticket received. Our team will reach out shortly.",
		TicketID: ticket.ID.String(),
	}, nil
}
