package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/samogera/BrightEco-Pay-sub000/internal/audit/domain"
	obscontext "github.com/samogera/BrightEco-Pay-sub000/internal/observability/context"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) AuditLog(
	ctx context.Context,
	accountID *snowflake.ID,
	actorOverride string,
	actorIDOverride *string,
	action string,
	targetType string,
	targetID *string,
	metadata map[string]any,
) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}
	targetType = strings.TrimSpace(targetType)
	if targetType == "" {
		return auditdomain.ErrInvalidTarget
	}

	actorType, actorID := obscontext.ActorFromContext(ctx)
	if actorOverride != "" {
		actorType = actorOverride
	}
	if actorType == "" {
		actorType = string(auditdomain.ActorTypeSystem)
	}
	var actorIDValue *string
	if actorIDOverride != nil {
		actorIDValue = actorIDOverride
	} else if actorID != "" {
		actorIDValue = &actorID
	}

	entry := &auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		AccountID:  accountID,
		ActorType:  actorType,
		ActorID:    actorIDValue,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap(metadata),
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("audit insert failed", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}
