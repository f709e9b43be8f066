package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Service records immutable audit entries.
type Service interface {
	AuditLog(
		ctx context.Context,
		accountID *snowflake.ID,
		actorOverride string,
		actorIDOverride *string,
		action string,
		targetType string,
		targetID *string,
		metadata map[string]any,
	) error
}

var (
	ErrInvalidAction = errors.New("invalid_action")
	ErrInvalidTarget = errors.New("invalid_target")
)
