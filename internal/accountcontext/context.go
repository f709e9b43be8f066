package accountcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type contextKey string

const accountIDKey contextKey = "account_id"

// WithAccountID stores the authenticated account on the context. Every
// billing, notification, and telemetry operation is partitioned by it.
func WithAccountID(ctx context.Context, accountID snowflake.ID) context.Context {
	if accountID == 0 {
		return ctx
	}
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountIDFromContext returns the authenticated account, if any.
func AccountIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	value, ok := ctx.Value(accountIDKey).(snowflake.ID)
	if !ok || value == 0 {
		return 0, false
	}
	return value, true
}
