package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const loggerKey contextKey = "logger"

// WithContext returns a new context carrying logger.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the context's logger, or a no-op logger when none is set.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithTenantID enriches the context's logger with the caller's tenant.
func WithTenantID(ctx context.Context, tenantID uuid.UUID) (context.Context, *zap.Logger) {
	enriched := FromContext(ctx).With(zap.String("tenant_id", tenantID.String()))
	return WithContext(ctx, enriched), enriched
}
