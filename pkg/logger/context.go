package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerKey contextKey = "logger"

func ToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the request logger, or slog.Default when none is set.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// With adds attributes to the context logger and returns both:
//
//	log, ctx := logger.With(ctx, "transaction_id", id)
func With(ctx context.Context, args ...any) (*slog.Logger, context.Context) {
	logger := FromContext(ctx).With(args...)
	return logger, ToContext(ctx, logger)
}

// WithCaller tags every later log line of the request with the caller's
// identity and resolved role. An empty role is logged as "none".
func WithCaller(ctx context.Context, uid, role string) context.Context {
	if role == "" {
		role = "none"
	}
	_, ctx = With(ctx, slog.Group("caller", "uid", uid, "role", role))
	return ctx
}

// IsDebugEnabled guards expensive debug-only work:
//
//	if logger.IsDebugEnabled(ctx) {
//	    logger.FromContext(ctx).Debug("report built", "rows", len(rows))
//	}
func IsDebugEnabled(ctx context.Context) bool {
	return FromContext(ctx).Enabled(ctx, slog.LevelDebug)
}
