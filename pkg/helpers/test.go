package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

// TestLogger discards output but keeps debug enabled, so debug-only code
// paths still run under test.
func TestLogger() *slog.Logger {
	return slog.New(logger.NewTestHandler(slog.LevelDebug))
}

// TestCtx returns a context carrying TestLogger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), TestLogger())
}
