package plugctx

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// WithLogger attaches the logger the harness uses for swallowed extension
// failures. Without one, slog.Default() is used.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
