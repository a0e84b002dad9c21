package httpd

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/NDevTK/gerrit"
	"github.com/NDevTK/gerrit/cancel"
	"github.com/NDevTK/gerrit/trace"
)

// RequestState returns middleware that makes a request cancellable.
//
// It resolves the effective deadline — the client-provided one from the
// configured header, clamped to the server ceiling, or the server default
// when the client supplies none — then installs the matching checkpoint
// providers on the context, applies the deadline to the context itself,
// and opens a request-level trace scope carrying a fresh request ID.
//
// A malformed or non-positive deadline header is rejected with 400 before
// any processing happens.
func RequestState(cfg gerrit.Config, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()

			timeout := cfg.DefaultDeadline
			reason := cancel.ServerDeadlineExceeded
			if hdr := r.Header.Get(cfg.DeadlineHeader); hdr != "" {
				d, err := time.ParseDuration(hdr)
				if err != nil || d <= 0 {
					logger.WarnContext(r.Context(), "rejecting invalid request deadline",
						slog.String("header", cfg.DeadlineHeader),
						slog.String("value", hdr),
					)
					http.Error(w, "Invalid "+cfg.DeadlineHeader, http.StatusBadRequest)
					return
				}
				timeout = d
				reason = cancel.ClientProvidedDeadlineExceeded
			}
			if cfg.MaxDeadline > 0 && (timeout == 0 || timeout > cfg.MaxDeadline) {
				timeout = cfg.MaxDeadline
				reason = cancel.ServerDeadlineExceeded
			}

			ctx := r.Context()
			message := ""
			if timeout > 0 {
				message = cancel.DeadlineMessage(timeout)
				var cancelCtx context.CancelFunc
				ctx, cancelCtx = context.WithTimeout(ctx, timeout)
				defer cancelCtx()
				ctx = cancel.WithProviders(ctx,
					cancel.NewDeadline(reason, now.Add(timeout), message),
				)
			}
			// The context provider covers client disconnects, which the
			// HTTP server surfaces by cancelling the request context.
			ctx = cancel.WithProviders(ctx,
				cancel.NewContextProvider(ctx, reason, message),
			)

			ctx, scope := trace.Open(ctx,
				trace.WithOperation("gerrit.request"),
				trace.WithRequestID(),
			)
			defer scope.Close()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
