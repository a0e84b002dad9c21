package trace

import (
	"context"
	"log/slog"
)

// Handler is a slog.Handler middleware that appends the attribution tags
// carried by the record's context to every record. Wrap the application's
// handler once at setup:
//
//	slog.SetDefault(slog.New(trace.NewHandler(baseHandler)))
//
// Plugin authors need to do nothing; any record logged with a context from
// inside an open scope is attributed automatically.
type Handler struct {
	inner slog.Handler
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler wraps inner with tag stamping.
func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, rec slog.Record) error {
	tags := Tags(ctx)
	if len(tags) == 0 {
		return h.inner.Handle(ctx, rec)
	}
	rec = rec.Clone()
	for _, tag := range tags {
		rec.AddAttrs(slog.String(tag.Key, tag.Value))
	}
	return h.inner.Handle(ctx, rec)
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
