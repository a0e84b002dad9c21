// Package trace provides scoped attribution for plugin invocations.
//
// Opening a scope tags the current logical thread of execution — the
// context — with "this code belongs to plugin X". Every log record emitted
// through a Handler-wrapped slog logger while the scope is open carries the
// tags, so failures triggered by plugin code are attributable even when
// they surface deep inside host code the plugin called into.
//
// Each scope is also an OpenTelemetry span: started on Open, ended on
// Close. With no TracerProvider configured the span is a noop and scopes
// cost almost nothing.
//
// Scopes nest additively. An inner scope adds tags without replacing the
// outer ones; discarding the inner context on close restores exactly the
// outer tag set.
package trace

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for invocation tracing.
const tracerName = "github.com/NDevTK/gerrit/trace"

// Well-known tag keys.
const (
	TagPlugin  = "plugin"
	TagExport  = "export"
	TagRequest = "request"
)

// Tag is one attribution key/value pair.
type Tag struct {
	Key   string
	Value string
}

type tagsKey struct{}

// Tags returns the attribution tags carried by ctx, outermost first.
// The returned slice must not be modified.
func Tags(ctx context.Context) []Tag {
	tags, _ := ctx.Value(tagsKey{}).([]Tag)
	return tags
}

type options struct {
	op     string
	tags   []Tag
	tracer oteltrace.Tracer
}

// Option configures an Open call.
type Option func(*options)

// WithPlugin tags the scope with the owning plugin's name.
func WithPlugin(name string) Option {
	return WithTag(TagPlugin, name)
}

// WithExport tags the scope with the extension's export name.
func WithExport(name string) Option {
	return WithTag(TagExport, name)
}

// WithTag adds an arbitrary attribution tag.
func WithTag(key, value string) Option {
	return func(o *options) {
		o.tags = append(o.tags, Tag{Key: key, Value: value})
	}
}

// WithRequestID tags the scope with a fresh request ID, used by the
// boundary to correlate all records of one request.
func WithRequestID() Option {
	return WithTag(TagRequest, uuid.NewString())
}

// WithOperation overrides the span name. The default is
// "gerrit.plugin.invoke".
func WithOperation(name string) Option {
	return func(o *options) {
		o.op = name
	}
}

// WithTracer injects a specific tracer, for testing or when multiple
// providers are in use. The default is the global otel tracer.
func WithTracer(t oteltrace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// Scope is one open attribution scope. It must be closed exactly once;
// Close is safe to call more than once and on a nil scope.
type Scope struct {
	span   oteltrace.Span
	closed bool
}

// Open starts a scope on ctx. The returned context carries the scope's
// tags in addition to any tags already present; the returned Scope must be
// closed via defer so it closes on every exit path.
func Open(ctx context.Context, opts ...Option) (context.Context, *Scope) {
	o := options{op: "gerrit.plugin.invoke"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	parent := Tags(ctx)
	tags := make([]Tag, 0, len(parent)+len(o.tags))
	tags = append(tags, parent...)
	tags = append(tags, o.tags...)
	ctx = context.WithValue(ctx, tagsKey{}, tags)

	attrs := make([]attribute.KeyValue, 0, len(o.tags))
	for _, tag := range o.tags {
		attrs = append(attrs, attribute.String("gerrit."+tag.Key, tag.Value))
	}
	ctx, span := o.tracer.Start(ctx, o.op,
		oteltrace.WithAttributes(attrs...),
		oteltrace.WithSpanKind(oteltrace.SpanKindInternal),
	)

	return ctx, &Scope{span: span}
}

// Close ends the scope's span. Subsequent calls are no-ops.
func (s *Scope) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	s.span.End()
}

// RecordError marks the scope's span as failed. Closing still required.
func (s *Scope) RecordError(err error) {
	if s == nil || s.closed || err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}
