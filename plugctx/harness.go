// Package plugctx invokes plugin extensions safely.
//
// Every invocation runs inside a trace scope so any failure it triggers is
// attributed to the owning plugin, and every invocation classifies its
// outcome so a broken plugin never takes the host down with it.
//
// Two families of operation cover the common idioms:
//
//   - Run* executes an extension without delivering a result. Extension
//     failures are non-fatal to the host: they are logged with plugin
//     attribution and swallowed, and the caller observes success.
//   - Call* executes an extension and delivers a result. Failures are the
//     caller's problem and propagate.
//
// The *Allowing variants accept a Matcher naming the one error kind the
// caller expects and will handle — typically cancel.IsCancelled, so that a
// cancellation raised by a checkpoint deep inside plugin code is never
// accidentally swallowed by the generic logging path.
//
// The *Handle variants hand the invoked function the *plugin.Extension
// instead of the bare implementation, giving it access to the plugin and
// export names (e.g. to build a distinguishing message).
package plugctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/NDevTK/gerrit"
	"github.com/NDevTK/gerrit/plugin"
	"github.com/NDevTK/gerrit/trace"
)

// Matcher reports whether an error belongs to the one kind a harness call
// lets through to its caller.
type Matcher func(error) bool

// Kind returns a Matcher for errors matching the type E via errors.As.
func Kind[E error]() Matcher {
	return func(err error) bool {
		var e E
		return errors.As(err, &e)
	}
}

// alwaysPropagate reports whether err belongs to the class that is never
// swallowed regardless of the permitted kind: the context sentinels, which
// are the ambient cancellation channel in Go.
func alwaysPropagate(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// open starts the attribution scope for one invocation of ext.
func open[T any](ctx context.Context, ext *plugin.Extension[T]) (context.Context, *trace.Scope) {
	opts := []trace.Option{trace.WithPlugin(ext.PluginName())}
	if export := ext.ExportName(); export != "" {
		opts = append(opts, trace.WithExport(export))
	}
	return trace.Open(ctx, opts...)
}

// logFailure records a swallowed extension failure. The plugin name, the
// implementation's concrete type and the error itself are mandatory log
// content for attribution.
func logFailure[T any](ctx context.Context, ext *plugin.Extension[T], impl T, err error) {
	loggerFrom(ctx).WarnContext(ctx, "extension failed",
		slog.String("plugin", ext.PluginName()),
		slog.String("type", fmt.Sprintf("%T", impl)),
		slog.String("error", err.Error()),
	)
}

// recovered converts a panic value into an error carrying the stack.
func recovered(r any) error {
	return fmt.Errorf("panic in extension: %v\n%s", r, debug.Stack())
}

// Run executes action with ext's implementation. If the implementation is
// absent the call is a no-op: action is not invoked and no scope is opened.
// Any error or panic from action is logged and swallowed; the caller
// observes success regardless of extension failure.
func Run[T any](ctx context.Context, ext *plugin.Extension[T], action func(context.Context, T) error) {
	impl, ok := ext.Get()
	if !ok {
		return
	}
	ctx, scope := open(ctx, ext)
	defer scope.Close()

	start := time.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(r)
			}
		}()
		return action(ctx, impl)
	}()
	record(ctx, ext.PluginName(), err, time.Since(start))
	if err != nil {
		scope.RecordError(err)
		logFailure(ctx, ext, impl, err)
	}
}

// RunHandle is Run for actions that need the extension's metadata.
func RunHandle[T any](ctx context.Context, ext *plugin.Extension[T], action func(context.Context, *plugin.Extension[T]) error) {
	Run(ctx, ext, func(ctx context.Context, _ T) error {
		return action(ctx, ext)
	})
}

// RunAllowing is Run except that an error matching allow — or one of the
// always-propagate class — is returned to the caller unchanged instead of
// being swallowed. Panics are not recovered here; they unwind through the
// closing scope the way runtime failures should.
func RunAllowing[T any](ctx context.Context, ext *plugin.Extension[T], action func(context.Context, T) error, allow Matcher) error {
	impl, ok := ext.Get()
	if !ok {
		return nil
	}
	ctx, scope := open(ctx, ext)
	defer scope.Close()

	start := time.Now()
	err := action(ctx, impl)
	record(ctx, ext.PluginName(), err, time.Since(start))
	if err == nil {
		return nil
	}
	scope.RecordError(err)
	if (allow != nil && allow(err)) || alwaysPropagate(err) {
		return err
	}
	logFailure(ctx, ext, impl, err)
	return nil
}

// RunHandleAllowing is RunAllowing for actions that need the extension's
// metadata.
func RunHandleAllowing[T any](ctx context.Context, ext *plugin.Extension[T], action func(context.Context, *plugin.Extension[T]) error, allow Matcher) error {
	return RunAllowing(ctx, ext, func(ctx context.Context, _ T) error {
		return action(ctx, ext)
	}, allow)
}

// Call executes fn with ext's implementation and returns its result. The
// implementation must be present — a result has to be produced, so guarding
// an absent implementation is the caller's responsibility; fn otherwise
// receives the zero value. No error classification happens here: anything
// fn panics with propagates unchanged, and the scope still closes.
func Call[T, R any](ctx context.Context, ext *plugin.Extension[T], fn func(context.Context, T) R) R {
	impl, _ := ext.Get()
	ctx, scope := open(ctx, ext)
	defer scope.Close()
	return fn(ctx, impl)
}

// CallHandle is Call for functions that need the extension's metadata.
func CallHandle[T, R any](ctx context.Context, ext *plugin.Extension[T], fn func(context.Context, *plugin.Extension[T]) R) R {
	return Call(ctx, ext, func(ctx context.Context, _ T) R {
		return fn(ctx, ext)
	})
}

// CallAllowing executes fn, which may fail only with errors matching
// allow. A matching error — or one of the always-propagate class — is
// returned to the caller unchanged. Any other error means fn violated its
// own contract: that is a host bug, not a plugin bug, so it is logged at
// error level and returned wrapped in gerrit.ErrUnexpected rather than
// silently dropped.
func CallAllowing[T, R any](ctx context.Context, ext *plugin.Extension[T], fn func(context.Context, T) (R, error), allow Matcher) (R, error) {
	impl, _ := ext.Get()
	ctx, scope := open(ctx, ext)
	defer scope.Close()

	start := time.Now()
	res, err := fn(ctx, impl)
	record(ctx, ext.PluginName(), err, time.Since(start))
	if err == nil {
		return res, nil
	}
	scope.RecordError(err)
	if (allow != nil && allow(err)) || alwaysPropagate(err) {
		return res, err
	}
	loggerFrom(ctx).ErrorContext(ctx, "extension returned an error of an unexpected kind",
		slog.String("plugin", ext.PluginName()),
		slog.String("type", fmt.Sprintf("%T", impl)),
		slog.String("error", err.Error()),
	)
	return res, fmt.Errorf("%w: plugin %s: %w", gerrit.ErrUnexpected, ext.PluginName(), err)
}

// CallHandleAllowing is CallAllowing for functions that need the
// extension's metadata.
func CallHandleAllowing[T, R any](ctx context.Context, ext *plugin.Extension[T], fn func(context.Context, *plugin.Extension[T]) (R, error), allow Matcher) (R, error) {
	return CallAllowing(ctx, ext, func(ctx context.Context, _ T) (R, error) {
		return fn(ctx, ext)
	}, allow)
}
