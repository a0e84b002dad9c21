package plugctx

import (
	"context"

	"github.com/NDevTK/gerrit/plugin"
)

// ItemContext invokes the extension held by a plugin.Item. All invocations
// go through the harness, so an unregistered or unloaded item is a no-op
// for the Run family and scope/attribution handling is uniform.
type ItemContext[T any] struct {
	item *plugin.Item[T]
}

// NewItemContext wraps item.
func NewItemContext[T any](item *plugin.Item[T]) *ItemContext[T] {
	return &ItemContext[T]{item: item}
}

// Present reports whether an implementation is currently registered.
func (c *ItemContext[T]) Present() bool {
	_, ok := c.item.Entry().Get()
	return ok
}

// Run invokes the item's extension; errors are logged and swallowed.
func (c *ItemContext[T]) Run(ctx context.Context, action func(context.Context, T) error) {
	Run(ctx, c.item.Entry(), action)
}

// RunAllowing invokes the item's extension, letting errors matching allow
// through to the caller.
func (c *ItemContext[T]) RunAllowing(ctx context.Context, action func(context.Context, T) error, allow Matcher) error {
	return RunAllowing(ctx, c.item.Entry(), action, allow)
}

// CallItem invokes the item's extension and returns fn's result. The item
// must hold an implementation; see Call.
func CallItem[T, R any](ctx context.Context, item *plugin.Item[T], fn func(context.Context, T) R) R {
	return Call(ctx, item.Entry(), fn)
}

// CallItemAllowing invokes the item's extension with error classification;
// see CallAllowing.
func CallItemAllowing[T, R any](ctx context.Context, item *plugin.Item[T], fn func(context.Context, T) (R, error), allow Matcher) (R, error) {
	return CallAllowing(ctx, item.Entry(), fn, allow)
}

// SetContext invokes every extension in a plugin.Set, each inside its own
// trace scope.
type SetContext[T any] struct {
	set *plugin.Set[T]
}

// NewSetContext wraps set.
func NewSetContext[T any](set *plugin.Set[T]) *SetContext[T] {
	return &SetContext[T]{set: set}
}

// Empty reports whether no extensions are registered.
func (c *SetContext[T]) Empty() bool { return c.set.Len() == 0 }

// RunEach invokes every registered extension. A failing extension is
// logged and swallowed; the remaining extensions still run.
func (c *SetContext[T]) RunEach(ctx context.Context, action func(context.Context, T) error) {
	for _, ext := range c.set.Entries() {
		Run(ctx, ext, action)
	}
}

// RunEachHandle is RunEach for actions that need each extension's metadata.
func (c *SetContext[T]) RunEachHandle(ctx context.Context, action func(context.Context, *plugin.Extension[T]) error) {
	for _, ext := range c.set.Entries() {
		RunHandle(ctx, ext, action)
	}
}

// RunEachAllowing invokes every registered extension. An error matching
// allow stops the iteration and propagates to the caller; any other error
// is logged, swallowed, and iteration continues.
func (c *SetContext[T]) RunEachAllowing(ctx context.Context, action func(context.Context, T) error, allow Matcher) error {
	for _, ext := range c.set.Entries() {
		if err := RunAllowing(ctx, ext, action, allow); err != nil {
			return err
		}
	}
	return nil
}

// MapContext invokes every extension in a plugin.Map, each inside its own
// trace scope. Map invocations always see the extension handle since the
// export name is what distinguishes entries.
type MapContext[T any] struct {
	m *plugin.Map[T]
}

// NewMapContext wraps m.
func NewMapContext[T any](m *plugin.Map[T]) *MapContext[T] {
	return &MapContext[T]{m: m}
}

// RunEach invokes every registered extension in deterministic key order.
// A failing extension is logged and swallowed.
func (c *MapContext[T]) RunEach(ctx context.Context, action func(context.Context, *plugin.Extension[T]) error) {
	for _, ext := range c.m.Entries() {
		RunHandle(ctx, ext, action)
	}
}

// RunEachAllowing invokes every registered extension; an error matching
// allow stops the iteration and propagates.
func (c *MapContext[T]) RunEachAllowing(ctx context.Context, action func(context.Context, *plugin.Extension[T]) error, allow Matcher) error {
	for _, ext := range c.m.Entries() {
		if err := RunHandleAllowing(ctx, ext, action, allow); err != nil {
			return err
		}
	}
	return nil
}

// CallMapEntry invokes the extension registered under pluginName and
// exportName and returns fn's result. The entry must exist; see Call.
func CallMapEntry[T, R any](ctx context.Context, m *plugin.Map[T], pluginName, exportName string, fn func(context.Context, *plugin.Extension[T]) R) R {
	return CallHandle(ctx, m.Get(pluginName, exportName), fn)
}
